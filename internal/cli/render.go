package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/skintrack/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func Title(s string) string {
	return titleStyle.Render(s)
}

func Muted(s string) string {
	return mutedStyle.Render(s)
}

// RoutineTable renders routine entries grouped in start-time order.
func RoutineTable(views []models.EntryView) string {
	t := newTable("Product", "ID", "When", "Frequency", "Time")
	for _, v := range views {
		t.Row(v.Name, strconv.FormatInt(v.ProductID, 10), string(v.TimeOfDay), string(v.Frequency),
			fmt.Sprintf("%s-%s", v.StartTime, v.EndTime))
	}
	return t.String()
}

func ProductTable(products []models.Product) string {
	t := newTable("ID", "Name", "Price", "Duration")
	for _, p := range products {
		t.Row(strconv.FormatInt(p.ID, 10), p.Name, fmt.Sprintf("%.2f", p.Price), fmt.Sprintf("%dm", p.DurationMin))
	}
	return t.String()
}

func PhotoTable(photos []models.PhotoRecord) string {
	t := newTable("Captured", "Blemishes", "Generation", "Path")
	for _, p := range photos {
		gen := "-"
		if p.Generation != nil {
			gen = strconv.Itoa(*p.Generation)
		}
		t.Row(p.CapturedAt.Local().Format("2006-01-02 15:04"), strconv.Itoa(p.BlemishCount), gen, p.Path)
	}
	return t.String()
}

func SeriesTable(points []models.SeriesPoint) string {
	t := newTable("Captured", "Blemishes")
	for _, p := range points {
		t.Row(p.Timestamp.Local().Format("2006-01-02 15:04"), strconv.Itoa(p.BlemishCount))
	}
	return t.String()
}

func SummaryTable(summaries []models.GenerationSummary) string {
	t := newTable("Generation", "Photos", "Mean", "Min", "Max")
	for _, s := range summaries {
		t.Row(strconv.Itoa(s.Generation), strconv.Itoa(s.Photos), strconv.FormatFloat(s.Mean, 'f', 1, 64),
			strconv.Itoa(s.Min), strconv.Itoa(s.Max))
	}
	return t.String()
}
