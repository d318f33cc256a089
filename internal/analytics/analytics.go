// Package analytics aggregates photo blemish counts by routine generation.
package analytics

import (
	"context"
	"math"
	"sort"

	"github.com/julianstephens/skintrack/internal/models"
	"github.com/julianstephens/skintrack/internal/storage"
)

// GenerationSource is the part of the generation store the engine reads.
type GenerationSource interface {
	CurrentGenerationNumber(ctx context.Context, username string) (int, bool, error)
}

type Engine struct {
	photos      storage.PhotoLedger
	generations GenerationSource
}

func New(photos storage.PhotoLedger, generations GenerationSource) *Engine {
	return &Engine{photos: photos, generations: generations}
}

// RoundToTenth rounds half away from zero to one decimal place.
func RoundToTenth(x float64) float64 {
	return math.Round(x*10) / 10
}

// MeanPerGeneration returns the average blemish count per generation. Only
// generations with at least one tagged photo appear in the map.
func (e *Engine) MeanPerGeneration(ctx context.Context, username string) (map[int]float64, error) {
	username, err := models.ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	photos, err := e.photos.ListPhotosForUser(ctx, username)
	if err != nil {
		return nil, err
	}

	sums := make(map[int]int)
	counts := make(map[int]int)
	for _, p := range photos {
		if p.Generation == nil {
			continue
		}
		sums[*p.Generation] += p.BlemishCount
		counts[*p.Generation]++
	}

	means := make(map[int]float64, len(counts))
	for g, n := range counts {
		means[g] = RoundToTenth(float64(sums[g]) / float64(n))
	}
	return means, nil
}

// CurrentGenerationSeries returns the photos taken under the current generation in
// capture order. It is empty when the user has no generation.
func (e *Engine) CurrentGenerationSeries(ctx context.Context, username string) ([]models.SeriesPoint, error) {
	username, err := models.ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	current, ok, err := e.generations.CurrentGenerationNumber(ctx, username)
	if err != nil {
		return nil, err
	}
	series := []models.SeriesPoint{}
	if !ok {
		return series, nil
	}

	photos, err := e.photos.ListPhotosForUser(ctx, username)
	if err != nil {
		return nil, err
	}
	for _, p := range photos {
		if p.Generation == nil || *p.Generation != current {
			continue
		}
		series = append(series, models.SeriesPoint{Timestamp: p.CapturedAt, BlemishCount: p.BlemishCount})
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	return series, nil
}

// Summaries reports count, mean, min and max per generation, newest first.
func (e *Engine) Summaries(ctx context.Context, username string) ([]models.GenerationSummary, error) {
	username, err := models.ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	photos, err := e.photos.ListPhotosForUser(ctx, username)
	if err != nil {
		return nil, err
	}

	byGen := make(map[int]*models.GenerationSummary)
	sums := make(map[int]int)
	for _, p := range photos {
		if p.Generation == nil {
			continue
		}
		g := *p.Generation
		s, ok := byGen[g]
		if !ok {
			s = &models.GenerationSummary{Generation: g, Min: p.BlemishCount, Max: p.BlemishCount}
			byGen[g] = s
		}
		s.Photos++
		s.Min = min(s.Min, p.BlemishCount)
		s.Max = max(s.Max, p.BlemishCount)
		sums[g] += p.BlemishCount
	}

	out := make([]models.GenerationSummary, 0, len(byGen))
	for g, s := range byGen {
		s.Mean = RoundToTenth(float64(sums[g]) / float64(s.Photos))
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Generation > out[j].Generation })
	return out, nil
}
