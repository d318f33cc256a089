package models

import (
	"fmt"
	"strings"

	apperr "github.com/julianstephens/skintrack/internal/errors"
)

type Product struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Price       float64 `json:"price" db:"price"`
	DurationMin int     `json:"duration_min" db:"duration_min"`
}

// NewProduct validates and builds a catalog product. The id is assigned by storage.
func NewProduct(name string, price float64, durationMin int) (Product, error) {
	p := Product{Name: strings.TrimSpace(name), Price: price, DurationMin: durationMin}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", apperr.ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", apperr.ErrInvalidInput)
	}
	if p.DurationMin < 0 {
		return fmt.Errorf("%w: duration cannot be negative", apperr.ErrInvalidInput)
	}
	return nil
}
