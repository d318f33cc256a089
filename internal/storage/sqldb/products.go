package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/logger"
	"github.com/julianstephens/skintrack/internal/models"
)

const productColumns = "id, name, price, duration_min"

func (s *Store) GetProductByID(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p, s.db.Rebind("SELECT "+productColumns+" FROM products WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Product{}, fmt.Errorf("id %d: %w", id, apperr.ErrProductNotFound)
		}
		return models.Product{}, apperr.Storage("get product", err)
	}
	return p, nil
}

func (s *Store) GetProductByName(ctx context.Context, name string) (models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p, s.db.Rebind("SELECT "+productColumns+" FROM products WHERE name = ?"), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Product{}, fmt.Errorf("name %q: %w", name, apperr.ErrProductNotFound)
		}
		return models.Product{}, apperr.Storage("get product", err)
	}
	return p, nil
}

// ListProducts returns the catalog ordered by id.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := s.db.SelectContext(ctx, &products, "SELECT "+productColumns+" FROM products ORDER BY id"); err != nil {
		return nil, apperr.Storage("list products", err)
	}
	return products, nil
}

// AddProduct inserts p and returns it with its assigned id.
func (s *Store) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if err := p.Validate(); err != nil {
		return models.Product{}, err
	}

	var id int64
	err := s.db.GetContext(ctx, &id,
		s.db.Rebind("INSERT INTO products (name, price, duration_min) VALUES (?, ?, ?) RETURNING id"),
		p.Name, p.Price, p.DurationMin)
	if err != nil {
		if s.opts.Classify(err) == ClassUniqueViolation {
			return models.Product{}, fmt.Errorf("%w: product %q already exists", apperr.ErrDuplicateEntry, p.Name)
		}
		return models.Product{}, apperr.Storage("add product", err)
	}

	p.ID = id
	logger.Debug("Product added", "id", id, "name", p.Name)
	return p, nil
}

// DeleteProduct removes a product from the catalog. Entries that still point at
// it keep their product id and render with a placeholder name.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM products WHERE id = ?"), id)
	if err != nil {
		return apperr.Storage("delete product", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage("delete product", err)
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, apperr.ErrProductNotFound)
	}
	return nil
}
