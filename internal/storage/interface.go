package storage

import (
	"context"
	"time"

	"github.com/julianstephens/skintrack/internal/models"
)

// GenerationStore persists per-user routine generations and their entries.
type GenerationStore interface {
	CurrentGenerationNumber(ctx context.Context, username string) (int, bool, error)
	CreateGeneration(ctx context.Context, username string, specs []models.EntrySpec) (int, error)
	// ListGenerationNumbers returns the user's generation numbers, newest first.
	ListGenerationNumbers(ctx context.Context, username string) ([]int, error)
	GetGeneration(ctx context.Context, username string, number int) (models.Generation, error)
	GetEntries(ctx context.Context, username string, number int) ([]models.Entry, error)
	// AppendEntry and RemoveEntry only ever touch the current generation.
	AppendEntry(ctx context.Context, username string, spec models.EntrySpec) error
	RemoveEntry(ctx context.Context, username string, productID int64) error
}

type ProductCatalog interface {
	GetProductByID(ctx context.Context, id int64) (models.Product, error)
	GetProductByName(ctx context.Context, name string) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	AddProduct(ctx context.Context, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type PhotoLedger interface {
	ListPhotosForUser(ctx context.Context, username string) ([]models.PhotoRecord, error)
	AppendPhoto(ctx context.Context, p models.PhotoRecord) (models.PhotoRecord, error)
	RecordPhoto(ctx context.Context, username string, blemishCount int, path string, capturedAt time.Time) (models.PhotoRecord, error)
}

type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Migrate(ctx context.Context) (int, error)
	Close() error

	GenerationStore
	ProductCatalog
	PhotoLedger

	// Utils
	GetConfigPath() string
}
