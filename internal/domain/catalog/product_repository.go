package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
)

// ProductRepository defines the persistence contract for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDForUpdate loads a product with a row-level write lock so that
	// concurrent stock adjustments against the same product are serialized.
	// Must be called within a transaction scope.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	SaveWithLock(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)
}
