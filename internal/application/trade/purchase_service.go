package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/application/scope"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopos/backend/internal/domain/trade"
	"github.com/shopos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PurchaseService handles purchase invoice operations. Creating a purchase
// increments stock and refreshes each product's cost; deleting it removes
// the received stock again.
type PurchaseService struct {
	purchaseRepo  trade.PurchaseRepository
	txScope       scope.TransactionScope
	allowNegative bool
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(purchaseRepo trade.PurchaseRepository, txScope scope.TransactionScope, allowNegative bool) *PurchaseService {
	return &PurchaseService{
		purchaseRepo:  purchaseRepo,
		txScope:       txScope,
		allowNegative: allowNegative,
	}
}

// Create creates a purchase and increments stock for every line. Every line
// must reference an existing product; receiving goods for a product the
// catalog does not know is a data error, not a skippable condition.
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	exists, err := s.purchaseRepo.ExistsByInvoiceNumber(ctx, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("INVOICE_EXISTS", "A purchase with this invoice number already exists")
	}

	purchase, err := trade.NewPurchase(req.InvoiceNumber, req.SupplierID, timeOrNow(req.PurchaseDate))
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		for _, input := range req.Items {
			product, err := repos.Products().FindByIDForUpdate(ctx, input.ProductID)
			if err != nil {
				return err
			}

			if _, err := purchase.AddItem(product.ID, product.Name, input.Quantity, input.UnitCost); err != nil {
				return err
			}

			if err := product.AdjustStock(input.Quantity, true); err != nil {
				return err
			}
			if err := product.ChangeCost(input.UnitCost); err != nil {
				return err
			}
			if err := repos.Products().SaveWithLock(ctx, product); err != nil {
				return err
			}
		}

		return repos.Purchases().Save(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// GetByID retrieves a purchase by ID
func (s *PurchaseService) GetByID(ctx context.Context, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// List retrieves purchases with filtering and pagination
func (s *PurchaseService) List(ctx context.Context, filter PurchaseListFilter) (*shared.Paginated[PurchaseResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.SupplierID != nil {
		f.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.StartDate != nil {
		f.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		f.Filters["end_date"] = *filter.EndDate
	}

	purchases, err := s.purchaseRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.purchaseRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]PurchaseResponse, 0, len(purchases))
	for _, purchase := range purchases {
		items = append(items, ToPurchaseResponse(purchase))
	}

	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}

// UpdateItem changes the quantity or unit cost of a purchase line. A quantity
// change moves stock by the difference; a cost change refreshes the product's
// recorded cost.
func (s *PurchaseService) UpdateItem(ctx context.Context, purchaseID, itemID uuid.UUID, req UpdatePurchaseItemRequest) (*PurchaseResponse, error) {
	var purchase *trade.Purchase
	err := s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		var err error
		purchase, err = repos.Purchases().FindByID(ctx, purchaseID)
		if err != nil {
			return err
		}

		var item *trade.PurchaseItem
		for i := range purchase.Items {
			if purchase.Items[i].ID == itemID {
				item = &purchase.Items[i]
				break
			}
		}
		if item == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase item not found")
		}

		product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
		if err != nil {
			return err
		}

		if req.Quantity != nil {
			delta := req.Quantity.Sub(item.Quantity)
			if !delta.IsZero() {
				if err := product.AdjustStock(delta, s.allowNegative); err != nil {
					return err
				}
			}
			if err := purchase.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
				return err
			}
		}

		if req.UnitCost != nil {
			if err := purchase.UpdateItemUnitCost(itemID, *req.UnitCost); err != nil {
				return err
			}
			if err := product.ChangeCost(*req.UnitCost); err != nil {
				return err
			}
		}

		if err := repos.Products().SaveWithLock(ctx, product); err != nil {
			return err
		}
		return repos.Purchases().SaveWithLock(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// Delete removes a purchase and takes the received stock back out. Lines
// whose product no longer exists are skipped with a warning.
func (s *PurchaseService) Delete(ctx context.Context, purchaseID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		purchase, err := repos.Purchases().FindByID(ctx, purchaseID)
		if err != nil {
			return err
		}

		log := logger.FromContext(ctx)

		for _, item := range purchase.Items {
			product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				if !errors.Is(err, shared.ErrNotFound) {
					return err
				}
				log.Warn("deleted purchase references missing product, stock not reduced",
					zap.String("purchase_id", purchaseID.String()),
					zap.String("product_id", item.ProductID.String()))
				continue
			}

			if err := product.AdjustStock(item.Quantity.Neg(), s.allowNegative); err != nil {
				return err
			}
			if err := repos.Products().SaveWithLock(ctx, product); err != nil {
				return err
			}
		}

		return repos.Purchases().Delete(ctx, purchase.ID)
	})
}
