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

// SaleService handles sale invoice operations. Creating a sale decrements
// stock for each line; deleting it restores the stock. Both run inside one
// transaction so the invoice and its stock movements commit together.
type SaleService struct {
	saleRepo      trade.SaleRepository
	txScope       scope.TransactionScope
	allowNegative bool
}

// NewSaleService creates a new SaleService
func NewSaleService(saleRepo trade.SaleRepository, txScope scope.TransactionScope, allowNegative bool) *SaleService {
	return &SaleService{
		saleRepo:      saleRepo,
		txScope:       txScope,
		allowNegative: allowNegative,
	}
}

// Create creates a sale and decrements stock for every resolvable line.
// A line whose product no longer exists is still recorded, with a warning
// logged and no stock movement.
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	exists, err := s.saleRepo.ExistsByInvoiceNumber(ctx, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("INVOICE_EXISTS", "A sale with this invoice number already exists")
	}

	var saleDate = timeOrNow(req.SaleDate)
	sale, err := trade.NewSale(req.InvoiceNumber, req.CustomerID, saleDate)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		log := logger.FromContext(ctx)

		for _, input := range req.Items {
			product, err := repos.Products().FindByIDForUpdate(ctx, input.ProductID)
			if err != nil {
				if !errors.Is(err, shared.ErrNotFound) {
					return err
				}
				// Record the line without moving stock; the invoice total
				// must still reflect what the customer was charged.
				log.Warn("sale references missing product, stock not adjusted",
					zap.String("invoice_number", req.InvoiceNumber),
					zap.String("product_id", input.ProductID.String()))

				name := input.ProductName
				if name == "" {
					name = "unknown product"
				}
				price := decimalOrZero(input.UnitPrice)
				if _, err := sale.AddItem(input.ProductID, name, input.Quantity, price, price); err != nil {
					return err
				}
				continue
			}

			price := product.Price
			if input.UnitPrice != nil {
				price = *input.UnitPrice
			}
			if _, err := sale.AddItem(product.ID, product.Name, input.Quantity, price, product.Cost); err != nil {
				return err
			}

			if err := product.AdjustStock(input.Quantity.Neg(), s.allowNegative); err != nil {
				return err
			}
			if err := repos.Products().SaveWithLock(ctx, product); err != nil {
				return err
			}
		}

		return repos.Sales().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByInvoiceNumber retrieves a sale by its invoice number
func (s *SaleService) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) (*shared.Paginated[SaleResponse], error) {
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
	if filter.CustomerID != nil {
		f.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.StartDate != nil {
		f.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		f.Filters["end_date"] = *filter.EndDate
	}

	sales, err := s.saleRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.saleRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]SaleResponse, 0, len(sales))
	for _, sale := range sales {
		items = append(items, ToSaleResponse(sale))
	}

	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}

// UpdateItem changes the quantity or price of a sale line. A quantity change
// moves stock by the difference; a price change is pushed to the product as
// its new selling price.
func (s *SaleService) UpdateItem(ctx context.Context, saleID, itemID uuid.UUID, req UpdateSaleItemRequest) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		var err error
		sale, err = repos.Sales().FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		item := sale.GetItem(itemID)
		if item == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
		}

		log := logger.FromContext(ctx)

		if req.Quantity != nil {
			delta := req.Quantity.Sub(item.Quantity)
			if !delta.IsZero() {
				product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
				if err != nil {
					if !errors.Is(err, shared.ErrNotFound) {
						return err
					}
					log.Warn("sale item references missing product, stock not adjusted",
						zap.String("sale_id", saleID.String()),
						zap.String("product_id", item.ProductID.String()))
				} else {
					if err := product.AdjustStock(delta.Neg(), s.allowNegative); err != nil {
						return err
					}
					if err := repos.Products().SaveWithLock(ctx, product); err != nil {
						return err
					}
				}
			}
			if err := sale.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
				return err
			}
		}

		if req.UnitPrice != nil {
			if err := sale.UpdateItemPrice(itemID, *req.UnitPrice); err != nil {
				return err
			}
			product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				if !errors.Is(err, shared.ErrNotFound) {
					return err
				}
			} else {
				if err := product.ChangePrice(*req.UnitPrice); err != nil {
					return err
				}
				if err := repos.Products().SaveWithLock(ctx, product); err != nil {
					return err
				}
			}
		}

		return repos.Sales().SaveWithLock(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// Delete removes a sale and restores the stock its lines consumed. Lines
// whose product no longer exists are skipped with a warning.
func (s *SaleService) Delete(ctx context.Context, saleID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		sale, err := repos.Sales().FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		log := logger.FromContext(ctx)

		for _, item := range sale.Items {
			product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				if !errors.Is(err, shared.ErrNotFound) {
					return err
				}
				log.Warn("deleted sale references missing product, stock not restored",
					zap.String("sale_id", saleID.String()),
					zap.String("product_id", item.ProductID.String()))
				continue
			}

			if err := product.AdjustStock(item.Quantity, true); err != nil {
				return err
			}
			if err := repos.Products().SaveWithLock(ctx, product); err != nil {
				return err
			}
		}

		return repos.Sales().Delete(ctx, sale.ID)
	})
}
