package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/application/scope"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopos/backend/internal/domain/trade"
	"github.com/shopos/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// holdingStatuses are the return states that consume returnable quantity on
// a sale. Pending returns hold their quantity so concurrent requests cannot
// oversubscribe a line; only rejection releases it.
var holdingStatuses = []trade.ReturnStatus{
	trade.ReturnStatusPending,
	trade.ReturnStatusApproved,
	trade.ReturnStatusProcessed,
	trade.ReturnStatusCompleted,
}

// settledStatuses are the return states counted when re-validating quantities
// at approval time.
var settledStatuses = []trade.ReturnStatus{
	trade.ReturnStatusApproved,
	trade.ReturnStatusProcessed,
	trade.ReturnStatusCompleted,
}

// ReturnService drives the sales return lifecycle:
// PENDING -> APPROVED -> PROCESSED -> COMPLETED, or PENDING -> REJECTED.
type ReturnService struct {
	returnRepo trade.ReturnRepository
	saleRepo   trade.SaleRepository
	txScope    scope.TransactionScope
}

// NewReturnService creates a new ReturnService
func NewReturnService(returnRepo trade.ReturnRepository, saleRepo trade.SaleRepository, txScope scope.TransactionScope) *ReturnService {
	return &ReturnService{
		returnRepo: returnRepo,
		saleRepo:   saleRepo,
		txScope:    txScope,
	}
}

// Create creates a new return against an existing sale. The sale row is
// locked while quantities are validated so two concurrent returns cannot
// together exceed what was sold.
func (s *ReturnService) Create(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	var ret *trade.Return
	err := s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		sale, err := repos.Sales().FindByIDForUpdate(ctx, req.SaleID)
		if err != nil {
			return err
		}

		returned, err := repos.Returns().SumReturnedQuantityBySale(ctx, sale.ID, holdingStatuses)
		if err != nil {
			return err
		}

		returnNumber, err := repos.Returns().GenerateReturnNumber(ctx)
		if err != nil {
			return err
		}

		ret, err = trade.NewReturn(returnNumber, sale.ID, sale.CustomerID, req.Reason, req.RequestedBy)
		if err != nil {
			return err
		}

		for _, input := range req.Items {
			saleItem := sale.GetItem(input.SaleItemID)
			if saleItem == nil {
				return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found: "+input.SaleItemID.String())
			}

			available := saleItem.Quantity.Sub(returned[saleItem.ID])
			if input.Quantity.GreaterThan(available) {
				return shared.NewDomainError("RETURN_EXCEEDS_SOLD",
					"Return quantity for "+saleItem.ProductName+" exceeds the remaining returnable quantity")
			}

			restockable := true
			if input.Restockable != nil {
				restockable = *input.Restockable
			}

			if _, err := ret.AddItem(saleItem.ID, saleItem.ProductID, saleItem.ProductName,
				input.Quantity, saleItem.PriceAtSale, input.Reason, restockable); err != nil {
				return err
			}
		}

		if !req.RestockingFee.IsZero() || !req.ProcessingFee.IsZero() {
			if err := ret.SetFees(req.RestockingFee, req.ProcessingFee); err != nil {
				return err
			}
		}

		return repos.Returns().Save(ctx, ret)
	})
	if err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// GetByID retrieves a return by ID
func (s *ReturnService) GetByID(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(ret)
	return &response, nil
}

// GetByReturnNumber retrieves a return by its return number
func (s *ReturnService) GetByReturnNumber(ctx context.Context, returnNumber string) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByReturnNumber(ctx, returnNumber)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(ret)
	return &response, nil
}

// List retrieves returns with filtering and pagination
func (s *ReturnService) List(ctx context.Context, filter ReturnListFilter) (*shared.Paginated[ReturnResponse], error) {
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
	if filter.SaleID != nil {
		f.Filters["sale_id"] = *filter.SaleID
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}

	returns, err := s.returnRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.returnRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]ReturnResponse, 0, len(returns))
	for _, ret := range returns {
		items = append(items, ToReturnResponse(ret))
	}

	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}

// UpdateFees changes the restocking and processing fees of a return that has
// not been processed yet
func (s *ReturnService) UpdateFees(ctx context.Context, returnID uuid.UUID, req UpdateReturnFeesRequest) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := ret.SetFees(req.RestockingFee, req.ProcessingFee); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, ret); err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// Approve transitions a pending return to APPROVED. Quantities are
// re-validated under the sale lock against returns that already settled,
// in case a competing return was approved since this one was created.
func (s *ReturnService) Approve(ctx context.Context, returnID uuid.UUID, approvedBy string) (*ReturnResponse, error) {
	var ret *trade.Return
	err := s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		var err error
		ret, err = repos.Returns().FindByID(ctx, returnID)
		if err != nil {
			return err
		}

		sale, err := repos.Sales().FindByIDForUpdate(ctx, ret.SaleID)
		if err != nil {
			return err
		}

		settled, err := repos.Returns().SumReturnedQuantityBySale(ctx, sale.ID, settledStatuses)
		if err != nil {
			return err
		}

		for _, item := range ret.Items {
			saleItem := sale.GetItem(item.SaleItemID)
			if saleItem == nil {
				return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found: "+item.SaleItemID.String())
			}
			available := saleItem.Quantity.Sub(settled[saleItem.ID])
			if item.Quantity.GreaterThan(available) {
				return shared.NewDomainError("RETURN_EXCEEDS_SOLD",
					"Return quantity for "+saleItem.ProductName+" exceeds the remaining returnable quantity")
			}
		}

		if err := ret.Approve(approvedBy); err != nil {
			return err
		}
		return repos.Returns().SaveWithLock(ctx, ret)
	})
	if err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// Reject transitions a pending return to REJECTED, releasing its held
// quantities back to the sale
func (s *ReturnService) Reject(ctx context.Context, returnID uuid.UUID, rejectedBy, reason string) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := ret.Reject(rejectedBy, reason); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, ret); err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// Process transitions an approved return through PROCESSED to COMPLETED.
// When adjustInventory is set, restockable items are put back into stock
// exactly once: the adjustment is skipped if it already happened, and the
// flag, the stock movement and the status change commit in one transaction.
// With adjustInventory off the return completes without touching stock and
// the adjusted flag stays unset.
func (s *ReturnService) Process(ctx context.Context, returnID uuid.UUID, processedBy string, adjustInventory bool) (*ReturnResponse, error) {
	var ret *trade.Return
	err := s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		var err error
		ret, err = repos.Returns().FindByID(ctx, returnID)
		if err != nil {
			return err
		}

		if err := ret.MarkProcessed(processedBy); err != nil {
			return err
		}

		if adjustInventory && !ret.InventoryAdjusted {
			log := logger.FromContext(ctx)
			for _, item := range ret.RestockableItems() {
				product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
				if err != nil {
					if !errors.Is(err, shared.ErrNotFound) {
						return err
					}
					log.Warn("return references missing product, stock not restored",
						zap.String("return_number", ret.ReturnNumber),
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
			if err := ret.MarkInventoryAdjusted(); err != nil {
				return err
			}
		}

		if err := ret.Complete(); err != nil {
			return err
		}
		return repos.Returns().SaveWithLock(ctx, ret)
	})
	if err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// Delete removes a return that is still pending or was rejected
func (s *ReturnService) Delete(ctx context.Context, returnID uuid.UUID) error {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return err
	}

	if !ret.CanDelete() {
		return shared.NewDomainError("INVALID_STATUS", "Only pending or rejected returns can be deleted")
	}

	return s.returnRepo.Delete(ctx, ret.ID)
}

// StatusSummary reports how many returns sit in each lifecycle status
func (s *ReturnService) StatusSummary(ctx context.Context) (*ReturnStatusSummary, error) {
	counts, err := s.returnRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &ReturnStatusSummary{
		Pending:   counts[trade.ReturnStatusPending],
		Approved:  counts[trade.ReturnStatusApproved],
		Rejected:  counts[trade.ReturnStatusRejected],
		Processed: counts[trade.ReturnStatusProcessed],
		Completed: counts[trade.ReturnStatusCompleted],
	}, nil
}

// RemainingReturnable reports, per sale item, how much quantity can still be
// returned for a sale
func (s *ReturnService) RemainingReturnable(ctx context.Context, saleID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	returned, err := s.returnRepo.SumReturnedQuantityBySale(ctx, saleID, holdingStatuses)
	if err != nil {
		return nil, err
	}

	remaining := make(map[uuid.UUID]decimal.Decimal, len(sale.Items))
	for _, item := range sale.Items {
		remaining[item.ID] = item.Quantity.Sub(returned[item.ID])
	}
	return remaining, nil
}
