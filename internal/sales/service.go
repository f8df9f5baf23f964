package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/internal/products"
	"github.com/angelmondragon/pos-backend/pkg/config"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/metrics"
	"github.com/angelmondragon/pos-backend/pkg/pagination"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type saleRecorder interface {
	SaleCreated(paymentMethod string, totalCents int64)
	SaleRefunded()
	SaleRejected(code string)
}

// Service runs register transactions.
type Service interface {
	Quote(ctx context.Context, id *access.Identity, storeID types.StoreID, input QuoteInput) (*QuoteDTO, error)
	Create(ctx context.Context, id *access.Identity, storeID types.StoreID, input CreateSaleInput) (*SaleDTO, error)
	Refund(ctx context.Context, id *access.Identity, saleID types.SaleID) (*SaleDTO, error)
	Get(ctx context.Context, id *access.Identity, saleID types.SaleID) (*SaleDTO, error)
	ListByStore(ctx context.Context, id *access.Identity, storeID types.StoreID, params pagination.Params) (*ListResult, error)
	GetByDateRange(ctx context.Context, id *access.Identity, storeID types.StoreID, start, end time.Time) ([]SaleDTO, error)
	ListByCashier(ctx context.Context, id *access.Identity, cashierID types.AccountID, limit int) ([]SaleDTO, error)
}

type service struct {
	tx          txRunner
	repo        *Repository
	products    *products.Repository
	policy      *access.Policy
	defaultRate decimal.Decimal
	prefix      string
	logg        *logger.Logger
	recorder    saleRecorder
	now         func() time.Time
}

// NewService wires the sale service.
func NewService(
	tx txRunner,
	repo *Repository,
	productRepo *products.Repository,
	policy *access.Policy,
	posCfg config.POSConfig,
	logg *logger.Logger,
	recorder saleRecorder,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	rate, err := posCfg.DefaultTaxRate()
	if err != nil {
		return nil, err
	}
	prefix := posCfg.SaleNumberPrefix
	if prefix == "" {
		prefix = "SALE-"
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if recorder == nil {
		recorder = (*metrics.SaleMetrics)(nil)
	}
	return &service{
		tx:          tx,
		repo:        repo,
		products:    productRepo,
		policy:      policy,
		defaultRate: rate,
		prefix:      prefix,
		logg:        logg,
		recorder:    recorder,
		now:         time.Now,
	}, nil
}

func (s *service) Quote(ctx context.Context, id *access.Identity, storeID types.StoreID, input QuoteInput) (*QuoteDTO, error) {
	if err := access.RequireIdentity(id); err != nil {
		return nil, err
	}
	if err := validateItems(input.Items, input.DiscountCents); err != nil {
		return nil, err
	}
	priced, err := s.priceCart(ctx, s.repo, s.products, storeID, input.Items, input.DiscountCents)
	if err != nil {
		return nil, err
	}
	return &QuoteDTO{
		Items:         lineDTOs(priced.lines),
		TaxRate:       priced.rate.String(),
		SubtotalCents: priced.totals.SubtotalCents,
		TaxCents:      priced.totals.TaxCents,
		DiscountCents: priced.totals.DiscountCents,
		TotalCents:    priced.totals.TotalCents,
	}, nil
}

func (s *service) Create(ctx context.Context, id *access.Identity, storeID types.StoreID, input CreateSaleInput) (*SaleDTO, error) {
	sale, err := s.create(ctx, id, storeID, input)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			s.recorder.SaleRejected(string(typed.Code()))
		}
		return nil, err
	}
	s.recorder.SaleCreated(sale.PaymentMethod.String(), sale.TotalCents)

	logCtx := s.logg.WithSaleID(ctx, sale.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"store_id":    storeID.String(),
		"sale_number": sale.SaleNumber,
		"total_cents": sale.TotalCents,
	})
	s.logg.Info(logCtx, "sale.created")
	return FromModel(sale), nil
}

func (s *service) create(ctx context.Context, id *access.Identity, storeID types.StoreID, input CreateSaleInput) (*models.Sale, error) {
	if err := s.policy.Authorize(id, access.ActionSaleCreate); err != nil {
		return nil, err
	}
	if err := validateItems(input.Items, input.DiscountCents); err != nil {
		return nil, err
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment_method")
	}

	var sale *models.Sale
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		saleRepo := s.repo.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		priced, err := s.priceCart(ctx, saleRepo, productRepo, storeID, input.Items, input.DiscountCents)
		if err != nil {
			return err
		}
		if err := verifyClientPricing(input.Items, priced.lines, priced.totals, input.ClientTotals); err != nil {
			return err
		}

		now := s.now().UTC().Truncate(time.Microsecond)
		sale = &models.Sale{
			StoreID:       storeID,
			SaleNumber:    saleNumber(s.prefix, now),
			CashierID:     id.AccountID,
			SubtotalCents: priced.totals.SubtotalCents,
			TaxCents:      priced.totals.TaxCents,
			DiscountCents: priced.totals.DiscountCents,
			TotalCents:    priced.totals.TotalCents,
			PaymentMethod: input.PaymentMethod,
			Status:        enums.SaleStatusCompleted,
			Items:         make([]models.SaleItem, 0, len(priced.lines)),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, line := range priced.lines {
			sale.Items = append(sale.Items, models.SaleItem{
				ProductID:     line.product.ID,
				ProductName:   line.name,
				Quantity:      line.quantity,
				PriceCents:    line.priceCents,
				SubtotalCents: line.subtotalCents,
			})
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert sale")
		}

		for _, line := range priced.lines {
			ok, err := productRepo.DecrementIfAvailable(ctx, line.product.ID, line.quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				available := 0
				if current, loadErr := productRepo.FindByID(ctx, line.product.ID); loadErr == nil {
					available = current.Quantity
				}
				return insufficientStock(line.product, available, line.quantity)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *service) Refund(ctx context.Context, id *access.Identity, saleID types.SaleID) (*SaleDTO, error) {
	if err := s.policy.Authorize(id, access.ActionSaleRefund); err != nil {
		return nil, err
	}

	logCtx := s.logg.WithSaleID(ctx, saleID.String())
	var refunded *models.Sale
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		saleRepo := s.repo.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		sale, err := saleRepo.FindByID(ctx, saleID)
		if err != nil {
			return mapLoadError(err)
		}
		if sale.Status != enums.SaleStatusCompleted {
			return refundConflict(sale.Status)
		}

		now := s.now().UTC().Truncate(time.Microsecond)
		ok, err := saleRepo.MarkRefunded(ctx, saleID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark sale refunded")
		}
		if !ok {
			return refundConflict(enums.SaleStatusRefunded)
		}

		for _, item := range sale.Items {
			restored, err := productRepo.AdjustQuantity(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock product")
			}
			if !restored {
				s.logg.Warn(s.logg.WithField(logCtx, "product_id", item.ProductID.String()), "sale.refund.product_missing")
			}
		}

		sale.Status = enums.SaleStatusRefunded
		sale.UpdatedAt = now
		refunded = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.SaleRefunded()
	s.logg.Info(logCtx, "sale.refunded")
	return FromModel(refunded), nil
}

func (s *service) Get(ctx context.Context, id *access.Identity, saleID types.SaleID) (*SaleDTO, error) {
	if id == nil {
		return nil, nil
	}
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(sale), nil
}

func (s *service) ListByStore(ctx context.Context, id *access.Identity, storeID types.StoreID, params pagination.Params) (*ListResult, error) {
	if id == nil {
		return &ListResult{Sales: []SaleDTO{}}, nil
	}
	cursor, err := pagination.ParseCursor[types.SaleID](params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListByStore(ctx, storeID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}

	rows, last := pagination.Page(rows, params.Limit)
	result := &ListResult{Sales: fromModels(rows)}
	if last != nil {
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor[types.SaleID]{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) GetByDateRange(ctx context.Context, id *access.Identity, storeID types.StoreID, start, end time.Time) ([]SaleDTO, error) {
	if id == nil {
		return []SaleDTO{}, nil
	}
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end must not be before start")
	}
	rows, err := s.repo.ListByDateRange(ctx, storeID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales by date range")
	}
	return fromModels(rows), nil
}

func (s *service) ListByCashier(ctx context.Context, id *access.Identity, cashierID types.AccountID, limit int) ([]SaleDTO, error) {
	if id == nil {
		return []SaleDTO{}, nil
	}
	rows, err := s.repo.ListByCashier(ctx, cashierID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales by cashier")
	}
	return fromModels(rows), nil
}

type pricedCart struct {
	lines  []pricedLine
	totals Totals
	rate   decimal.Decimal
}

// priceCart loads every product, checks stock for the whole cart before
// anything is written, and computes server-side totals.
func (s *service) priceCart(ctx context.Context, saleRepo *Repository, productRepo *products.Repository, storeID types.StoreID, items []LineItemInput, discountCents int64) (*pricedCart, error) {
	override, found, err := saleRepo.StoreTaxRate(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	rate := s.defaultRate
	if override.Valid {
		rate = override.Decimal
	}

	lines := make([]pricedLine, 0, len(items))
	required := map[types.ProductID]int{}
	loaded := map[types.ProductID]*models.Product{}
	for _, item := range items {
		product, ok := loaded[item.ProductID]
		if !ok {
			product, err = productRepo.FindInStore(ctx, storeID, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					label := strings.TrimSpace(item.ProductName)
					if label == "" {
						label = item.ProductID.String()
					}
					return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", label).
						WithDetails(map[string]any{"product_id": item.ProductID.String()})
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			loaded[item.ProductID] = product
		}
		required[item.ProductID] += item.Quantity

		name := product.Name
		if name == "" {
			name = strings.TrimSpace(item.ProductName)
		}
		lines = append(lines, pricedLine{
			product:       product,
			name:          name,
			quantity:      item.Quantity,
			priceCents:    product.PriceCents,
			subtotalCents: product.PriceCents * int64(item.Quantity),
		})
	}

	for _, line := range lines {
		need := required[line.product.ID]
		if line.product.Quantity < need {
			return nil, insufficientStock(line.product, line.product.Quantity, need)
		}
	}

	totals, err := computeTotals(lines, rate, discountCents)
	if err != nil {
		return nil, err
	}
	return &pricedCart{lines: lines, totals: totals, rate: rate}, nil
}

func validateItems(items []LineItemInput, discountCents int64) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale must contain at least one item")
	}
	for i, item := range items {
		if item.ProductID.IsZero() {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].product_id is required", i)
		}
		if item.Quantity <= 0 {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].quantity must be positive", i)
		}
	}
	if discountCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_cents must not be negative")
	}
	return nil
}

func lineDTOs(lines []pricedLine) []SaleItemDTO {
	out := make([]SaleItemDTO, 0, len(lines))
	for _, line := range lines {
		out = append(out, SaleItemDTO{
			ProductID:     line.product.ID,
			ProductName:   line.name,
			Quantity:      line.quantity,
			PriceCents:    line.priceCents,
			SubtotalCents: line.subtotalCents,
		})
	}
	return out
}

func insufficientStock(product *models.Product, available, required int) error {
	return pkgerrors.Newf(pkgerrors.CodeInsufficientStock,
		"insufficient stock for %s: available %d, required %d", product.Name, available, required).
		WithDetails(map[string]any{
			"product_id":   product.ID.String(),
			"product_name": product.Name,
			"available":    available,
			"required":     required,
		})
}

func refundConflict(status enums.SaleStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "only completed sales can be refunded").
		WithDetails(map[string]any{"status": status.String()})
}

func mapLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
}
