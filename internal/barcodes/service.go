package barcodes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/internal/products"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/pagination"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type scanRepository interface {
	Insert(ctx context.Context, scan *models.BarcodeScan) error
	ListByStore(ctx context.Context, storeID types.StoreID, limit int) ([]models.BarcodeScan, error)
}

type productLookup interface {
	FindByBarcode(ctx context.Context, barcode string, storeID *types.StoreID) (*models.Product, error)
}

// Service resolves register scans and keeps the scan log.
type Service interface {
	Scan(ctx context.Context, id *access.Identity, storeID types.StoreID, barcode string) (*products.ProductDTO, error)
	ListScans(ctx context.Context, id *access.Identity, storeID types.StoreID, limit int) ([]ScanDTO, error)
}

type service struct {
	repo     scanRepository
	products productLookup
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(repo scanRepository, lookup productLookup, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("scan repository required")
	}
	if lookup == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, products: lookup, logg: logg, now: time.Now}, nil
}

func (s *service) Scan(ctx context.Context, id *access.Identity, storeID types.StoreID, barcode string) (*products.ProductDTO, error) {
	if id == nil {
		return nil, nil
	}
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}

	product, err := s.products.FindByBarcode(ctx, barcode, &storeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup barcode")
	}
	if err != nil {
		product = nil
	}

	scan := &models.BarcodeScan{
		StoreID:   storeID,
		Barcode:   barcode,
		Success:   product != nil,
		ScannedAt: s.now().UTC(),
	}
	if !id.AccountID.IsZero() {
		scan.AccountID = id.AccountID.Ptr()
	}
	if product != nil {
		scan.ProductID = product.ID.Ptr()
	}
	if err := s.repo.Insert(ctx, scan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record scan")
	}

	if product == nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"store_id": storeID.String(), "barcode": barcode})
		s.logg.Debug(logCtx, "barcode.scan.miss")
		return nil, nil
	}
	return products.FromModel(product), nil
}

func (s *service) ListScans(ctx context.Context, id *access.Identity, storeID types.StoreID, limit int) ([]ScanDTO, error) {
	if id == nil {
		return []ScanDTO{}, nil
	}
	rows, err := s.repo.ListByStore(ctx, storeID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list scans")
	}
	return fromModels(rows), nil
}
