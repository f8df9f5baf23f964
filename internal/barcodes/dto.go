package barcodes

import (
	"time"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type ScanDTO struct {
	ID        types.BarcodeScanID `json:"id"`
	StoreID   types.StoreID       `json:"store_id"`
	Barcode   string              `json:"barcode"`
	ProductID *types.ProductID    `json:"product_id,omitempty"`
	AccountID *types.AccountID    `json:"account_id,omitempty"`
	Success   bool                `json:"success"`
	ScannedAt time.Time           `json:"scanned_at"`
}

func fromModels(rows []models.BarcodeScan) []ScanDTO {
	out := make([]ScanDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ScanDTO{
			ID:        row.ID,
			StoreID:   row.StoreID,
			Barcode:   row.Barcode,
			ProductID: row.ProductID,
			AccountID: row.AccountID,
			Success:   row.Success,
			ScannedAt: row.ScannedAt,
		})
	}
	return out
}
