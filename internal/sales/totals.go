package sales

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
)

const saleNumberDigits = 10

// Totals is the priced summary of a cart.
type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	DiscountCents int64
	TotalCents    int64
}

type pricedLine struct {
	product       *models.Product
	name          string
	quantity      int
	priceCents    int64
	subtotalCents int64
}

// computeTax rounds subtotal × rate to whole cents, halves away from zero.
func computeTax(subtotalCents int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(subtotalCents).Mul(rate).Round(0).IntPart()
}

func computeTotals(lines []pricedLine, rate decimal.Decimal, discountCents int64) (Totals, error) {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.subtotalCents
	}
	tax := computeTax(subtotal, rate)
	if discountCents > subtotal+tax {
		return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds sale total").
			WithDetails(map[string]any{"discount_cents": discountCents, "max_discount_cents": subtotal + tax})
	}
	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		DiscountCents: discountCents,
		TotalCents:    subtotal + tax - discountCents,
	}, nil
}

// verifyClientPricing compares whatever the register sent against the
// server's numbers and lists every mismatch.
func verifyClientPricing(items []LineItemInput, lines []pricedLine, totals Totals, client ClientTotals) error {
	mismatches := map[string]any{}
	for i, item := range items {
		line := lines[i]
		if item.PriceCents != nil && *item.PriceCents != line.priceCents {
			mismatches["items["+strconv.Itoa(i)+"].price_cents"] = line.priceCents
		}
		if item.SubtotalCents != nil && *item.SubtotalCents != line.subtotalCents {
			mismatches["items["+strconv.Itoa(i)+"].subtotal_cents"] = line.subtotalCents
		}
	}
	if client.SubtotalCents != nil && *client.SubtotalCents != totals.SubtotalCents {
		mismatches["subtotal_cents"] = totals.SubtotalCents
	}
	if client.TaxCents != nil && *client.TaxCents != totals.TaxCents {
		mismatches["tax_cents"] = totals.TaxCents
	}
	if client.TotalCents != nil && *client.TotalCents != totals.TotalCents {
		mismatches["total_cents"] = totals.TotalCents
	}
	if len(mismatches) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "client totals do not match server pricing").
		WithDetails(map[string]any{"expected": mismatches})
}

// saleNumber renders prefix plus the last ten digits of the unix-ms timestamp.
func saleNumber(prefix string, at time.Time) string {
	ms := strconv.FormatInt(at.UnixMilli(), 10)
	if len(ms) > saleNumberDigits {
		ms = ms[len(ms)-saleNumberDigits:]
	}
	return prefix + ms
}
