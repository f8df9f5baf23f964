package sales

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
)

func line(price int64, qty int) pricedLine {
	return pricedLine{
		product:       &models.Product{Name: "item", PriceCents: price},
		name:          "item",
		quantity:      qty,
		priceCents:    price,
		subtotalCents: price * int64(qty),
	}
}

func TestComputeTaxRoundsHalfAwayFromZero(t *testing.T) {
	rate := decimal.RequireFromString("0.1")
	require.Equal(t, int64(300), computeTax(3000, rate))
	require.Equal(t, int64(1), computeTax(5, rate))
	require.Equal(t, int64(0), computeTax(4, rate))
	require.Equal(t, int64(8), computeTax(99, decimal.RequireFromString("0.0825")))
}

func TestComputeTotals(t *testing.T) {
	totals, err := computeTotals([]pricedLine{line(1000, 3), line(250, 2)}, decimal.RequireFromString("0.1"), 100)
	require.NoError(t, err)
	require.Equal(t, Totals{SubtotalCents: 3500, TaxCents: 350, DiscountCents: 100, TotalCents: 3750}, totals)
}

func TestComputeTotalsRejectsOversizedDiscount(t *testing.T) {
	_, err := computeTotals([]pricedLine{line(1000, 1)}, decimal.RequireFromString("0.1"), 1101)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	totals, err := computeTotals([]pricedLine{line(1000, 1)}, decimal.RequireFromString("0.1"), 1100)
	require.NoError(t, err)
	require.Zero(t, totals.TotalCents)
}

func TestVerifyClientPricing(t *testing.T) {
	lines := []pricedLine{line(1000, 3)}
	totals := Totals{SubtotalCents: 3000, TaxCents: 300, TotalCents: 3300}

	good := int64(3300)
	require.NoError(t, verifyClientPricing([]LineItemInput{{Quantity: 3}}, lines, totals, ClientTotals{TotalCents: &good}))
	require.NoError(t, verifyClientPricing([]LineItemInput{{Quantity: 3}}, lines, totals, ClientTotals{}))

	price := int64(900)
	bad := int64(3000)
	err := verifyClientPricing([]LineItemInput{{Quantity: 3, PriceCents: &price}}, lines, totals, ClientTotals{TotalCents: &bad})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	expected := details["expected"].(map[string]any)
	require.Equal(t, int64(1000), expected["items[0].price_cents"])
	require.Equal(t, int64(3300), expected["total_cents"])
}

func TestSaleNumberKeepsLastTenDigits(t *testing.T) {
	at := time.UnixMilli(1_712_345_678_901)
	require.Equal(t, "SALE-2345678901", saleNumber("SALE-", at))
	require.Equal(t, "R-42", saleNumber("R-", time.UnixMilli(42)))
}
