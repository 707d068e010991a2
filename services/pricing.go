package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// maxAmount, int64 minor unit'e sığan en büyük tutar. IntPart bunun
	// üstünde sessizce taşar.
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// Totals, bir teklifin minor unit (cent) cinsinden para alanları.
type Totals struct {
	Subtotal      int64
	TaxAmount     int64
	Total         int64
	DepositAmount int64
}

// CalculateTotals, kalemlerden ve oranlardan para alanlarını hesaplar.
//
//	subtotal = Σ round(quantity × unit_price × 100)
//	tax      = round(subtotal × tax_rate / 100)
//	total    = subtotal + tax
//	deposit  = round(total × deposit_percent / 100), oran 0 ise 0
//
// Her kalem ayrı yuvarlanır. Hesap float yerine decimal ile yapılır;
// 19.99 × 3 gibi değerlerde kuruş kayması olmaz. Toplam int64'e
// sığmıyorsa ErrBadRequest döner.
func CalculateTotals(items []models.LineItem, taxRate, depositPercent float64) (Totals, error) {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Quantity).
			Mul(decimal.NewFromFloat(item.UnitPrice)).
			Mul(hundred).
			Round(0)
		subtotal = subtotal.Add(line)
	}

	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Div(hundred).Round(0)
	total := subtotal.Add(tax)
	if total.GreaterThan(maxAmount) {
		return Totals{}, fmt.Errorf("%w: quote total is too large", pkg.ErrBadRequest)
	}

	deposit := decimal.Zero
	if depositPercent > 0 {
		deposit = total.Mul(decimal.NewFromFloat(depositPercent)).Div(hundred).Round(0)
	}

	return Totals{
		Subtotal:      subtotal.IntPart(),
		TaxAmount:     tax.IntPart(),
		Total:         total.IntPart(),
		DepositAmount: deposit.IntPart(),
	}, nil
}

// applyTotals, hesaplanan alanları teklife yazar. Hata durumunda teklife dokunmaz.
func applyTotals(q *models.Quote) error {
	t, err := CalculateTotals(q.LineItems, q.TaxRate, q.DepositPercent)
	if err != nil {
		return err
	}
	q.Subtotal = t.Subtotal
	q.TaxAmount = t.TaxAmount
	q.Total = t.Total
	q.DepositAmount = t.DepositAmount
	return nil
}

// FormatAmount, minor unit tutarı email'de gösterilecek şekle çevirir (ör: "USD 110.00").
func FormatAmount(minor int64, currency string) string {
	return strings.ToUpper(currency) + " " + decimal.New(minor, -2).StringFixed(2)
}
