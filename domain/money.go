package domain

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatUSD formats an amount like "$12,505.00", rounding half away from zero
// to the cent. The conversion to cents stays in decimal.
func FormatUSD(v decimal.Decimal) string {
	return money.New(v.Round(2).Shift(2).IntPart(), money.USD).Display()
}
