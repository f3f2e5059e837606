package service

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tax-estimator/domain"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func TestEstimateIncome_BracketBoundary(t *testing.T) {
	res, err := Estimate(domain.TaxInput{
		Mode:              domain.ModeIncome,
		GrossAnnualIncome: 85000,
		Jurisdiction:      "CA",
		FilingStatus:      "single",
		DeductionMode:     "standard",
	})
	require.NoError(t, err)

	require.Len(t, res.LineItems, 4)
	labels := []string{
		domain.LabelFederalIncomeTax,
		domain.LabelStateIncomeTax,
		domain.LabelSocialSecurity,
		domain.LabelMedicare,
	}
	for i, label := range labels {
		assert.Equal(t, label, res.LineItems[i].Label)
	}

	assertDecimal(t, "14500", res.LineItems[0].Amount)
	assertDecimal(t, "7905", res.LineItems[1].Amount)
	assertDecimal(t, "9.3", res.LineItems[1].RatePercentOfBase)
	assertDecimal(t, "5270", res.LineItems[2].Amount)
	assertDecimal(t, "6.2", res.LineItems[2].RatePercentOfBase)
	assertDecimal(t, "1232.5", res.LineItems[3].Amount)
	assertDecimal(t, "1.45", res.LineItems[3].RatePercentOfBase)

	assertDecimal(t, "22405", res.TotalTax)
	assertDecimal(t, "6502.5", res.TotalContributions)
	assertDecimal(t, "26.36", res.EffectiveRatePercent.Round(2))
}

func TestEstimateIncome_LowerBrackets(t *testing.T) {
	tests := []struct {
		income  float64
		federal string
	}{
		{5000, "500"},
		{10000, "1000"},
		{25000, "2800"},
		{40000, "4600"},
		{60000, "9000"},
		{100000, "18100"},
	}

	for _, tt := range tests {
		res, err := Simplified.EstimateIncome(domain.IncomeTaxInput{
			GrossAnnualIncome: tt.income,
			Jurisdiction:      "TX",
			FilingStatus:      domain.FilingSingle,
		})
		require.NoError(t, err)
		assertDecimal(t, tt.federal, res.LineItems[0].Amount, tt.income)
		// TX has no state income tax
		assertDecimal(t, tt.federal, res.TotalTax, tt.income)
	}
}

func TestEstimateIncome_ZeroIncome(t *testing.T) {
	res, err := Estimate(domain.TaxInput{Mode: domain.ModeIncome, Jurisdiction: "NY"})
	require.NoError(t, err)

	require.Len(t, res.LineItems, 4)
	for _, li := range res.LineItems {
		assert.True(t, li.Amount.IsZero(), li.Label)
		assert.True(t, li.RatePercentOfBase.IsZero(), li.Label)
	}
	assert.True(t, res.TotalTax.IsZero())
	assert.True(t, res.TotalContributions.IsZero())
	assert.True(t, res.EffectiveRatePercent.IsZero())
	assert.Empty(t, res.Insights)
}

func TestEstimateIncome_DeductionsIgnoredBySimplifiedSchedule(t *testing.T) {
	standard, err := Estimate(domain.TaxInput{Mode: domain.ModeIncome, GrossAnnualIncome: 85000, Jurisdiction: "CA"})
	require.NoError(t, err)
	itemized, err := Estimate(domain.TaxInput{
		Mode:              domain.ModeIncome,
		GrossAnnualIncome: 85000,
		Jurisdiction:      "CA",
		DeductionMode:     "itemized",
		ItemizedAmount:    30000,
	})
	require.NoError(t, err)

	assert.True(t, standard.TotalTax.Equal(itemized.TotalTax))
}

func TestEstimateSales(t *testing.T) {
	res, err := Estimate(domain.TaxInput{Mode: domain.ModeSales, PurchaseAmount: 100, Jurisdiction: "TX"})
	require.NoError(t, err)
	require.Len(t, res.LineItems, 1)
	assert.Equal(t, domain.LabelStateSalesTax, res.LineItems[0].Label)
	assertDecimal(t, "6.25", res.TotalTax)
	assertDecimal(t, "6.25", res.LineItems[0].RatePercentOfBase)
	assertDecimal(t, "6.25", res.EffectiveRatePercent)

	res, err = Estimate(domain.TaxInput{Mode: domain.ModeSales, PurchaseAmount: 100, Jurisdiction: "TX", IsEssentialGood: true})
	require.NoError(t, err)
	assertDecimal(t, "3.125", res.TotalTax)
	assertDecimal(t, "3.125", res.LineItems[0].RatePercentOfBase)
}

func TestEstimateSales_EssentialIsHalfRate(t *testing.T) {
	for _, j := range Simplified.Jurisdictions() {
		full, err := Simplified.EstimateSales(domain.SalesTaxInput{PurchaseAmount: 1234.56, Jurisdiction: j.Code})
		require.NoError(t, err)
		half, err := Simplified.EstimateSales(domain.SalesTaxInput{PurchaseAmount: 1234.56, Jurisdiction: j.Code, IsEssentialGood: true})
		require.NoError(t, err)

		assert.True(t, half.TotalTax.Mul(decimal.NewFromInt(2)).Equal(full.TotalTax), j.Code)
		assert.True(t, half.EffectiveRatePercent.Mul(decimal.NewFromInt(2)).Equal(full.EffectiveRatePercent), j.Code)
	}
}

func TestEstimateProperty(t *testing.T) {
	res, err := Estimate(domain.TaxInput{Mode: domain.ModeProperty, AssessedValue: 500000, Jurisdiction: "IL"})
	require.NoError(t, err)
	require.Len(t, res.LineItems, 1)
	assert.Equal(t, domain.LabelPropertyTax, res.LineItems[0].Label)
	assertDecimal(t, "11350", res.TotalTax)
	assertDecimal(t, "2.27", res.LineItems[0].RatePercentOfBase)
	assertDecimal(t, "2.27", res.EffectiveRatePercent)
}

func TestEstimate_ZeroBaseEveryMode(t *testing.T) {
	for _, mode := range []domain.Mode{domain.ModeIncome, domain.ModeSales, domain.ModeProperty} {
		res, err := Estimate(domain.TaxInput{Mode: mode, Jurisdiction: "FL"})
		require.NoError(t, err, mode)
		assert.True(t, res.TotalTax.IsZero(), mode)
		assert.True(t, res.EffectiveRatePercent.IsZero(), mode)
		for _, li := range res.LineItems {
			assert.True(t, li.Amount.IsZero(), mode)
		}
	}
}

func TestEstimate_UnsupportedJurisdiction(t *testing.T) {
	for _, mode := range []domain.Mode{domain.ModeIncome, domain.ModeSales, domain.ModeProperty} {
		_, err := Estimate(domain.TaxInput{Mode: mode, Jurisdiction: "ZZ", GrossAnnualIncome: 1, PurchaseAmount: 1, AssessedValue: 1})
		require.Error(t, err, mode)
		assert.True(t, errors.Is(err, domain.ErrUnsupportedJurisdiction), mode)

		var je *domain.JurisdictionError
		require.True(t, errors.As(err, &je))
		assert.Equal(t, domain.Jurisdiction("ZZ"), je.Code)
	}
}

func TestEstimate_JurisdictionIsNormalized(t *testing.T) {
	res, err := Estimate(domain.TaxInput{Mode: domain.ModeProperty, AssessedValue: 500000, Jurisdiction: " il"})
	require.NoError(t, err)
	assertDecimal(t, "11350", res.TotalTax)
}

func TestEstimate_InvalidAmount(t *testing.T) {
	tests := []struct {
		name  string
		in    domain.TaxInput
		field string
	}{
		{"negative income", domain.TaxInput{Mode: domain.ModeIncome, Jurisdiction: "CA", GrossAnnualIncome: -1}, "grossAnnualIncome"},
		{"NaN income", domain.TaxInput{Mode: domain.ModeIncome, Jurisdiction: "CA", GrossAnnualIncome: math.NaN()}, "grossAnnualIncome"},
		{"infinite purchase", domain.TaxInput{Mode: domain.ModeSales, Jurisdiction: "CA", PurchaseAmount: math.Inf(1)}, "purchaseAmount"},
		{"negative property", domain.TaxInput{Mode: domain.ModeProperty, Jurisdiction: "CA", AssessedValue: -500}, "assessedValue"},
		{"too large", domain.TaxInput{Mode: domain.ModeProperty, Jurisdiction: "CA", AssessedValue: MaxBaseAmount * 2}, "assessedValue"},
		{"negative itemized", domain.TaxInput{Mode: domain.ModeIncome, Jurisdiction: "CA", GrossAnnualIncome: 1000, ItemizedAmount: -5}, "itemizedAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidAmount))

			var ae *domain.AmountError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, tt.field, ae.Field)
		})
	}
}

func TestEstimate_InvalidInput(t *testing.T) {
	_, err := Estimate(domain.TaxInput{Mode: domain.ModeIncome, Jurisdiction: "CA", GrossAnnualIncome: 1, FilingStatus: "widowed"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = Estimate(domain.TaxInput{Mode: domain.ModeIncome, Jurisdiction: "CA", GrossAnnualIncome: 1, DeductionMode: "none"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = Estimate(domain.TaxInput{Mode: "payroll", Jurisdiction: "CA"})
	assert.True(t, errors.Is(err, domain.ErrUnsupportedMode))
}

func TestEstimate_TotalsMatchLineItems(t *testing.T) {
	amounts := []float64{0.01, 1, 999.99, 10000, 40000.5, 85000, 123456.78, 520000, 2_500_000}

	for _, schedule := range []*Schedule{Simplified, Detailed} {
		for _, j := range schedule.Jurisdictions() {
			for _, amount := range amounts {
				for _, in := range []domain.TaxInput{
					{Mode: domain.ModeIncome, Jurisdiction: string(j.Code), GrossAnnualIncome: amount},
					{Mode: domain.ModeSales, Jurisdiction: string(j.Code), PurchaseAmount: amount},
					{Mode: domain.ModeSales, Jurisdiction: string(j.Code), PurchaseAmount: amount, IsEssentialGood: true},
					{Mode: domain.ModeProperty, Jurisdiction: string(j.Code), AssessedValue: amount},
				} {
					res, err := schedule.Estimate(in)
					require.NoError(t, err)

					taxSum, contribSum := decimal.Zero, decimal.Zero
					for _, li := range res.LineItems {
						assert.False(t, li.Amount.IsNegative())
						assert.False(t, li.RatePercentOfBase.IsNegative())
						if li.Kind == domain.KindTax {
							taxSum = taxSum.Add(li.Amount)
						} else {
							contribSum = contribSum.Add(li.Amount)
						}
					}
					assert.True(t, taxSum.Equal(res.TotalTax), "%s %s %v", schedule.Name, in.Mode, amount)
					assert.True(t, contribSum.Equal(res.TotalContributions), "%s %s %v", schedule.Name, in.Mode, amount)

					want := res.TotalTax.InexactFloat64() / amount * 100
					assert.InDelta(t, want, res.EffectiveRatePercent.InexactFloat64(), 1e-9, "%s %s %v", schedule.Name, in.Mode, amount)
				}
			}
		}
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	in := domain.TaxInput{Mode: domain.ModeIncome, GrossAnnualIncome: 173456.78, Jurisdiction: "IL", FilingStatus: "head"}
	a, err := Estimate(in)
	require.NoError(t, err)
	b, err := Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
