package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tax-estimator/domain"
	"tax-estimator/service"
)

func TestRenderEstimate(t *testing.T) {
	res, err := service.Estimate(domain.TaxInput{Mode: domain.ModeIncome, GrossAnnualIncome: 85000, Jurisdiction: "CA"})
	require.NoError(t, err)

	out := RenderEstimate(res)
	assert.Contains(t, out, "Income tax on $85,000.00")
	assert.Contains(t, out, "Federal Income Tax")
	assert.Contains(t, out, "Social Security *")
	assert.Contains(t, out, "$22,405.00")
	assert.Contains(t, out, "26.36%")
	assert.Contains(t, out, "$6,502.50")
}

func TestRenderEstimate_ZeroBase(t *testing.T) {
	res, err := service.Estimate(domain.TaxInput{Mode: domain.ModeSales, Jurisdiction: "NY"})
	require.NoError(t, err)

	out := RenderEstimate(res)
	assert.Contains(t, out, "State Sales Tax")
	assert.Contains(t, out, "0.00%")
	assert.NotContains(t, out, "Contributions")
}

func TestRenderJurisdictions(t *testing.T) {
	out := RenderJurisdictions("simplified", service.Simplified.Jurisdictions())
	assert.Contains(t, out, "simplified schedule")
	for _, code := range []string{"CA", "NY", "TX", "FL", "IL"} {
		assert.Contains(t, out, code)
	}
	assert.Contains(t, out, "2.27%")
}
