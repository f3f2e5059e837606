package service

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"tax-estimator/domain"
)

// National averages the advisory notes compare against, in percent.
var (
	nationalIncomeRate   = d("14.6")
	nationalSalesRate    = d("6.57")
	nationalPropertyRate = d("1.07")

	retirementContribution = pct("5")
	retirementMarginalRate = pct("22")
	assessmentAppealRatio  = pct("1.5")
)

var (
	taxFreeShoppingStates = []domain.Jurisdiction{"TX", "FL", "MA", "CT"}
	homesteadStates       = []domain.Jurisdiction{"FL", "TX", "GA", "SC"}
)

func incomeInsights(res domain.TaxResult, in domain.IncomeTaxInput, federal, state decimal.Decimal) []string {
	var out []string
	rate := res.EffectiveRatePercent

	switch {
	case rate.GreaterThan(nationalIncomeRate.Mul(d("1.2"))):
		out = append(out, "Your effective tax rate is significantly higher than the national average.")
	case rate.LessThan(nationalIncomeRate.Mul(d("0.8"))):
		out = append(out, "Your effective tax rate is lower than the national average.")
	}

	if res.Base.GreaterThan(d("50000")) && rate.GreaterThan(d("15")) {
		savings := res.Base.Mul(retirementContribution).Mul(retirementMarginalRate)
		out = append(out, fmt.Sprintf(
			"Consider maximizing retirement contributions to reduce your taxable income. Contributing to a 401(k) or IRA could save you approximately %s in taxes.",
			domain.FormatUSD(savings)))
	}

	if in.FilingStatus == domain.FilingMarriedJoint {
		out = append(out, "As a married couple filing jointly, ensure you're taking advantage of all available deductions such as mortgage interest, charitable contributions, and medical expenses.")
	}

	if state.GreaterThan(federal.Mul(d("0.3"))) {
		out = append(out, "Your state tax burden is relatively high. Consider consulting a tax professional about state-specific deductions and credits.")
	}
	return out
}

func salesInsights(in domain.SalesTaxInput, rates StateRates) []string {
	var out []string
	stateRate := rates.Sales.Shift(2)

	switch {
	case stateRate.GreaterThan(nationalSalesRate):
		out = append(out, fmt.Sprintf("%s has a higher sales tax rate than the national average of %s%%.", in.Jurisdiction, nationalSalesRate.StringFixed(2)))
	case stateRate.LessThan(nationalSalesRate):
		out = append(out, fmt.Sprintf("%s has a lower sales tax rate than the national average of %s%%.", in.Jurisdiction, nationalSalesRate.StringFixed(2)))
	}

	if in.IsEssentialGood {
		out = append(out, "Essential items often qualify for reduced tax rates or exemptions in many states.")
	}
	if slices.Contains(taxFreeShoppingStates, in.Jurisdiction) {
		out = append(out, fmt.Sprintf("%s offers tax-free shopping days for certain items. Check your state's tax authority website for dates.", in.Jurisdiction))
	}
	return out
}

func propertyInsights(in domain.PropertyTaxInput, rates StateRates, value, tax decimal.Decimal) []string {
	var out []string
	stateRate := rates.Property.Shift(2)

	switch {
	case stateRate.GreaterThan(nationalPropertyRate.Mul(d("1.2"))):
		out = append(out, fmt.Sprintf("%s has significantly higher property tax rates than the national average of %s%%.", in.Jurisdiction, nationalPropertyRate.StringFixed(2)))
	case stateRate.LessThan(nationalPropertyRate.Mul(d("0.8"))):
		out = append(out, fmt.Sprintf("%s has lower property tax rates than the national average of %s%%.", in.Jurisdiction, nationalPropertyRate.StringFixed(2)))
	}

	if slices.Contains(homesteadStates, in.Jurisdiction) {
		out = append(out, fmt.Sprintf("%s offers homestead exemptions that may reduce your property tax burden if this is your primary residence.", in.Jurisdiction))
	}
	if tax.GreaterThan(value.Mul(assessmentAppealRatio)) {
		out = append(out, "Your property tax rate is relatively high. Consider checking if your property assessment is accurate and appeal if necessary.")
	}
	return out
}
