package service

import (
	"math"

	"github.com/shopspring/decimal"

	"tax-estimator/domain"
)

var hundred = decimal.NewFromInt(100)

// Estimate computes a breakdown with the default schedule.
func Estimate(in domain.TaxInput) (domain.TaxResult, error) {
	return Simplified.Estimate(in)
}

// Estimate dispatches on the input mode. It is pure: the same input always
// yields the same result and nothing is retained between calls.
func (s *Schedule) Estimate(in domain.TaxInput) (domain.TaxResult, error) {
	switch in.Mode {
	case domain.ModeIncome:
		income, err := in.Income()
		if err != nil {
			return domain.TaxResult{}, err
		}
		return s.EstimateIncome(income)
	case domain.ModeSales:
		return s.EstimateSales(in.Sales())
	case domain.ModeProperty:
		return s.EstimateProperty(in.Property())
	}
	return domain.TaxResult{}, &domain.ModeError{Mode: in.Mode}
}

func (s *Schedule) EstimateIncome(in domain.IncomeTaxInput) (domain.TaxResult, error) {
	rates, err := s.Rates(in.Jurisdiction)
	if err != nil {
		return domain.TaxResult{}, err
	}
	income, err := toAmount("grossAnnualIncome", in.GrossAnnualIncome)
	if err != nil {
		return domain.TaxResult{}, err
	}
	itemized, err := toAmount("itemizedAmount", in.ItemizedAmount)
	if err != nil {
		return domain.TaxResult{}, err
	}
	if _, ok := s.brackets[in.FilingStatus]; !ok {
		return domain.TaxResult{}, &domain.InputError{Field: "filingStatus", Value: string(in.FilingStatus)}
	}

	if income.IsZero() {
		return zeroResult(domain.ModeIncome,
			taxLine(domain.LabelFederalIncomeTax),
			taxLine(domain.LabelStateIncomeTax),
			contributionLine(domain.LabelSocialSecurity),
			contributionLine(domain.LabelMedicare),
		), nil
	}

	taxable := decimal.Max(decimal.Zero, income.Sub(s.deduction(in, itemized)))
	federal, err := s.FederalTax(taxable, in.FilingStatus)
	if err != nil {
		return domain.TaxResult{}, err
	}
	state := income.Mul(rates.Income)

	ssWages := income
	if !s.socialSecurityWageBase.IsZero() {
		ssWages = decimal.Min(income, s.socialSecurityWageBase)
	}
	socialSecurity := ssWages.Mul(s.socialSecurityRate)
	medicare := income.Mul(s.medicareRate)

	res := newResult(domain.ModeIncome, income,
		domain.TaxLineItem{
			Label:             domain.LabelFederalIncomeTax,
			Amount:            federal,
			RatePercentOfBase: percentOf(federal, income),
			Kind:              domain.KindTax,
		},
		domain.TaxLineItem{
			Label:             domain.LabelStateIncomeTax,
			Amount:            state,
			RatePercentOfBase: percentOf(state, income),
			Kind:              domain.KindTax,
		},
		// payroll lines carry their nominal rates
		domain.TaxLineItem{
			Label:             domain.LabelSocialSecurity,
			Amount:            socialSecurity,
			RatePercentOfBase: s.socialSecurityRate.Shift(2),
			Kind:              domain.KindContribution,
		},
		domain.TaxLineItem{
			Label:             domain.LabelMedicare,
			Amount:            medicare,
			RatePercentOfBase: s.medicareRate.Shift(2),
			Kind:              domain.KindContribution,
		},
	)
	res.Insights = incomeInsights(res, in, federal, state)
	return res, nil
}

func (s *Schedule) EstimateSales(in domain.SalesTaxInput) (domain.TaxResult, error) {
	rates, err := s.Rates(in.Jurisdiction)
	if err != nil {
		return domain.TaxResult{}, err
	}
	amount, err := toAmount("purchaseAmount", in.PurchaseAmount)
	if err != nil {
		return domain.TaxResult{}, err
	}
	if amount.IsZero() {
		return zeroResult(domain.ModeSales, taxLine(domain.LabelStateSalesTax)), nil
	}

	rate := rates.Sales
	if in.IsEssentialGood {
		rate = rate.Mul(s.essentialGoodsFactor)
	}
	tax := amount.Mul(rate)

	res := newResult(domain.ModeSales, amount, domain.TaxLineItem{
		Label:             domain.LabelStateSalesTax,
		Amount:            tax,
		RatePercentOfBase: rate.Shift(2),
		Kind:              domain.KindTax,
	})
	res.Insights = salesInsights(in, rates)
	return res, nil
}

func (s *Schedule) EstimateProperty(in domain.PropertyTaxInput) (domain.TaxResult, error) {
	rates, err := s.Rates(in.Jurisdiction)
	if err != nil {
		return domain.TaxResult{}, err
	}
	value, err := toAmount("assessedValue", in.AssessedValue)
	if err != nil {
		return domain.TaxResult{}, err
	}
	if value.IsZero() {
		return zeroResult(domain.ModeProperty, taxLine(domain.LabelPropertyTax)), nil
	}

	tax := value.Mul(rates.Property)
	res := newResult(domain.ModeProperty, value, domain.TaxLineItem{
		Label:             domain.LabelPropertyTax,
		Amount:            tax,
		RatePercentOfBase: rates.Property.Shift(2),
		Kind:              domain.KindTax,
	})
	res.Insights = propertyInsights(in, rates, value, tax)
	return res, nil
}

func toAmount(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > MaxBaseAmount {
		return decimal.Zero, &domain.AmountError{Field: field, Value: v}
	}
	return decimal.NewFromFloat(v), nil
}

func percentOf(amount, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return amount.Mul(hundred).Div(base)
}

func taxLine(label string) domain.TaxLineItem {
	return domain.TaxLineItem{Label: label, Kind: domain.KindTax}
}

func contributionLine(label string) domain.TaxLineItem {
	return domain.TaxLineItem{Label: label, Kind: domain.KindContribution}
}

// zeroResult is the defined answer for a zero base: every figure is zero.
func zeroResult(mode domain.Mode, items ...domain.TaxLineItem) domain.TaxResult {
	return newResult(mode, decimal.Zero, items...)
}

func newResult(mode domain.Mode, base decimal.Decimal, items ...domain.TaxLineItem) domain.TaxResult {
	total, contributions := decimal.Zero, decimal.Zero
	for _, li := range items {
		switch li.Kind {
		case domain.KindTax:
			total = total.Add(li.Amount)
		case domain.KindContribution:
			contributions = contributions.Add(li.Amount)
		}
	}
	return domain.TaxResult{
		Mode:                 mode,
		Base:                 base,
		TotalTax:             total,
		TotalContributions:   contributions,
		EffectiveRatePercent: percentOf(total, base),
		LineItems:            items,
	}
}
