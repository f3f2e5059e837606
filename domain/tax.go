package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeIncome   Mode = "income"
	ModeSales    Mode = "sales"
	ModeProperty Mode = "property"
)

// Jurisdiction is a region code selecting the flat state-level rates.
type Jurisdiction string

// ParseJurisdiction normalizes a user supplied code ("ca " -> "CA").
// It does not check that the code is supported.
func ParseJurisdiction(s string) Jurisdiction {
	return Jurisdiction(strings.ToUpper(strings.TrimSpace(s)))
}

type FilingStatus string

const (
	FilingSingle          FilingStatus = "single"
	FilingMarriedJoint    FilingStatus = "married-joint"
	FilingMarriedSeparate FilingStatus = "married-separate"
	FilingHead            FilingStatus = "head"
)

// FilingStatuses lists the accepted filing statuses in display order.
var FilingStatuses = []FilingStatus{FilingSingle, FilingMarriedJoint, FilingMarriedSeparate, FilingHead}

// ParseFilingStatus maps an empty value to single and rejects unknown values.
func ParseFilingStatus(s string) (FilingStatus, error) {
	if s == "" {
		return FilingSingle, nil
	}
	for _, fs := range FilingStatuses {
		if string(fs) == s {
			return fs, nil
		}
	}
	return "", &InputError{Field: "filingStatus", Value: s}
}

type DeductionMode string

const (
	DeductionStandard DeductionMode = "standard"
	DeductionItemized DeductionMode = "itemized"
)

// ParseDeductionMode maps an empty value to standard and rejects unknown values.
func ParseDeductionMode(s string) (DeductionMode, error) {
	switch DeductionMode(s) {
	case "", DeductionStandard:
		return DeductionStandard, nil
	case DeductionItemized:
		return DeductionItemized, nil
	}
	return "", &InputError{Field: "deductionMode", Value: s}
}

type IncomeTaxInput struct {
	GrossAnnualIncome float64
	Jurisdiction      Jurisdiction
	FilingStatus      FilingStatus
	DeductionMode     DeductionMode
	ItemizedAmount    float64 // only read when DeductionMode is itemized
}

type SalesTaxInput struct {
	PurchaseAmount  float64
	Jurisdiction    Jurisdiction
	IsEssentialGood bool
}

type PropertyTaxInput struct {
	AssessedValue float64
	Jurisdiction  Jurisdiction
}

// TaxInput is the mode-tagged request accepted at the service boundary.
// Only the fields belonging to Mode are read.
type TaxInput struct {
	Mode         Mode   `json:"mode"`
	Jurisdiction string `json:"jurisdiction"`

	GrossAnnualIncome float64 `json:"grossAnnualIncome,omitempty"`
	FilingStatus      string  `json:"filingStatus,omitempty"`
	DeductionMode     string  `json:"deductionMode,omitempty"`
	ItemizedAmount    float64 `json:"itemizedAmount,omitempty"`

	PurchaseAmount  float64 `json:"purchaseAmount,omitempty"`
	IsEssentialGood bool    `json:"isEssentialGood,omitempty"`

	AssessedValue float64 `json:"assessedValue,omitempty"`
}

// Income projects the request onto the income variant.
func (in TaxInput) Income() (IncomeTaxInput, error) {
	fs, err := ParseFilingStatus(in.FilingStatus)
	if err != nil {
		return IncomeTaxInput{}, err
	}
	dm, err := ParseDeductionMode(in.DeductionMode)
	if err != nil {
		return IncomeTaxInput{}, err
	}
	return IncomeTaxInput{
		GrossAnnualIncome: in.GrossAnnualIncome,
		Jurisdiction:      ParseJurisdiction(in.Jurisdiction),
		FilingStatus:      fs,
		DeductionMode:     dm,
		ItemizedAmount:    in.ItemizedAmount,
	}, nil
}

func (in TaxInput) Sales() SalesTaxInput {
	return SalesTaxInput{
		PurchaseAmount:  in.PurchaseAmount,
		Jurisdiction:    ParseJurisdiction(in.Jurisdiction),
		IsEssentialGood: in.IsEssentialGood,
	}
}

func (in TaxInput) Property() PropertyTaxInput {
	return PropertyTaxInput{
		AssessedValue: in.AssessedValue,
		Jurisdiction:  ParseJurisdiction(in.Jurisdiction),
	}
}

// LineKind separates items counted in TotalTax from payroll contributions
// that are reported alongside it.
type LineKind string

const (
	KindTax          LineKind = "tax"
	KindContribution LineKind = "contribution"
)

const (
	LabelFederalIncomeTax = "Federal Income Tax"
	LabelStateIncomeTax   = "State Income Tax"
	LabelSocialSecurity   = "Social Security"
	LabelMedicare         = "Medicare"
	LabelStateSalesTax    = "State Sales Tax"
	LabelPropertyTax      = "Property Tax"
)

type TaxLineItem struct {
	Label             string
	Amount            decimal.Decimal
	RatePercentOfBase decimal.Decimal
	Kind              LineKind
}

type TaxResult struct {
	Mode                 Mode
	Base                 decimal.Decimal
	TotalTax             decimal.Decimal
	TotalContributions   decimal.Decimal
	EffectiveRatePercent decimal.Decimal
	LineItems            []TaxLineItem
	Insights             []string
}

// LineItem returns the first item with the given label.
func (r TaxResult) LineItem(label string) (TaxLineItem, bool) {
	for _, li := range r.LineItems {
		if li.Label == label {
			return li, true
		}
	}
	return TaxLineItem{}, false
}
