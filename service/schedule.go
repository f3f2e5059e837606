package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"tax-estimator/domain"
)

// Bracket is one marginal slice of a progressive schedule. UpTo is the
// exclusive upper bound; a zero UpTo marks the open-ended top bracket.
type Bracket struct {
	UpTo decimal.Decimal
	Rate decimal.Decimal
}

type bracketTable struct {
	brackets []Bracket
	// cumulative tax owed at each bracket's lower bound
	base []decimal.Decimal
}

// checkBounds panics unless bs is strictly increasing and ends with a single
// unbounded bracket.
func checkBounds(bs []Bracket) {
	if len(bs) == 0 || !bs[len(bs)-1].UpTo.IsZero() {
		panic("service: bracket table must end with an unbounded bracket")
	}
	lower := decimal.Zero
	for i, b := range bs[:len(bs)-1] {
		if b.UpTo.IsZero() {
			panic(fmt.Sprintf("service: only the last bracket may be unbounded (bracket %d)", i))
		}
		if !b.UpTo.GreaterThan(lower) {
			panic(fmt.Sprintf("service: bracket bound %s is not above %s", b.UpTo, lower))
		}
		lower = b.UpTo
	}
}

// mustBrackets derives the cumulative tax at every lower bound from the
// marginal rates, so the resulting schedule is continuous and monotonic.
func mustBrackets(bs ...Bracket) bracketTable {
	checkBounds(bs)
	t := bracketTable{brackets: bs, base: make([]decimal.Decimal, len(bs))}
	lower, acc := decimal.Zero, decimal.Zero
	for i, b := range bs {
		t.base[i] = acc
		if b.UpTo.IsZero() {
			break
		}
		acc = acc.Add(b.UpTo.Sub(lower).Mul(b.Rate))
		lower = b.UpTo
	}
	return t
}

type bracketRow struct {
	Bracket
	base decimal.Decimal
}

// publishedBrackets keeps the cumulative figures exactly as the table states
// them. They are not reconciled with the marginal rates, so the schedule may
// step at a boundary.
func publishedBrackets(rows ...bracketRow) bracketTable {
	t := bracketTable{brackets: make([]Bracket, len(rows)), base: make([]decimal.Decimal, len(rows))}
	for i, r := range rows {
		t.brackets[i] = r.Bracket
		t.base[i] = r.base
	}
	checkBounds(t.brackets)
	if !t.base[0].IsZero() {
		panic("service: the first bracket must start from zero tax")
	}
	return t
}

// tax picks the first bracket whose upper bound is strictly above income, so
// an income on a boundary is taxed as the base of the next bracket.
func (t bracketTable) tax(income decimal.Decimal) decimal.Decimal {
	lower := decimal.Zero
	for i, b := range t.brackets {
		if b.UpTo.IsZero() || income.LessThan(b.UpTo) {
			return t.base[i].Add(income.Sub(lower).Mul(b.Rate))
		}
		lower = b.UpTo
	}
	return decimal.Zero
}

// StateRates holds the flat rates of one jurisdiction as fractions (0.093 = 9.3%).
type StateRates struct {
	Income   decimal.Decimal
	Sales    decimal.Decimal
	Property decimal.Decimal
}

// JurisdictionRates is a StateRates row expressed in percent, for listings.
type JurisdictionRates struct {
	Code            domain.Jurisdiction
	IncomePercent   decimal.Decimal
	SalesPercent    decimal.Decimal
	PropertyPercent decimal.Decimal
}

// Schedule bundles every static table the estimator reads. Schedules are
// built once at init and never mutated.
type Schedule struct {
	Name string

	brackets          map[domain.FilingStatus]bracketTable
	standardDeduction map[domain.FilingStatus]decimal.Decimal
	applyDeductions   bool

	socialSecurityRate     decimal.Decimal
	socialSecurityWageBase decimal.Decimal // zero: uncapped
	medicareRate           decimal.Decimal
	essentialGoodsFactor   decimal.Decimal

	states map[domain.Jurisdiction]StateRates
}

// Rates returns the flat rates of j, or a JurisdictionError.
func (s *Schedule) Rates(j domain.Jurisdiction) (StateRates, error) {
	r, ok := s.states[j]
	if !ok {
		return StateRates{}, &domain.JurisdictionError{Code: j}
	}
	return r, nil
}

// Supports reports whether j has a rate row.
func (s *Schedule) Supports(j domain.Jurisdiction) bool {
	_, ok := s.states[j]
	return ok
}

// Jurisdictions lists the supported codes sorted alphabetically.
func (s *Schedule) Jurisdictions() []JurisdictionRates {
	out := make([]JurisdictionRates, 0, len(s.states))
	for code, r := range s.states {
		out = append(out, JurisdictionRates{
			Code:            code,
			IncomePercent:   r.Income.Shift(2),
			SalesPercent:    r.Sales.Shift(2),
			PropertyPercent: r.Property.Shift(2),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// FederalTax applies the progressive brackets of the filing status to a
// taxable amount.
func (s *Schedule) FederalTax(taxable decimal.Decimal, fs domain.FilingStatus) (decimal.Decimal, error) {
	t, ok := s.brackets[fs]
	if !ok {
		return decimal.Zero, &domain.InputError{Field: "filingStatus", Value: string(fs)}
	}
	return t.tax(taxable), nil
}

func (s *Schedule) deduction(in domain.IncomeTaxInput, itemized decimal.Decimal) decimal.Decimal {
	if !s.applyDeductions {
		return decimal.Zero
	}
	if in.DeductionMode == domain.DeductionItemized {
		return itemized
	}
	return s.standardDeduction[in.FilingStatus]
}

var (
	schedulesByName = map[string]*Schedule{}

	Simplified = register(newSimplifiedSchedule())
	Detailed   = register(newDetailedSchedule())
)

func register(s *Schedule) *Schedule {
	schedulesByName[s.Name] = s
	return s
}

// LookupSchedule returns the named schedule. An empty name selects Simplified.
func LookupSchedule(name string) (*Schedule, error) {
	if name == "" {
		return Simplified, nil
	}
	s, ok := schedulesByName[name]
	if !ok {
		return nil, fmt.Errorf("unknown tax schedule %q", name)
	}
	return s, nil
}

// ScheduleNames lists the registered schedules, sorted.
func ScheduleNames() []string {
	names := make([]string, 0, len(schedulesByName))
	for n := range schedulesByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// pct turns a percent literal into a fraction: pct("9.3") == 0.093.
func pct(s string) decimal.Decimal { return decimal.RequireFromString(s).Shift(-2) }

func bracket(upTo, ratePercent string) Bracket {
	return Bracket{UpTo: d(upTo), Rate: pct(ratePercent)}
}

func row(upTo, ratePercent, base string) bracketRow {
	return bracketRow{Bracket: bracket(upTo, ratePercent), base: d(base)}
}

func allStatuses(t bracketTable) map[domain.FilingStatus]bracketTable {
	m := make(map[domain.FilingStatus]bracketTable, len(domain.FilingStatuses))
	for _, fs := range domain.FilingStatuses {
		m[fs] = t
	}
	return m
}

func newSimplifiedSchedule() *Schedule {
	return &Schedule{
		Name: "simplified",
		brackets: allStatuses(publishedBrackets(
			row("10000", "10", "0"),
			row("40000", "12", "1000"),
			row("85000", "22", "4600"),
			row("165000", "24", "14500"),
			row("210000", "32", "33600"),
			row("520000", "35", "47800"),
			row("0", "37", "157000"),
		)),
		socialSecurityRate:   pct("6.2"),
		medicareRate:         pct("1.45"),
		essentialGoodsFactor: d("0.5"),
		states: map[domain.Jurisdiction]StateRates{
			"CA": {Income: pct("9.3"), Sales: pct("7.25"), Property: pct("0.77")},
			"NY": {Income: pct("8.5"), Sales: pct("4.5"), Property: pct("1.72")},
			"TX": {Income: pct("0"), Sales: pct("6.25"), Property: pct("1.81")},
			"FL": {Income: pct("0"), Sales: pct("6"), Property: pct("0.98")},
			"IL": {Income: pct("4.95"), Sales: pct("6.25"), Property: pct("2.27")},
		},
	}
}

// 2023 federal figures.
func newDetailedSchedule() *Schedule {
	return &Schedule{
		Name: "detailed",
		brackets: map[domain.FilingStatus]bracketTable{
			domain.FilingSingle: mustBrackets(
				bracket("10275", "10"),
				bracket("41775", "12"),
				bracket("89075", "22"),
				bracket("170050", "24"),
				bracket("215950", "32"),
				bracket("539900", "35"),
				bracket("0", "37"),
			),
			domain.FilingMarriedJoint: mustBrackets(
				bracket("20550", "10"),
				bracket("83550", "12"),
				bracket("178150", "22"),
				bracket("340100", "24"),
				bracket("431900", "32"),
				bracket("647850", "35"),
				bracket("0", "37"),
			),
			domain.FilingMarriedSeparate: mustBrackets(
				bracket("10275", "10"),
				bracket("41775", "12"),
				bracket("89075", "22"),
				bracket("170050", "24"),
				bracket("215950", "32"),
				bracket("323925", "35"),
				bracket("0", "37"),
			),
			domain.FilingHead: mustBrackets(
				bracket("14650", "10"),
				bracket("55900", "12"),
				bracket("89050", "22"),
				bracket("170050", "24"),
				bracket("215950", "32"),
				bracket("539900", "35"),
				bracket("0", "37"),
			),
		},
		standardDeduction: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingSingle:          d("12950"),
			domain.FilingMarriedJoint:    d("25900"),
			domain.FilingMarriedSeparate: d("12950"),
			domain.FilingHead:            d("19400"),
		},
		applyDeductions:        true,
		socialSecurityRate:     pct("6.2"),
		socialSecurityWageBase: d("147000"),
		medicareRate:           pct("1.45"),
		essentialGoodsFactor:   d("0.5"),
		states: map[domain.Jurisdiction]StateRates{
			"CA": {Income: pct("9.3"), Sales: pct("7.25"), Property: pct("0.77")},
			"NY": {Income: pct("8.5"), Sales: pct("4.5"), Property: pct("1.72")},
			"TX": {Income: pct("0"), Sales: pct("6.25"), Property: pct("1.81")},
			"FL": {Income: pct("0"), Sales: pct("6"), Property: pct("0.98")},
			"IL": {Income: pct("4.95"), Sales: pct("6.25"), Property: pct("2.27")},
			"WA": {Income: pct("0"), Sales: pct("6.5"), Property: pct("1.03")},
			"NV": {Income: pct("0"), Sales: pct("6.85"), Property: pct("0.69")},
			"AZ": {Income: pct("4.5"), Sales: pct("5.6"), Property: pct("0.77")},
			"CO": {Income: pct("4.55"), Sales: pct("2.9"), Property: pct("0.55")},
			"GA": {Income: pct("5.75"), Sales: pct("4"), Property: pct("0.92")},
			"MA": {Income: pct("5"), Sales: pct("6.25"), Property: pct("1.23")},
			"MI": {Income: pct("4.25"), Sales: pct("6"), Property: pct("1.58")},
			"OH": {Income: pct("3.99"), Sales: pct("5.75"), Property: pct("1.57")},
			"PA": {Income: pct("3.07"), Sales: pct("6"), Property: pct("1.58")},
			"VA": {Income: pct("5.75"), Sales: pct("5.3"), Property: pct("0.80")},
		},
	}
}
