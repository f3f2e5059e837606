// Package cli renders estimates for the terminal.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"tax-estimator/domain"
	"tax-estimator/service"
)

var (
	colorBorder = lipgloss.Color("#282726")
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	amountStyle = lipgloss.NewStyle().Foreground(colorGreen)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// Table is a bordered text table.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// FormatPercent formats a percentage with two decimals.
func FormatPercent(v decimal.Decimal) string {
	return v.StringFixed(2) + "%"
}

// RenderTable lays out t with padded columns inside a rounded border.
func RenderTable(t Table) string {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	pad := func(s string, w int, right bool) string {
		gap := strings.Repeat(" ", max(0, w-lipgloss.Width(s)))
		if right {
			return gap + s
		}
		return s + gap
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(titleStyle.Render(t.Title))
		b.WriteString("\n\n")
	}
	cells := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		cells[i] = headerStyle.Render(pad(h, widths[i], i > 0))
	}
	b.WriteString(strings.Join(cells, "  "))
	for _, row := range t.Rows {
		b.WriteString("\n")
		for i := range cells {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = pad(cell, widths[i], i > 0)
		}
		b.WriteString(strings.Join(cells, "  "))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Render(b.String())
}

// RenderEstimate renders the line items, totals and insights of res.
func RenderEstimate(res domain.TaxResult) string {
	t := Table{
		Title:   fmt.Sprintf("%s tax on %s", modeTitle(res.Mode), domain.FormatUSD(res.Base)),
		Headers: []string{"Line item", "Amount", "Rate"},
	}
	for _, li := range res.LineItems {
		label := li.Label
		if li.Kind == domain.KindContribution {
			label += " *"
		}
		t.Rows = append(t.Rows, []string{label, domain.FormatUSD(li.Amount), FormatPercent(li.RatePercentOfBase)})
	}

	var b strings.Builder
	b.WriteString(RenderTable(t))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Total tax:       %s\n", amountStyle.Render(domain.FormatUSD(res.TotalTax)))
	fmt.Fprintf(&b, "  Effective rate:  %s\n", FormatPercent(res.EffectiveRatePercent))
	if !res.TotalContributions.IsZero() {
		fmt.Fprintf(&b, "  Contributions:   %s %s\n", domain.FormatUSD(res.TotalContributions),
			mutedStyle.Render("(* payroll, not part of the total)"))
	}
	for _, s := range res.Insights {
		b.WriteString("\n  ")
		b.WriteString(mutedStyle.Render("• " + s))
	}
	if len(res.Insights) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func modeTitle(m domain.Mode) string {
	if m == "" {
		return "Estimated"
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// RenderJurisdictions renders a schedule's rate table.
func RenderJurisdictions(schedule string, rows []service.JurisdictionRates) string {
	t := Table{
		Title:   "Jurisdictions (" + schedule + " schedule)",
		Headers: []string{"Code", "Income", "Sales", "Property"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			string(r.Code),
			FormatPercent(r.IncomePercent),
			FormatPercent(r.SalesPercent),
			FormatPercent(r.PropertyPercent),
		})
	}
	return RenderTable(t)
}

// RenderHistory renders saved estimates, newest first.
func RenderHistory(entries []domain.HistoryEntry) string {
	t := Table{
		Title:   "Recent estimates",
		Headers: []string{"When", "Mode", "Region", "Base", "Total tax", "Rate"},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(e.Input.Mode),
			e.Input.Jurisdiction,
			domain.FormatUSD(e.Result.Base),
			domain.FormatUSD(e.Result.TotalTax),
			FormatPercent(e.Result.EffectiveRatePercent),
		})
	}
	return RenderTable(t)
}
