package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/invoicer/invoicer/internal/domain"
)

// displayDate is how dates appear in terminal output.
const displayDate = "02-Jan-2006"

// ── warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	amountStyle   = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderPlan lists the billing periods of one invoice series.
func RenderPlan(kind domain.Kind, periods []domain.BillingPeriod) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + headerStyle.Render(strings.ToUpper(string(kind))+" invoices") + "\n")
	b.WriteString("  " + separatorLine + "\n")

	if len(periods) == 0 {
		b.WriteString("  " + dimStyle.Render("No billing periods yet.") + "\n")
		return b.String()
	}

	for _, p := range periods {
		seq := titleStyle.Render(fmt.Sprintf("#%-3d", p.Sequence))
		span := fmt.Sprintf("%s to %s", p.PeriodStart.Format(displayDate), p.PeriodEnd.Format(displayDate))
		fmt.Fprintf(&b, "  %s %s  %s  %s\n",
			seq,
			p.Month.String(),
			dimStyle.Render(span),
			faintStyle.Render("issued "+p.IssueDate.Format(displayDate)))
	}
	return b.String()
}

// RenderRate shows a resolved rate with both its requested and resolved days.
func RenderRate(rate domain.ExchangeRate) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  %s\n", headerStyle.Render(rate.Pair.String()), amountStyle.Render(effective(rate)))

	if rate.Inverted() {
		fmt.Fprintf(&b, "  %s %s %s\n", dimStyle.Render(padRight("published", 10)), rate.Published, rate.Rate.String())
	}
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(padRight("requested", 10)), rate.RequestedDate.Format(domain.DateLayout))

	resolved := rate.ResolvedDate.Format(domain.DateLayout)
	if rate.Fallback() {
		days := int(rate.RequestedDate.Sub(rate.ResolvedDate).Hours() / 24)
		resolved += "  " + warnStyle.Render(fmt.Sprintf("%d day(s) earlier", days))
	}
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(padRight("resolved", 10)), resolved)
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(padRight("source", 10)), rate.Source)
	return b.String()
}

// effective is the rate expressed on the requested pair.
func effective(rate domain.ExchangeRate) string {
	if !rate.Inverted() {
		return rate.Rate.String()
	}
	return rate.Convert(decimal.NewFromInt(1)).Round(8).String()
}

// RenderReport summarizes a generation run.
func RenderReport(report *domain.RunReport, tokenPrecision int) string {
	var b strings.Builder
	b.WriteString("\n")

	if len(report.Outcomes) == 0 {
		b.WriteString("  " + dimStyle.Render("Nothing to generate.") + "\n")
		return b.String()
	}

	for _, o := range report.Outcomes {
		label := fmt.Sprintf("%-5s #%-3d %s", o.Kind, o.Period.Sequence, o.Period.Month)
		switch o.Status {
		case domain.StatusGenerated:
			fmt.Fprintf(&b, "  %s %s  %s  %s\n",
				passStyle.Render("●"), label, amounts(o.Invoice, tokenPrecision), fileStyle.Render(shortenPath(o.Path)))
			if o.PDFPath != "" {
				fmt.Fprintf(&b, "      %s\n", fileStyle.Render(shortenPath(o.PDFPath)))
			}
		case domain.StatusSkipped:
			fmt.Fprintf(&b, "  %s %s  %s\n",
				skipStyle.Render("○"), skipStyle.Render(label), skipStyle.Render("exists "+shortenPath(o.Path)))
		default:
			fmt.Fprintf(&b, "  %s %s  %s\n", failStyle.Render("✗"), label, errorTagStyle.Render("failed"))
			fmt.Fprintf(&b, "      %s\n", dimStyle.Render(o.Error))
		}
	}

	b.WriteString("\n  " + separatorLine + "\n")
	fmt.Fprintf(&b, "  %s  %s  %s\n",
		passStyle.Render(fmt.Sprintf("%d generated", report.Count(domain.StatusGenerated))),
		skipStyle.Render(fmt.Sprintf("%d skipped", report.Count(domain.StatusSkipped))),
		failureCount(report.Count(domain.StatusFailed)))
	if report.ConfigRevision != "" {
		fmt.Fprintf(&b, "  %s\n", faintStyle.Render("config at "+domain.ShortRevision(report.ConfigRevision)))
	}
	return b.String()
}

func failureCount(n int) string {
	text := fmt.Sprintf("%d failed", n)
	if n > 0 {
		return failStyle.Render(text)
	}
	return dimStyle.Render(text)
}

// amounts lists the invoice total in EUR, followed by the token amount on
// token invoices.
func amounts(inv *domain.Invoice, tokenPrecision int) string {
	if inv == nil {
		return ""
	}
	parts := []string{formatMoney(inv, domain.EUR, tokenPrecision)}
	for c := range inv.Converted {
		if c != domain.EUR {
			parts = append(parts, formatMoney(inv, c, tokenPrecision))
		}
	}
	return amountStyle.Render(strings.Join(parts, " = "))
}

func formatMoney(inv *domain.Invoice, c domain.Currency, tokenPrecision int) string {
	return domain.FormatAmount(inv.Amount(c), domain.DisplayPrecision(c, tokenPrecision)) + " " + string(c)
}

// RenderConversions lists PDF conversion results.
func RenderConversions(convs []domain.Conversion) string {
	var b strings.Builder
	b.WriteString("\n")
	if len(convs) == 0 {
		b.WriteString("  " + dimStyle.Render("No HTML invoices to convert.") + "\n")
		return b.String()
	}

	failed := 0
	for _, c := range convs {
		if c.Err != nil || c.Error != "" {
			failed++
			fmt.Fprintf(&b, "  %s %s\n", failStyle.Render("✗"), fileStyle.Render(shortenPath(c.HTMLPath)))
			fmt.Fprintf(&b, "      %s\n", dimStyle.Render(c.Error))
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", passStyle.Render("●"), shortenPath(c.PDFPath))
	}

	b.WriteString("\n  " + separatorLine + "\n")
	fmt.Fprintf(&b, "  %s  %s\n",
		passStyle.Render(fmt.Sprintf("%d converted", len(convs)-failed)),
		failureCount(failed))
	return b.String()
}

// shortenPath keeps the kind directory and file name.
func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 2 {
		return strings.Join(parts[len(parts)-2:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
