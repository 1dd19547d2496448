package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/akakileti/nestegg/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	depleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// ConsoleFormatter renders a human-readable summary plus a year table for
// each scenario band.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}

	buf.WriteString(titleStyle.Render("Savings Projection"))
	buf.WriteString("\n\n")

	for i := range result.Scenarios {
		series := &result.Scenarios[i]
		style := lipgloss.NewStyle().Bold(true).Foreground(ScenarioColor(series.Kind))
		fmt.Fprintf(buf, "%s  %s\n",
			style.Render(fmt.Sprintf("%-11s", series.Label)),
			mutedStyle.Render(fmt.Sprintf("growth %s  inflation %s",
				formatRate(series.Rates.GrowthRate), formatRate(series.Rates.InflationRate))))

		fmt.Fprintf(buf, "  final balance: %s nominal / %s real\n",
			formatMoney(series.FinalBalance()), formatMoney(lastReal(series)))
		if age := series.DepletionAge(); age >= 0 {
			fmt.Fprintf(buf, "  %s\n", depleteStyle.Render(fmt.Sprintf("depletes at age %d", age)))
		}
		buf.WriteString("\n")
	}

	avg := result.Series(domain.ScenarioAvg)
	if avg != nil && len(avg.Points) > 0 {
		buf.WriteString(headerStyle.Render(fmt.Sprintf("%5s %6s %14s %14s %14s %14s", "Age", "Year", "Contribution", "Spending", "Nominal", "Real")))
		buf.WriteString("\n")
		for _, pt := range avg.Points {
			fmt.Fprintf(buf, "%5d %6d %14s %14s %14s %14s\n",
				pt.Age, pt.Year,
				formatMoney(pt.Contribution), formatMoney(pt.Spending),
				formatMoney(pt.Nominal), formatMoney(pt.Real))
		}
		buf.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		buf.WriteString(warnStyle.Render("Warnings:"))
		buf.WriteString("\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(buf, "  - %s\n", w)
		}
	}

	return buf.Bytes(), nil
}

func lastReal(series *domain.ScenarioSeries) decimal.Decimal {
	if len(series.Points) == 0 {
		return decimal.Zero
	}
	return series.Points[len(series.Points)-1].Real
}

func formatRate(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// formatMoney renders a dollar amount with thousands separators.
func formatMoney(value decimal.Decimal) string {
	s := value.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}
