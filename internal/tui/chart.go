package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/akakileti/nestegg/internal/domain"
	"github.com/akakileti/nestegg/internal/output"
)

// chartSeries is one plotted line. Points are nominal or real balances,
// already converted to float64 for plotting only.
type chartSeries struct {
	name   string
	points []float64
	color  lipgloss.Color
}

// BalanceChart plots the three scenario bands over age.
type BalanceChart struct {
	Title  string
	Width  int
	Height int

	series []chartSeries
	ages   []int
}

// NewBalanceChart builds a chart from a projection result. When real is
// true the inflation-adjusted balances are plotted instead of the nominal
// ones.
func NewBalanceChart(result *domain.ProjectionResult, real bool) *BalanceChart {
	c := &BalanceChart{
		Title:  "Projected balance by age (nominal)",
		Width:  72,
		Height: 16,
	}
	if real {
		c.Title = "Projected balance by age (real)"
	}

	for i := range result.Scenarios {
		s := &result.Scenarios[i]
		points := make([]float64, len(s.Points))
		for j, pt := range s.Points {
			v := pt.Nominal
			if real {
				v = pt.Real
			}
			points[j] = v.InexactFloat64()
		}
		c.series = append(c.series, chartSeries{
			name:   s.Label,
			points: points,
			color:  output.ScenarioColor(s.Kind),
		})
		if len(c.ages) == 0 {
			for _, pt := range s.Points {
				c.ages = append(c.ages, pt.Age)
			}
		}
	}
	return c
}

// Render returns the styled chart.
func (c *BalanceChart) Render() string {
	if len(c.series) == 0 {
		return mutedStyle.Render("no data to display")
	}

	var b strings.Builder
	b.WriteString(chartTitleStyle.Render(c.Title))
	b.WriteString("\n\n")

	lo, hi := c.valueRange()
	b.WriteString(c.renderGrid(lo, hi))
	b.WriteString("\n")
	b.WriteString(c.renderLegend())

	return b.String()
}

func (c *BalanceChart) valueRange() (float64, float64) {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, s := range c.series {
		for _, p := range s.points {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}
	if !(hi > lo) {
		// Flat or empty data still needs a nonzero span.
		hi = lo + 1
	}
	pad := (hi - lo) * 0.1
	return lo - pad, hi + pad
}

func (c *BalanceChart) renderGrid(lo, hi float64) string {
	const yAxisWidth = 10
	plotWidth := c.Width - yAxisWidth
	if plotWidth < 10 {
		plotWidth = 10
	}

	grid := make([][]rune, c.Height)
	for i := range grid {
		grid[i] = make([]rune, plotWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for idx, s := range c.series {
		if len(s.points) < 2 {
			continue
		}
		mark := seriesMark(idx)
		prevX, prevY := -1, -1
		for i, p := range s.points {
			x := i * (plotWidth - 1) / (len(s.points) - 1)
			y := c.Height - 1 - int((p-lo)/(hi-lo)*float64(c.Height-1))
			if prevX >= 0 {
				plotLine(grid, prevX, prevY, x, y, mark)
			}
			grid[y][x] = mark
			prevX, prevY = x, y
		}
	}

	axisStyle := mutedStyle.Width(yAxisWidth).Align(lipgloss.Right)
	var b strings.Builder
	for i, row := range grid {
		yValue := hi - float64(i)/float64(c.Height-1)*(hi-lo)
		b.WriteString(axisStyle.Render(axisValue(yValue)))
		b.WriteString(" │ ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", yAxisWidth))
	b.WriteString(" └")
	b.WriteString(strings.Repeat("─", plotWidth))
	b.WriteString("\n")
	b.WriteString(c.renderAgeLabels(yAxisWidth, plotWidth))
	return b.String()
}

func (c *BalanceChart) renderAgeLabels(yAxisWidth, plotWidth int) string {
	if len(c.ages) < 2 {
		return ""
	}
	first := fmt.Sprintf("%d", c.ages[0])
	last := fmt.Sprintf("%d", c.ages[len(c.ages)-1])
	gap := plotWidth - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}
	return mutedStyle.Render(strings.Repeat(" ", yAxisWidth+3) + first + strings.Repeat(" ", gap) + last)
}

func (c *BalanceChart) renderLegend() string {
	items := make([]string, len(c.series))
	for i, s := range c.series {
		mark := lipgloss.NewStyle().Foreground(s.color).Render(string(seriesMark(i)))
		items[i] = mark + " " + s.name
	}
	return mutedStyle.Render(strings.Join(items, "   "))
}

func seriesMark(index int) rune {
	marks := []rune{'●', '■', '▲', '♦'}
	return marks[index%len(marks)]
}

// plotLine connects two grid cells with Bresenham's algorithm, leaving any
// already-set cell alone.
func plotLine(grid [][]rune, x0, y0, x1, y1 int, mark rune) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	x, y := x0, y0
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[0]) && grid[y][x] == ' ' {
			grid[y][x] = mark
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// axisValue abbreviates a dollar amount for the Y axis.
func axisValue(v float64) string {
	switch {
	case math.Abs(v) >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case math.Abs(v) >= 1e3:
		return fmt.Sprintf("$%.0fK", v/1e3)
	}
	return fmt.Sprintf("$%.0f", v)
}

func formatFinal(v decimal.Decimal) string {
	return axisValue(v.InexactFloat64())
}
