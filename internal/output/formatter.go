// Package output renders projection results for people and programs. The
// engine stays presentation-free; scenario display colors live here.
package output

import (
	"fmt"
	"io"

	"github.com/akakileti/nestegg/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Formatter renders a projection result into bytes.
type Formatter interface {
	Name() string
	Format(result *domain.ProjectionResult) ([]byte, error)
}

// ScenarioColor returns the display color for a band. Cosmetic only.
func ScenarioColor(kind domain.ScenarioKind) lipgloss.Color {
	switch kind {
	case domain.ScenarioMin:
		return lipgloss.Color("9") // red
	case domain.ScenarioMax:
		return lipgloss.Color("10") // green
	}
	return lipgloss.Color("12") // blue
}

// NewFormatter resolves a format name to a formatter.
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "console", "":
		return ConsoleFormatter{}, nil
	case "csv":
		return CSVFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want console, csv or json)", format)
}

// GenerateReport formats the result and writes it to w.
func GenerateReport(w io.Writer, result *domain.ProjectionResult, format string) error {
	formatter, err := NewFormatter(format)
	if err != nil {
		return err
	}
	data, err := formatter.Format(result)
	if err != nil {
		return fmt.Errorf("formatting %s report: %w", formatter.Name(), err)
	}
	_, err = w.Write(data)
	return err
}
