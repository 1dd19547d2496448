package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/akakileti/nestegg/internal/domain"
)

// CSVFormatter writes one row per scenario-year, suitable for spreadsheets.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"scenario", "age", "year", "contribution", "spending", "nominal_balance", "real_balance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range result.Scenarios {
		series := &result.Scenarios[i]
		for _, pt := range series.Points {
			row := []string{
				string(series.Kind),
				strconv.Itoa(pt.Age),
				strconv.Itoa(pt.Year),
				pt.Contribution.StringFixed(2),
				pt.Spending.StringFixed(2),
				pt.Nominal.StringFixed(2),
				pt.Real.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
