package output

import (
	"github.com/akakileti/nestegg/internal/domain"
	json "github.com/goccy/go-json"
)

// JSONFormatter emits the full projection result as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
