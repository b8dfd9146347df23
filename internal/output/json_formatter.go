package output

import (
	"encoding/json"

	"github.com/finpath/projection-engine/internal/domain"
)

// JSONFormatter serializes the report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string      { return "json" }
func (j JSONFormatter) Extension() string { return "json" }

func (j JSONFormatter) Format(r *domain.ProjectionReport) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
