package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/galaxy/internal/galaxy"
)

type ExportData struct {
	Params    galaxy.Params      `json:"params"`
	Count     int                `json:"count"`
	Positions []float32          `json:"positions"`
	Colors    []float32          `json:"colors,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// JSON writes f as a single indented JSON document.
func JSON(w io.Writer, f *galaxy.Field, metrics map[string]float64) error {
	data := ExportData{
		Params:    f.Params,
		Count:     f.Len(),
		Positions: f.Positions,
		Colors:    f.Colors,
		Metrics:   metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
