package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// WriteJSON writes the full report, including unmatched inventory, as
// indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
