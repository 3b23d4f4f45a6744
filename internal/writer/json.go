package writer

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveJSON writes v as indented JSON to path, replacing any prior file. Used
// for the one-shot metadata snapshots (contract detail, ticker, depth), which
// are point-in-time documents rather than append-only series.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
