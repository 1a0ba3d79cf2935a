package document

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON dumps the paginated geometry as JSON for inspection
// or visualization.
func WriteDebugJSON(doc *Document, path string) error {
	if doc == nil {
		return nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
