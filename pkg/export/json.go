package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soundprediction/medgraph/pkg/graph"
)

// WriteJSON saves a graph document to path, creating parent directories as
// needed. The file is written atomically via a temporary sibling.
func WriteJSON(path string, doc graph.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode graph document: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write graph document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write graph document: %w", err)
	}
	return nil
}

// ReadJSON loads a graph document previously written by WriteJSON.
func ReadJSON(path string) (graph.Document, error) {
	var doc graph.Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read graph document: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode graph document: %w", err)
	}
	return doc, nil
}
