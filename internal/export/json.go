package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type jsonExport struct {
	ExportedAt string              `json:"exported_at"`
	Count      int                 `json:"count"`
	Headers    []string            `json:"headers"`
	Rows       []map[string]string `json:"rows"`
}

// JSONSerializer writes the table as pretty-printed JSON, one object
// per row keyed by header name.
type JSONSerializer struct{}

func (JSONSerializer) Ext() string { return "json" }

func (JSONSerializer) Write(t Table, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(t.Rows),
		Headers:    t.Headers,
	}
	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				obj[h] = row[i]
			}
		}
		out.Rows = append(out.Rows, obj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
