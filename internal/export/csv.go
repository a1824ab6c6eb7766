package export

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Serializer writes a generic table to a format-specific file.
type Serializer interface {
	// Ext is the file extension without the dot.
	Ext() string
	Write(t Table, path string) error
}

// Serializers lists the available output formats in display order.
var Serializers = []Serializer{CSVSerializer{}, JSONSerializer{}}

// CSVSerializer writes RFC 4180 CSV with a header row.
type CSVSerializer struct{}

func (CSVSerializer) Ext() string { return "csv" }

func (CSVSerializer) Write(t Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
