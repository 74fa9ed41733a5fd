package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVExporter serialises report documents into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render writes the document as field,value records. Section paragraphs
// follow the metric rows, labeled by their heading and position.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	if doc.Empty() {
		return nil, fmt.Errorf("csv export requires a non-empty document")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write([]string{"Field", "Value"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if doc.Title != "" {
		if err := writer.Write([]string{"Report", doc.Title}); err != nil {
			return nil, fmt.Errorf("write csv title: %w", err)
		}
	}
	for _, field := range doc.Fields {
		if err := writer.Write([]string{field.Label, field.Value}); err != nil {
			return nil, fmt.Errorf("write csv field: %w", err)
		}
	}
	for _, section := range doc.Sections {
		for i, paragraph := range section.Paragraphs {
			label := section.Heading
			if len(section.Paragraphs) > 1 {
				label = section.Heading + " " + strconv.Itoa(i+1)
			}
			if err := writer.Write([]string{label, paragraph}); err != nil {
				return nil, fmt.Errorf("write csv section: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
