package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title:    "Reading Report - Mia Tan",
		Subtitle: "week of 2024-05-13 to 2024-05-19",
		Fields: []Field{
			{Label: "Total readings", Value: "10"},
			{Label: "Average score", Value: "7.5"},
		},
		Sections: []Section{
			{Heading: "Advice", Paragraphs: []string{"Hi Mia!", "Keep it up."}},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	content, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, []string{"Field", "Value"}, records[0])
	assert.Equal(t, []string{"Report", "Reading Report - Mia Tan"}, records[1])
	assert.Equal(t, []string{"Total readings", "10"}, records[2])
	assert.Equal(t, []string{"Advice 1", "Hi Mia!"}, records[4])
	assert.Equal(t, []string{"Advice 2", "Keep it up."}, records[5])
}

func TestCSVExporterRejectsEmptyDocument(t *testing.T) {
	_, err := NewCSVExporter().Render(Document{Title: "empty"})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	content, err := NewPDFExporter().Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
	assert.Greater(t, len(content), 500)
}

func TestPDFExporterRejectsEmptyDocument(t *testing.T) {
	_, err := NewPDFExporter().Render(Document{})
	assert.Error(t, err)
}
