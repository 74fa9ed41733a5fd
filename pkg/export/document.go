package export

// Document is an advice report prepared for download rendering. Fields
// hold the summary metrics shown as a two column table and Sections hold
// the free form advice text.
type Document struct {
	Title    string
	Subtitle string
	Fields   []Field
	Sections []Section
}

// Field is a single labeled metric row.
type Field struct {
	Label string
	Value string
}

// Section is a titled block of paragraphs.
type Section struct {
	Heading    string
	Paragraphs []string
}

// Empty reports whether the document carries no renderable content.
func (d Document) Empty() bool {
	return len(d.Fields) == 0 && len(d.Sections) == 0
}
