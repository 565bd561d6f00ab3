package excel

// Sheet names of a dataset workbook.
const (
	SheetNames    = "names"
	SheetMetadata = "metadata"
	SheetSamples  = "samples"
)

// Column headers of the samples sheet. Each row is one taxon of one subject.
const (
	ColumnSubject     = "subject"
	ColumnOTUID       = "otu_id"
	ColumnOTULabel    = "otu_label"
	ColumnSampleValue = "sample_value"
)

// nullCell marks an explicit null metadata value.
const nullCell = "null"

// RawRowData represents a row of a sheet as header/cell pairs
type RawRowData map[string]string

// SheetData is one sheet split into its header row and data rows.
type SheetData struct {
	Headers []string     // Column headers in sheet order
	Rows    []RawRowData // Data rows
}
