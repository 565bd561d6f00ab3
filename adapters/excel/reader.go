package excel

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"biodash/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// WorkbookSource loads a dataset from an .xlsx workbook with a names, a
// metadata and a samples sheet.
type WorkbookSource struct {
	filePath string
}

// NewWorkbookSource creates a workbook source
func NewWorkbookSource(filePath string) *WorkbookSource {
	return &WorkbookSource{filePath: filePath}
}

func (r *WorkbookSource) Name() string     { return "excel" }
func (r *WorkbookSource) Location() string { return r.filePath }

// Load reads the three sheets and assembles the dataset. Sample rows are
// grouped by subject and ordered like the names sheet.
func (r *WorkbookSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Printf("[WorkbookSource] Starting to read workbook: %s", r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("workbook not found: %s", r.filePath)
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	names, err := readSheet(f, SheetNames)
	if err != nil {
		return nil, err
	}
	metadata, err := readSheet(f, SheetMetadata)
	if err != nil {
		return nil, err
	}
	samples, err := readSheet(f, SheetSamples)
	if err != nil {
		return nil, err
	}

	ds := &dataset.Dataset{}
	for _, row := range names.Rows {
		if name := row[names.Headers[0]]; name != "" {
			ds.Names = append(ds.Names, name)
		}
	}
	for _, row := range metadata.Rows {
		ds.Metadata = append(ds.Metadata, metadataFromRow(metadata.Headers, row))
	}
	ds.Samples, err = groupSamples(ds.Names, samples)
	if err != nil {
		return nil, err
	}

	log.Printf("[WorkbookSource] Workbook processed in %.2fms (%d subjects, %d sample rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(ds.Names), len(samples.Rows))
	return ds, nil
}

// readSheet converts a sheet into header/row form
func readSheet(f *excelize.File, sheet string) (*SheetData, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("sheet %q must have a header row", sheet)
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	data := &SheetData{Headers: headers}
	for i := 1; i < len(rows); i++ {
		rowData := make(RawRowData)
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		if len(rowData) == 0 {
			continue
		}
		data.Rows = append(data.Rows, rowData)
	}
	return data, nil
}

// metadataFromRow keeps header order. Empty cells are absent fields.
func metadataFromRow(headers []string, row RawRowData) dataset.MetadataRecord {
	var record dataset.MetadataRecord
	for _, key := range headers {
		cell, ok := row[key]
		if !ok || cell == "" {
			continue
		}
		record.Fields = append(record.Fields, dataset.Field{Key: key, Value: cellValue(cell)})
	}
	return record
}

// cellValue turns a cell into a metadata scalar: null, number or string.
func cellValue(cell string) interface{} {
	if cell == nullCell {
		return nil
	}
	if _, err := strconv.ParseFloat(cell, 64); err == nil && json.Valid([]byte(cell)) {
		return json.Number(cell)
	}
	return cell
}

func groupSamples(names []string, sheet *SheetData) ([]dataset.SampleRecord, error) {
	for _, col := range []string{ColumnSubject, ColumnOTUID, ColumnOTULabel, ColumnSampleValue} {
		if !hasHeader(sheet.Headers, col) {
			return nil, fmt.Errorf("sheet %q is missing column %q", SheetSamples, col)
		}
	}

	bySubject := make(map[string]*dataset.SampleRecord, len(names))
	for _, name := range names {
		bySubject[name] = &dataset.SampleRecord{
			ID:           name,
			OTUIDs:       []int{},
			OTULabels:    []string{},
			SampleValues: []float64{},
		}
	}

	for i, row := range sheet.Rows {
		line := i + 2
		record, ok := bySubject[row[ColumnSubject]]
		if !ok {
			return nil, fmt.Errorf("%s row %d: unknown subject %q", SheetSamples, line, row[ColumnSubject])
		}
		id, err := strconv.Atoi(row[ColumnOTUID])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid %s %q", SheetSamples, line, ColumnOTUID, row[ColumnOTUID])
		}
		value, err := strconv.ParseFloat(row[ColumnSampleValue], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid %s %q", SheetSamples, line, ColumnSampleValue, row[ColumnSampleValue])
		}
		record.OTUIDs = append(record.OTUIDs, id)
		record.OTULabels = append(record.OTULabels, row[ColumnOTULabel])
		record.SampleValues = append(record.SampleValues, value)
	}

	samples := make([]dataset.SampleRecord, 0, len(names))
	for _, name := range names {
		samples = append(samples, *bySubject[name])
	}
	return samples, nil
}

func hasHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
