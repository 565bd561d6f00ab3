package excel

import (
	"encoding/json"
	"fmt"
	"io"

	"biodash/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// Write lays a dataset out as a workbook readable by WorkbookSource.
func Write(w io.Writer, ds *dataset.Dataset) error {
	f, err := build(ds)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// WriteFile saves a dataset workbook to path.
func WriteFile(path string, ds *dataset.Dataset) error {
	f, err := build(ds)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func build(ds *dataset.Dataset) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetNames); err != nil {
		f.Close()
		return nil, err
	}
	for _, sheet := range []string{SheetMetadata, SheetSamples} {
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := writeNames(f, ds.Names); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeMetadata(f, ds.Metadata); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSamples(f, ds.Names, ds.Samples); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeNames(f *excelize.File, names []string) error {
	if err := setRow(f, SheetNames, 1, []interface{}{"name"}); err != nil {
		return err
	}
	for i, name := range names {
		if err := setRow(f, SheetNames, i+2, []interface{}{name}); err != nil {
			return err
		}
	}
	return nil
}

// writeMetadata uses the union of keys in first-seen order as the header.
func writeMetadata(f *excelize.File, records []dataset.MetadataRecord) error {
	var headers []string
	column := make(map[string]int)
	for _, record := range records {
		for _, field := range record.Fields {
			if _, ok := column[field.Key]; !ok {
				column[field.Key] = len(headers)
				headers = append(headers, field.Key)
			}
		}
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := setRow(f, SheetMetadata, 1, header); err != nil {
		return err
	}

	for i, record := range records {
		row := make([]interface{}, len(headers))
		for j := range row {
			row[j] = ""
		}
		for _, field := range record.Fields {
			row[column[field.Key]] = cellFor(field.Value)
		}
		if err := setRow(f, SheetMetadata, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSamples(f *excelize.File, names []string, samples []dataset.SampleRecord) error {
	if err := setRow(f, SheetSamples, 1, []interface{}{ColumnSubject, ColumnOTUID, ColumnOTULabel, ColumnSampleValue}); err != nil {
		return err
	}
	line := 2
	for i, sample := range samples {
		if i >= len(names) {
			return fmt.Errorf("sample %d has no subject name", i)
		}
		for j := 0; j < sample.Len(); j++ {
			label := ""
			if j < len(sample.OTULabels) {
				label = sample.OTULabels[j]
			}
			var value float64
			if j < len(sample.SampleValues) {
				value = sample.SampleValues[j]
			}
			if err := setRow(f, SheetSamples, line, []interface{}{names[i], sample.OTUIDs[j], label, value}); err != nil {
				return err
			}
			line++
		}
	}
	return nil
}

func cellFor(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nullCell
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		return val
	}
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
