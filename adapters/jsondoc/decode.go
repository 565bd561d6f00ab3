// Package jsondoc reads the samples.json document from a local file or an
// HTTP endpoint.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"biodash/domain/core"
	"biodash/domain/dataset"
)

// maxDocumentSize bounds how much of a response body is read.
const maxDocumentSize = 64 << 20

// Decode reads a whole samples document and fingerprints the raw bytes.
func Decode(r io.Reader) (*dataset.Dataset, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentSize)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes a samples document already in memory.
func DecodeBytes(data []byte) (*dataset.Dataset, error) {
	var ds dataset.Dataset
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode samples document: %w", err)
	}
	ds.Info.Fingerprint = core.NewHash(data)
	return &ds, nil
}

// Encode writes a dataset as a samples document.
func Encode(w io.Writer, ds *dataset.Dataset) error {
	enc := json.NewEncoder(w)
	return enc.Encode(ds)
}
