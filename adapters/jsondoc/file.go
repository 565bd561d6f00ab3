package jsondoc

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"biodash/domain/dataset"
)

// FileSource loads the document from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource creates a file source for a samples.json path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string     { return "file" }
func (s *FileSource) Location() string { return s.path }

// Load reads and decodes the file.
func (s *FileSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	ds, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	log.Printf("[FileSource] Decoded %d subjects from %s in %.2fms", ds.Len(), s.path, float64(time.Since(startTime).Microseconds())/1000)
	return ds, nil
}
