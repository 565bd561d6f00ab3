package ports

import (
	"context"
	"io"
)

// ExportTarget receives rendered files from the static export.
type ExportTarget interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	// Describe returns a human readable location, e.g. "s3://bucket/prefix".
	Describe() string
}
