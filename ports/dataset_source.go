package ports

import (
	"context"

	"biodash/domain/dataset"
)

// DatasetSource fetches the sample document once. Implementations decode it
// but do not validate it; the loader validates every source the same way.
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
	// Name identifies the source in logs and dataset info, e.g. "file".
	Name() string
	// Location describes where the document comes from, e.g. a path or URL.
	Location() string
}
