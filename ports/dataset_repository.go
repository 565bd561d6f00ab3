package ports

import (
	"context"

	"biodash/domain/dataset"
)

// DatasetRepository stores a dataset in a database and reads it back as a
// DatasetSource.
type DatasetRepository interface {
	DatasetSource

	// Replace stores ds as the current dataset, discarding the previous one.
	Replace(ctx context.Context, ds *dataset.Dataset) error
	// Count returns the number of stored subjects.
	Count(ctx context.Context) (int, error)
}
