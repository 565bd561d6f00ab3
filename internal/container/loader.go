package container

import (
	"context"
	stderrors "errors"
	"time"

	"biodash/domain/core"
	"biodash/domain/dataset"
	"biodash/internal"
	"biodash/internal/errors"
	"biodash/ports"
)

// LoadDataset fetches the document from src within timeout, validates it and
// stamps its Info. Missing wash frequencies are logged, not rejected.
//
// Errors carry DATASET_UNAVAILABLE when the source could not be read and
// DATASET_INVALID when the document fails validation.
func LoadDataset(ctx context.Context, src ports.DatasetSource, timeout time.Duration, logger *internal.Logger) (*dataset.Dataset, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	log := logger.With("DatasetLoader")

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	log.Info("Loading dataset from %s source %s", src.Name(), src.Location())

	ds, err := src.Load(ctx)
	if err != nil {
		log.Error("Dataset load failed: %v", err)
		return nil, errors.DatasetUnavailable(src.Name(), stderrors.Join(core.ErrDatasetUnavailable, err))
	}
	if ds == nil {
		return nil, errors.DatasetUnavailable(src.Name(), core.ErrDatasetUnavailable)
	}

	if err := ds.Validate(); err != nil {
		log.Error("Dataset failed validation: %v", err)
		return nil, errors.DatasetInvalid(err)
	}

	ds.Info.ID = core.NewDatasetID()
	ds.Info.Source = src.Name()
	ds.Info.Location = src.Location()
	ds.Info.LoadedAt = time.Now().UTC()

	if missing := ds.MissingWashFrequency(); len(missing) > 0 {
		log.Warn("%d subjects have no numeric %s; their gauge shows no needle: %v",
			len(missing), dataset.WashFrequencyField, missing)
	}

	log.Info("Loaded %d subjects (snapshot %s, fingerprint %s) in %s",
		ds.Len(), ds.Info.ID, ds.Info.Fingerprint.Short(), time.Since(start).Round(time.Millisecond))
	return ds, nil
}
