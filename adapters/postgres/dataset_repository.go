// Package postgres stores the sample dataset in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"biodash/domain/core"
	"biodash/domain/dataset"
	"biodash/ports"

	"github.com/jmoiron/sqlx"
)

// subjectRow is one subject; metadata is kept as the JSON object text so
// its key order survives (JSON, not JSONB).
type subjectRow struct {
	Position int    `db:"position"`
	Name     string `db:"name"`
	Metadata string `db:"metadata"`
}

type sampleRow struct {
	SubjectPosition int     `db:"subject_position"`
	Rank            int     `db:"rank"`
	OTUID           int     `db:"otu_id"`
	OTULabel        string  `db:"otu_label"`
	SampleValue     float64 `db:"sample_value"`
}

type importRow struct {
	ID           string    `db:"id"`
	Source       string    `db:"source"`
	Location     string    `db:"location"`
	Fingerprint  string    `db:"fingerprint"`
	SubjectCount int       `db:"subject_count"`
	ImportedAt   time.Time `db:"imported_at"`
}

// datasetRepository implements the DatasetRepository interface
type datasetRepository struct {
	db       *sqlx.DB
	location string
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB, location string) ports.DatasetRepository {
	return &datasetRepository{db: db, location: location}
}

func (r *datasetRepository) Name() string     { return "postgres" }
func (r *datasetRepository) Location() string { return r.location }

// Replace stores ds as the only dataset in a single transaction
func (r *datasetRepository) Replace(ctx context.Context, ds *dataset.Dataset) error {
	subjects, samples, err := toRows(ds)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subject_samples`); err != nil {
		return fmt.Errorf("failed to clear samples: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subjects`); err != nil {
		return fmt.Errorf("failed to clear subjects: %w", err)
	}

	for _, s := range subjects {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO subjects (position, name, metadata) VALUES (:position, :name, :metadata)`, s); err != nil {
			return fmt.Errorf("failed to insert subject %d: %w", s.Position, err)
		}
	}
	for _, s := range samples {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO subject_samples
			(subject_position, rank, otu_id, otu_label, sample_value)
			VALUES (:subject_position, :rank, :otu_id, :otu_label, :sample_value)`, s); err != nil {
			return fmt.Errorf("failed to insert sample row %d/%d: %w", s.SubjectPosition, s.Rank, err)
		}
	}

	imp := importRow{
		ID:           core.NewDatasetID().String(),
		Source:       ds.Info.Source,
		Location:     ds.Info.Location,
		Fingerprint:  ds.Info.Fingerprint.String(),
		SubjectCount: len(subjects),
		ImportedAt:   time.Now().UTC(),
	}
	if _, err := tx.NamedExecContext(ctx, `INSERT INTO dataset_imports
		(id, source, location, fingerprint, subject_count, imported_at)
		VALUES (:id, :source, :location, :fingerprint, :subject_count, :imported_at)`, imp); err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}
	return nil
}

// Load reads every subject in position order
func (r *datasetRepository) Load(ctx context.Context) (*dataset.Dataset, error) {
	var subjects []subjectRow
	err := r.db.SelectContext(ctx, &subjects, `
		SELECT position, name, metadata::text AS metadata
		FROM subjects
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subjects: %w", err)
	}

	var samples []sampleRow
	err = r.db.SelectContext(ctx, &samples, `
		SELECT subject_position, rank, otu_id, otu_label, sample_value
		FROM subject_samples
		ORDER BY subject_position, rank
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}

	ds, err := fromRows(subjects, samples)
	if err != nil {
		return nil, err
	}

	var fingerprint string
	err = r.db.GetContext(ctx, &fingerprint, `
		SELECT fingerprint FROM dataset_imports ORDER BY imported_at DESC LIMIT 1
	`)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read latest import: %w", err)
	}
	ds.Info.Fingerprint = core.Hash(fingerprint)
	return ds, nil
}

// Count returns the number of stored subjects
func (r *datasetRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM subjects`); err != nil {
		return 0, fmt.Errorf("failed to count subjects: %w", err)
	}
	return count, nil
}

func toRows(ds *dataset.Dataset) ([]subjectRow, []sampleRow, error) {
	if ds.Len() != len(ds.Metadata) || ds.Len() != len(ds.Samples) {
		return nil, nil, core.ErrMisalignedDataset
	}

	subjects := make([]subjectRow, 0, ds.Len())
	var samples []sampleRow
	for i, name := range ds.Names {
		metadata, err := ds.Metadata[i].MarshalJSON()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal metadata for %s: %w", name, err)
		}
		subjects = append(subjects, subjectRow{Position: i, Name: name, Metadata: string(metadata)})

		sample := ds.Samples[i]
		if len(sample.OTULabels) != sample.Len() || len(sample.SampleValues) != sample.Len() {
			return nil, nil, core.NewMisalignedSampleError(i, sample.Len(), len(sample.OTULabels), len(sample.SampleValues))
		}
		for j, id := range sample.OTUIDs {
			samples = append(samples, sampleRow{
				SubjectPosition: i,
				Rank:            j,
				OTUID:           id,
				OTULabel:        sample.OTULabels[j],
				SampleValue:     sample.SampleValues[j],
			})
		}
	}
	return subjects, samples, nil
}

// fromRows expects both slices ordered by position (and rank).
func fromRows(subjects []subjectRow, samples []sampleRow) (*dataset.Dataset, error) {
	ds := &dataset.Dataset{
		Names:    make([]string, 0, len(subjects)),
		Metadata: make([]dataset.MetadataRecord, 0, len(subjects)),
		Samples:  make([]dataset.SampleRecord, 0, len(subjects)),
	}
	byPosition := make(map[int]int, len(subjects))
	for _, s := range subjects {
		var record dataset.MetadataRecord
		if err := record.UnmarshalJSON([]byte(s.Metadata)); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", s.Name, err)
		}
		byPosition[s.Position] = len(ds.Names)
		ds.Names = append(ds.Names, s.Name)
		ds.Metadata = append(ds.Metadata, record)
		ds.Samples = append(ds.Samples, dataset.SampleRecord{
			ID:           s.Name,
			OTUIDs:       []int{},
			OTULabels:    []string{},
			SampleValues: []float64{},
		})
	}

	for _, row := range samples {
		i, ok := byPosition[row.SubjectPosition]
		if !ok {
			return nil, fmt.Errorf("sample row references unknown subject position %d", row.SubjectPosition)
		}
		s := &ds.Samples[i]
		s.OTUIDs = append(s.OTUIDs, row.OTUID)
		s.OTULabels = append(s.OTULabels, row.OTULabel)
		s.SampleValues = append(s.SampleValues, row.SampleValue)
	}
	return ds, nil
}
