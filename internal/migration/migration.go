package migration

import (
	"context"

	"biodash/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Steps lists the migration steps in execution order.
func (r *MigrationRunner) Steps() []Step {
	return []Step{
		{Name: "create subjects table", SQL: createSubjectsTable},
		{Name: "create subject_samples table", SQL: createSubjectSamplesTable},
		{Name: "create dataset_imports table", SQL: createDatasetImportsTable},
		{Name: "create indexes", SQL: createIndexes},
	}
}

// Step is one idempotent schema statement.
type Step struct {
	Name string
	SQL  string
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range r.Steps() {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to "+step.Name))
		}
	}
	return nil
}

// metadata is JSON rather than JSONB: JSONB reorders object keys.
const createSubjectsTable = `
	CREATE TABLE IF NOT EXISTS subjects (
		position INTEGER PRIMARY KEY CHECK (position >= 0),
		name VARCHAR(255) NOT NULL,
		metadata JSON NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)
`

const createSubjectSamplesTable = `
	CREATE TABLE IF NOT EXISTS subject_samples (
		subject_position INTEGER NOT NULL REFERENCES subjects(position) ON DELETE CASCADE,
		rank INTEGER NOT NULL CHECK (rank >= 0),
		otu_id INTEGER NOT NULL,
		otu_label TEXT NOT NULL DEFAULT '',
		sample_value DOUBLE PRECISION NOT NULL CHECK (sample_value >= 0),
		PRIMARY KEY (subject_position, rank)
	)
`

const createDatasetImportsTable = `
	CREATE TABLE IF NOT EXISTS dataset_imports (
		id UUID PRIMARY KEY,
		source VARCHAR(50) NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		fingerprint VARCHAR(64) NOT NULL DEFAULT '',
		subject_count INTEGER NOT NULL DEFAULT 0,
		imported_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)
`

const createIndexes = `
	CREATE INDEX IF NOT EXISTS idx_subject_samples_otu_id ON subject_samples(otu_id);
	CREATE INDEX IF NOT EXISTS idx_dataset_imports_imported_at ON dataset_imports(imported_at DESC);
`
