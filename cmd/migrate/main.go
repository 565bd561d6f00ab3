package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"biodash/adapters/excel"
	"biodash/adapters/jsondoc"
	"biodash/adapters/postgres"
	"biodash/domain/dataset"
	"biodash/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// migrate creates the schema and optionally seeds it from a samples.json or
// .xlsx file: migrate [-seed path] [database_url]
func main() {
	seed := flag.String("seed", "", "samples.json or .xlsx file to import after migrating")
	flag.Parse()

	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if flag.NArg() > 0 {
		databaseURL = flag.Arg(0)
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate [-seed file] <database_url> (or set DATABASE_URL)")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	runner := migration.NewRunner()
	log.Printf("Running schema migrations v%s", runner.Version())
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema up to date")

	if *seed == "" {
		return
	}

	ds, err := loadSeed(ctx, *seed)
	if err != nil {
		log.Fatalf("Failed to read seed %s: %v", *seed, err)
	}
	if err := ds.Validate(); err != nil {
		log.Fatalf("Seed %s is invalid: %v", *seed, err)
	}
	ds.Info.Source = "seed"
	ds.Info.Location = *seed

	repo := postgres.NewDatasetRepository(db, databaseURL)
	if err := repo.Replace(ctx, ds); err != nil {
		log.Fatalf("Failed to import seed: %v", err)
	}
	log.Printf("Seeded %d subjects from %s", ds.Len(), *seed)
}

func loadSeed(ctx context.Context, path string) (*dataset.Dataset, error) {
	if isWorkbook(path) {
		return excel.NewWorkbookSource(path).Load(ctx)
	}
	return jsondoc.NewFileSource(path).Load(ctx)
}

func isWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
