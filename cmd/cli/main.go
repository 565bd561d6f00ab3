package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"biodash/adapters/excel"
	"biodash/adapters/jsondoc"
	"biodash/adapters/postgres"
	"biodash/domain/core"
	"biodash/domain/dataset"
	"biodash/domain/render"
	"biodash/internal/config"
	"biodash/internal/container"
	"biodash/internal/export"
	"biodash/internal/projection"
	"biodash/internal/summary"
	"biodash/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "biodash",
		Short:         "Project, export and import belly button biodiversity dashboards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newProjectCmd(),
		newExportCmd(),
		newValidateCmd(),
		newSummaryCmd(),
		newImportXLSXCmd(),
		newWorkbookCmd(),
		newGenerateCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadDataset builds a container from the environment and loads the
// configured DATA_SOURCE.
func loadDataset(ctx context.Context) (*container.Container, *dataset.Dataset, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Load(ctx); err != nil {
		c.Shutdown(ctx)
		return nil, nil, err
	}
	ds, err := c.Dataset()
	if err != nil {
		c.Shutdown(ctx)
		return nil, nil, err
	}
	return c, ds, nil
}

func newProjectCmd() *cobra.Command {
	var format string
	var kind string

	cmd := &cobra.Command{
		Use:   "project [index]",
		Short: "Print the render spec of one subject",
		Long: `Project one subject into its dashboard render spec: demographics lines,
bar chart, wash-frequency gauge and scatter markers.

Example: biodash project 3 --format yaml --kind gauge`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := core.ParseSubjectIndex(args[0])
			if err != nil {
				return err
			}

			c, ds, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			var out interface{}
			if kind == "" {
				out, err = projection.Dispatch(ds, int(idx))
			} else {
				k, perr := render.ParseKind(kind)
				if perr != nil {
					return perr
				}
				out, err = projection.Project(ds, int(idx), k)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, out)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format: json|yaml")
	cmd.Flags().StringVar(&kind, "kind", "", "Only one region: demographics|bar|gauge|scatter")
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string
	var workers int
	var png bool
	var reports bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every subject's dashboard as static files",
		Long: `Render every subject's dashboard to a directory or to S3.

The destination is a directory, or s3://bucket/prefix for the bucket configured
in DATA_S3_BUCKET. Subjects are rendered in parallel.

Example: biodash export --out site --workers 8 --png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, ds, err := loadDataset(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			if out == "" {
				out = c.Config.Export.Dir
			}
			if workers <= 0 {
				workers = c.Config.Export.Workers
			}
			target, err := c.ExportTarget(ctx, out)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := c.Exporter(target).Export(ctx, ds, export.Options{
				Workers: workers,
				PNG:     png,
				Report:  reports,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d subjects (%d files, %d skipped) to %s in %v\n",
				res.Subjects, res.Files, res.Skipped, target.Describe(), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Destination directory or s3://bucket/prefix (default EXPORT_DIR)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel subject renders (default EXPORT_WORKERS)")
	cmd.Flags().BoolVar(&png, "png", false, "Also write bar.png and scatter.png per subject")
	cmd.Flags().BoolVar(&reports, "report", false, "Also write report.html per subject")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configured dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ds, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "OK: %d subjects from %s (%s)\n", ds.Len(), ds.Info.Source, ds.Info.Location)
			if !ds.Info.Fingerprint.IsEmpty() {
				fmt.Fprintf(w, "Fingerprint: %s\n", ds.Info.Fingerprint.Short())
			}
			if missing := ds.MissingWashFrequency(); len(missing) > 0 {
				fmt.Fprintf(w, "Warning: %d subjects have no wash frequency; their gauge is drawn without a needle\n", len(missing))
			}
			return nil
		},
	}
}

func newSummaryCmd() *cobra.Command {
	var format string
	var index string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print abundance and diversity statistics",
		Long: `Summarize the whole dataset, or a single subject with --index.

Example: biodash summary --index 0 --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ds, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			if index == "" {
				return writeOutput(cmd.OutOrStdout(), format, summary.ForDataset(ds))
			}
			idx, err := core.ParseSubjectIndex(index)
			if err != nil {
				return err
			}
			sum, err := summary.ForSubject(ds, int(idx))
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, sum)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format: json|yaml")
	cmd.Flags().StringVar(&index, "index", "", "Summarize one subject")
	return cmd
}

func newImportXLSXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-xlsx [file]",
		Short: "Import a samples workbook into postgres",
		Long: `Read a workbook with the sheets names, metadata and samples and replace
the dataset stored in DATABASE_URL with it. Run migrate first.

Example: biodash import-xlsx samples.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c, err := container.New(cfg)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			ds, err := container.LoadDataset(ctx, excel.NewWorkbookSource(args[0]), cfg.Data.LoadTimeout, c.Logger)
			if err != nil {
				return err
			}
			if err := c.InitDatabase(); err != nil {
				return err
			}

			repo := postgres.NewDatasetRepository(c.DB, "")
			if err := repo.Replace(ctx, ds); err != nil {
				return err
			}
			n, err := repo.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d subjects from %s\n", n, args[0])
			return nil
		},
	}
}

func newWorkbookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workbook [out.xlsx]",
		Short: "Write the configured dataset as a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
				return fmt.Errorf("workbook path must end in .xlsx: %s", path)
			}
			c, ds, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			if err := excel.WriteFile(path, ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d subjects to %s\n", ds.Len(), path)
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	config := testkit.DefaultSampleConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic samples document",
		Long: `Generate a deterministic synthetic samples.json (or .xlsx) for demos and
load tests.

Example: biodash generate --subjects 500 --seed 7 --out big.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := testkit.NewSampleGenerator(config).Generate()
			if err != nil {
				return err
			}

			if strings.HasSuffix(strings.ToLower(out), ".xlsx") {
				err = excel.WriteFile(out, ds)
			} else if out == "" || out == "-" {
				err = jsondoc.Encode(cmd.OutOrStdout(), ds)
			} else {
				err = writeJSONFile(out, ds)
			}
			if err != nil {
				return err
			}
			if out != "" && out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Generated %d subjects into %s\n", ds.Len(), out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&config.SubjectCount, "subjects", config.SubjectCount, "Number of subjects")
	cmd.Flags().IntVar(&config.MaxTaxa, "max-taxa", config.MaxTaxa, "Maximum taxa per subject")
	cmd.Flags().Float64Var(&config.MissingWash, "missing-wash", config.MissingWash, "Share of subjects with a null wfreq")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed")
	cmd.Flags().StringVar(&out, "out", "", "Output file (.json or .xlsx); stdout when empty")
	return cmd
}

func writeJSONFile(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jsondoc.Encode(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
