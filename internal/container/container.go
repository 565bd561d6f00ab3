package container

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"biodash/adapters/echarts"
	"biodash/adapters/excel"
	"biodash/adapters/jsondoc"
	"biodash/adapters/pngchart"
	"biodash/adapters/postgres"
	"biodash/adapters/s3source"
	"biodash/domain/core"
	"biodash/domain/dataset"
	"biodash/internal"
	"biodash/internal/config"
	"biodash/internal/errors"
	"biodash/internal/export"
	"biodash/internal/report"
	"biodash/internal/session"
	"biodash/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB
	S3 *s3source.Store

	// Dataset
	Source ports.DatasetSource

	// Rendering
	HTML    *echarts.Renderer
	PNG     *pngchart.Renderer
	Reports *report.Generator

	mu      sync.RWMutex
	dataset *dataset.Dataset
	status  dataset.DatasetStatus
	loadErr error
	session *session.Session
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	png := pngchart.New()
	png.Width, png.Height = cfg.Render.PNGWidth, cfg.Render.PNGHeight

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		HTML:    echarts.New(echarts.WithAssetsHost(cfg.Render.AssetsHost)),
		PNG:     png,
		Reports: report.NewGenerator(),
		status:  dataset.StatusLoading,
		session: session.New(nil),
	}
	return c, nil
}

// InitSource builds the dataset source selected by DATA_SOURCE
func (c *Container) InitSource(ctx context.Context) error {
	cfg := c.Config
	switch cfg.Data.Source {
	case config.SourceFile:
		c.Source = jsondoc.NewFileSource(cfg.Data.File)
	case config.SourceHTTP:
		c.Source = jsondoc.NewHTTPSource(cfg.Data.URL, nil).WithDataPath(cfg.Data.URLDataPath)
	case config.SourceExcel:
		c.Source = excel.NewWorkbookSource(cfg.Data.ExcelFile)
	case config.SourceS3:
		store, err := c.initS3(ctx)
		if err != nil {
			return err
		}
		c.Source = store
	case config.SourcePostgres:
		if err := c.InitDatabase(); err != nil {
			return err
		}
		c.Source = postgres.NewDatasetRepository(c.DB, redactURL(cfg.Database.URL))
	default:
		return errors.ConfigInvalid("unknown DATA_SOURCE " + cfg.Data.Source)
	}
	c.Logger.Debug("Dataset source: %s (%s)", c.Source.Name(), c.Source.Location())
	return nil
}

func (c *Container) initS3(ctx context.Context) (*s3source.Store, error) {
	if c.S3 != nil {
		return c.S3, nil
	}
	s3cfg := c.Config.S3
	store, err := s3source.New(ctx, s3source.Config{
		Region:    s3cfg.Region,
		Bucket:    s3cfg.Bucket,
		Key:       s3cfg.Key,
		Endpoint:  s3cfg.Endpoint,
		PathStyle: s3cfg.PathStyle,
	})
	if err != nil {
		return nil, errors.ExternalServiceError("s3", err)
	}
	c.S3 = store
	return store, nil
}

// InitDatabase connects to DATABASE_URL once
func (c *Container) InitDatabase() error {
	if c.DB != nil {
		return nil
	}
	if c.Config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	db, err := sqlx.Connect("postgres", c.Config.Database.URL)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("database connection failed: %w", err))
	}
	c.DB = db
	return nil
}

// Load runs the dataset load and starts the session on success. A failed
// load leaves the container serving an unpopulated dashboard; the error is
// kept for Status and returned.
func (c *Container) Load(ctx context.Context) error {
	if c.Source == nil {
		if err := c.InitSource(ctx); err != nil {
			c.fail(err)
			return err
		}
	}

	ds, err := LoadDataset(ctx, c.Source, c.Config.Data.LoadTimeout, c.Logger)
	if err != nil {
		c.fail(err)
		return err
	}
	return c.SetDataset(ds)
}

// SetDataset installs a loaded dataset and renders the default subject,
// then the configured DEFAULT_INDEX if it differs.
func (c *Container) SetDataset(ds *dataset.Dataset) error {
	sess := session.New(ds)
	if _, err := sess.Start(); err != nil {
		c.fail(err)
		return err
	}
	if idx := c.Config.Server.DefaultIndex; idx != session.DefaultIndex {
		if _, err := sess.Select(idx); err != nil {
			c.Logger.Warn("DEFAULT_INDEX %d ignored: %v", idx, err)
		}
	}

	c.mu.Lock()
	c.dataset = ds
	c.session = sess
	c.status = dataset.StatusReady
	c.loadErr = nil
	c.mu.Unlock()
	return nil
}

func (c *Container) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = dataset.StatusFailed
	c.loadErr = err
}

// Dataset returns the loaded dataset or a DATASET_UNAVAILABLE error
func (c *Container) Dataset() (*dataset.Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.dataset == nil {
		return nil, errors.DatasetUnavailable(c.sourceName(), core.ErrDatasetUnavailable)
	}
	return c.dataset, nil
}

func (c *Container) sourceName() string {
	if c.Source == nil {
		return c.Config.Data.Source
	}
	return c.Source.Name()
}

// Session returns the selection session. Before a successful load it has no
// dataset and every selection fails with core.ErrDatasetUnavailable.
func (c *Container) Session() *session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Status reports the dataset state and the load error, if any
func (c *Container) Status() (dataset.DatasetStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status, c.loadErr
}

// ExportTarget resolves an export destination: "s3://bucket/prefix" writes to
// S3 (the bucket must be the configured one), anything else is a directory.
func (c *Container) ExportTarget(ctx context.Context, dest string) (ports.ExportTarget, error) {
	if dest == "" {
		dest = c.Config.Export.Dir
	}
	if !strings.HasPrefix(dest, "s3://") {
		return export.NewDirTarget(dest), nil
	}

	bucket, prefix, _ := strings.Cut(strings.TrimPrefix(dest, "s3://"), "/")
	if c.Config.S3.Bucket == "" {
		c.Config.S3.Bucket = bucket
	}
	if bucket != c.Config.S3.Bucket {
		return nil, errors.InvalidInput(fmt.Sprintf("export bucket %q differs from DATA_S3_BUCKET %q", bucket, c.Config.S3.Bucket))
	}
	store, err := c.initS3(ctx)
	if err != nil {
		return nil, err
	}
	return store.Target(prefix), nil
}

// Exporter builds a static exporter writing to target
func (c *Container) Exporter(target ports.ExportTarget) *export.Exporter {
	return export.New(c.HTML, c.PNG, target, c.Logger)
}

// Shutdown releases held connections
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// redactURL drops credentials from a connection URL for logs.
func redactURL(raw string) string {
	at := strings.LastIndex(raw, "@")
	scheme := strings.Index(raw, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return raw
	}
	return raw[:scheme+3] + "***" + raw[at:]
}
