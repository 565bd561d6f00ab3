// Package export writes every subject's dashboard to an export target as
// static files, rendering subjects in parallel.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"sync/atomic"

	"biodash/domain/core"
	"biodash/domain/dataset"
	"biodash/internal"
	"biodash/internal/projection"
	"biodash/internal/report"
	"biodash/ports"

	"golang.org/x/sync/errgroup"
)

// Options controls what is exported.
type Options struct {
	Workers int
	// PNG additionally writes bar.png and scatter.png per subject.
	PNG bool
	// Report additionally writes report.html per subject.
	Report bool
}

// Result counts what was written.
type Result struct {
	Subjects int   `json:"subjects"`
	Files    int64 `json:"files"`
	Skipped  int64 `json:"skipped"`
}

// Exporter renders dashboards and hands them to a target.
type Exporter struct {
	html   ports.DashboardRenderer
	png    ports.ChartRenderer
	target ports.ExportTarget
	logger *internal.Logger
}

// New creates an exporter. png may be nil when PNG output is never requested.
func New(html ports.DashboardRenderer, png ports.ChartRenderer, target ports.ExportTarget, logger *internal.Logger) *Exporter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Exporter{html: html, png: png, target: target, logger: logger.With("Exporter")}
}

// SubjectKey is the directory of a subject's files.
func SubjectKey(index int) string {
	return fmt.Sprintf("subjects/%d", index)
}

// Export writes index.html, subjects.json and one directory per subject.
// The first failing subject cancels the rest.
func (e *Exporter) Export(ctx context.Context, ds *dataset.Dataset, opts Options) (*Result, error) {
	if ds == nil {
		return nil, core.ErrDatasetUnavailable
	}
	if opts.PNG && e.png == nil {
		return nil, errors.New("png export requested without a png renderer")
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	res := &Result{Subjects: ds.Len()}
	e.logger.Info("Exporting %d subjects to %s with %d workers", ds.Len(), e.target.Describe(), workers)

	if err := e.writeIndex(ctx, ds, res); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < ds.Len(); i++ {
		index := i
		g.Go(func() error {
			return e.exportSubject(gctx, ds, index, opts, res)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Info("Export complete: %d files, %d skipped", res.Files, res.Skipped)
	return res, nil
}

func (e *Exporter) exportSubject(ctx context.Context, ds *dataset.Dataset, index int, opts Options, res *Result) error {
	dash, err := projection.Dispatch(ds, index)
	if err != nil {
		return fmt.Errorf("subject %d: %w", index, err)
	}
	dir := SubjectKey(index)

	var page bytes.Buffer
	if err := e.html.RenderDashboard(&page, dash); err != nil {
		return fmt.Errorf("subject %d: %w", index, err)
	}
	if err := e.put(ctx, dir+"/index.html", e.html.ContentType(), page.Bytes(), res); err != nil {
		return err
	}

	spec, err := json.MarshalIndent(dash, "", "  ")
	if err != nil {
		return err
	}
	if err := e.put(ctx, dir+"/dashboard.json", "application/json", spec, res); err != nil {
		return err
	}

	if opts.Report {
		rep, err := report.NewGenerator().Generate(ds, index)
		if err != nil {
			return fmt.Errorf("subject %d report: %w", index, err)
		}
		if err := e.put(ctx, dir+"/report.html", "text/html; charset=utf-8", rep.HTML(), res); err != nil {
			return err
		}
	}

	if opts.PNG {
		var bar, scatter bytes.Buffer
		if err := e.png.RenderBar(&bar, dash.Bar); err == nil {
			if err := e.put(ctx, dir+"/bar.png", e.png.ContentType(), bar.Bytes(), res); err != nil {
				return err
			}
		} else {
			e.logger.Debug("Skipping bar.png for subject %d: %v", index, err)
			atomic.AddInt64(&res.Skipped, 1)
		}
		if err := e.png.RenderScatter(&scatter, dash.Scatter); err == nil {
			if err := e.put(ctx, dir+"/scatter.png", e.png.ContentType(), scatter.Bytes(), res); err != nil {
				return err
			}
		} else {
			e.logger.Debug("Skipping scatter.png for subject %d: %v", index, err)
			atomic.AddInt64(&res.Skipped, 1)
		}
	}

	e.logger.Trace("Exported subject %d (%s)", index, dash.Subject)
	return nil
}

func (e *Exporter) put(ctx context.Context, key, contentType string, data []byte, res *Result) error {
	if err := e.target.Put(ctx, key, contentType, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	atomic.AddInt64(&res.Files, 1)
	return nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Belly Button Biodiversity</title></head>
<body>
<h1>Belly Button Biodiversity</h1>
<ul>
{{- range . }}
<li><a href="subjects/{{ .Value }}/index.html">{{ .Label }}</a></li>
{{- end }}
</ul>
</body>
</html>
`))

func (e *Exporter) writeIndex(ctx context.Context, ds *dataset.Dataset, res *Result) error {
	options := ds.Options()

	var page bytes.Buffer
	if err := indexTemplate.Execute(&page, options); err != nil {
		return err
	}
	if err := e.put(ctx, "index.html", "text/html; charset=utf-8", page.Bytes(), res); err != nil {
		return err
	}

	names, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return e.put(ctx, "subjects.json", "application/json", names, res)
}
