package services

import (
	"bytes"
	"context"
	"fmt"

	"biodash/domain/core"
	"biodash/domain/dataset"
	"biodash/domain/render"
	"biodash/internal/errors"
	"biodash/internal/projection"
	"biodash/internal/report"
	"biodash/internal/session"
	"biodash/internal/summary"
	"biodash/ports"

	"golang.org/x/sync/semaphore"
)

// Provider is the part of the container the dashboard needs.
type Provider interface {
	Dataset() (*dataset.Dataset, error)
	Session() *session.Session
	Status() (dataset.DatasetStatus, error)
}

// Chart formats served by RenderChart
const (
	FormatHTML = "html"
	FormatPNG  = "png"
)

// DashboardService answers the dashboard's pages and API calls from the
// loaded dataset and the selection session.
type DashboardService struct {
	provider Provider
	html     ports.DashboardRenderer
	png      ports.ChartRenderer
	reports  *report.Generator
	// renders bounds concurrent chart rendering
	renders  *semaphore.Weighted
}

// DefaultRenderLimit is the number of charts rendered at once unless
// WithRenderLimit says otherwise.
const DefaultRenderLimit = 4

func NewDashboardService(provider Provider, html ports.DashboardRenderer, png ports.ChartRenderer, reports *report.Generator) *DashboardService {
	if reports == nil {
		reports = report.NewGenerator()
	}
	return &DashboardService{
		provider: provider,
		html:     html,
		png:      png,
		reports:  reports,
		renders:  semaphore.NewWeighted(DefaultRenderLimit),
	}
}

// WithRenderLimit sets how many charts may render at once.
func (s *DashboardService) WithRenderLimit(n int) *DashboardService {
	if n < 1 {
		n = 1
	}
	s.renders = semaphore.NewWeighted(int64(n))
	return s
}

// Page is the template data of the dashboard page.
type Page struct {
	Title     string
	Available bool
	Status    dataset.DatasetStatus
	Message   string
	Options   []dataset.SubjectOption
	Selected  int
	Dashboard *render.Dashboard
	// Demographics is the reconciled list shown in the demographics panel.
	Demographics render.ListJoin
	Summary      *summary.Subject
}

// Health is the body of the health endpoint.
type Health struct {
	Status   dataset.DatasetStatus `json:"status"`
	Subjects int                   `json:"subjects"`
	Source   string                `json:"source,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// Subjects lists the selector options.
func (s *DashboardService) Subjects() ([]dataset.SubjectOption, error) {
	ds, err := s.provider.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Options(), nil
}

// Page handles a selection from the dashboard page. An empty raw index
// re-renders the current selection. While no dataset is loaded the page is
// returned unpopulated rather than as an error.
func (s *DashboardService) Page(raw string) (*Page, error) {
	page := &Page{Title: "Belly Button Biodiversity"}

	ds, err := s.provider.Dataset()
	if err != nil {
		page.Status, _ = s.provider.Status()
		page.Message = err.Error()
		return page, nil
	}

	sess := s.provider.Session()
	index := sess.Index()
	if raw != "" {
		if index, err = parseIndex(raw, ds); err != nil {
			return nil, err
		}
	}

	sel, err := sess.Select(index)
	if err != nil {
		return nil, err
	}
	sum, err := summary.ForSubject(ds, index)
	if err != nil {
		return nil, err
	}

	page.Available = true
	page.Status = dataset.StatusReady
	page.Options = ds.Options()
	page.Selected = index
	page.Dashboard = sel.Dashboard
	page.Demographics = sel.Demographics
	page.Summary = sum
	return page, nil
}

// Select applies a selection event and returns the new dashboard together
// with the demographics reconciliation.
func (s *DashboardService) Select(raw string) (*session.Selection, error) {
	ds, err := s.provider.Dataset()
	if err != nil {
		return nil, err
	}
	index, err := parseIndex(raw, ds)
	if err != nil {
		return nil, err
	}
	return s.provider.Session().Select(index)
}

// Current returns the dashboard of the current selection.
func (s *DashboardService) Current() (*render.Dashboard, error) {
	if _, err := s.provider.Dataset(); err != nil {
		return nil, err
	}
	return s.provider.Session().Current()
}

// Dashboard projects a subject without touching the selection.
func (s *DashboardService) Dashboard(raw string) (*render.Dashboard, error) {
	ds, err := s.provider.Dataset()
	if err != nil {
		return nil, err
	}
	index, err := parseIndex(raw, ds)
	if err != nil {
		return nil, err
	}
	return projection.Dispatch(ds, index)
}

// Spec projects a single dashboard region.
func (s *DashboardService) Spec(raw, kind string) (interface{}, error) {
	k, err := render.ParseKind(kind)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	ds, err := s.provider.Dataset()
	if err != nil {
		return nil, err
	}
	index, err := parseIndex(raw, ds)
	if err != nil {
		return nil, err
	}
	return projection.Project(ds, index, k)
}

// RenderChart draws one chart of a subject in the given format and returns
// the bytes with their content type. It waits for a render slot until ctx
// is done.
func (s *DashboardService) RenderChart(ctx context.Context, raw, kind, format string) ([]byte, string, error) {
	var renderer ports.ChartRenderer
	switch format {
	case FormatHTML:
		renderer = s.html
	case FormatPNG:
		renderer = s.png
	default:
		return nil, "", errors.InvalidInput(fmt.Sprintf("unknown chart format %q", format))
	}
	if renderer == nil {
		return nil, "", errors.Unsupported(fmt.Sprintf("%s charts are not configured", format))
	}

	k, err := render.ParseKind(kind)
	if err != nil || k == render.KindDemographics {
		return nil, "", errors.InvalidInput(fmt.Sprintf("%q is not a chart", kind))
	}

	spec, err := s.Dashboard(raw)
	if err != nil {
		return nil, "", err
	}

	if err := s.renders.Acquire(ctx, 1); err != nil {
		return nil, "", err
	}
	defer s.renders.Release(1)

	var buf bytes.Buffer
	switch k {
	case render.KindBar:
		err = renderer.RenderBar(&buf, spec.Bar)
	case render.KindGauge:
		err = renderer.RenderGauge(&buf, spec.Gauge)
	case render.KindScatter:
		err = renderer.RenderScatter(&buf, spec.Scatter)
	}
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), renderer.ContentType(), nil
}

// Report builds the markdown report of a subject.
func (s *DashboardService) Report(raw string) (*report.Report, error) {
	ds, err := s.provider.Dataset()
	if err != nil {
		return nil, err
	}
	index, err := parseIndex(raw, ds)
	if err != nil {
		return nil, err
	}
	return s.reports.Generate(ds, index)
}

// Health reports the dataset state.
func (s *DashboardService) Health() Health {
	status, loadErr := s.provider.Status()
	h := Health{Status: status}
	if loadErr != nil {
		h.Error = loadErr.Error()
	}
	if ds, err := s.provider.Dataset(); err == nil {
		h.Subjects = ds.Len()
		h.Source = ds.Info.Source
	}
	return h
}

func parseIndex(raw string, ds *dataset.Dataset) (int, error) {
	idx, err := core.ParseSubjectIndex(raw)
	if err != nil {
		return 0, err
	}
	if err := core.CheckIndex(int(idx), ds.Len()); err != nil {
		return 0, err
	}
	return int(idx), nil
}
