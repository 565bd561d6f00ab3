package projection

import (
	"fmt"

	"biodash/domain/core"
	"biodash/domain/dataset"
	"biodash/domain/render"
)

// Dispatch runs the four projectors for one subject in fixed order:
// demographics, bar chart, gauge, scatter. The index must address a subject;
// anything else is reported as core.ErrIndexOutOfRange.
func Dispatch(ds *dataset.Dataset, index int) (*render.Dashboard, error) {
	if ds == nil {
		return nil, core.ErrDatasetUnavailable
	}
	if err := core.CheckIndex(index, ds.Len()); err != nil {
		return nil, err
	}

	dash := &render.Dashboard{Index: index, Subject: ds.Names[index]}

	var err error
	if dash.Demographics, err = Demographics(ds, index); err != nil {
		return nil, fmt.Errorf("demographics: %w", err)
	}
	if dash.Bar, err = BarChart(ds, index); err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	if dash.Gauge, err = Gauge(ds, index); err != nil {
		return nil, fmt.Errorf("gauge: %w", err)
	}
	if dash.Scatter, err = Scatter(ds, index); err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	return dash, nil
}

// Project runs a single projector.
func Project(ds *dataset.Dataset, index int, kind render.Kind) (interface{}, error) {
	if ds == nil {
		return nil, core.ErrDatasetUnavailable
	}
	if err := core.CheckIndex(index, ds.Len()); err != nil {
		return nil, err
	}
	switch kind {
	case render.KindDemographics:
		return Demographics(ds, index)
	case render.KindBar:
		return BarChart(ds, index)
	case render.KindGauge:
		return Gauge(ds, index)
	case render.KindScatter:
		return Scatter(ds, index)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
}
