package projection

import (
	"strconv"

	"biodash/domain/dataset"
	"biodash/domain/render"
)

const (
	markerScale = 0.75
	hueScale    = 0.075
)

// MarkerSize is the bubble diameter for an abundance.
func MarkerSize(abundance float64) float64 {
	return markerScale * abundance
}

// MarkerHue is the bubble hue in degrees for a taxon id. Values past 360 are
// left for the renderer to wrap.
func MarkerHue(otuID int) float64 {
	return hueScale * float64(otuID)
}

// HSLA formats a fully saturated, mid-lightness, opaque color for a hue.
func HSLA(hue float64) string {
	return "hsla(" + strconv.FormatFloat(hue, 'f', -1, 64) + ",100%,50%,1.0)"
}

// Scatter plots every taxon of the subject: x is the taxon id, y the
// abundance, bubble size and hue follow abundance and id.
func Scatter(ds *dataset.Dataset, index int) (render.Scatter, error) {
	sample, err := ds.SampleAt(index)
	if err != nil {
		return render.Scatter{}, err
	}

	markers := make([]render.Marker, 0, sample.Len())
	for i, id := range sample.OTUIDs {
		hue := MarkerHue(id)
		markers = append(markers, render.Marker{
			X:     id,
			Y:     sample.SampleValues[i],
			Text:  sample.OTULabels[i],
			Size:  MarkerSize(sample.SampleValues[i]),
			Hue:   hue,
			Color: HSLA(hue),
		})
	}
	return render.Scatter{Mode: render.ModeMarkers, Markers: markers}, nil
}
