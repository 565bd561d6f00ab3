package projection

import (
	"strconv"

	"biodash/domain/dataset"
	"biodash/domain/render"
)

// OTULabel is the category shown for a taxon on the bar chart axis.
func OTULabel(id int) string {
	return "OTU-" + strconv.Itoa(id)
}

// BarChart takes the first ten taxa of the subject's sample, pads short
// samples to ten slots and reverses everything, so a bottom-to-top
// horizontal bar chart shows the first-ranked taxon on top.
//
// Padded slots carry a zero value, an empty hover label and a unique
// placeholder category.
func BarChart(ds *dataset.Dataset, index int) (render.BarChart, error) {
	sample, err := ds.SampleAt(index)
	if err != nil {
		return render.BarChart{}, err
	}

	n := min(render.BarSlots, sample.Len())
	values := make([]float64, 0, render.BarSlots)
	categories := make([]string, 0, render.BarSlots)
	labels := make([]string, 0, render.BarSlots)
	placeholder := make([]bool, 0, render.BarSlots)

	for i := 0; i < n; i++ {
		values = append(values, sample.SampleValues[i])
		categories = append(categories, OTULabel(sample.OTUIDs[i]))
		labels = append(labels, sample.OTULabels[i])
		placeholder = append(placeholder, false)
	}

	for pad := 1; len(values) < render.BarSlots; pad++ {
		values = append(values, 0.0)
		categories = append(categories, render.PlaceholderCategory(pad))
		labels = append(labels, "")
		placeholder = append(placeholder, true)
	}

	reverse(values)
	reverse(categories)
	reverse(labels)
	reverse(placeholder)

	return render.BarChart{
		Title:       render.BarTitle,
		Orientation: render.OrientationHorizontal,
		Values:      values,
		Categories:  categories,
		Labels:      labels,
		Placeholder: placeholder,
	}, nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
