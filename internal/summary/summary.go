// Package summary computes descriptive statistics and diversity indices for
// a subject's taxon abundances.
package summary

import (
	"errors"
	"math"
	"sort"

	"biodash/domain/dataset"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Abundance holds the distribution of sample values of one subject
type Abundance struct {
	Total    float64 `json:"total"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Outliers int     `json:"outliers"`
}

// Diversity holds the alpha diversity of one subject
type Diversity struct {
	Richness int     `json:"richness"` // taxa with a positive abundance
	Shannon  float64 `json:"shannon"`  // natural log
	Simpson  float64 `json:"simpson"`  // 1 - sum(p^2)
	Evenness float64 `json:"evenness"` // Pielou: Shannon / ln(richness)
}

// Taxon is one ranked entry.
type Taxon struct {
	OTUID int     `json:"otu_id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Share float64 `json:"share"`
}

// Subject is the full summary of one subject.
type Subject struct {
	Index     int       `json:"index"`
	Name      string    `json:"name"`
	Taxa      int       `json:"taxa"`
	Abundance Abundance `json:"abundance"`
	Diversity Diversity `json:"diversity"`
	Dominant  []Taxon   `json:"dominant"`
}

// DominantCount is how many top taxa a summary lists.
const DominantCount = 5

// ForSubject summarizes the sample at index. A subject without taxa yields a
// zero summary, not an error.
func ForSubject(ds *dataset.Dataset, index int) (*Subject, error) {
	name, err := ds.NameAt(index)
	if err != nil {
		return nil, err
	}
	sample, err := ds.SampleAt(index)
	if err != nil {
		return nil, err
	}

	s := &Subject{Index: index, Name: name, Taxa: sample.Len()}
	if sample.Len() == 0 {
		return s, nil
	}

	s.Abundance, err = Describe(sample.SampleValues)
	if err != nil {
		return nil, err
	}
	s.Diversity = DiversityOf(sample.SampleValues)
	s.Dominant = dominant(sample, s.Abundance.Total, DominantCount)
	return s, nil
}

// Describe computes the abundance distribution.
func Describe(values []float64) (Abundance, error) {
	var a Abundance
	if len(values) == 0 {
		return a, errors.New("no values to describe")
	}

	data := stats.Float64Data(values)
	var err error
	if a.Total, err = data.Sum(); err != nil {
		return a, err
	}
	if a.Mean, err = data.Mean(); err != nil {
		return a, err
	}
	if a.Median, err = data.Median(); err != nil {
		return a, err
	}
	if a.StdDev, err = data.StandardDeviation(); err != nil {
		return a, err
	}
	if a.Min, err = data.Min(); err != nil {
		return a, err
	}
	if a.Max, err = data.Max(); err != nil {
		return a, err
	}
	if a.Q25, err = data.Percentile(25); err != nil {
		return a, err
	}
	if a.Q75, err = data.Percentile(75); err != nil {
		return a, err
	}

	if len(values) >= 3 && a.StdDev > 0 {
		a.Skewness = stat.Skew(values, nil)
	}
	a.Outliers = detectOutliers(values, a.Q25, a.Q75)
	return a, nil
}

// DiversityOf computes richness, Shannon, Simpson and evenness.
func DiversityOf(values []float64) Diversity {
	var positive []float64
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	d := Diversity{Richness: len(positive)}
	if d.Richness == 0 {
		return d
	}

	p := make([]float64, len(positive))
	copy(p, positive)
	floats.Scale(1/floats.Sum(p), p)

	d.Shannon = stat.Entropy(p)
	d.Simpson = 1 - floats.Dot(p, p)
	if d.Richness > 1 {
		d.Evenness = d.Shannon / math.Log(float64(d.Richness))
	}
	return d
}

// detectOutliers counts values outside the 1.5 IQR fences
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}

// dominant ranks taxa by value, ties keep document order.
func dominant(sample dataset.SampleRecord, total float64, n int) []Taxon {
	taxa := make([]Taxon, sample.Len())
	for i, id := range sample.OTUIDs {
		taxa[i] = Taxon{OTUID: id, Label: sample.OTULabels[i], Value: sample.SampleValues[i]}
		if total > 0 {
			taxa[i].Share = sample.SampleValues[i] / total
		}
	}
	sort.SliceStable(taxa, func(i, j int) bool { return taxa[i].Value > taxa[j].Value })
	if len(taxa) > n {
		taxa = taxa[:n]
	}
	return taxa
}
