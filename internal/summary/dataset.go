package summary

import (
	"biodash/domain/dataset"

	"github.com/montanaflynn/stats"
)

// Overview describes the whole dataset.
type Overview struct {
	Subjects        int     `json:"subjects"`
	DistinctTaxa    int     `json:"distinct_taxa"`
	MeanTaxa        float64 `json:"mean_taxa"`
	WashReported    int     `json:"wash_reported"`
	WashMean        float64 `json:"wash_mean"`
	WashMedian      float64 `json:"wash_median"`
	MeanShannon     float64 `json:"mean_shannon"`
	MissingWashFreq []int   `json:"missing_wash_frequency,omitempty"`
}

// ForDataset aggregates every subject. Subjects without a numeric wash
// frequency are listed rather than counted.
func ForDataset(ds *dataset.Dataset) Overview {
	o := Overview{Subjects: ds.Len(), MissingWashFreq: ds.MissingWashFrequency()}
	if ds.Len() == 0 {
		return o
	}

	distinct := make(map[int]struct{})
	var taxaCounts, shannons, washes []float64
	for i, sample := range ds.Samples {
		for _, id := range sample.OTUIDs {
			distinct[id] = struct{}{}
		}
		taxaCounts = append(taxaCounts, float64(sample.Len()))
		shannons = append(shannons, DiversityOf(sample.SampleValues).Shannon)
		if i < len(ds.Metadata) {
			if w, ok := ds.Metadata[i].Float(dataset.WashFrequencyField); ok {
				washes = append(washes, w)
			}
		}
	}

	o.DistinctTaxa = len(distinct)
	o.MeanTaxa, _ = stats.Mean(taxaCounts)
	o.MeanShannon, _ = stats.Mean(shannons)
	o.WashReported = len(washes)
	if len(washes) > 0 {
		o.WashMean, _ = stats.Mean(washes)
		o.WashMedian, _ = stats.Median(washes)
	}
	return o
}
