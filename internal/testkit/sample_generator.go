// Package testkit generates synthetic sample documents for tests, demos and
// load testing of the dashboard.
package testkit

import (
	"fmt"
	"math"
	"math/rand"
	randv2 "math/rand/v2"
	"sort"
	"strconv"

	"biodash/domain/dataset"

	"gonum.org/v1/gonum/stat/distuv"
)

// SampleGeneratorConfig configures the sample document generator
type SampleGeneratorConfig struct {
	SubjectCount int     `json:"subject_count"`
	FirstID      int     `json:"first_id"`
	MinTaxa      int     `json:"min_taxa"`
	MaxTaxa      int     `json:"max_taxa"`
	OTUPool      int     `json:"otu_pool"`
	MissingWash  float64 `json:"missing_wash"` // share of subjects with a null wfreq
	Seed         int64   `json:"seed"`
}

// DefaultSampleConfig returns defaults close to the shape of the public
// belly button dataset.
func DefaultSampleConfig() SampleGeneratorConfig {
	return SampleGeneratorConfig{
		SubjectCount: 153,
		FirstID:      940,
		MinTaxa:      1,
		MaxTaxa:      80,
		OTUPool:      3674,
		MissingWash:  0.05,
		Seed:         42,
	}
}

// SampleGenerator builds datasets deterministically from a seed
type SampleGenerator struct {
	config    SampleGeneratorConfig
	rng       *rand.Rand
	abundance distuv.LogNormal
}

// NewSampleGenerator creates a new sample generator
func NewSampleGenerator(config SampleGeneratorConfig) *SampleGenerator {
	g := &SampleGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
	// median read count around e^3 = 20
	g.abundance = distuv.LogNormal{Mu: 3, Sigma: 1, Src: randv2.NewPCG(uint64(config.Seed), 0x62696f)}
	return g
}

var (
	ethnicities = []string{"Caucasian", "Caucasian/Midleastern", "Asian", "European", "Caucasian/Jewish", "Black"}
	genders     = []string{"F", "M"}
	locations   = []string{"Beaufort/NC", "Chicago/IL", "Omaha/NE", "Raleigh/NC", "Durham/NC", "Chapel Hill/NC", "Boston/MA", "San Diego/CA"}
	bbtypes     = []string{"I", "O"}
	lineages    = []string{
		"Bacteria",
		"Bacteria;Firmicutes",
		"Bacteria;Firmicutes;Clostridia;Clostridiales;IncertaeSedisXI;Peptoniphilus",
		"Bacteria;Firmicutes;Clostridia;Clostridiales;IncertaeSedisXI;Anaerococcus",
		"Bacteria;Actinobacteria;Actinobacteria;Actinomycetales;Corynebacteriaceae;Corynebacterium",
		"Bacteria;Bacteroidetes;Bacteroidia;Bacteroidales;Porphyromonadaceae;Porphyromonas",
		"Bacteria;Firmicutes;Bacilli;Bacillales;Staphylococcaceae;Staphylococcus",
		"Bacteria;Proteobacteria;Gammaproteobacteria",
	}
)

// Generate returns a valid dataset with SubjectCount subjects.
func (g *SampleGenerator) Generate() (*dataset.Dataset, error) {
	cfg := g.config
	if cfg.SubjectCount <= 0 {
		return nil, fmt.Errorf("subject count must be positive, got %d", cfg.SubjectCount)
	}
	if cfg.MinTaxa < 0 || cfg.MaxTaxa < cfg.MinTaxa {
		return nil, fmt.Errorf("invalid taxa range [%d, %d]", cfg.MinTaxa, cfg.MaxTaxa)
	}
	if cfg.OTUPool < cfg.MaxTaxa {
		return nil, fmt.Errorf("otu pool %d smaller than max taxa %d", cfg.OTUPool, cfg.MaxTaxa)
	}

	ds := &dataset.Dataset{
		Names:    make([]string, 0, cfg.SubjectCount),
		Metadata: make([]dataset.MetadataRecord, 0, cfg.SubjectCount),
		Samples:  make([]dataset.SampleRecord, 0, cfg.SubjectCount),
	}
	for i := 0; i < cfg.SubjectCount; i++ {
		id := cfg.FirstID + i
		name := strconv.Itoa(id)
		ds.Names = append(ds.Names, name)
		ds.Metadata = append(ds.Metadata, g.metadata(id))
		ds.Samples = append(ds.Samples, g.sample(name))
	}
	return ds, nil
}

// metadata keeps the field order of the public dataset; id first.
func (g *SampleGenerator) metadata(id int) dataset.MetadataRecord {
	var wfreq interface{}
	if g.rng.Float64() >= g.config.MissingWash {
		// washes per week, skewed towards rarely
		wfreq = math.Round(math.Min(9, math.Abs(g.rng.NormFloat64()*3))*10) / 10
	}
	return dataset.NewMetadataRecord(
		"id", id,
		"ethnicity", pick(g.rng, ethnicities),
		"gender", pick(g.rng, genders),
		"age", float64(18+g.rng.Intn(60)),
		"location", pick(g.rng, locations),
		"bbtype", pick(g.rng, bbtypes),
		"wfreq", wfreq,
	)
}

// sample draws distinct OTUs with log-normal abundances sorted descending.
func (g *SampleGenerator) sample(name string) dataset.SampleRecord {
	n := g.config.MinTaxa
	if span := g.config.MaxTaxa - g.config.MinTaxa; span > 0 {
		n += g.rng.Intn(span + 1)
	}

	ids := g.rng.Perm(g.config.OTUPool)[:n]
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Max(1, math.Round(g.abundance.Rand()))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	rec := dataset.SampleRecord{
		ID:           name,
		OTUIDs:       make([]int, n),
		OTULabels:    make([]string, n),
		SampleValues: values,
	}
	for i, id := range ids {
		rec.OTUIDs[i] = id + 1
		rec.OTULabels[i] = lineages[id%len(lineages)]
	}
	return rec
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.Intn(len(from))]
}
