package projection

import (
	"biodash/domain/dataset"
	"biodash/domain/render"
)

const (
	// demographicsSkip drops the identifying field, which the selector already shows.
	demographicsSkip = 1
	demographicsMax  = 5
)

// Demographics lists up to five "key:value" lines from the subject's metadata,
// in document order, leaving out the first field.
func Demographics(ds *dataset.Dataset, index int) (render.Demographics, error) {
	md, err := ds.MetadataAt(index)
	if err != nil {
		return render.Demographics{}, err
	}

	lines := make([]string, 0, demographicsMax)
	for i, f := range md.Fields {
		if i < demographicsSkip {
			continue
		}
		if len(lines) == demographicsMax {
			break
		}
		lines = append(lines, f.Key+":"+dataset.FormatValue(f.Value))
	}
	return render.Demographics{Lines: lines}, nil
}
