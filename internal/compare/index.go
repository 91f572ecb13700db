package compare

import "mangashelf/pkg/models"

// Index maps normalized keys to the records of one catalog that answer to
// them. Positions refer to the slice the index was built from, so lookups
// return records in catalog order.
type Index struct {
	records []models.TitleRecord
	byKey   map[string][]int
}

// Keys returns the normalized keys a record answers to: the main title's key
// first, then one per alias in list order, without repeats.
func Keys(rec models.TitleRecord) []string {
	keys := make([]string, 0, len(rec.Aliases)+1)
	seen := make(map[string]struct{}, len(rec.Aliases)+1)
	for _, t := range rec.Titles() {
		k := Normalize(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// BuildIndex indexes every key of every record. An empty catalog yields an
// empty index.
func BuildIndex(records []models.TitleRecord) *Index {
	idx := &Index{
		records: records,
		byKey:   make(map[string][]int, len(records)),
	}
	for pos, rec := range records {
		for _, k := range Keys(rec) {
			idx.byKey[k] = append(idx.byKey[k], pos)
		}
	}
	return idx
}

// Lookup returns the catalog positions of the records answering to key, in
// catalog order.
func (idx *Index) Lookup(key string) []int {
	return idx.byKey[key]
}

// Records returns the records answering to key, in catalog order.
func (idx *Index) Records(key string) []models.TitleRecord {
	positions := idx.byKey[key]
	if len(positions) == 0 {
		return nil
	}
	out := make([]models.TitleRecord, 0, len(positions))
	for _, p := range positions {
		out = append(out, idx.records[p])
	}
	return out
}

// Record returns the record at a catalog position.
func (idx *Index) Record(pos int) models.TitleRecord {
	return idx.records[pos]
}

// Len reports the number of distinct keys.
func (idx *Index) Len() int {
	return len(idx.byKey)
}
