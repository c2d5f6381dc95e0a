package join

// PadCategories returns one item per canonical category, in canonical
// order. Categories missing from data are synthesized with zero(category)
// so pie slices keep their positions when a category empties. Items whose
// category is not canonical, and repeats of a category, are appended after
// the canonical ones in their input order.
func PadCategories[V any](data []V, categories []string, category func(V) string, zero func(string) V) []V {
	byCat := make(map[string]V, len(data))
	canonical := make(map[string]bool, len(categories))
	for _, c := range categories {
		canonical[c] = true
	}

	var extra []V
	for _, d := range data {
		c := category(d)
		if _, dup := byCat[c]; !canonical[c] || dup {
			extra = append(extra, d)
			continue
		}
		byCat[c] = d
	}

	out := make([]V, 0, len(categories)+len(extra))
	for _, c := range categories {
		if d, ok := byCat[c]; ok {
			out = append(out, d)
		} else {
			out = append(out, zero(c))
		}
	}
	return append(out, extra...)
}
