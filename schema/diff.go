package schema

// Pair holds the baseline and current versions of one matched entity.
type Pair[T Entity] struct {
	Old T
	New T
}

// Delta is the result of an identity-keyed diff between two snapshots.
type Delta[T Entity] struct {
	Added   []T       // present only in current, in current order
	Removed []T       // present only in baseline, in baseline order
	Matched []Pair[T] // present in both, in current order
}

// DiffByID partitions baseline and current by entity identity. Names carry
// no matching semantics; a renamed entity shows up as a matched pair.
func DiffByID[T Entity](baseline, current []T) Delta[T] {
	old := make(map[ID]T, len(baseline))
	for _, e := range baseline {
		old[e.EntityID()] = e
	}

	var delta Delta[T]
	seen := make(map[ID]bool, len(current))
	for _, e := range current {
		seen[e.EntityID()] = true
		if o, ok := old[e.EntityID()]; ok {
			delta.Matched = append(delta.Matched, Pair[T]{Old: o, New: e})
		} else {
			delta.Added = append(delta.Added, e)
		}
	}
	for _, e := range baseline {
		if !seen[e.EntityID()] {
			delta.Removed = append(delta.Removed, e)
		}
	}
	return delta
}
