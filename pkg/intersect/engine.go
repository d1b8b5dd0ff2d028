package intersect

import "sort"

// Intersect folds the candidate stores' item sets into a running
// intersection, smallest set first so each step is bounded by the
// smallest operand. The first set is copied, never aliased. If the
// running set drops below itemLimit the fold aborts early with
// ok=false: later intersections can only shrink it further.
func Intersect(index StoreIndex, candidates []string, itemLimit int, observe func(folded, size int)) (ItemSet, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	ordered := make([]string, len(candidates))
	copy(ordered, candidates)
	// Stable keeps the candidates' deterministic order among equal-size
	// sets.
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(index[ordered[i]]) < len(index[ordered[j]])
	})

	var running ItemSet
	for i, store := range ordered {
		set := index[store]
		if running == nil {
			running = make(ItemSet, len(set))
			for item := range set {
				running[item] = struct{}{}
			}
		} else {
			for item := range running {
				if !set.Contains(item) {
					delete(running, item)
				}
			}
		}

		if observe != nil {
			observe(i+1, len(running))
		}
		if len(running) < itemLimit {
			return running, false
		}
	}
	return running, true
}

// Fallback is the greedy alternative used when the primary
// intersection misses the item threshold. It seeds with the store of
// globally largest item set and keeps appending the next-largest store
// from the full ranking, recomputing the intersection each time, until
// minStores stores are chosen or the ranking is exhausted. No
// backtracking: the greedy order is deliberately simple so output is
// reproducible, even though a combinatorial search could find subsets
// the greedy order misses.
func Fallback(index StoreIndex, ranking []StoreCount, minStores, itemLimit int, observe func(store string, chosen, size int)) ([]string, ItemSet, bool) {
	if len(ranking) == 0 {
		return nil, nil, false
	}

	stores := []string{ranking[0].Store}
	running := make(ItemSet, len(index[ranking[0].Store]))
	for item := range index[ranking[0].Store] {
		running[item] = struct{}{}
	}
	if observe != nil {
		observe(ranking[0].Store, 1, len(running))
	}

	for idx := 1; len(stores) < minStores && idx < len(ranking); idx++ {
		next := ranking[idx].Store
		set := index[next]
		for item := range running {
			if !set.Contains(item) {
				delete(running, item)
			}
		}
		stores = append(stores, next)
		if observe != nil {
			observe(next, len(stores), len(running))
		}
	}

	ok := len(stores) >= minStores && len(running) >= itemLimit
	return stores, running, ok
}

// MaterializeItems sorts the winning item set and truncates it to
// limit entries.
func MaterializeItems(items ItemSet, limit int) []string {
	sorted := items.Sorted()
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// MaterializeStores sorts the winning stores and truncates to limit.
func MaterializeStores(stores []string, limit int) []string {
	sorted := make([]string, len(stores))
	copy(sorted, stores)
	sort.Strings(sorted)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
