package intersect

import "sort"

// StoreCount is one ranking entry.
type StoreCount struct {
	Store string
	Count int
}

// Rank orders stores by item count descending, ties broken by
// ascending store identifier so identical indexes always produce
// identical rankings.
func Rank(index StoreIndex) []StoreCount {
	ranking := make([]StoreCount, 0, len(index))
	for store, items := range index {
		ranking = append(ranking, StoreCount{Store: store, Count: len(items)})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].Store < ranking[j].Store
	})
	return ranking
}

// SelectCandidates takes the first min(m, len(ranking)) stores.
func SelectCandidates(ranking []StoreCount, m int) []string {
	if m > len(ranking) {
		m = len(ranking)
	}
	stores := make([]string, 0, m)
	for _, sc := range ranking[:m] {
		stores = append(stores, sc.Store)
	}
	return stores
}
