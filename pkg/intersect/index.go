// Package intersect implements the in-memory core of the common-items
// search: building the store index from the relation stream, ranking
// stores, progressive intersection, and the greedy fallback.
package intersect

import (
	"context"
	"fmt"
	"sort"

	"github.com/retailops/common-items/pkg/logging"
	"github.com/retailops/common-items/pkg/source"
)

// ItemSet is a set of item identifiers.
type ItemSet map[string]struct{}

// Contains reports membership.
func (s ItemSet) Contains(item string) bool {
	_, ok := s[item]
	return ok
}

// Sorted returns the items in lexicographic order.
func (s ItemSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// StoreIndex maps each store to the set of active items observed in
// it. It grows monotonically during aggregation and is read-only
// afterwards.
type StoreIndex map[string]ItemSet

// Aggregate consumes the relation cursor batch by batch and builds the
// store index, keeping only rows whose item is in the active universe.
// Memory is bounded by one batch plus the distinct active pairs; no
// row outlives its batch.
func Aggregate(ctx context.Context, cur source.RelationCursor, active ItemSet, chunkSize int) (StoreIndex, int64, error) {
	log := logging.WithPhase("aggregate")
	progress := logging.NewStreamProgress(log, logging.DefaultProgressEvery)

	index := make(StoreIndex)
	for {
		batch, err := cur.FetchMany(ctx, chunkSize)
		if err != nil {
			return nil, progress.Rows(), fmt.Errorf("fetch relation batch: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, row := range batch {
			if !active.Contains(row.Item) {
				continue
			}
			set, ok := index[row.Store]
			if !ok {
				set = make(ItemSet)
				index[row.Store] = set
			}
			set[row.Item] = struct{}{}
		}
		progress.ObserveChunk(len(batch))
	}

	progress.Done(len(index))
	return index, progress.Rows(), nil
}
