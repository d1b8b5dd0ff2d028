// Package pipeline orchestrates one common-items run: fetch the active
// universe, stream the relation into a store index, rank, intersect,
// fall back greedily if needed, and persist the result or diagnostics.
package pipeline

import (
	"context"
	"fmt"

	"github.com/retailops/common-items/pkg/config"
	"github.com/retailops/common-items/pkg/intersect"
	"github.com/retailops/common-items/pkg/logging"
	"github.com/retailops/common-items/pkg/output"
	"github.com/retailops/common-items/pkg/source"
)

// Result is the published outcome of a successful run. On failure no
// partial Result exists.
type Result struct {
	// Items is exactly item_limit items, lexicographically sorted.
	Items []string
	// Stores is exactly min_store_count stores, lexicographically
	// sorted.
	Stores []string
	// ArtifactPath is where the cross-join artifact was written.
	ArtifactPath string
	// UsedFallback reports whether the greedy search produced the
	// result.
	UsedFallback bool
	// RowsStreamed is the total relation rows consumed.
	RowsStreamed int64
}

// Pipeline wires the collaborators for one run. The store index is
// owned by Run for the duration of a single call; no state crosses
// runs.
type Pipeline struct {
	cfg  *config.Config
	src  source.Source
	sink output.Sink
}

// New builds a pipeline from its collaborators.
func New(cfg *config.Config, src source.Source, sink output.Sink) *Pipeline {
	return &Pipeline{cfg: cfg, src: src, sink: sink}
}

// Run executes the full pipeline. Fatal conditions return immediately
// with a taxonomy error; a primary intersection shortfall is recovered
// by the greedy fallback and only surfaces if the fallback misses too.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := logging.WithPhase("pipeline")
	params := p.cfg.Params

	timer := logging.NewStepTimer()
	timer.Start("total_runtime")
	defer func() {
		timer.End("total_runtime")
		timer.Summary(log)
	}()

	log.Info().
		Int("chunk_size", params.ChunkSize).
		Int("min_store_count", params.MinStoreCount).
		Int("item_limit", params.ItemLimit).
		Msg("starting common items run")

	timer.Start("fetch_active_items")
	active, err := p.src.ActiveItems(ctx, params.ActiveItemLimit)
	timer.End("fetch_active_items")
	if err != nil {
		return nil, fmt.Errorf("fetch active items: %w", err)
	}
	if len(active) == 0 {
		return nil, ErrEmptyUniverse
	}

	timer.Start("stream_relation")
	index, rows, err := p.streamIndex(ctx, intersect.ItemSet(active))
	timer.End("stream_relation")
	if err != nil {
		return nil, err
	}
	if len(index) == 0 {
		return nil, ErrNoStores
	}

	timer.Start("rank_stores")
	ranking := intersect.Rank(index)
	candidates := intersect.SelectCandidates(ranking, params.MinStoreCount)
	timer.End("rank_stores")

	top := ranking
	if len(top) > 5 {
		top = top[:5]
	}
	log.Info().
		Int("stores", len(ranking)).
		Int("candidates", len(candidates)).
		Interface("top_counts", top).
		Msg("candidate stores selected")

	timer.Start("intersect_candidates")
	ilog := logging.WithPhase("intersect")
	items, ok := intersect.Intersect(index, candidates, params.ItemLimit, func(folded, size int) {
		ilog.Info().Int("stores_folded", folded).Int("common_items", size).Msg("progressive intersection")
	})
	timer.End("intersect_candidates")

	// Fewer candidate stores than required can never satisfy the
	// store threshold even when the item threshold holds.
	ok = ok && len(candidates) >= params.MinStoreCount

	finalStores := candidates
	usedFallback := false
	if !ok {
		log.Warn().Msg("primary intersection below item_limit, trying greedy fallback")

		timer.Start("greedy_fallback")
		flog := logging.WithPhase("fallback")
		stores, fitems, fok := intersect.Fallback(index, ranking, params.MinStoreCount, params.ItemLimit,
			func(store string, chosen, size int) {
				flog.Info().Str("store", store).Int("stores_chosen", chosen).Int("common_items", size).Msg("greedy add store")
			})
		timer.End("greedy_fallback")

		if !fok {
			log.Error().
				Int("best_intersection", len(fitems)).
				Int("stores_chosen", len(stores)).
				Msg("fallback failed to meet thresholds, writing diagnostics")
			if _, derr := p.sink.WriteDiagnostics(ranking); derr != nil {
				log.Error().Err(derr).Msg("diagnostics write failed")
			}
			return nil, fmt.Errorf("%w (best=%d items across %d stores)", ErrFallbackShortfall, len(fitems), len(stores))
		}
		items, finalStores, usedFallback = fitems, stores, true
	}

	timer.Start("write_final_dataset")
	finalItems := intersect.MaterializeItems(items, params.ItemLimit)
	sortedStores := intersect.MaterializeStores(finalStores, params.MinStoreCount)
	path, err := p.sink.WriteResult(sortedStores, finalItems)
	timer.End("write_final_dataset")
	if err != nil {
		return nil, fmt.Errorf("write final dataset: %w", err)
	}

	log.Info().
		Int("items", len(finalItems)).
		Int("stores", len(sortedStores)).
		Bool("fallback", usedFallback).
		Str("artifact", path).
		Msg("common items found")

	return &Result{
		Items:        finalItems,
		Stores:       sortedStores,
		ArtifactPath: path,
		UsedFallback: usedFallback,
		RowsStreamed: rows,
	}, nil
}

// streamIndex opens the relation cursor, aggregates it, and guarantees
// the cursor is closed on every exit path.
func (p *Pipeline) streamIndex(ctx context.Context, active intersect.ItemSet) (intersect.StoreIndex, int64, error) {
	log := logging.WithPhase("aggregate")

	cur, err := p.src.OpenRelationCursor(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("open relation cursor: %w", err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			log.Warn().Err(cerr).Msg("cursor close failed")
		}
	}()

	index, rows, err := intersect.Aggregate(ctx, cur, active, p.cfg.Params.ChunkSize)
	if err != nil {
		return nil, rows, err
	}
	return index, rows, nil
}
