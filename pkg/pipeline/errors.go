package pipeline

import "errors"

// Terminal error kinds for a run. Connection exhaustion is reported by
// dbpool.ErrConnection; everything else a run can die of is here.
// PrimaryIntersectionShortfall is not represented: it is recovered
// internally by the greedy fallback and never crosses the orchestrator
// boundary.
var (
	// ErrEmptyUniverse means the active-item fetch returned nothing;
	// no intersection can be meaningful.
	ErrEmptyUniverse = errors.New("no active items found")

	// ErrNoStores means the relation stream yielded no eligible
	// stores.
	ErrNoStores = errors.New("no stores found in relation stream")

	// ErrFallbackShortfall means the greedy fallback also missed the
	// thresholds; diagnostics are written before this is returned.
	ErrFallbackShortfall = errors.New("unable to find required common items across stores")
)
