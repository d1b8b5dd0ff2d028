package logging

import (
	"time"

	"github.com/retailops/common-items/pkg/humanfmt"
	"github.com/rs/zerolog"
)

// DefaultProgressEvery is how many chunks elapse between progress events.
const DefaultProgressEvery = 10

// StreamProgress tracks rows and chunks consumed from the relation
// stream and logs a progress event every N chunks. Chunk counting is
// monotonic, matching the order the cursor yields batches.
type StreamProgress struct {
	log   zerolog.Logger
	every int
	start time.Time

	rows   int64
	chunks int64
}

// NewStreamProgress creates a progress tracker logging through log.
// If every <= 0, DefaultProgressEvery is used.
func NewStreamProgress(log zerolog.Logger, every int) *StreamProgress {
	if every <= 0 {
		every = DefaultProgressEvery
	}
	return &StreamProgress{log: log, every: every, start: time.Now()}
}

// ObserveChunk records one consumed chunk of n rows.
func (sp *StreamProgress) ObserveChunk(n int) {
	sp.chunks++
	sp.rows += int64(n)

	if sp.chunks%int64(sp.every) == 0 {
		sp.log.Info().
			Str("event", "stream_progress").
			Int64("chunks", sp.chunks).
			Int64("rows", sp.rows).
			Str("rows_h", humanfmt.Count(sp.rows)).
			Dur("elapsed", time.Since(sp.start)).
			Msg("streaming progress")
	}
}

// Rows returns the total rows observed so far.
func (sp *StreamProgress) Rows() int64 { return sp.rows }

// Chunks returns the total chunks observed so far.
func (sp *StreamProgress) Chunks() int64 { return sp.chunks }

// Done logs the final streaming totals.
func (sp *StreamProgress) Done(stores int) {
	sp.log.Info().
		Str("event", "stream_complete").
		Int64("chunks", sp.chunks).
		Int64("rows", sp.rows).
		Int("stores", stores).
		Dur("elapsed", time.Since(sp.start)).
		Msg("relation stream exhausted")
}
