package logging

import (
	"sync"
	"time"

	"github.com/retailops/common-items/pkg/humanfmt"
	"github.com/rs/zerolog"
)

// StepTimer records wall-clock durations for named pipeline steps and
// emits a summary at the end of a run. Steps are reported in the order
// they were started. Safe for concurrent use.
type StepTimer struct {
	mu    sync.Mutex
	order []string
	spans map[string]*stepSpan
}

type stepSpan struct {
	start time.Time
	end   time.Time
}

// NewStepTimer creates an empty step timer.
func NewStepTimer() *StepTimer {
	return &StepTimer{spans: make(map[string]*stepSpan)}
}

// Start marks the beginning of a named step. Restarting a step
// overwrites its previous timing.
func (st *StepTimer) Start(name string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, seen := st.spans[name]; !seen {
		st.order = append(st.order, name)
	}
	st.spans[name] = &stepSpan{start: time.Now()}
}

// End marks the completion of a named step. Ending a step that was
// never started is a no-op.
func (st *StepTimer) End(name string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if span, ok := st.spans[name]; ok {
		span.end = time.Now()
	}
}

// Duration returns the recorded duration for a step, or false if the
// step never completed.
func (st *StepTimer) Duration(name string) (time.Duration, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	span, ok := st.spans[name]
	if !ok || span.end.IsZero() {
		return 0, false
	}
	return span.end.Sub(span.start), true
}

// Summary logs one event per completed step, in start order.
// Steps still running are skipped.
func (st *StepTimer) Summary(log zerolog.Logger) {
	st.mu.Lock()
	defer st.mu.Unlock()

	log.Info().Str("event", "step_summary").Msg("step execution times")
	for _, name := range st.order {
		span := st.spans[name]
		if span.end.IsZero() {
			continue
		}
		d := span.end.Sub(span.start)
		log.Info().
			Str("event", "step_timing").
			Str("step", name).
			Int64("duration_ms", d.Milliseconds()).
			Str("duration_h", humanfmt.Duration(d)).
			Msg("step completed")
	}
}
