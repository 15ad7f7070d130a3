package domain

import (
	"context"
	"sync"
	"time"
)

// Stage is a step of a single extraction call.
//
//	Unresolved -> ScanningSchemaRef -> LocatingSchema -> Staged -> Validating -> Extracted|Failed
type Stage uint8

const (
	StageUnresolved Stage = iota
	StageScanningSchemaRef
	StageLocatingSchema
	StageStaged
	StageValidating
	StageExtracted
	StageFailed
)

var stageNames = [...]string{
	StageUnresolved:        "unresolved",
	StageScanningSchemaRef: "scanning_schema_ref",
	StageLocatingSchema:    "locating_schema",
	StageStaged:            "staged",
	StageValidating:        "validating",
	StageExtracted:         "extracted",
	StageFailed:            "failed",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further transition is allowed.
func (s Stage) Terminal() bool {
	return s == StageExtracted || s == StageFailed
}

// StageTiming is one recorded transition.
type StageTiming struct {
	Stage    Stage
	Duration time.Duration
}

type traceKey struct{}

// Trace collects the stage transitions of a single call.
// The handler puts it into the context, the pipeline writes, the handler reads it back.
type Trace struct {
	mu      sync.Mutex
	current Stage
	started time.Time
	timings []StageTiming
	cached  bool
}

// NewContextWithTrace returns a context carrying a fresh trace.
func NewContextWithTrace(ctx context.Context) (context.Context, *Trace) {
	t := &Trace{started: time.Now()}
	return context.WithValue(ctx, traceKey{}, t), t
}

// TraceFromContext returns the trace stored in ctx, or nil.
func TraceFromContext(ctx context.Context) *Trace {
	t, _ := ctx.Value(traceKey{}).(*Trace)
	return t
}

// Enter records the transition to s. Transitions out of a terminal stage are ignored.
func (t *Trace) Enter(s Stage) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current.Terminal() {
		return
	}
	now := time.Now()
	if t.started.IsZero() {
		t.started = now
	}
	t.timings = append(t.timings, StageTiming{Stage: t.current, Duration: now.Sub(t.started)})
	t.current = s
	t.started = now
}

// MarkCached flags that the result came from the fact cache.
func (t *Trace) MarkCached() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.cached = true
	t.mu.Unlock()
}

// Current returns the stage the call is in.
func (t *Trace) Current() Stage {
	if t == nil {
		return StageUnresolved
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Cached reports whether MarkCached was called.
func (t *Trace) Cached() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cached
}

// Timings returns the time spent in each stage left so far.
func (t *Trace) Timings() []StageTiming {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]StageTiming, len(t.timings))
	copy(out, t.timings)
	return out
}
