// Package observability provides hooks for the events of an ordering run.
//
// Cycle cuts are a designed outcome of ordering, not failures, so they are
// surfaced as events rather than errors: every cut reaches
// [OrderingHooks.OnCycleCut] with the node chosen and the dependencies it
// was emitted ahead of. A human can then audit whether the order still
// reads sensibly.
//
// # Architecture
//
// Hooks are plain values passed to the pipeline; there is no process-wide
// registry. [Noop] is the default, [Multi] fans out to several
// implementations and [NewLogHooks] reports through a charmbracelet logger.
//
// # Usage
//
//	hooks := observability.Multi(
//	    observability.NewLogHooks(logger),
//	    &myCollector{},
//	)
//	runner := pipeline.NewRunner(pipeline.Options{Hooks: hooks})
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Ordering Hooks
// =============================================================================

// OrderingHooks receives events from a pipeline run. Implementations must be
// safe for concurrent use when profiles run in parallel.
type OrderingHooks interface {
	// Profile events
	OnProfileStart(ctx context.Context, source, profile string)
	OnProfileComplete(ctx context.Context, source, profile string, subjects int, duration time.Duration, err error)

	// Section events
	OnSectionOrdered(ctx context.Context, source, profile string, s Section)

	// OnCycleCut records a node emitted before all of its dependencies.
	OnCycleCut(ctx context.Context, source, profile string, c Cut)

	// OnOutput records the outcome of writing one profile's output.
	OnOutput(ctx context.Context, source, profile, target, status string, size int)
}

// Section summarizes one ordered section.
type Section struct {
	Name     string
	Selector string
	Mode     string
	Subjects int // after de-duplication against earlier sections
	Cuts     int
}

// Cut describes one cycle cut in short form.
type Cut struct {
	Section string
	Node    string
	Pending []string
}

// =============================================================================
// No-op Implementation
// =============================================================================

// Noop is a no-op implementation of OrderingHooks.
type Noop struct{}

func (Noop) OnProfileStart(context.Context, string, string)                                {}
func (Noop) OnProfileComplete(context.Context, string, string, int, time.Duration, error) {}
func (Noop) OnSectionOrdered(context.Context, string, string, Section)                     {}
func (Noop) OnCycleCut(context.Context, string, string, Cut)                               {}
func (Noop) OnOutput(context.Context, string, string, string, string, int)                 {}

// =============================================================================
// Fan-out
// =============================================================================

type multi []OrderingHooks

// Multi returns hooks that forward every event to each of hs in order. Nil
// entries are skipped.
func Multi(hs ...OrderingHooks) OrderingHooks {
	var m multi
	for _, h := range hs {
		if h != nil {
			m = append(m, h)
		}
	}
	if len(m) == 0 {
		return Noop{}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multi) OnProfileStart(ctx context.Context, source, profile string) {
	for _, h := range m {
		h.OnProfileStart(ctx, source, profile)
	}
}

func (m multi) OnProfileComplete(ctx context.Context, source, profile string, subjects int, d time.Duration, err error) {
	for _, h := range m {
		h.OnProfileComplete(ctx, source, profile, subjects, d, err)
	}
}

func (m multi) OnSectionOrdered(ctx context.Context, source, profile string, s Section) {
	for _, h := range m {
		h.OnSectionOrdered(ctx, source, profile, s)
	}
}

func (m multi) OnCycleCut(ctx context.Context, source, profile string, c Cut) {
	for _, h := range m {
		h.OnCycleCut(ctx, source, profile, c)
	}
}

func (m multi) OnOutput(ctx context.Context, source, profile, target, status string, size int) {
	for _, h := range m {
		h.OnOutput(ctx, source, profile, target, status, size)
	}
}

// OrNoop returns h, or Noop if h is nil.
func OrNoop(h OrderingHooks) OrderingHooks {
	if h == nil {
		return Noop{}
	}
	return h
}
