// Package pipeline runs ordering profiles over loaded graphs.
//
// This package is the profile orchestrator shared by the CLI commands. For
// every profile it walks the configured sections in order, selects their
// subjects, orders them, concatenates the results and serializes the
// profile once to a [sink.Sink].
//
// # Architecture
//
// One profile run consists of three stages:
//
//  1. Select: each section picks its subjects with [selector.Select];
//     subjects already placed by an earlier section are dropped.
//  2. Order: the remaining subjects are ordered with [ordering.Engine];
//     cycle cuts are forwarded to [observability.OrderingHooks.OnCycleCut].
//  3. Write: the concatenated order is serialized and stored under
//     "<stem>-<profile>.ttl" (or ".nt").
//
// Profiles are independent. [Runner.Run] processes them in parallel up to
// [Options.Jobs] and reports a [Result] per profile; a failing profile
// never aborts the others.
//
// # Usage
//
//	runner := pipeline.NewRunner(pipeline.Options{
//	    Config: cfg,
//	    Sink:   out,
//	    Hooks:  observability.NewLogHooks(logger),
//	})
//	results, err := runner.Run(ctx, src, nil)
//	if err != nil {
//	    log.Fatal(err) // unknown profile name or canceled context
//	}
//	for _, r := range results {
//	    if r.Err != nil {
//	        // this profile failed, the others were still written
//	    }
//	}
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ttlorder/pkg/curie"
	errs "github.com/matzehuels/ttlorder/pkg/errors"
	"github.com/matzehuels/ttlorder/pkg/manifest"
	"github.com/matzehuels/ttlorder/pkg/observability"
	"github.com/matzehuels/ttlorder/pkg/ordering"
	"github.com/matzehuels/ttlorder/pkg/profile"
	"github.com/matzehuels/ttlorder/pkg/rdf"
	"github.com/matzehuels/ttlorder/pkg/sink"
)

// DefaultJobs is the number of profiles processed concurrently when
// Options.Jobs is zero.
const DefaultJobs = 4

// Format is an output syntax.
type Format string

// Supported output formats.
const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatTurtle, "ttl":
		return FormatTurtle, nil
	case FormatNTriples, "nt":
		return FormatNTriples, nil
	}
	return "", errs.New(errs.ErrCodeInvalidConfig, "unsupported output format %q (valid: turtle, ntriples)", s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == FormatNTriples {
		return ".nt"
	}
	return ".ttl"
}

// OutputName returns the document name for a (source, profile) pair.
func OutputName(stem, profile string, f Format) string {
	return fmt.Sprintf("%s-%s%s", stem, profile, f.Ext())
}

// ManifestName returns the manifest document name for a (source, profile) pair.
func ManifestName(stem, profile string) string {
	return fmt.Sprintf("%s-%s.json", stem, profile)
}

// Options configure a Runner.
type Options struct {
	// Config holds the profiles. Nil means profile.Default().
	Config *profile.Config
	// Format is the output syntax. Empty means Turtle.
	Format Format
	// Sink receives the serialized profiles. Nil means sink.NullSink.
	Sink sink.Sink
	// Manifest also stores a JSON manifest per profile.
	Manifest bool
	// Hooks receive run events. Nil means observability.Noop.
	Hooks observability.OrderingHooks
	// Jobs bounds the number of profiles processed at once.
	Jobs int
	// Logger is used for debug output. Nil means log.Default().
	Logger *log.Logger
}

// ValidateAndSetDefaults fills in zero values and checks the options.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Config == nil {
		o.Config = profile.Default()
	}
	f, err := ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = f
	if o.Sink == nil {
		o.Sink = sink.NullSink{}
	}
	o.Hooks = observability.OrNoop(o.Hooks)
	if o.Jobs <= 0 {
		o.Jobs = DefaultJobs
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// Result is the outcome of one profile over one source.
type Result struct {
	Source   string
	Profile  string
	Sections []SectionResult
	// Order is the concatenation of every section's order.
	Order []rdf.Term
	// Output is the sink location of the serialized profile.
	Output string
	Status sink.Status
	Size   int
	// Table is the prefix table the profile was ordered and written with.
	Table    curie.Table
	Duration time.Duration
	Err      error
}

// SectionResult is the outcome of one section.
type SectionResult struct {
	Name     string
	Selector string
	Mode     ordering.Mode
	// Plan holds the section order, its cycle cuts and, for hierarchy
	// modes, the dependency graph.
	Plan *ordering.Plan
}

// Cuts returns the number of cycle cuts across all sections.
func (r *Result) Cuts() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Plan.Cuts)
	}
	return n
}

// Section returns the section called name.
func (r *Result) Section(name string) (*SectionResult, bool) {
	for i := range r.Sections {
		if r.Sections[i].Name == name {
			return &r.Sections[i], true
		}
	}
	return nil, false
}

// Manifest converts r to its JSON manifest form.
func (r *Result) Manifest() *manifest.Manifest {
	m := &manifest.Manifest{Source: r.Source, Profile: r.Profile, Output: r.Output}
	for _, s := range r.Sections {
		ms := manifest.Section{
			Name:     s.Name,
			Selector: s.Selector,
			Mode:     string(s.Mode),
			Subjects: ShortForms(r.Table, s.Plan.Order),
		}
		for _, c := range s.Plan.Cuts {
			ms.Cuts = append(ms.Cuts, manifest.Cut{
				Node:    ShortForm(r.Table, c.Node),
				Pending: ShortForms(r.Table, c.Pending),
			})
		}
		m.Sections = append(m.Sections, ms)
	}
	return m
}

// ShortForm renders t as a CURIE when table allows it, otherwise in
// N-Triples form.
func ShortForm(table curie.Table, t rdf.Term) string {
	if t.IsIRI() {
		if c, ok := table.Contract(t.Value); ok {
			return c
		}
	}
	return t.String()
}

// ShortForms applies ShortForm to every term.
func ShortForms(table curie.Table, ts []rdf.Term) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = ShortForm(table, t)
	}
	return out
}
