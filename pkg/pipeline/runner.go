package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ttlorder/pkg/curie"
	"github.com/matzehuels/ttlorder/pkg/manifest"
	"github.com/matzehuels/ttlorder/pkg/observability"
	"github.com/matzehuels/ttlorder/pkg/ordering"
	"github.com/matzehuels/ttlorder/pkg/profile"
	"github.com/matzehuels/ttlorder/pkg/rdf"
	"github.com/matzehuels/ttlorder/pkg/rdf/load"
	"github.com/matzehuels/ttlorder/pkg/selector"
	"github.com/matzehuels/ttlorder/pkg/serialize"
)

// Runner executes profiles against loaded sources.
//
// The Runner holds no per-run state, so one Runner may serve several
// sources concurrently.
type Runner struct {
	opts Options
}

// NewRunner creates a runner. Zero fields of opts take their defaults.
func NewRunner(opts Options) (*Runner, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &Runner{opts: opts}, nil
}

// Config returns the configuration the runner uses.
func (r *Runner) Config() *profile.Config { return r.opts.Config }

// Profiles resolves profile names against the configuration. No names
// selects every profile in configuration order.
func (r *Runner) Profiles(names []string) ([]*profile.Profile, error) {
	cfg := r.opts.Config
	if len(names) == 0 {
		out := make([]*profile.Profile, len(cfg.Profiles))
		for i := range cfg.Profiles {
			out[i] = &cfg.Profiles[i]
		}
		return out, nil
	}
	out := make([]*profile.Profile, 0, len(names))
	for _, name := range names {
		p, err := cfg.Profile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Run orders and writes the named profiles over src. Unknown profile names
// fail the whole call before anything is written. Failures inside a
// profile are reported in that profile's Result and do not stop the
// others. Results keep the order of the resolved profiles.
func (r *Runner) Run(ctx context.Context, src *load.Source, names []string) ([]Result, error) {
	profiles, err := r.Profiles(names)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Jobs)
	for i, p := range profiles {
		g.Go(func() error {
			results[i] = *r.runProfile(gctx, src, p)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) runProfile(ctx context.Context, src *load.Source, p *profile.Profile) *Result {
	start := time.Now()
	r.opts.Hooks.OnProfileStart(ctx, src.Path, p.Name)

	res, err := r.Order(ctx, src, p)
	if err == nil {
		err = r.write(ctx, src, res)
	}
	res.Err = err
	res.Duration = time.Since(start)

	r.opts.Hooks.OnProfileComplete(ctx, src.Path, p.Name, len(res.Order), res.Duration, err)
	return res
}

// Order runs the selection and ordering stages of p without writing
// anything. The returned Result is never nil; on error it holds the
// sections completed so far.
func (r *Runner) Order(ctx context.Context, src *load.Source, p *profile.Profile) (*Result, error) {
	cfg := r.opts.Config
	table := src.Prefixes.WithDefaults(rdf.WellKnownPrefixes)
	res := &Result{Source: src.Path, Profile: p.Name, Table: table}
	placed := make(map[rdf.Term]bool)

	rules, err := cfg.Rules(table)
	if err != nil {
		return res, err
	}
	r.warnUnusedPredicates(src, p.Name, table, rules)

	for _, sec := range p.Sections {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		set, err := selector.Select(src.Graph, cfg.SelectorSpec(sec), table)
		if err != nil {
			return res, fmt.Errorf("section %q: %w", sec.Name, err)
		}
		var subjects []rdf.Term
		for _, t := range set.Terms() {
			if !placed[t] {
				subjects = append(subjects, t)
			}
		}
		r.opts.Logger.Debug("selected subjects",
			"profile", p.Name,
			"section", sec.Name,
			"selected", set.Len(),
			"new", len(subjects))

		spec, err := cfg.OrderingSpec(sec, table)
		if err != nil {
			return res, err
		}
		engine := ordering.New(src.Graph, table, ordering.WithCycleReporter(func(c ordering.CycleCut) {
			r.opts.Hooks.OnCycleCut(ctx, src.Path, p.Name, observability.Cut{
				Section: sec.Name,
				Node:    ShortForm(table, c.Node),
				Pending: ShortForms(table, c.Pending),
			})
		}))
		plan, err := engine.Plan(subjects, spec)
		if err != nil {
			return res, fmt.Errorf("section %q: %w", sec.Name, err)
		}

		for _, t := range plan.Order {
			placed[t] = true
		}
		res.Order = append(res.Order, plan.Order...)
		res.Sections = append(res.Sections, SectionResult{
			Name:     sec.Name,
			Selector: sec.Category(),
			Mode:     spec.Mode,
			Plan:     plan,
		})
		r.opts.Hooks.OnSectionOrdered(ctx, src.Path, p.Name, observability.Section{
			Name:     sec.Name,
			Selector: sec.Category(),
			Mode:     string(spec.Mode),
			Subjects: len(plan.Order),
			Cuts:     len(plan.Cuts),
		})
	}
	return res, nil
}

// Serialize renders the ordered subjects of res. Only their triples and
// the blank nodes they reach are written.
func (r *Runner) Serialize(src *load.Source, res *Result) ([]byte, error) {
	w, err := r.writer(res)
	if err != nil {
		return nil, err
	}
	out := rdf.Extract(src.Graph, res.Order)
	var buf bytes.Buffer
	if err := w.Write(&buf, out, res.Order); err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Runner) writer(res *Result) (serialize.Writer, error) {
	rules, err := r.opts.Config.Rules(res.Table)
	if err != nil {
		return nil, err
	}
	if r.opts.Format == FormatNTriples {
		return serialize.NTriples{Table: res.Table, Rules: rules}, nil
	}
	return serialize.NewTurtle(serialize.Options{
		Table:       res.Table,
		PrefixOrder: r.opts.Config.PrefixOrderFor(),
		Rules:       rules,
	}), nil
}

// warnUnusedPredicates logs predicate_order entries that no statement in src
// uses, which usually means a misspelled local name.
func (r *Runner) warnUnusedPredicates(src *load.Source, name string, table curie.Table, rules serialize.Rules) {
	seen := make(map[rdf.Term]bool)
	for _, po := range []serialize.PredicateOrder{rules.Classes, rules.Properties, rules.Individuals, rules.Default} {
		for _, pred := range slices.Concat(po.First, po.Last) {
			if seen[pred] {
				continue
			}
			seen[pred] = true
			if !rdf.HasAny(src.Graph, rdf.Term{}, pred, rdf.Term{}) {
				r.opts.Logger.Warn("predicate_order entry matches no statement",
					"profile", name,
					"source", src.Path,
					"predicate", ShortForm(table, pred))
			}
		}
	}
}

func (r *Runner) write(ctx context.Context, src *load.Source, res *Result) error {
	data, err := r.Serialize(src, res)
	if err != nil {
		return err
	}
	name := OutputName(src.Stem(), res.Profile, r.opts.Format)
	status, err := r.opts.Sink.Put(ctx, name, data)
	if err != nil {
		return err
	}
	res.Output = r.opts.Sink.Location(name)
	res.Status = status
	res.Size = len(data)
	r.opts.Hooks.OnOutput(ctx, src.Path, res.Profile, res.Output, string(status), len(data))

	if !r.opts.Manifest {
		return nil
	}
	doc, err := manifest.Marshal(res.Manifest())
	if err != nil {
		return err
	}
	name = ManifestName(src.Stem(), res.Profile)
	status, err = r.opts.Sink.Put(ctx, name, doc)
	if err != nil {
		return err
	}
	r.opts.Hooks.OnOutput(ctx, src.Path, res.Profile, r.opts.Sink.Location(name), string(status), len(doc))
	return nil
}
