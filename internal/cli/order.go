package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/ttlorder/pkg/errors"
	"github.com/matzehuels/ttlorder/pkg/observability"
	"github.com/matzehuels/ttlorder/pkg/pipeline"
	"github.com/matzehuels/ttlorder/pkg/rdf/load"
	"github.com/matzehuels/ttlorder/pkg/sink"
)

// errStale is returned by order --check when an output would change.
var errStale = errors.New("outputs are out of date")

type orderOptions struct {
	inputs      []string
	config      string
	profiles    []string
	outDir      string
	format      string
	jobs        int
	check       bool
	keepGoing   bool
	manifest    bool
	watch       bool
	interactive bool
}

func (c *CLI) orderCommand() *cobra.Command {
	var opts orderOptions

	cmd := &cobra.Command{
		Use:   "order SOURCE...",
		Short: "Write sources in profile order",
		Long: `Order reads each SOURCE (Turtle or N-Triples, glob patterns with ** allowed)
and writes one file per profile to <outdir>/<stem>-<profile>.ttl.

Files whose content would not change are left untouched. With --check nothing
is written and the command fails if any file is out of date.`,
		Example: `  # Generate all profiles defined in the config
  ttlorder order ontology.ttl -c order.yml

  # Generate only specific profiles
  ttlorder order ontology.ttl -c order.yml -p alpha -p logical_topo

  # Every ontology below src/, checked in CI
  ttlorder order 'src/**/*.ttl' -c order.yml --check`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.inputs = args
			if opts.watch {
				return c.watch(cmd.Context(), opts)
			}
			_, err := c.runOrder(cmd.Context(), opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "ordering configuration (YAML or TOML)")
	cmd.Flags().StringSliceVarP(&opts.profiles, "profile", "p", nil, "profile to generate (repeatable, default: all)")
	cmd.Flags().StringVarP(&opts.outDir, "outdir", "o", defaultOutDir, "output directory")
	cmd.Flags().StringVar(&opts.format, "format", string(pipeline.FormatTurtle), "output format: turtle or ntriples")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "profiles processed in parallel")
	cmd.Flags().BoolVar(&opts.check, "check", false, "report out-of-date files without writing")
	cmd.Flags().BoolVarP(&opts.keepGoing, "keep-going", "k", false, "continue with other sources and profiles after a failure")
	cmd.Flags().BoolVar(&opts.manifest, "manifest", false, "also write a JSON manifest per profile")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-run when a source or the config changes")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick profiles interactively")

	return cmd
}

// orderSummary counts the outcomes of one order run.
type orderSummary struct {
	written, unchanged, stale, failed int
}

// runOrder performs one complete order run over every input.
func (c *CLI) runOrder(ctx context.Context, opts orderOptions) (*orderSummary, error) {
	logger := loggerFromContext(ctx).With("run", newRunID())

	cfg, cfgPath, err := loadConfig(opts.config)
	if err != nil {
		return nil, err
	}
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath, "profiles", len(cfg.Profiles))
	}

	paths, err := expandInputs(opts.inputs)
	if err != nil {
		return nil, err
	}

	names := opts.profiles
	if opts.interactive && len(names) == 0 {
		names, err = pickProfiles(cfg)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			printInfo(c.Out, "No profiles selected")
			return &orderSummary{}, nil
		}
	}

	var sinkOpts []sink.FileOption
	if opts.check {
		sinkOpts = append(sinkOpts, sink.CheckOnly())
	}
	out, err := sink.NewFileSink(opts.outDir, sinkOpts...)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	runner, err := pipeline.NewRunner(pipeline.Options{
		Config:   cfg,
		Format:   pipeline.Format(opts.format),
		Sink:     out,
		Manifest: opts.manifest,
		Hooks:    observability.NewLogHooks(logger),
		Jobs:     opts.jobs,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	sum := &orderSummary{}
	var firstErr error
	fail := func(err error) {
		sum.failed++
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, path := range paths {
		prog := newProgress(logger)
		src, err := load.File(path)
		if err != nil {
			printError(c.Out, "%s", errs.UserMessage(err))
			fail(err)
			if !opts.keepGoing {
				return sum, err
			}
			continue
		}
		prog.done("loaded source", "path", path, "triples", src.Graph.Len())

		results, err := runner.Run(ctx, src, names)
		if err != nil {
			return sum, err
		}

		printSuccess(c.Out, "%s", path)
		for i := range results {
			r := &results[i]
			switch {
			case r.Err != nil:
				printError(c.Out, "%s: %s", r.Profile, errs.UserMessage(r.Err))
				fail(fmt.Errorf("%s, profile %s: %w", path, r.Profile, r.Err))
			case r.Status == sink.StatusStale:
				printWarning(c.Out, "%s is out of date", r.Output)
				sum.stale++
			case r.Status == sink.StatusUnchanged:
				printResult(c.Out, r)
				sum.unchanged++
			default:
				printResult(c.Out, r)
				sum.written++
			}
		}
		if firstErr != nil && !opts.keepGoing {
			return sum, firstErr
		}
	}

	switch {
	case firstErr != nil:
		return sum, fmt.Errorf("%d %s, first: %w", sum.failed, plural(sum.failed, "failure", "failures"), firstErr)
	case sum.stale > 0:
		return sum, fmt.Errorf("%w: %d %s", errStale, sum.stale, plural(sum.stale, "file", "files"))
	}
	printInfo(c.Out, "%d written, %d unchanged in %s", sum.written, sum.unchanged, opts.outDir)
	return sum, nil
}
