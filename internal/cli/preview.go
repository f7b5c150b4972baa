package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ttlorder/pkg/curie"
	"github.com/matzehuels/ttlorder/pkg/dag"
	"github.com/matzehuels/ttlorder/pkg/dag/transform"
	errs "github.com/matzehuels/ttlorder/pkg/errors"
	"github.com/matzehuels/ttlorder/pkg/pipeline"
	"github.com/matzehuels/ttlorder/pkg/rdf"
	"github.com/matzehuels/ttlorder/pkg/rdf/load"
	"github.com/matzehuels/ttlorder/pkg/render/nodelink"
)

type previewOptions struct {
	source   string
	config   string
	profile  string
	section  string
	output   string
	format   string
	root     string
	acyclic  bool
	detailed bool
}

func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOptions

	cmd := &cobra.Command{
		Use:   "preview SOURCE",
		Short: "Render the hierarchy one section is ordered on",
		Long: `Preview orders SOURCE with one profile and renders the dependency graph of
one of its sections. Nodes are labeled with their position in the output;
nodes on a cycle are highlighted and cycle cuts are outlined.

With --root only the root and the subjects below it are drawn. --acyclic
drops back edges so the hierarchy is laid out top-down.

The format follows the output file extension (.dot or .svg) unless --format
is given. Without -o, DOT is written to standard output.`,
		Example: `  ttlorder preview ontology.ttl -c order.yml -p logical -s classes -o classes.svg`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.source = args[0]
			return c.runPreview(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "ordering configuration (YAML or TOML)")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "profile to order with (default: first profile)")
	cmd.Flags().StringVarP(&opts.section, "section", "s", "classes", "section to render")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "dot or svg (default: from extension)")
	cmd.Flags().StringVarP(&opts.root, "root", "r", "", "draw only this subject and what depends on it (CURIE or IRI)")
	cmd.Flags().BoolVar(&opts.acyclic, "acyclic", false, "drop back edges before drawing")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node metadata in labels")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, opts previewOptions) error {
	cfg, _, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	runner, err := pipeline.NewRunner(pipeline.Options{Config: cfg, Logger: loggerFromContext(ctx)})
	if err != nil {
		return err
	}

	var names []string
	if opts.profile != "" {
		names = []string{opts.profile}
	}
	profiles, err := runner.Profiles(names)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return errs.New(errs.ErrCodeProfileNotFound, "configuration has no profiles")
	}
	p := profiles[0]

	src, err := load.File(opts.source)
	if err != nil {
		return err
	}
	res, err := runner.Order(ctx, src, p)
	if err != nil {
		return err
	}

	sec, ok := res.Section(opts.section)
	if !ok {
		return errs.New(errs.ErrCodeInvalidConfig, "profile %q has no section %q", p.Name, opts.section)
	}
	if sec.Plan.Graph == nil {
		return errs.New(errs.ErrCodeUnsupported, "section %q sorts %s and has no hierarchy to preview", sec.Name, sec.Mode)
	}

	g, err := previewGraph(loggerFromContext(ctx), sec.Plan.Graph, res.Table, opts)
	if err != nil {
		return err
	}

	order := make([]string, len(sec.Plan.Order))
	for i, t := range sec.Plan.Order {
		order[i] = t.String()
	}
	cuts := make([]string, len(sec.Plan.Cuts))
	for i, cut := range sec.Plan.Cuts {
		cuts[i] = cut.Node.String()
	}
	dot := nodelink.ToDOT(g, nodelink.Options{
		Order:    order,
		Cuts:     cuts,
		Detailed: opts.detailed,
		Title:    p.Name + " / " + sec.Name,
	})

	format := strings.ToLower(opts.format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
	}
	var data []byte
	switch format {
	case "", "dot", "gv":
		data = []byte(dot)
	case "svg":
		if data, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return err
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unsupported preview format %q (valid: dot, svg)", format)
	}

	if opts.output == "" {
		_, err = c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", opts.output)
	}
	printSuccess(c.Out, "%s", opts.output)
	return nil
}

// previewGraph narrows g to the requested root and optionally removes back
// edges. g itself is never modified.
func previewGraph(logger *log.Logger, g *dag.DAG, table curie.Table, opts previewOptions) (*dag.DAG, error) {
	for _, c := range transform.Cycles(g) {
		keys := make([]string, len(c))
		for i, id := range c {
			keys[i] = g.Key(id)
		}
		logger.Warn("cycle in hierarchy", "members", strings.Join(keys, " "))
	}

	ids := g.IDs()
	if opts.root != "" {
		iri, err := table.Resolve(opts.root)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeUnresolvableRoot, err, "preview root %q", opts.root)
		}
		id := rdf.IRI(iri).String()
		if _, ok := g.Node(id); !ok {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "%s is not part of the section", opts.root)
		}
		ids = g.Descendants(id)
	}
	sub := g.Subgraph(ids)

	if opts.acyclic {
		for _, e := range transform.BreakCycles(sub) {
			logger.Debug("dropped back edge", "from", sub.Key(e.From), "to", sub.Key(e.To))
		}
	}
	return sub, nil
}
