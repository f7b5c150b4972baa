package cli

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ttlorder/pkg/buildinfo"
	errs "github.com/matzehuels/ttlorder/pkg/errors"
	"github.com/matzehuels/ttlorder/pkg/profile"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ttlorder"

	// defaultOutDir is where ordered files are written when -o is not given.
	defaultOutDir = "src/ontology"
)

// configNames are looked up in the working directory when -c is not given.
var configNames = []string{"ttlorder.yaml", "ttlorder.yml", "ttlorder.toml", "order.yml", "order.yaml"}

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Out: os.Stdout}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "ttlorder writes RDF graphs in a stable, hierarchy-aware order",
		Long: `ttlorder reorders the statements of an RDF graph according to declarative
ordering profiles, so class and property hierarchies read top-down and
diffs between revisions stay small.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.AddCommand(c.orderCommand())
	root.AddCommand(c.profilesCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads the configuration at path. An empty path looks for a
// known file name in the working directory and then in the user config
// directory, falling back to the built-in default profile.
func loadConfig(path string) (*profile.Config, string, error) {
	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return profile.Default(), "", nil
	}
	cfg, err := profile.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func findConfig() string {
	var dirs []string
	dirs = append(dirs, ".")
	if dir, err := configDir(); err == nil {
		dirs = append(dirs, dir)
	}
	for _, dir := range dirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// configDir returns the config directory using XDG standard (~/.config/ttlorder/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Inputs
// =============================================================================

// expandInputs resolves input arguments to files. Arguments containing glob
// metacharacters are expanded with ** support; a pattern that matches
// nothing is an error. Plain paths are passed through unchanged so a
// missing file is reported by the loader. The result is de-duplicated and
// keeps argument order, with each pattern's matches sorted.
func expandInputs(args []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "input pattern %q", arg)
		}
		if len(matches) == 0 {
			return nil, errs.New(errs.ErrCodeFileNotFound, "input pattern %q matched no files", arg)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}
	if len(out) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "no input files")
	}
	return out, nil
}
