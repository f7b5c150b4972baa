package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ttlorder/pkg/profile"
)

func (c *CLI) profilesCommand() *cobra.Command {
	var (
		config   string
		sections bool
	)

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the profiles of a configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(config)
			if err != nil {
				return err
			}
			if path == "" {
				path = "built-in default"
			}
			fmt.Fprintln(c.Out, StyleTitle.Render("Profiles")+" "+StyleDim.Render("("+path+")"))
			renderProfiles(c.Out, cfg, sections)
			return nil
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "ordering configuration (YAML or TOML)")
	cmd.Flags().BoolVarP(&sections, "sections", "s", false, "list every section")
	return cmd
}

// renderProfiles prints cfg's profiles as a table in configuration order.
func renderProfiles(w io.Writer, cfg *profile.Config, sections bool) {
	headers := []string{"Profile", "Sections", "Description"}
	if sections {
		headers = []string{"Profile", "Section", "Select", "Sort", "Roots"}
	}

	var rows [][]string
	for _, p := range cfg.Profiles {
		if !sections {
			names := make([]string, len(p.Sections))
			for i, s := range p.Sections {
				names[i] = s.Name
			}
			rows = append(rows, []string{p.Name, strings.Join(names, ", "), p.Description})
			continue
		}
		for i, s := range p.Sections {
			name := ""
			if i == 0 {
				name = p.Name
			}
			sort := s.Sort
			if sort == "" {
				sort = profile.DefaultSort
			}
			rows = append(rows, []string{name, s.Name, s.Category(), sort, strings.Join(s.Roots, ", ")})
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleValue.Bold(true)
			case col == len(headers)-1:
				return StyleDim
			}
			return StyleValue
		})

	fmt.Fprintln(w, t.Render())
}
