package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ttlorder/pkg/profile"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listCheckedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ProfileListModel - Interactive profile selection
// =============================================================================

// ProfileListModel is the bubbletea model for picking the profiles an order
// run generates.
type ProfileListModel struct {
	Profiles []profile.Profile
	Cursor   int
	Checked  map[int]bool
	Height   int
	Offset   int
	// Done is set when the user confirmed the selection.
	Done bool
}

// NewProfileListModel creates a picker with every profile unchecked.
func NewProfileListModel(profiles []profile.Profile) ProfileListModel {
	return ProfileListModel{
		Profiles: profiles,
		Checked:  make(map[int]bool),
		Height:   15,
	}
}

func (m ProfileListModel) Init() tea.Cmd {
	return nil
}

func (m ProfileListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Checked = map[int]bool{}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Profiles)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			all := len(m.Selected()) != len(m.Profiles)
			for i := range m.Profiles {
				m.Checked[i] = all
			}
		case "enter":
			if len(m.Selected()) == 0 && len(m.Profiles) > 0 {
				m.Checked[m.Cursor] = true
			}
			m.Done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

// Selected returns the checked profile names in configuration order.
func (m ProfileListModel) Selected() []string {
	var names []string
	for i, p := range m.Profiles {
		if m.Checked[i] {
			names = append(names, p.Name)
		}
	}
	return names
}

func (m ProfileListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Profiles"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  a all  ⏎ run  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Profiles))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Profiles[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Checked[i] {
			check = "[x]"
		}
		rows = append(rows, []string{cursor + check, p.Name, fmt.Sprint(len(p.Sections)), p.Description})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Profile", "Sections", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.Checked[idx]:
				return listCheckedStyle
			case col == 3:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d selected", m.Cursor+1, len(m.Profiles), len(m.Selected()))))
	return b.String()
}

// pickProfiles runs the picker and returns the chosen names. It returns no
// names when the user quits.
func pickProfiles(cfg *profile.Config) ([]string, error) {
	final, err := tea.NewProgram(NewProfileListModel(cfg.Profiles)).Run()
	if err != nil {
		return nil, fmt.Errorf("profile picker: %w", err)
	}
	m := final.(ProfileListModel)
	if !m.Done {
		return nil, nil
	}
	return m.Selected(), nil
}
