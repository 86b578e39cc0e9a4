package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cfkit/cfkit/pkg/schema"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// schemaBrowseCommand creates the "schema browse" subcommand, an
// interactive endpoint picker that prints the selected endpoint's spec.
func (c *CLI) schemaBrowseCommand() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadSchema(cmd.Context(), false)
			if err != nil {
				return err
			}

			model := newEndpointListModel(res.Doc.List(""))
			prog := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			final, err := prog.Run()
			if err != nil {
				return fmt.Errorf("run browser: %w", err)
			}

			m, ok := final.(endpointListModel)
			if !ok || m.Selected == "" {
				return nil
			}

			ep, ok := res.Doc.Lookup(m.Selected)
			if !ok {
				return fmt.Errorf("endpoint not found: %s", m.Selected)
			}
			return printJSON(map[string]any{
				"path":    ep.Path,
				"methods": res.Doc.Expand(any(ep.Methods), depth),
			})
		},
	}

	cmd.Flags().IntVar(&depth, "depth", schema.DefaultExpandDepth, "levels of $ref expansion")
	return cmd
}

// endpointListModel is the bubbletea model for interactive endpoint selection.
type endpointListModel struct {
	All      []schema.PathMethods
	Visible  []schema.PathMethods
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected string
}

// newEndpointListModel creates a new endpoint list model.
func newEndpointListModel(endpoints []schema.PathMethods) endpointListModel {
	return endpointListModel{
		All:     endpoints,
		Visible: endpoints,
		Height:  15,
	}
}

func (m endpointListModel) Init() tea.Cmd {
	return nil
}

func (m endpointListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down":
			if m.Cursor < len(m.Visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Visible) > 0 {
				m.Selected = m.Visible[m.Cursor].Path
			}
			return m, tea.Quit
		case "backspace":
			if len(m.Filter) > 0 {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.refilter()
			}
		default:
			if msg.Type == tea.KeyRunes {
				m.Filter += string(msg.Runes)
				m.refilter()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// refilter recomputes the visible list and clamps the cursor.
func (m *endpointListModel) refilter() {
	if m.Filter == "" {
		m.Visible = m.All
	} else {
		needle := strings.ToLower(m.Filter)
		filtered := make([]schema.PathMethods, 0, len(m.All))
		for _, pm := range m.All {
			if strings.Contains(strings.ToLower(pm.Path), needle) {
				filtered = append(filtered, pm)
			}
		}
		m.Visible = filtered
	}
	m.Cursor = 0
	m.Offset = 0
}

func (m endpointListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Browse Cloudflare API Endpoints"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(listSelectedStyle.Render("/" + m.Filter))
	}
	b.WriteString("\n\n")

	if len(m.Visible) == 0 {
		b.WriteString(listDimStyle.Render("  no endpoints match"))
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Visible) {
		end = len(m.Visible)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		pm := m.Visible[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, pm.Path, strings.Join(pm.Methods, ", ")})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Path", "Methods").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Visible))))

	return b.String()
}
