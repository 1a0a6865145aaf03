package interactive

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
)

// networkSelectModel is the bubbletea model for picking a network
type networkSelectModel struct {
	networks []string
	def      string
	cursor   int
	chosen   bool
	quit     bool
}

func newNetworkSelectModel(networks []string, def string) networkSelectModel {
	m := networkSelectModel{networks: networks, def: def}
	for i, name := range networks {
		if name == def {
			m.cursor = i
		}
	}
	return m
}

// Init is the initial command for bubbletea
func (m networkSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses
func (m networkSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.networks)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the list
func (m networkSelectModel) View() string {
	if m.chosen || m.quit {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprint("Select network\n\n"))
	for i, name := range m.networks {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
			name = color.New(color.FgCyan).Sprint(name)
		}
		if m.networks[i] == m.def {
			name += color.New(color.Faint).Sprint(" (default)")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", cursor, name))
	}
	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Enter: select  q: quit\n"))
	return b.String()
}

// SelectNetwork shows the configured networks and returns the chosen one
func SelectNetwork(networks []string, def string) (string, error) {
	if len(networks) == 0 {
		return "", fmt.Errorf("no networks configured")
	}

	finalModel, err := tea.NewProgram(newNetworkSelectModel(networks, def)).Run()
	if err != nil {
		return "", fmt.Errorf("network selection failed: %w", err)
	}

	m := finalModel.(networkSelectModel)
	if !m.chosen {
		return "", fmt.Errorf("selection cancelled")
	}
	return m.networks[m.cursor], nil
}
