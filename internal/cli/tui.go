package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhalbert/chainviz/pkg/source"
)

// List styles.
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// documentPickerModel is the bubbletea model for interactive document
// selection, used when a command that needs a document is run without one.
type documentPickerModel struct {
	Files    []source.FileInfo
	Cursor   int
	Selected *source.FileInfo
	Height   int
	Offset   int
}

func newDocumentPicker(files []source.FileInfo) documentPickerModel {
	return documentPickerModel{
		Files:  files,
		Height: 15,
	}
}

func (m documentPickerModel) Init() tea.Cmd {
	return nil
}

func (m documentPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Files)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			file := m.Files[m.Cursor]
			m.Selected = &file
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m documentPickerModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Select Document"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Files) {
		end = len(m.Files)
	}

	for i := m.Offset; i < end; i++ {
		f := m.Files[i]
		line := fmt.Sprintf("%s  %s", f.Name, listDimStyle.Render(f.Label))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("› " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(m.Files) > m.Height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d", m.Cursor+1, len(m.Files))))
	}

	return b.String()
}

// pickDocument runs the interactive picker and returns the selected
// document name, or an empty string if the user quit without selecting.
func pickDocument(files []source.FileInfo) (string, error) {
	program := tea.NewProgram(newDocumentPicker(files))
	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("document picker: %w", err)
	}
	model, ok := final.(documentPickerModel)
	if !ok || model.Selected == nil {
		return "", nil
	}
	return model.Selected.Name, nil
}
