package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TextBox displays preformatted text such as the embedded dictionary.
type TextBox struct {
	Title    string   // e.g., "Dictionary"
	Lines    []string // Content lines
	Width    int      // Terminal width
	MaxLines int      // Maximum lines to display (0 = unlimited)
}

// NewTextBox creates a box around content
func NewTextBox(title, content string) *TextBox {
	return &TextBox{
		Title: title,
		Lines: strings.Split(strings.TrimRight(content, "\n"), "\n"),
		Width: GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (t *TextBox) SetWidth(width int) *TextBox {
	t.Width = width
	return t
}

// SetMaxLines limits the number of lines displayed
func (t *TextBox) SetMaxLines(max int) *TextBox {
	t.MaxLines = max
	return t
}

// Filter keeps only lines containing one of the given substrings.
func (t *TextBox) Filter(patterns ...string) *TextBox {
	var filtered []string
	for _, line := range t.Lines {
		for _, pattern := range patterns {
			if strings.Contains(line, pattern) {
				filtered = append(filtered, line)
				break
			}
		}
	}
	t.Lines = filtered
	return t
}

// Render returns the styled box as a string
func (t *TextBox) Render() string {
	width := clampWidth(t.Width)

	lines := t.Lines
	if t.MaxLines > 0 && len(lines) > t.MaxLines {
		lines = append(lines[:t.MaxLines:t.MaxLines], "... (truncated)")
	}

	inner := lipgloss.JoinVertical(lipgloss.Left,
		TextBoxTitleStyle.Render(t.Title),
		"",
		TextBoxContentStyle.Render(strings.Join(lines, "\n")),
	)

	boxWidth := width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(boxWidth).
		Padding(0, 1).
		MarginLeft(2).
		Render(inner)
}

// String implements fmt.Stringer
func (t *TextBox) String() string {
	return t.Render()
}
