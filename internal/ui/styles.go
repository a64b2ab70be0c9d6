package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/flowtask/internal/todo"
)

// palette holds the colors of a theme.
type palette struct {
	accent  lipgloss.Color
	text    lipgloss.Color
	muted   lipgloss.Color
	high    lipgloss.Color
	medium  lipgloss.Color
	low     lipgloss.Color
	success lipgloss.Color
	warning lipgloss.Color
}

var palettes = map[string]palette{
	"day": {
		accent:  lipgloss.Color("#6c5ce7"),
		text:    lipgloss.Color("#2d3436"),
		muted:   lipgloss.Color("#8395a7"),
		high:    lipgloss.Color("#d63031"),
		medium:  lipgloss.Color("#e17055"),
		low:     lipgloss.Color("#00b894"),
		success: lipgloss.Color("#00b894"),
		warning: lipgloss.Color("#fdcb6e"),
	},
	"night": {
		accent:  lipgloss.Color("#a29bfe"),
		text:    lipgloss.Color("#dfe6e9"),
		muted:   lipgloss.Color("#636e72"),
		high:    lipgloss.Color("#ff7675"),
		medium:  lipgloss.Color("#fab1a0"),
		low:     lipgloss.Color("#55efc4"),
		success: lipgloss.Color("#55efc4"),
		warning: lipgloss.Color("#ffeaa7"),
	},
}

type styles struct {
	title    lipgloss.Style
	quote    lipgloss.Style
	author   lipgloss.Style
	stats    lipgloss.Style
	text     lipgloss.Style
	done     lipgloss.Style
	cursor   lipgloss.Style
	muted    lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	banner   lipgloss.Style
	priority map[todo.Priority]lipgloss.Style
}

// newStyles builds styles for theme, falling back to day.
func newStyles(theme string) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes["day"]
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		quote:   lipgloss.NewStyle().Italic(true).Foreground(p.text).BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(p.accent).PaddingLeft(1),
		author:  lipgloss.NewStyle().Foreground(p.muted),
		stats:   lipgloss.NewStyle().Foreground(p.accent),
		text:    lipgloss.NewStyle().Foreground(p.text),
		done:    lipgloss.NewStyle().Foreground(p.muted).Strikethrough(true),
		cursor:  lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		muted:   lipgloss.NewStyle().Foreground(p.muted),
		success: lipgloss.NewStyle().Foreground(p.success),
		warning: lipgloss.NewStyle().Foreground(p.warning),
		banner:  lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		priority: map[todo.Priority]lipgloss.Style{
			todo.PriorityHigh:   lipgloss.NewStyle().Foreground(p.high),
			todo.PriorityMedium: lipgloss.NewStyle().Foreground(p.medium),
			todo.PriorityLow:    lipgloss.NewStyle().Foreground(p.low),
		},
	}
}

func (s styles) priorityStyle(p todo.Priority) lipgloss.Style {
	if st, ok := s.priority[p]; ok {
		return st
	}
	return s.muted
}
