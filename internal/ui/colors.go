package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#1DB954", "#FFFFFF", "#FF5F5F", "#FFA500", "#7A7A7A")

// Palette holds the named styles the browser renders with.
type Palette struct {
	title  lipgloss.Style
	label  lipgloss.Style
	err    lipgloss.Style
	status lipgloss.Style
	muted  lipgloss.Style
}

func NewPalette(accent, text, e, w, muted string) *Palette {
	return &Palette{
		title:  NewBold(accent).MarginBottom(1),
		label:  NewBold(text).Width(14),
		err:    NewBold(e),
		status: NewStyle(w),
		muted:  NewStyle(muted).Italic(true),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}
