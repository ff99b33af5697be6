// package ui contains terminal styling for CLI output
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

// DefaultPalette mirrors the original tool's console colors: magenta title
// banner, green checkmarks, red errors.
func DefaultPalette() *Palette {
	return NewPalette("#D33682", "#1DB954", "#FF5555", "#FFA500", "#626262")
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

// Title renders a banner heading.
func (p *Palette) Title(text string) string { return p.title.Render(text) }

// OK renders a success marker line.
func (p *Palette) OK(text string) string { return p.ok.Render("✓") + " " + text }

// Err renders a failure marker line.
func (p *Palette) Err(text string) string { return p.err.Render("✗") + " " + text }

// Warn renders a warning marker line.
func (p *Palette) Warn(text string) string { return p.warn.Render("⚠") + " " + text }

// Help renders secondary hint text.
func (p *Palette) Help(text string) string { return p.help.Render(text) }

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
