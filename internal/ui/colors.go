package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

var _ Painter = (*Palette)(nil)

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func Title(s string) string { return styles.title.Render(s) }
func OK(s string) string    { return styles.ok.Render("✓ " + s) }
func Err(s string) string   { return styles.err.Render("✗ " + s) }
func Warn(s string) string  { return styles.warn.Render("! " + s) }
func Hint(s string) string  { return styles.help.Render(s) }

// SettingsTable renders the user → autofix map, sorted by user id.
func SettingsTable(userMap map[string]bool) string {
	if len(userMap) == 0 {
		return Hint("no users have set autofix yet")
	}

	ids := make([]string, 0, len(userMap))
	width := len("USER")
	for id := range userMap {
		ids = append(ids, id)
		width = max(width, len(id))
	}
	slices.Sort(ids)

	var b strings.Builder
	b.WriteString(styles.title.UnsetMarginBottom().Render(fmt.Sprintf("%-*s  %s", width, "USER", "AUTOFIX")))
	b.WriteString("\n")
	for _, id := range ids {
		state := styles.help.Render("off")
		if userMap[id] {
			state = styles.ok.Render("on")
		}
		fmt.Fprintf(&b, "%-*s  %s\n", width, id, state)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
