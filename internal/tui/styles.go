package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/wordle-clone/internal/game"
)

// Theme colors used throughout the UI
const (
	ColorCorrect = "34"  // Green
	ColorPresent = "178" // Yellow
	ColorAbsent  = "240" // Dark gray
	ColorUnused  = "250" // Light gray - untouched key caps
	ColorText    = "255"
	ColorMuted   = "241"
	ColorDanger  = "196"
	ColorAccent  = "86"
)

// Styles contains shared style definitions for the board, keyboard and
// notification line.
var Styles = struct {
	Title  lipgloss.Style
	Hint   lipgloss.Style
	Notice lipgloss.Style
	Error  lipgloss.Style

	Tile       lipgloss.Style // base tile, typed but not scored
	TileBlank  lipgloss.Style
	TileActive lipgloss.Style // blank tile at the cursor

	Key lipgloss.Style // base key cap
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Notice: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorText)),
	Error: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Tile: lipgloss.NewStyle().
		Bold(true).
		Width(3).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color(ColorText)).
		Background(lipgloss.Color("236")),
	TileBlank: lipgloss.NewStyle().
		Width(3).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color(ColorMuted)).
		Background(lipgloss.Color("235")),
	TileActive: lipgloss.NewStyle().
		Width(3).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color(ColorAccent)).
		Background(lipgloss.Color("235")),
	Key: lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color(ColorUnused)),
}

// tileStyle picks the style of a scored or typed tile.
func tileStyle(m game.Mark) lipgloss.Style {
	switch m {
	case game.MarkCorrect:
		return Styles.Tile.Background(lipgloss.Color(ColorCorrect))
	case game.MarkPresent:
		return Styles.Tile.Background(lipgloss.Color(ColorPresent))
	case game.MarkAbsent:
		return Styles.Tile.Background(lipgloss.Color(ColorAbsent))
	}
	return Styles.Tile
}

// keyStyle picks the style of a key cap from its aggregate state.
func keyStyle(s game.KeyState) lipgloss.Style {
	switch s {
	case game.KeyCorrect:
		return Styles.Key.Foreground(lipgloss.Color(ColorText)).Background(lipgloss.Color(ColorCorrect))
	case game.KeyPresent:
		return Styles.Key.Foreground(lipgloss.Color(ColorText)).Background(lipgloss.Color(ColorPresent))
	case game.KeyAbsent:
		return Styles.Key.Foreground(lipgloss.Color(ColorText)).Background(lipgloss.Color(ColorAbsent))
	}
	return Styles.Key
}
