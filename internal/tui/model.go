package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-clone/internal/game"
)

// Key cap rows, top to bottom.
var keyRows = [3]string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

// Model is the terminal presentation of one engine. It only reads the
// engine through View snapshots delivered by an observer and sends input
// through HandleInput.
type Model struct {
	engine *game.Engine
	view   game.View
	cancel func()

	notice string
	isErr  bool
	width  int

	keys keyMap
	help help.Model
}

// Ensure Model implements tea.Model.
var _ tea.Model = (*Model)(nil)

// New creates a model around e and starts observing it.
func New(e *game.Engine) *Model {
	m := &Model{
		engine: e,
		view:   e.View(),
		keys:   newKeyMap(),
		help:   help.New(),
	}
	m.cancel = e.Observe(func(v game.View) { m.view = v })
	return m
}

// Close stops observing the engine.
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	if m.view.State.Terminal() {
		if key.Matches(msg, m.keys.NewGame) {
			m.engine.Initialize()
			m.setNotice("", false)
			m.keys.setGameOver(false)
		}
		return nil
	}

	in, ok := game.ParseKey(msg.String())
	if !ok {
		return nil
	}
	out, err := m.engine.HandleInput(in)
	switch {
	case errors.Is(err, game.ErrIncompleteGuess):
		m.setNotice("Not enough letters", true)
	case err != nil:
		log.Error().Err(err).Msg("handle input")
		m.setNotice(err.Error(), true)
	case out.Kind == game.OutcomeWon:
		m.setNotice(fmt.Sprintf("You guessed the word in %d attempts!", out.Attempts), false)
		m.keys.setGameOver(true)
	case out.Kind == game.OutcomeLost:
		m.setNotice("The word was: "+out.Answer, true)
		m.keys.setGameOver(true)
	case in.Kind != game.InputEnter:
		// Typing clears a stale warning.
		if m.isErr {
			m.setNotice("", false)
		}
	default:
		m.setNotice("", false)
	}
	return nil
}

func (m *Model) setNotice(s string, isErr bool) {
	m.notice, m.isErr = s, isErr
}

// Notice returns the current notification text.
func (m *Model) Notice() string { return m.notice }

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("WORDLE"))
	b.WriteString("\n")
	b.WriteString(Styles.Hint.Render("Guess the 5-letter word in 6 tries!"))
	b.WriteString("\n\n")
	b.WriteString(renderBoard(m.view))
	b.WriteString("\n\n")
	if m.notice != "" {
		st := Styles.Notice
		if m.isErr {
			st = Styles.Error
		}
		b.WriteString(st.Render(m.notice))
	}
	b.WriteString("\n\n")
	b.WriteString(renderKeyboard(m.view.Keyboard))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	out := b.String()
	if m.width > 0 {
		out = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, out)
	}
	return out
}

// renderBoard draws the 6x5 grid; the cursor cell of an unfinished game
// is highlighted.
func renderBoard(v game.View) string {
	rows := make([]string, 0, game.Rows)
	for r := 0; r < game.Rows; r++ {
		tiles := make([]string, 0, game.Cols)
		for c := 0; c < game.Cols; c++ {
			l := v.Board[r][c]
			switch {
			case !l.Empty():
				tiles = append(tiles, tileStyle(l.Mark).Render(l.String()))
			case v.State == game.StatePlaying && r == v.Cursor.Row && c == v.Cursor.Col:
				tiles = append(tiles, Styles.TileActive.Render("_"))
			default:
				tiles = append(tiles, Styles.TileBlank.Render("·"))
			}
		}
		rows = append(rows, strings.Join(tiles, " "))
	}
	return strings.Join(rows, "\n")
}

// renderKeyboard draws the key caps coloured by aggregate state.
func renderKeyboard(k game.Keyboard) string {
	lines := make([]string, 0, len(keyRows))
	for i, row := range keyRows {
		caps := make([]string, 0, len(row)+2)
		if i == len(keyRows)-1 {
			caps = append(caps, Styles.Key.Render("ENTER"))
		}
		for _, ch := range row {
			caps = append(caps, keyStyle(k.Get(ch)).Render(string(ch)))
		}
		if i == len(keyRows)-1 {
			caps = append(caps, Styles.Key.Render("⌫"))
		}
		lines = append(lines, strings.Join(caps, " "))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}
