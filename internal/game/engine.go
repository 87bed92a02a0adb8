// internal/game/engine.go
//
// Core game engine for a single Wordle session.
// Responsibilities:
//   - Pick a random answer from the word list and reset the 6x5 board.
//   - Accept letters and backspaces into the active row.
//   - Score full rows and aggregate key cap states.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - The engine is not safe for concurrent use. Callers serialize events
//     (see store.Session.Do).
//   - Scoring is per position: a guess letter is "present" whenever the
//     answer contains it elsewhere, even if another tile already matched
//     that answer letter. Repeated letters in a guess can therefore all be
//     marked present.
package game

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"strings"
)

// randSource feeds answer selection.
var randSource io.Reader = rand.Reader

// ErrIncompleteGuess is returned by SubmitGuess when the active row is not full.
var ErrIncompleteGuess = errors.New("not enough letters")

// Observer is called with a fresh View after every state change.
type Observer func(View)

type observerEntry struct {
	id int
	fn Observer
}

// Engine owns the state of one game and is its only mutation surface.
type Engine struct {
	words  []string
	answer string
	board  Board
	cursor Cursor
	keys   Keyboard
	state  State

	observers []observerEntry
	nextObsID int
}

// New constructs an engine over the given answer list and starts a game.
// Words are upper-cased; the list must not be empty.
func New(words []string) *Engine {
	if len(words) == 0 {
		panic("game: empty word list")
	}
	list := make([]string, len(words))
	for i, w := range words {
		list[i] = strings.ToUpper(w)
	}
	e := &Engine{words: list}
	e.reset()
	return e
}

// Initialize starts a new game with a fresh random answer. It is used both
// at startup and for "play again"; all prior state is discarded.
func (e *Engine) Initialize() {
	e.reset()
	e.notify()
}

func (e *Engine) reset() {
	e.answer = e.words[randomIndex(len(e.words))]
	e.cursor = Cursor{}
	e.keys = Keyboard{}
	e.state = StatePlaying
	for r := range e.board {
		for c := range e.board[r] {
			e.board[r][c] = blank
		}
	}
}

// SubmitLetter types ch into the next cell of the active row.
// Ignored when the row is full, the game is over, or ch is not A–Z.
func (e *Engine) SubmitLetter(ch rune) {
	if e.state != StatePlaying || !isLetter(ch) || e.cursor.Col >= Cols {
		return
	}
	e.board[e.cursor.Row][e.cursor.Col] = Letter{Char: ch, Mark: MarkEmpty}
	e.cursor.Col++
	e.notify()
}

// SubmitBackspace clears the last typed cell of the active row.
// Ignored at column 0 or when the game is over.
func (e *Engine) SubmitBackspace() {
	if e.state != StatePlaying || e.cursor.Col == 0 {
		return
	}
	e.cursor.Col--
	e.board[e.cursor.Row][e.cursor.Col] = blank
	e.notify()
}

// SubmitGuess scores the active row.
//
// Returns ErrIncompleteGuess, leaving all state untouched, when fewer than
// Cols letters are typed. When the game is already over the call is ignored
// and the outcome kind is OutcomeNone.
//
// State transitions:
//   - Row equals the answer → won; Outcome.Attempts = row + 1.
//   - Else last row used → lost; Outcome.Answer = answer.
//   - Else advance to the next row.
func (e *Engine) SubmitGuess() (Outcome, error) {
	if e.state != StatePlaying {
		return Outcome{Kind: OutcomeNone}, nil
	}
	if e.cursor.Col != Cols {
		return Outcome{Kind: OutcomeNone}, ErrIncompleteGuess
	}

	row := e.cursor.Row
	guess := e.board.Word(row)
	marks := scoreGuess(e.answer, guess)
	for i, m := range marks {
		e.board[row][i].Mark = m
		e.keys.upgrade(e.board[row][i].Char, keyStateFor(m))
	}

	out := Outcome{Marks: marks}
	switch {
	case guess == e.answer:
		e.state = StateWon
		out.Kind, out.Attempts = OutcomeWon, row+1
	case row == Rows-1:
		e.state = StateLost
		out.Kind, out.Answer = OutcomeLost, e.answer
	default:
		e.cursor = Cursor{Row: row + 1}
		out.Kind = OutcomeContinuing
	}
	e.notify()
	return out, nil
}

// scoreGuess marks every position independently:
//   - same letter at the same position → correct
//   - letter anywhere else in the answer → present
//   - otherwise → absent
//
// Answer letters are never consumed by earlier matches.
func scoreGuess(answer, guess string) []Mark {
	res := make([]Mark, len(guess))
	for i := 0; i < len(guess); i++ {
		g := guess[i]
		switch {
		case i < len(answer) && answer[i] == g:
			res[i] = MarkCorrect
		case strings.IndexByte(answer, g) >= 0:
			res[i] = MarkPresent
		default:
			res[i] = MarkAbsent
		}
	}
	return res
}

// Board returns a copy of the board.
func (e *Engine) Board() Board { return e.board }

// Cursor returns the position of the next cell to fill.
func (e *Engine) Cursor() Cursor { return e.cursor }

// Keyboard returns a copy of the key cap states.
func (e *Engine) Keyboard() Keyboard { return e.keys }

// Status returns the current game state.
func (e *Engine) Status() State { return e.state }

// Answer returns the current target word. Presentation layers should rely
// on View, which only reveals it once the game is over.
func (e *Engine) Answer() string { return e.answer }

// View returns a snapshot of the game for rendering.
func (e *Engine) View() View {
	v := View{
		Board:    e.board,
		Cursor:   e.cursor,
		Keyboard: e.keys,
		State:    e.state,
	}
	if e.state.Terminal() {
		v.Answer = e.answer
	}
	if e.state == StateWon {
		v.Attempts = e.cursor.Row + 1
	}
	return v
}

// Observe registers fn to be called after every state change.
// The returned function removes it.
func (e *Engine) Observe(fn Observer) (cancel func()) {
	e.nextObsID++
	id := e.nextObsID
	e.observers = append(e.observers, observerEntry{id: id, fn: fn})
	return func() {
		for i, o := range e.observers {
			if o.id == id {
				e.observers = append(e.observers[:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	v := e.View()
	for _, o := range append([]observerEntry(nil), e.observers...) {
		o.fn(v)
	}
}

// randomIndex returns a uniformly distributed index in [0, n).
func randomIndex(n int) int {
	if n <= 1 {
		return 0
	}
	nBig, err := rand.Int(randSource, big.NewInt(int64(n)))
	if err != nil {
		panic("game: read random source: " + err.Error())
	}
	return int(nBig.Int64())
}
