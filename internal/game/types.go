// internal/game/types.go
//
// Core type definitions for the Wordle game engine.
// Defines:
//   - Mark: per-tile evaluation result (empty/correct/present/absent).
//   - KeyState: best result seen for a key cap, ordered for upgrades.
//   - Letter, Board, Cursor, Keyboard: the board model.
//   - State: coarse game status (playing/won/lost).
//   - Outcome: what a submitted guess produced.

package game

import (
	"encoding/json"
	"fmt"
)

const (
	// Rows is the number of guesses a player gets.
	Rows = 6
	// Cols is the number of letters per guess.
	Cols = 5
)

// Mark represents the evaluation result for a single tile.
//   - "empty":   tile has not been evaluated (typed or blank).
//   - "correct": letter is in the answer at this position.
//   - "present": letter is in the answer at another position.
//   - "absent":  letter is not in the answer.
type Mark string

const (
	MarkEmpty   Mark = "empty"
	MarkCorrect Mark = "correct"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// KeyState is the aggregate status of a key cap across all guesses.
// Values are ordered; a key only ever moves to a higher value.
type KeyState int

const (
	KeyUnused KeyState = iota
	KeyAbsent
	KeyPresent
	KeyCorrect
)

var keyStateNames = [...]string{"unused", "absent", "present", "correct"}

func (k KeyState) String() string {
	if k < KeyUnused || k > KeyCorrect {
		return fmt.Sprintf("KeyState(%d)", int(k))
	}
	return keyStateNames[k]
}

// MarshalText encodes the state by name.
func (k KeyState) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// keyStateFor maps an evaluated tile to its key cap state.
func keyStateFor(m Mark) KeyState {
	switch m {
	case MarkCorrect:
		return KeyCorrect
	case MarkPresent:
		return KeyPresent
	case MarkAbsent:
		return KeyAbsent
	}
	return KeyUnused
}

// Letter is one tile of the board. Char is 0 for a blank tile.
type Letter struct {
	Char rune
	Mark Mark
}

// Empty reports whether no letter has been typed into the tile.
func (l Letter) Empty() bool { return l.Char == 0 }

func (l Letter) String() string {
	if l.Empty() {
		return ""
	}
	return string(l.Char)
}

// MarshalJSON encodes a tile as {"letter":"A","status":"correct"}.
func (l Letter) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Letter string `json:"letter"`
		Status Mark   `json:"status"`
	}{l.String(), l.Mark})
}

var blank = Letter{Mark: MarkEmpty}

// Board is the row-major grid of tiles; row r holds guess r.
type Board [Rows][Cols]Letter

// Word returns the letters of row r joined together (blanks are skipped).
func (b Board) Word(r int) string {
	out := make([]rune, 0, Cols)
	for _, l := range b[r] {
		if !l.Empty() {
			out = append(out, l.Char)
		}
	}
	return string(out)
}

// Cursor identifies the next cell to fill in the active row.
type Cursor struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Keyboard holds the aggregate KeyState of every letter A–Z.
type Keyboard [26]KeyState

// Get returns the state of letter ch (A–Z); other runes report KeyUnused.
func (k Keyboard) Get(ch rune) KeyState {
	if !isLetter(ch) {
		return KeyUnused
	}
	return k[ch-'A']
}

// upgrade raises ch to s if s ranks higher than its current state.
func (k *Keyboard) upgrade(ch rune, s KeyState) {
	if isLetter(ch) && s > k[ch-'A'] {
		k[ch-'A'] = s
	}
}

// MarshalJSON encodes the keyboard as an object keyed by letter.
func (k Keyboard) MarshalJSON() ([]byte, error) {
	m := make(map[string]KeyState, len(k))
	for i, s := range k {
		m[string(rune('A'+i))] = s
	}
	return json.Marshal(m)
}

// State is the coarse status of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Terminal reports whether the game is over.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }

// OutcomeKind tells callers what a submission did.
type OutcomeKind string

const (
	OutcomeNone       OutcomeKind = "none" // nothing was evaluated
	OutcomeContinuing OutcomeKind = "continuing"
	OutcomeWon        OutcomeKind = "won"
	OutcomeLost       OutcomeKind = "lost"
)

// Outcome is the result of a submitted guess.
// Attempts is set when won; Answer is set when lost.
type Outcome struct {
	Kind     OutcomeKind `json:"kind"`
	Attempts int         `json:"attempts,omitempty"`
	Answer   string      `json:"answer,omitempty"`
	Marks    []Mark      `json:"marks,omitempty"`
}

// View is a read-only snapshot of an engine for presentation layers.
// Answer is only filled in once the game is over.
type View struct {
	Board    Board    `json:"board"`
	Cursor   Cursor   `json:"cursor"`
	Keyboard Keyboard `json:"keyboard"`
	State    State    `json:"state"`
	Attempts int      `json:"attempts,omitempty"`
	Answer   string   `json:"answer,omitempty"`
}

func isLetter(ch rune) bool { return ch >= 'A' && ch <= 'Z' }
