package game

import "strings"

// InputKind is the kind of a player input event.
type InputKind int

const (
	InputLetter InputKind = iota
	InputEnter
	InputBackspace
)

// Input is one event from any input source: a key cap click, a physical
// key press or a network frame.
type Input struct {
	Kind   InputKind
	Letter rune // set for InputLetter
}

// LetterInput builds a letter input.
func LetterInput(ch rune) Input { return Input{Kind: InputLetter, Letter: ch} }

var (
	EnterInput     = Input{Kind: InputEnter}
	BackspaceInput = Input{Kind: InputBackspace}
)

// ParseKey maps a key name to an input. Names are case-insensitive:
// "enter"/"return", "backspace"/"delete"/"⌫", or a single letter a–z.
func ParseKey(key string) (Input, bool) {
	raw := strings.TrimSpace(key)
	// Single-byte check first: ToUpper maps some non-ASCII runes onto A–Z.
	if len(raw) == 1 {
		ch := rune(raw[0])
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if isLetter(ch) {
			return LetterInput(ch), true
		}
		return Input{}, false
	}
	switch strings.ToUpper(raw) {
	case "ENTER", "RETURN":
		return EnterInput, true
	case "BACKSPACE", "DELETE", "⌫":
		return BackspaceInput, true
	}
	return Input{}, false
}

// HandleInput dispatches an input to SubmitLetter, SubmitBackspace or
// SubmitGuess. Only InputEnter can produce a non-empty outcome or an error.
func (e *Engine) HandleInput(in Input) (Outcome, error) {
	switch in.Kind {
	case InputLetter:
		e.SubmitLetter(in.Letter)
	case InputBackspace:
		e.SubmitBackspace()
	case InputEnter:
		return e.SubmitGuess()
	}
	return Outcome{Kind: OutcomeNone}, nil
}
