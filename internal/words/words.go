// internal/words/words.go
//
// Provides the answer list for the game engine.
//
// Responsibilities:
//   - Ship the default 24-word answer list (embedded).
//   - Load an override list from a newline file or a SQLite table.
//   - Normalize and validate words (exactly 5 uppercase letters A–Z).
//
// Load precedence:
//   1. Options.DB   (WORDS_DB)            → SQLite "answers" table.
//   2. Options.File (WORDS_ANSWERS_FILE)  → one word per line.
//   3. Embedded default_answers.txt.
//
// Constraints:
//   • Lines that are not 5 ASCII letters are skipped; "#" starts a comment.
//   • Lists are normalized to uppercase and de-duplicated in order.
//   • An empty result is an error: the engine cannot start without answers.

package words

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed default_answers.txt
var embeddedAnswers string

// Length is the number of letters in every word.
const Length = 5

// ErrEmpty is returned when a source yields no usable words.
var ErrEmpty = errors.New("words: answers list is empty")

// Options selects the word source. Empty fields fall through to the next
// source in precedence order.
type Options struct {
	DB   string // SQLite DSN / path
	File string // newline-separated word file
}

// Load returns the answer list selected by opts. When both DB and File
// are set, the file's words are first imported into the database.
func Load(ctx context.Context, opts Options) ([]string, error) {
	if opts.DB != "" && opts.File != "" {
		if err := importFile(ctx, opts.DB, opts.File); err != nil {
			return nil, fmt.Errorf("import %s into %s: %w", opts.File, opts.DB, err)
		}
	}

	var (
		list   []string
		err    error
		source string
	)
	switch {
	case opts.DB != "":
		source = opts.DB
		list, err = LoadSQLite(ctx, opts.DB)
	case opts.File != "":
		source = opts.File
		list, err = readWordFile(opts.File)
	default:
		source = "embedded"
		list = Default()
	}
	if err != nil {
		return nil, fmt.Errorf("load words from %s: %w", source, err)
	}
	if len(list) == 0 {
		return nil, ErrEmpty
	}
	log.Debug().Str("source", source).Int("count", len(list)).Msg("word list loaded")
	return list, nil
}

func importFile(ctx context.Context, dsn, path string) error {
	list, err := readWordFile(path)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return ErrEmpty
	}
	if err := SaveSQLite(ctx, dsn, list); err != nil {
		return err
	}
	log.Info().Str("file", path).Int("count", len(list)).Msg("imported answers into database")
	return nil
}

// Default returns a fresh copy of the embedded answer list.
func Default() []string {
	list, _ := parse(strings.NewReader(embeddedAnswers))
	return list
}

// Valid reports whether w is exactly Length uppercase ASCII letters.
func Valid(w string) bool {
	if len(w) != Length {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}

// Normalize trims and upper-cases w and reports whether the result is Valid.
func Normalize(w string) (string, bool) {
	w = strings.ToUpper(strings.TrimSpace(w))
	return w, Valid(w)
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

// parse reads words line by line, keeping only valid, unseen words.
func parse(r io.Reader) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w, ok := Normalize(line)
		if !ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out, sc.Err()
}
