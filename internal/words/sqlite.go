// internal/words/sqlite.go
//
// SQLite-backed answer list.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout).
//   - Creating the answers table on first use and seeding it with the
//     embedded list, so a fresh database file is immediately playable.
//   - Reading the list back in a stable order.

package words

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `CREATE TABLE IF NOT EXISTS answers (word TEXT PRIMARY KEY);`

// LoadSQLite returns every valid word in the answers table of dsn.
func LoadSQLite(ctx context.Context, dsn string) ([]string, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create answers: %w", err)
	}
	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT word FROM answers ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		if nw, ok := Normalize(w); ok {
			out = append(out, nw)
		} else {
			log.Warn().Str("word", w).Msg("skipping invalid answer row")
		}
	}
	return out, rows.Err()
}

// SaveSQLite inserts list into the answers table, ignoring duplicates.
// Invalid words are rejected before anything is written.
func SaveSQLite(ctx context.Context, dsn string, list []string) error {
	norm := make([]string, 0, len(list))
	for _, w := range list {
		nw, ok := Normalize(w)
		if !ok {
			return fmt.Errorf("invalid word %q", w)
		}
		norm = append(norm, nw)
	}

	db, err := openDB(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create answers: %w", err)
	}
	return insert(ctx, db, norm)
}

// seed fills an empty answers table with the embedded list.
func seed(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM answers`).Scan(&n); err != nil {
		return fmt.Errorf("count answers: %w", err)
	}
	if n > 0 {
		return nil
	}
	def := Default()
	if err := insert(ctx, db, def); err != nil {
		return err
	}
	log.Info().Int("count", len(def)).Msg("seeded answers table")
	return nil
}

func insert(ctx context.Context, db *sql.DB, list []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, w := range list {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO answers(word) VALUES (?)`, w); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s: %w", w, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit answers: %w", err)
	}
	return nil
}

// openDB opens (and creates if missing) a SQLite database file.
// The parent directory is created for relative paths like ./data/words.db.
func openDB(dsn string) (*sql.DB, error) {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", dsn+sep+"_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	return db, nil
}
