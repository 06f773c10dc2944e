package cache

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"

	"github.com/crimson-sun/winnow/internal/model"
)

// SQLite is a Store backed by a sqlite file. Content survives restarts; the
// labeling session itself is never written here.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the cache database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS item_content (
		block_id   INTEGER PRIMARY KEY,
		code       TEXT NOT NULL,
		language   TEXT DEFAULT '',
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, id int) (model.Content, bool, error) {
	c := model.Content{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT code, language FROM item_content WHERE block_id = ?`, id,
	).Scan(&c.Code, &c.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Content{}, false, nil
	}
	if err != nil {
		return model.Content{}, false, err
	}
	return c, true, nil
}

func (s *SQLite) Put(ctx context.Context, c model.Content) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO item_content (block_id, code, language) VALUES (?, ?, ?)
		 ON CONFLICT(block_id) DO UPDATE SET code = excluded.code, language = excluded.language,
		 fetched_at = CURRENT_TIMESTAMP`,
		c.ID, c.Code, c.Language,
	)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
