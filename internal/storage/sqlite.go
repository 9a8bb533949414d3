package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chitchat/emojikit/internal/emoji"
)

// SQLiteStore is a durable Store backed by an embedded per-user SQLite
// database. Alongside the key-value table it holds the emoji catalog, seeded
// from the embedded bundle on first open, so hosts can treat the database as
// the catalog source.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dbPath and applies
// the schema. A failure here is fatal to picker initialization; callers
// should not retry automatically.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: opening database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: initializing database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS emojis (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		category TEXT NOT NULL,
		ord INTEGER NOT NULL,
		keywords TEXT NOT NULL,
		skintones TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_emojis_category ON emojis(category);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_emojis_category_ord ON emojis(category, ord);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the value stored under key.
func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLiteStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(value))
	return err
}

// Delete removes key.
func (s *SQLiteStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EmojiCount returns the number of catalog records in the database.
func (s *SQLiteStore) EmojiCount() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM emojis`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SeedCatalog inserts the given records if the emoji table is empty. A
// populated table is left untouched, so reseeding on every open is safe.
func (s *SQLiteStore) SeedCatalog(emojis []emoji.Emoji) error {
	count, err := s.EmojiCount()
	if err != nil {
		return fmt.Errorf("storage: counting emojis: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: starting seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO emojis (id, name, value, category, ord, keywords, skintones)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage: preparing seed statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range emojis {
		keywords, err := json.Marshal(e.Keywords)
		if err != nil {
			return fmt.Errorf("storage: encoding keywords for %q: %w", e.ID, err)
		}
		var skintones []byte
		if len(e.Variants) > 0 {
			skintones, err = json.Marshal(e.Variants)
			if err != nil {
				return fmt.Errorf("storage: encoding skintones for %q: %w", e.ID, err)
			}
		}
		if _, err := stmt.Exec(e.ID, e.Name, e.Value, string(e.Category), e.Order,
			string(keywords), nullableString(skintones)); err != nil {
			return fmt.Errorf("storage: inserting %q: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// FetchEmojis reads the records of the requested categories, ordered per
// category via the (category, ord) index, category-contiguous in the
// requested order.
func (s *SQLiteStore) FetchEmojis(categories []emoji.Category) ([]emoji.Emoji, error) {
	var out []emoji.Emoji
	for _, cat := range categories {
		rows, err := s.db.Query(
			`SELECT id, name, value, category, ord, keywords, skintones
			 FROM emojis WHERE category = ? ORDER BY ord`, string(cat))
		if err != nil {
			return nil, fmt.Errorf("storage: fetching category %q: %w", cat, err)
		}
		batch, err := scanEmojis(rows)
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("storage: scanning category %q: %w", cat, err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

// LoadCatalog reads every record from the database into a validated catalog.
func (s *SQLiteStore) LoadCatalog() (*emoji.Catalog, error) {
	rows, err := s.db.Query(
		`SELECT id, name, value, category, ord, keywords, skintones FROM emojis`)
	if err != nil {
		return nil, fmt.Errorf("storage: loading catalog: %w", err)
	}
	defer rows.Close()

	emojis, err := scanEmojis(rows)
	if err != nil {
		return nil, fmt.Errorf("storage: scanning catalog: %w", err)
	}
	return emoji.NewCatalog(emojis)
}

func scanEmojis(rows *sql.Rows) ([]emoji.Emoji, error) {
	var out []emoji.Emoji
	for rows.Next() {
		var (
			e         emoji.Emoji
			category  string
			keywords  string
			skintones sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Value, &category, &e.Order,
			&keywords, &skintones); err != nil {
			return nil, err
		}
		e.Category = emoji.Category(category)
		if err := json.Unmarshal([]byte(keywords), &e.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords for %q: %w", e.ID, err)
		}
		if skintones.Valid && skintones.String != "" {
			if err := json.Unmarshal([]byte(skintones.String), &e.Variants); err != nil {
				return nil, fmt.Errorf("decoding skintones for %q: %w", e.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullableString(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
