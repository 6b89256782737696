package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

var ErrItemNotFound = errors.New("item not found")

// Store holds the normalized inventory snapshot in an in-memory sqlite
// table. Read-only after Load within a session; nothing here ever writes
// back to the source file.
type Store struct {
	db *sql.DB
}

func NewStore() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// A single connection keeps every query on the same :memory: database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS items(
  row_id   INTEGER PRIMARY KEY AUTOINCREMENT,
  item_id  INTEGER,
  category TEXT NOT NULL DEFAULT '',
  name     TEXT NOT NULL,
  stock    INTEGER NOT NULL DEFAULT 0,
  price    TEXT NOT NULL DEFAULT '0'
);
CREATE INDEX IF NOT EXISTS idx_items_name ON items(name);
CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

// Load replaces the whole snapshot in one transaction.
func (s *Store) Load(ctx context.Context, items []Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return err
	}
	stmt := `INSERT INTO items(item_id, category, name, stock, price) VALUES(?,?,?,?,?)`
	for _, it := range items {
		var id any
		if it.ID != nil {
			id = *it.ID
		}
		if _, err := tx.ExecContext(ctx, stmt, id, it.Category, it.Name, it.Stock, it.Price.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) Items(ctx context.Context) ([]Item, error) {
	return s.query(ctx, `SELECT item_id, category, name, stock, price FROM items ORDER BY row_id`)
}

func (s *Store) ItemsByCategory(ctx context.Context, category string) ([]Item, error) {
	return s.query(ctx,
		`SELECT item_id, category, name, stock, price FROM items WHERE category=? ORDER BY row_id`,
		category)
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM items WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Lookup fetches the first row carrying the given name.
func (s *Store) Lookup(ctx context.Context, name string) (Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT item_id, category, name, stock, price FROM items WHERE name=? ORDER BY row_id LIMIT 1`,
		name)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, name)
	}
	return it, err
}

// Availability returns current stock per name for the given names. Names
// absent from the snapshot are simply missing from the map.
func (s *Store) Availability(ctx context.Context, names []string) (map[string]int, error) {
	out := map[string]int{}
	if len(names) == 0 {
		return out, nil
	}
	q := `SELECT name, stock FROM items WHERE name IN (` + placeholders(len(names)) + `)`
	rows, err := s.db.QueryContext(ctx, q, toAny(names)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var stock int
		if err := rows.Scan(&name, &stock); err != nil {
			return nil, err
		}
		out[name] = stock
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(r rowScanner) (Item, error) {
	var it Item
	var id sql.NullInt64
	var price string
	if err := r.Scan(&id, &it.Category, &it.Name, &it.Stock, &price); err != nil {
		return Item{}, err
	}
	if id.Valid {
		v := id.Int64
		it.ID = &v
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return Item{}, fmt.Errorf("bad stored price %q: %w", price, err)
	}
	it.Price = d
	return it, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// helpers
func placeholders(n int) string {
	s := "?"
	for i := 1; i < n; i++ {
		s += ",?"
	}
	return s
}

func toAny[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, v := range xs {
		out[i] = v
	}
	return out
}
