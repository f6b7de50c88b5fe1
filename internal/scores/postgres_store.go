package scores

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore keeps run results in a PostgreSQL table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects and makes sure the schema exists.
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		player TEXT NOT NULL,
		collected INTEGER NOT NULL,
		total INTEGER NOT NULL,
		elapsed_ms BIGINT NOT NULL,
		finished_at TIMESTAMP WITH TIME ZONE NOT NULL
	);
	`
	_, err := ps.db.Exec(schema)
	return err
}

// Save inserts a run result.
func (ps *PostgresStore) Save(entry Entry) error {
	query := `
	INSERT INTO runs (id, player, collected, total, elapsed_ms, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO NOTHING
	`
	_, err := ps.db.Exec(query,
		entry.ID, entry.Player, entry.Collected, entry.Total,
		entry.Elapsed.Milliseconds(), entry.Date)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Top returns up to n results, best first. n <= 0 returns all of them.
func (ps *PostgresStore) Top(n int) ([]Entry, error) {
	query := `SELECT id, player, collected, total, elapsed_ms, finished_at FROM runs
	ORDER BY collected DESC, elapsed_ms ASC, finished_at ASC`
	args := []any{}
	if n > 0 {
		query += ` LIMIT $1`
		args = append(args, n)
	}

	rows, err := ps.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var elapsedMS int64
		if err := rows.Scan(&e.ID, &e.Player, &e.Collected, &e.Total, &elapsedMS, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
