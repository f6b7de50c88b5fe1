package scores

import (
	"fmt"
	"sort"
	"time"

	"touchdown/internal/config"

	"github.com/google/uuid"
)

// Entry is the result of one finished run.
type Entry struct {
	ID        string        `json:"id"`
	Player    string        `json:"player"`
	Collected int           `json:"collected"`
	Total     int           `json:"total"`
	Elapsed   time.Duration `json:"elapsed"`
	Date      time.Time     `json:"date"`
}

// NewEntry stamps a result with a fresh ID and the current time.
func NewEntry(player string, collected, total int, elapsed time.Duration) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Player:    player,
		Collected: collected,
		Total:     total,
		Elapsed:   elapsed,
		Date:      time.Now().UTC(),
	}
}

// Store persists run results
type Store interface {
	Save(entry Entry) error
	Top(n int) ([]Entry, error)
	Close() error
}

// Open returns the store selected by the scores config section.
func Open(cfg config.ScoresConfig) (Store, error) {
	switch cfg.Backend {
	case "", "json":
		return NewJSONStore(cfg.File, cfg.MaxKept)
	case "postgres":
		return NewPostgresStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown score backend %q", cfg.Backend)
	}
}

// better orders entries: more balls first, then the faster run, then the
// earlier one.
func better(a, b Entry) bool {
	if a.Collected != b.Collected {
		return a.Collected > b.Collected
	}
	if a.Elapsed != b.Elapsed {
		return a.Elapsed < b.Elapsed
	}
	return a.Date.Before(b.Date)
}

// sortEntries orders entries best first.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return better(entries[i], entries[j])
	})
}

// GetRank returns the rank (1-based) that this entry would achieve
func GetRank(entries []Entry, entry Entry) int {
	for i, e := range entries {
		if better(entry, e) {
			return i + 1
		}
	}
	return len(entries) + 1
}
