package scores

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const defaultMaxKept = 10

// JSONStore keeps the best runs in a local JSON file
type JSONStore struct {
	filePath string
	maxKept  int
	mutex    sync.RWMutex
	data     *jsonData
}

type jsonData struct {
	Entries []Entry `json:"entries"`
}

// NewJSONStore opens the file at filePath, creating it when missing.
func NewJSONStore(filePath string, maxKept int) (*JSONStore, error) {
	if maxKept <= 0 {
		maxKept = defaultMaxKept
	}
	store := &JSONStore{
		filePath: filePath,
		maxKept:  maxKept,
		data:     &jsonData{Entries: []Entry{}},
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load score file: %w", err)
		}
	} else {
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create score file: %w", err)
		}
	}

	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	sortEntries(js.data.Entries)
	return nil
}

func (js *JSONStore) saveToFile() error {
	js.mutex.RLock()
	data, err := json.MarshalIndent(js.data, "", "  ")
	js.mutex.RUnlock()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(js.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(js.filePath, data, 0644)
}

// Save adds an entry and keeps only the best maxKept.
func (js *JSONStore) Save(entry Entry) error {
	js.mutex.Lock()
	js.data.Entries = append(js.data.Entries, entry)
	sortEntries(js.data.Entries)
	if len(js.data.Entries) > js.maxKept {
		js.data.Entries = js.data.Entries[:js.maxKept]
	}
	js.mutex.Unlock()

	return js.saveToFile()
}

// Top returns up to n entries, best first. n <= 0 returns all of them.
func (js *JSONStore) Top(n int) ([]Entry, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	if n <= 0 || n > len(js.data.Entries) {
		n = len(js.data.Entries)
	}
	out := make([]Entry, n)
	copy(out, js.data.Entries[:n])
	return out, nil
}

// Close flushes the file.
func (js *JSONStore) Close() error {
	return js.saveToFile()
}
