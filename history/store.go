package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFileName is the working-directory-relative history file.
const DefaultFileName = "chaossec_history.json"

// Store holds the execution history in memory and persists it to a JSON
// file. Append is unconditional and in-memory; Persist rewrites the
// entire history so the file stays a single valid JSON array after every
// write.
type Store struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
}

// NewStore creates a store backed by the given file path. If the file
// already exists its entries are loaded, so history carries across runs;
// an unreadable or malformed file starts the store empty rather than
// failing.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFileName
	}
	s := &Store{path: path}
	s.load()
	return s
}

// load reads any previously persisted history. Best effort only.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return
	}
	s.entries = entries
}

// Append adds an entry to the in-memory history.
func (s *Store) Append(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// Persist rewrites the full history to the backing file. The caller is
// expected to log a failure and continue; the in-memory history remains
// authoritative either way.
func (s *Store) Persist() error {
	s.mu.RLock()
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// Entries returns a copy of the full history in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of recorded entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Recent returns up to n of the most recent entries, oldest first.
func (s *Store) Recent(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || len(s.entries) == 0 {
		return nil
	}
	start := len(s.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]Entry, len(s.entries)-start)
	copy(out, s.entries[start:])
	return out
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Analyze runs the history analysis over the store's current entries.
func (s *Store) Analyze() Analysis {
	return Analyze(s.Entries())
}
