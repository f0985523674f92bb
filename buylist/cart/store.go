package cart

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Store persists the full cart state. The cart has exactly one writer (the
// owning client), so Load/Save need no coordination.
type Store interface {
	// Load restores the persisted lines. Missing or malformed state must
	// come back as an empty cart, never as an error.
	Load() []Line
	Save(lines []Line) error
}

// FileStore keeps the cart in a JSON file, mirroring the generated page's
// localStorage contract (stable key, parse failures reset to empty).
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load() []Line {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil
	}
	// Quantities outside [1, Cap] in persisted state are corrected on load.
	for i := range lines {
		if lines[i].Qty < 1 {
			lines[i].Qty = 1
		}
		if lines[i].Qty > Cap {
			lines[i].Qty = Cap
		}
	}
	return lines
}

func (s *FileStore) Save(lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o644)
}

// MemoryStore backs a cart that should not outlive the process.
type MemoryStore struct {
	lines []Line
}

func (s *MemoryStore) Load() []Line { return s.lines }

func (s *MemoryStore) Save(lines []Line) error {
	s.lines = append([]Line(nil), lines...)
	return nil
}
