package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/google/uuid"
)

// MaxLocalEntries bounds the local recent-analyses file.
const MaxLocalEntries = 10

// HistoryMode selects where `history` listings come from.
type HistoryMode string

const (
	HistoryModeSync  HistoryMode = "sync"
	HistoryModeLocal HistoryMode = "local"
)

func ParseHistoryMode(s string) (HistoryMode, error) {
	switch m := HistoryMode(s); m {
	case HistoryModeSync, HistoryModeLocal:
		return m, nil
	default:
		return "", fmt.Errorf("unknown history mode %q (want sync or local)", s)
	}
}

type LocalEntry struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Score    int             `json:"score"`
	Name     string          `json:"name"`
	Preview  string          `json:"summary"`
	Recorded bool            `json:"recorded"`
	Result   model.AiSummary `json:"result"`
}

// LocalHistory is a JSON file of the most recent analyses, newest first.
type LocalHistory struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewLocalHistory(path string) *LocalHistory {
	return &LocalHistory{path: path, now: time.Now}
}

// DefaultLocalHistoryPath is history.json under the user cache directory.
func DefaultLocalHistoryPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "resume-analyzer", "history.json"), nil
}

// Add records an analysis result. id is the server id when the result was
// recorded remotely; an empty id gets a generated local one. It reports false
// when the entry matches the current newest by score and name.
func (h *LocalHistory) Add(id string, result model.AiSummary) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load()
	if err != nil {
		return false, err
	}

	entry := LocalEntry{
		ID:       id,
		Date:     h.now().UTC(),
		Score:    result.OverallScore,
		Name:     result.ResumeData.Name,
		Preview:  preview(result.Summary),
		Recorded: id != "",
		Result:   result,
	}
	if entry.ID == "" {
		entry.ID = "local-" + uuid.NewString()
	}
	if entry.Name == "" {
		entry.Name = "Unknown"
	}

	if len(entries) > 0 && entries[0].Score == entry.Score && entries[0].Name == entry.Name {
		return false, nil
	}

	kept := []LocalEntry{entry}
	for _, e := range entries {
		if len(kept) == MaxLocalEntries {
			break
		}
		if e.ID != entry.ID {
			kept = append(kept, e)
		}
	}
	return true, h.save(kept)
}

func (h *LocalHistory) List() ([]LocalEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

func (h *LocalHistory) Get(id string) (*LocalEntry, bool, error) {
	entries, err := h.List()
	if err != nil {
		return nil, false, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], true, nil
		}
	}
	return nil, false, nil
}

func (h *LocalHistory) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear local history: %w", err)
	}
	return nil
}

func (h *LocalHistory) load() ([]LocalEntry, error) {
	raw, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return []LocalEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local history: %w", err)
	}
	entries := []LocalEntry{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode local history: %w", err)
	}
	return entries, nil
}

// save replaces the history file atomically.
func (h *LocalHistory) save(entries []LocalEntry) error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return fmt.Errorf("create local history dir: %w", err)
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(h.path), ".history-*.json")
	if err != nil {
		return fmt.Errorf("write local history: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write local history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write local history: %w", err)
	}
	return os.Rename(tmp.Name(), h.path)
}

func preview(s string) string {
	const n = 100
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
