package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// HistoryBufferSize is the recommended buffer size for history sink
// subscriptions.
const HistoryBufferSize = 256

// CurrentHistoryVersion is the current history file format version.
// Increment this when making incompatible changes to the History struct.
const CurrentHistoryVersion = 1

// LastWorkout records the configuration and outcome of the most recent
// completed workout.
type LastWorkout struct {
	WorkSeconds    int       `json:"work_seconds"`
	RestSeconds    int       `json:"rest_seconds"`
	Rounds         int       `json:"rounds"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	CompletedAt    time.Time `json:"completed_at"`
}

// History is the persistent cumulative workout record.
type History struct {
	Version          int          `json:"version"`
	TotalStarted     int          `json:"total_started"`
	TotalCompleted   int          `json:"total_completed"`
	TotalRounds      int          `json:"total_rounds"`
	TotalWorkSeconds int          `json:"total_work_seconds"`
	Last             *LastWorkout `json:"last,omitempty"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// DefaultMinSaveDelay is the minimum time between debounced saves.
const DefaultMinSaveDelay = 5 * time.Second

// HistorySink accumulates workout history from timer events and persists
// it to a JSON file, surviving crashes mid-session.
type HistorySink struct {
	path     string
	history  *History
	dirty    bool
	mu       sync.Mutex
	done     chan struct{}
	lastSave time.Time
	minDelay time.Duration

	// pendingStart holds the config of the in-flight workout so a later
	// completion event can be attributed to it.
	pendingStart *TimerStartedEvent
}

// NewHistorySink creates a HistorySink that writes to the specified path.
func NewHistorySink(path string) *HistorySink {
	return &HistorySink{
		path: path,
		history: &History{
			Version: CurrentHistoryVersion,
		},
		done:     make(chan struct{}),
		minDelay: DefaultMinSaveDelay,
	}
}

// Start ensures the directory exists, loads existing history, and begins
// processing events.
func (s *HistorySink) Start(ctx context.Context, events <-chan Event) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load history: %w", err)
	}

	go s.run(ctx, events)
	return nil
}

func (s *HistorySink) run(ctx context.Context, events <-chan Event) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			s.flushIfDirty()
			return
		case event, ok := <-events:
			if !ok {
				s.flushIfDirty()
				return
			}
			s.handleEvent(event)
		}
	}
}

func (s *HistorySink) handleEvent(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := event.(type) {
	case *TimerStartedEvent:
		s.history.TotalStarted++
		s.pendingStart = e
		s.dirty = true

	case *TimerTickEvent:
		// Accumulate work seconds as they happen so an interrupted
		// session still counts the effort spent.
		if e.Phase == "work" {
			s.history.TotalWorkSeconds++
			s.dirty = true
		}

	case *TimerCompletedEvent:
		s.history.TotalCompleted++
		s.history.TotalRounds += e.Rounds
		last := &LastWorkout{
			Rounds:         e.Rounds,
			ElapsedSeconds: e.ElapsedSeconds,
			CompletedAt:    event.Timestamp(),
		}
		if s.pendingStart != nil {
			last.WorkSeconds = s.pendingStart.WorkSeconds
			last.RestSeconds = s.pendingStart.RestSeconds
		}
		s.history.Last = last
		s.pendingStart = nil
		s.dirty = true
		// Always save immediately on completion
		s.saveUnlocked()
		return

	case *TimerResetEvent:
		s.pendingStart = nil
		if s.dirty {
			s.saveUnlocked()
		}
		return
	}

	// Debounced save
	if s.dirty && time.Since(s.lastSave) >= s.minDelay {
		s.saveUnlocked()
	}
}

func (s *HistorySink) saveUnlocked() {
	s.history.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(s.history, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "history sink: marshal error: %v\n", err)
		return
	}

	// Atomic write: temp file + rename
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "history sink: write error: %v\n", err)
		return
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		fmt.Fprintf(os.Stderr, "history sink: rename error: %v\n", err)
		return
	}

	s.dirty = false
	s.lastSave = time.Now()
}

func (s *HistorySink) flushIfDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty {
		s.saveUnlocked()
	}
}

// Stop waits for the run goroutine to finish; a final save happens there
// if anything is unflushed.
func (s *HistorySink) Stop() error {
	<-s.done
	return nil
}

// Load reads the history file from disk. If the version is missing or
// incompatible, or the JSON is corrupt, the old file is backed up and a
// fresh history is used.
func (s *HistorySink) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		if backupErr := s.backupHistoryFile(); backupErr != nil {
			slog.Warn("history file corrupted, failed to backup",
				"path", s.path,
				"error", err,
				"backup_error", backupErr)
		} else {
			slog.Warn("history file corrupted, backed up and starting fresh",
				"path", s.path,
				"error", err)
		}
		s.resetHistory()
		return nil
	}

	if h.Version == 0 || h.Version != CurrentHistoryVersion {
		if backupErr := s.backupHistoryFile(); backupErr != nil {
			slog.Warn("incompatible history version, failed to backup",
				"path", s.path,
				"file_version", h.Version,
				"current_version", CurrentHistoryVersion,
				"backup_error", backupErr)
		} else {
			slog.Warn("incompatible history version, backed up and starting fresh",
				"path", s.path,
				"file_version", h.Version,
				"current_version", CurrentHistoryVersion)
		}
		s.resetHistory()
		return nil
	}

	s.history = &h
	return nil
}

// backupHistoryFile moves the current history file to a .backup file.
// Must be called with s.mu held.
func (s *HistorySink) backupHistoryFile() error {
	backupPath := s.path + ".backup"
	return os.Rename(s.path, backupPath)
}

// resetHistory initializes a fresh history.
// Must be called with s.mu held.
func (s *HistorySink) resetHistory() {
	s.history = &History{
		Version: CurrentHistoryVersion,
	}
}

// History returns a copy of the current history.
func (s *HistorySink) History() History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.history
}

// Path returns the history file path.
func (s *HistorySink) Path() string {
	return s.path
}

// SetMinDelay sets the minimum delay between saves (for testing).
func (s *HistorySink) SetMinDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minDelay = d
}
