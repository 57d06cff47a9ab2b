package core

import (
	"sync"

	coreport "github.com/stellovault/backend/internal/domain/port/core"
)

// LogEntry is a single captured log call
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// MockLogger captures log calls for assertions. It is safe for concurrent use.
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMockLogger creates a capturing logger
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (l *MockLogger) record(level, message string, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: message, Fields: fields})
}

func (l *MockLogger) Debug(message string, fields map[string]any) { l.record("debug", message, fields) }
func (l *MockLogger) Info(message string, fields map[string]any)  { l.record("info", message, fields) }
func (l *MockLogger) Warn(message string, fields map[string]any)  { l.record("warn", message, fields) }
func (l *MockLogger) Error(message string, fields map[string]any) { l.record("error", message, fields) }
func (l *MockLogger) Flush() error                                { return nil }

// Entries returns a copy of all captured entries
func (l *MockLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// CountLevel returns how many entries were logged at the given level
func (l *MockLogger) CountLevel(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

var _ coreport.Logger = (*MockLogger)(nil)
