package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/errors"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/logging"
)

// EventType classifies a journal entry.
type EventType string

const (
	EventStatus  EventType = "status"
	EventOutput  EventType = "output"
	EventWarning EventType = "warning"
	EventSuccess EventType = "success"
	EventFailure EventType = "failure"
)

// Event represents a single journal entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Message   string    `json:"message,omitempty"`
	Progress  float64   `json:"progress,omitempty"`
	Details   string    `json:"details,omitempty"`
	Code      int       `json:"code,omitempty"`
}

// Journal appends the events of one run to a JSONL file. It implements
// installer.Reporter; write errors are logged once and otherwise ignored so
// a full log disk cannot fail an installation.
type Journal struct {
	mu     sync.Mutex
	f      *os.File
	now    func() time.Time
	failed bool
}

// Open opens the journal at path for appending, creating it if needed.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return &Journal{f: f, now: time.Now}, nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.f.Close()
}

// Log appends an event to the journal.
func (j *Journal) Log(event Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = j.now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := j.f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

func (j *Journal) record(event Event) {
	if err := j.Log(event); err != nil && !j.failed {
		j.failed = true
		logging.Warn("journal write failed", "path", j.f.Name(), "error", err)
	}
}

func (j *Journal) Status(message string, progress float64) {
	j.record(Event{Type: EventStatus, Message: message, Progress: progress})
}

func (j *Journal) Output(line string) {
	j.record(Event{Type: EventOutput, Message: line})
}

func (j *Journal) Warning(message string) {
	j.record(Event{Type: EventWarning, Message: message})
}

func (j *Journal) Done(err error) {
	if err == nil {
		j.record(Event{Type: EventSuccess})
		return
	}
	title, details := errors.Message(err)
	j.record(Event{Type: EventFailure, Message: title, Details: details, Code: errors.GetExitCode(err)})
}

// Events reads all events of the journal at path in order.
// A missing journal has no events.
func Events(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading journal: %w", err)
	}

	return events, nil
}
