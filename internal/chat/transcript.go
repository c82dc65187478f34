package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/horizonweb/horizon-chat/internal/config"
)

// Event is one NDJSON transcript line.
type Event struct {
	Timestamp string `json:"ts"`
	SessionID string `json:"session_id"`
	Direction string `json:"direction"` // "in" or "out"
	Intent    string `json:"intent,omitempty"`
	Text      string `json:"text"`
	Blocked   bool   `json:"blocked,omitempty"`
	FromModel bool   `json:"from_model,omitempty"`
}

// TranscriptLogger records chat turns for operators. Logging must never slow
// down or fail a chat turn.
type TranscriptLogger interface {
	Log(e Event)
	Close() error
}

// NopTranscript discards all events.
type NopTranscript struct{}

func (NopTranscript) Log(Event)    {}
func (NopTranscript) Close() error { return nil }

// unsafePathChars is used to keep session keys from escaping the log dir.
var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// NDJSONTranscript appends events to one NDJSON file per session under dir.
// Writes go through a bounded queue drained by a single goroutine; when the
// queue is full the event is dropped.
type NDJSONTranscript struct {
	dir   string
	queue chan Event
	done  chan struct{}
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// NewTranscript creates the transcript logger for the given config. Returns
// a NopTranscript when logging is disabled.
func NewTranscript(cfg config.TranscriptConfig) (TranscriptLogger, error) {
	if !cfg.Enabled {
		return NopTranscript{}, nil
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}

	t := &NDJSONTranscript{
		dir:   cfg.Dir,
		queue: make(chan Event, cfg.QueueSize),
		done:  make(chan struct{}),
	}
	t.wg.Add(1)
	go t.drain()
	return t, nil
}

// Log enqueues an event, dropping it if the queue is full.
func (t *NDJSONTranscript) Log(e Event) {
	select {
	case t.queue <- e:
	case <-t.done:
	default:
		slog.Debug("Transcript queue full, dropping event", "session_id", e.SessionID)
	}
}

// Close stops the writer goroutine after flushing queued events.
func (t *NDJSONTranscript) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
		t.wg.Wait()
	})
	return nil
}

func (t *NDJSONTranscript) drain() {
	defer t.wg.Done()
	for {
		select {
		case e := <-t.queue:
			t.write(e)
		case <-t.done:
			// Flush whatever is still queued.
			for {
				select {
				case e := <-t.queue:
					t.write(e)
				default:
					return
				}
			}
		}
	}
}

func (t *NDJSONTranscript) write(e Event) {
	name := unsafePathChars.ReplaceAllString(e.SessionID, "_")
	if name == "" {
		name = "unknown"
	}
	path := filepath.Join(t.dir, name+".ndjson")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Warn("Cannot open transcript file", "path", path, "error", err)
		return
	}
	defer f.Close()

	line, err := json.Marshal(e)
	if err != nil {
		slog.Warn("Cannot encode transcript event", "error", err)
		return
	}
	line = append(line, '\n')
	if _, err := f.Write(line); err != nil {
		slog.Warn("Cannot write transcript event", "path", path, "error", err)
	}
}
