package service

import (
	"bytes"
	"io"
	"sync"
)

// EventEmittingWriter mirrors every write into a Broadcaster as a log
// event, adapted from the ARM emulator's wails-backed EventEmittingWriter
// (which emitted into a desktop webview via wailsapp/wails runtime.EventsEmit).
// This repository has no desktop GUI, so the sink is the WebSocket
// broadcaster instead: anything written through it reaches every subscribed
// client the same way an evaluation event does.
type EventEmittingWriter struct {
	buffer      *bytes.Buffer
	broadcaster *Broadcaster
	sessionID   string
	mu          sync.Mutex
}

// NewEventEmittingWriter creates a writer that buffers output and, if b is
// non-nil, broadcasts each write as an EventTypeLog event tagged with
// sessionID.
func NewEventEmittingWriter(b *Broadcaster, sessionID string) *EventEmittingWriter {
	return &EventEmittingWriter{
		buffer:      &bytes.Buffer{},
		broadcaster: b,
		sessionID:   sessionID,
	}
}

// Write implements io.Writer, buffering the bytes and, if a broadcaster was
// supplied, forwarding them as a log event.
func (w *EventEmittingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.buffer.Write(p)
	if err == nil && n > 0 && w.broadcaster != nil {
		w.broadcaster.Broadcast(BroadcastEvent{
			Type:      EventTypeLog,
			SessionID: w.sessionID,
			Data:      map[string]interface{}{"line": string(p)},
		})
	}
	return n, err
}

// GetBufferAndClear returns everything written so far and clears the
// buffer, for callers that poll rather than subscribe.
func (w *EventEmittingWriter) GetBufferAndClear() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := w.buffer.String()
	w.buffer.Reset()
	return out
}

var _ io.Writer = (*EventEmittingWriter)(nil)
