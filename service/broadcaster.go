package service

import (
	"sync"
	"sync/atomic"
)

// EventType identifies the kind of event a BroadcastEvent carries.
type EventType string

const (
	// EventTypeEval is emitted whenever any session evaluates an expression.
	EventTypeEval EventType = "eval"
	// EventTypeError is emitted whenever an evaluation fails.
	EventTypeError EventType = "error"
	// EventTypeLog is emitted by an EventEmittingWriter mirroring a
	// session's evaluation transcript for subscribers watching that session.
	EventTypeLog EventType = "log"
	// EventTypeHistory is sent once, directly to a newly subscribed client,
	// replaying a session's existing value history so a dashboard that
	// connects mid-session doesn't start blank. Unlike the eval/error/log
	// events it is never routed through Broadcast. It carries one rendered
	// value per successful evaluation in the session; that value history is
	// not capped (Service.HistoryBufSize limits only the session's result
	// log), so the replay sends the whole history.
	EventTypeHistory EventType = "history"
)

// validEventType reports whether et is one a subscriber may filter on.
// Unknown types are dropped rather than silently forwarded as an opaque
// string, since an unrecognised filter would otherwise match nothing and
// leave the client wondering why its subscription is silent.
func validEventType(et EventType) bool {
	switch et {
	case EventTypeEval, EventTypeError, EventTypeLog, EventTypeHistory:
		return true
	default:
		return false
	}
}

// BroadcastEvent is sent to every matching WebSocket subscriber whenever a
// session evaluates an expression.
type BroadcastEvent struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"sessionId"`
	Data      map[string]interface{} `json:"data"`
}

// Subscription is a client's filtered view onto the broadcast stream.
type Subscription struct {
	SessionID  string
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// Broadcaster fans evaluation events out to every WebSocket client
// currently subscribed, same fan-out shape as the ARM debugger's API
// broadcaster: a single goroutine owns the subscription map and non-blocking
// sends protect it from slow clients.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
	dropped       atomic.Uint64
}

// NewBroadcaster creates and starts a new event broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if sub.SessionID != "" && sub.SessionID != event.SessionID {
					continue
				}
				if len(sub.EventTypes) > 0 && !sub.EventTypes[event.Type] {
					continue
				}
				select {
				case sub.Channel <- event:
				default:
					b.dropped.Add(1)
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new subscription, optionally filtered to a session
// and a set of event types (empty = everything). Unrecognised event types
// are dropped rather than stored verbatim, so a typo'd filter doesn't
// silently turn into a subscription that never matches anything.
func (b *Broadcaster) Subscribe(sessionID string, eventTypes []EventType) *Subscription {
	eventTypeMap := make(map[EventType]bool)
	for _, et := range eventTypes {
		if validEventType(et) {
			eventTypeMap[et] = true
		}
	}

	sub := &Subscription{
		SessionID:  sessionID,
		EventTypes: eventTypeMap,
		Channel:    make(chan BroadcastEvent, 64),
	}

	b.register <- sub
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Broadcast sends an event to every matching subscription, dropping it if
// the broadcaster is overwhelmed rather than blocking the caller.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// BroadcastEval announces a successful evaluation, carrying both the
// rendered text and the hex-encoded 12-byte binary encoding of the result
// so a subscriber never has to re-parse text to get the exact value.
func (b *Broadcaster) BroadcastEval(sessionID, expression, valueRef, result, resultBinary string) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeEval,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"expression":   expression,
			"valueRef":     valueRef,
			"result":       result,
			"resultBinary": resultBinary,
		},
	})
}

// BroadcastError announces a failed evaluation.
func (b *Broadcaster) BroadcastError(sessionID, expression, message string) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeError,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"expression": expression,
			"error":      message,
		},
	})
}

// Close shuts down the broadcaster and closes every open subscription.
func (b *Broadcaster) Close() {
	close(b.done)
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}

// DroppedCount returns the number of events discarded because a
// subscriber's channel was full, exposed via GET /health so an operator
// can tell a slow dashboard client from a healthy one.
func (b *Broadcaster) DroppedCount() uint64 {
	return b.dropped.Load()
}
