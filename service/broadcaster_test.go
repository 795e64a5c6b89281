package service

import (
	"testing"
	"time"
)

func TestSubscribeRejectsUnknownEventTypes(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("", []EventType{"eval", "bogus"})
	if len(sub.EventTypes) != 1 || !sub.EventTypes[EventTypeEval] {
		t.Errorf("EventTypes = %v, want only eval", sub.EventTypes)
	}
}

func TestBroadcastEvalCarriesResultBinary(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("s1", nil)
	defer b.Unsubscribe(sub)

	b.BroadcastEval("s1", "1+2", "$1", "3", "deadbeef")

	event := <-sub.Channel
	if event.Data["resultBinary"] != "deadbeef" {
		t.Errorf("resultBinary = %v, want deadbeef", event.Data["resultBinary"])
	}
}

func TestBroadcastDropsWhenSubscriberChannelIsFull(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("s1", nil)
	defer b.Unsubscribe(sub)

	for i := 0; i < cap(sub.Channel)+10; i++ {
		b.BroadcastEval("s1", "1+1", "$1", "2", "")
	}

	deadline := time.Now().Add(time.Second)
	for b.DroppedCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if b.DroppedCount() == 0 {
		t.Error("expected at least one dropped event once the subscriber channel filled up")
	}
}
