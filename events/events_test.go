package events

import (
	"errors"
	"testing"
)

func TestMissingEventsErrorMessages(t *testing.T) {
	err := &MissingEventsError{}
	if got := err.Error(); got != "trial does not have events" {
		t.Fatalf("unexpected message: %q", got)
	}

	err = &MissingEventsError{Context: "Left", CycleID: 3}
	if got := err.Error(); got != "missing events in segment Left nr. 3" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestEventSequenceErrorMessage(t *testing.T) {
	err := &EventSequenceError{Context: "Right", CycleID: 1, Reason: "expected 3 ipsilateral events"}
	if got := err.Error(); got != "bad event sequence in segment Right nr. 1: expected 3 ipsilateral events" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	var target *MissingEventsError
	wrapped := error(&MissingEventsError{Context: "Left"})
	if !errors.As(wrapped, &target) {
		t.Fatalf("errors.As failed for MissingEventsError")
	}
	if target.Context != "Left" {
		t.Fatalf("unexpected context: %q", target.Context)
	}
}
