// Package events defines the gait event vocabulary and the validation errors
// raised when a cycle's event table cannot anchor the gait phases.
package events

import "fmt"

// Gait event labels as they appear in event tables.
const (
	FootStrike = "Foot Strike"
	FootOff    = "Foot Off"
)

// MissingEventsError reports an absent or too-small event table.
type MissingEventsError struct {
	Context string
	CycleID int
}

func (e *MissingEventsError) Error() string {
	if e.Context == "" {
		return "trial does not have events"
	}
	return fmt.Sprintf("missing events in segment %s nr. %d", e.Context, e.CycleID)
}

// EventSequenceError reports an event table whose rows do not form one valid
// gait cycle.
type EventSequenceError struct {
	Context string
	CycleID int
	Reason  string
}

func (e *EventSequenceError) Error() string {
	return fmt.Sprintf("bad event sequence in segment %s nr. %d: %s", e.Context, e.CycleID, e.Reason)
}
