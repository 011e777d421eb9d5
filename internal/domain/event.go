package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Event is one of the four player inputs a shell can forward.
type Event int

const (
	EventSelectTrue Event = iota + 1
	EventSelectFalse
	EventPrevious
	EventNext
)

var eventNames = map[Event]string{
	EventSelectTrue:  "true",
	EventSelectFalse: "false",
	EventPrevious:    "previous",
	EventNext:        "next",
}

// ParseEvent maps shell input to an Event. Single-letter shortcuts are
// accepted for terminal use.
func ParseEvent(raw string) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "yes", "y":
		return EventSelectTrue, nil
	case "false", "f", "no":
		return EventSelectFalse, nil
	case "previous", "prev", "p", "back":
		return EventPrevious, nil
	case "next", "n":
		return EventNext, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, raw)
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// IsAnswer reports whether the event submits an answer rather than navigating.
func (e Event) IsAnswer() bool {
	return e == EventSelectTrue || e == EventSelectFalse
}

// Answer returns the boolean carried by an answer event.
func (e Event) Answer() bool {
	return e == EventSelectTrue
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseEvent(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
