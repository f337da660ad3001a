package calendar

import "time"

// ResponseStatus is the canonical attendance status of the calendar owner
// for one event. Provider-specific representations (ICS PARTSTAT values,
// ORGANIZER matching) are normalized into this type once, at the source
// adapter, so the classification engine never compares raw provider strings.
type ResponseStatus string

const (
	StatusYes     ResponseStatus = "yes"
	StatusNo      ResponseStatus = "no"
	StatusMaybe   ResponseStatus = "maybe"
	StatusOwner   ResponseStatus = "owner"
	StatusUnknown ResponseStatus = "unknown"
)

func (s ResponseStatus) String() string {
	return string(s)
}

// Attending reports whether the owner is actually attending the event.
// Unanswered invitations do not count as attendance.
func (s ResponseStatus) Attending() bool {
	return s == StatusYes || s == StatusMaybe || s == StatusOwner
}

// Event is one calendar event as seen by the calendar owner.
type Event struct {
	UID         string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Cancelled   bool
	Response    ResponseStatus
	Creators    []string // organizer identifiers (usually email addresses)
	Guests      []string // attendee identifiers (usually email addresses)
}

// Duration returns the event length. Events whose end precedes their
// start are treated as zero-length rather than negative.
func (e *Event) Duration() time.Duration {
	d := e.End.Sub(e.Start)
	if d < 0 {
		return 0
	}
	return d
}

// Source provides the events overlapping a half-open time range
// [start, end), ordered by start time.
type Source interface {
	Events(start, end time.Time) ([]Event, error)
}
