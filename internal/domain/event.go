package domain

import "time"

// EventStatus is the lifecycle state of an event. Transitions only move
// forward: upcoming -> active -> ended.
type EventStatus string

const (
	StatusUpcoming EventStatus = "upcoming"
	StatusActive   EventStatus = "active"
	StatusEnded    EventStatus = "ended"
)

var statusRank = map[EventStatus]int{
	StatusUpcoming: 0,
	StatusActive:   1,
	StatusEnded:    2,
}

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Before reports whether s comes earlier than other in the lifecycle.
func (s EventStatus) Before(other EventStatus) bool {
	return statusRank[s] < statusRank[other]
}

// Event is an organizer-created event that attendees check in to.
type Event struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Location         string      `json:"location"`
	StartsAt         time.Time   `json:"starts_at"`
	MaxAttendees     int         `json:"max_attendees"`
	CurrentAttendees int         `json:"current_attendees"`
	Status           EventStatus `json:"status"`
	CheckInCode      string      `json:"check_in_code"`
	OrganizerID      string      `json:"organizer_id"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Remaining returns the number of open registration slots.
func (e *Event) Remaining() int {
	return e.MaxAttendees - e.CurrentAttendees
}

// IsFull reports whether the event has no open slots left.
func (e *Event) IsFull() bool {
	return e.CurrentAttendees >= e.MaxAttendees
}

// EffectiveStatus derives the lifecycle state at the given instant. An event
// is active for the whole calendar day of StartsAt and ended afterwards. The
// stored status wins when it is further along, so an organizer ending an
// event early (or a stale clock) can never reopen check-in.
func (e *Event) EffectiveStatus(now time.Time) EventStatus {
	derived := StatusUpcoming

	dayStart := startOfDay(e.StartsAt)
	dayEnd := dayStart.AddDate(0, 0, 1)

	switch {
	case !now.Before(dayEnd):
		derived = StatusEnded
	case !now.Before(dayStart):
		derived = StatusActive
	}

	if derived.Before(e.Status) {
		return e.Status
	}

	return derived
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
