package domain

import "time"

// Attendee is a registration of one person for one event. At most one
// attendee exists per (event, email) pair. CheckedIn is write-once: it never
// transitions back to false.
type Attendee struct {
	ID               string     `json:"id"`
	EventID          string     `json:"event_id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	CheckedIn        bool       `json:"checked_in"`
	CheckInTime      *time.Time `json:"check_in_time,omitempty"`
	RegistrationTime time.Time  `json:"registration_time"`
}
