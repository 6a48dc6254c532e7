package domain

// EventStats are the aggregate numbers shown on the organizer dashboard.
// CheckInRate is a whole percentage of checked-in attendees across all of
// the organizer's events, 0 when there are no attendees.
type EventStats struct {
	TotalEvents    int `json:"total_events"`
	ActiveEvents   int `json:"active_events"`
	TotalAttendees int `json:"total_attendees"`
	CheckInRate    int `json:"check_in_rate"`
}
