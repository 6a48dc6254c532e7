package response

import (
	"time"

	"github.com/eventpulse/eventpulse-api/internal/domain"
)

type CheckInResponse struct {
	Message  string          `json:"message"`
	Attendee domain.Attendee `json:"attendee"`
	Event    PublicEvent     `json:"event"`
}

// PublicEvent is the event snapshot shown on the public check-in page. It
// deliberately omits the organizer id and check-in code.
type PublicEvent struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	StartsAt         string `json:"starts_at"`
	Status           string `json:"status"`
	MaxAttendees     int    `json:"max_attendees"`
	CurrentAttendees int    `json:"current_attendees"`
}

func NewPublicEvent(e domain.Event) PublicEvent {
	return PublicEvent{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Location:         e.Location,
		StartsAt:         e.StartsAt.Format(time.RFC3339),
		Status:           string(e.Status),
		MaxAttendees:     e.MaxAttendees,
		CurrentAttendees: e.CurrentAttendees,
	}
}
