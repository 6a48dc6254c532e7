package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Location     string `json:"location" binding:"required"`
	Date         string `json:"date" binding:"required" format:"YYYY-MM-DD"`
	Time         string `json:"time" binding:"required" format:"HH:MM"`
	MaxAttendees int    `json:"max_attendees" binding:"required,min=1"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Location, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&req.Time, validation.Required, validation.Date("15:04")),
		validation.Field(&req.MaxAttendees, validation.Required, validation.Min(1), validation.Max(100_000)),
	)
}

type UpdateEventRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Location     *string `json:"location"`
	Date         *string `json:"date" format:"YYYY-MM-DD"`
	Time         *string `json:"time" format:"HH:MM"`
	MaxAttendees *int    `json:"max_attendees"`
	Status       *string `json:"status"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Location, validation.NilOrNotEmpty, validation.Length(2, 200)),
		validation.Field(&req.Date, validation.Date("2006-01-02")),
		validation.Field(&req.Time, validation.Date("15:04")),
		validation.Field(&req.MaxAttendees, validation.Min(1), validation.Max(100_000)),
		validation.Field(&req.Status, validation.In("upcoming", "active", "ended")),
	)
}
