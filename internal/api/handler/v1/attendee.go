package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventpulse/eventpulse-api/internal/api/handler/v1/request"
	"github.com/eventpulse/eventpulse-api/internal/api/handler/v1/response"
)

// AttendeeHandler serves the organizer-facing attendee operations.
type AttendeeHandler struct {
	svc CheckInService
}

func NewAttendeeHandler(svc CheckInService) *AttendeeHandler {
	return &AttendeeHandler{
		svc: svc,
	}
}

// HandleListAttendees godoc
// @Summary      List an event's attendees
// @Description  Returns every registration for the event, newest first, for display or export.
// @Tags         attendees
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {array}   domain.Attendee
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/attendees [get]
func (h *AttendeeHandler) HandleListAttendees(ctx *gin.Context) {
	organizerID, respErr := organizerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	attendees, err := h.svc.ListAttendees(ctx.Request.Context(), organizerID, ctx.Param("eventID"))
	if err != nil {
		renderServiceErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, attendees)
}

// HandleRegisterAttendee godoc
// @Summary      Pre-register an attendee
// @Description  Adds a registration without checking it in, e.g. for walk-ups entered by the organizer. Duplicate emails are rejected.
// @Tags         attendees
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                           true  "Event ID"
// @Param        input    body      request.RegisterAttendeeRequest  true  "Attendee identity"
// @Success      201      {object}  domain.Attendee
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /events/{eventID}/attendees [post]
func (h *AttendeeHandler) HandleRegisterAttendee(ctx *gin.Context) {
	organizerID, respErr := organizerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.RegisterAttendeeRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	attendee, err := h.svc.RegisterAttendee(ctx.Request.Context(), organizerID, ctx.Param("eventID"), input.Name, input.Email)
	if err != nil {
		renderServiceErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, attendee)
}

// HandleMarkCheckedIn godoc
// @Summary      Check in a registered attendee
// @Description  Organizer-initiated check-in from the dashboard attendee table. Already checked-in attendees are returned unchanged.
// @Tags         attendees
// @Produce      json
// @Param        eventID     path      string  true  "Event ID"
// @Param        attendeeID  path      string  true  "Attendee ID"
// @Success      200         {object}  domain.Attendee
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Router       /events/{eventID}/attendees/{attendeeID}/checkin [post]
func (h *AttendeeHandler) HandleMarkCheckedIn(ctx *gin.Context) {
	organizerID, respErr := organizerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	attendee, err := h.svc.MarkCheckedIn(ctx.Request.Context(), organizerID, ctx.Param("attendeeID"))
	if err != nil {
		renderServiceErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, attendee)
}
