package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventpulse/eventpulse-api/internal/api/handler/v1/request"
	"github.com/eventpulse/eventpulse-api/internal/api/handler/v1/response"
	"github.com/eventpulse/eventpulse-api/internal/domain"
	"github.com/eventpulse/eventpulse-api/internal/service"
)

type CheckInService interface {
	CheckIn(ctx context.Context, eventID, name, email string) (domain.Attendee, domain.Event, error)
	RegisterAttendee(ctx context.Context, organizerID, eventID, name, email string) (domain.Attendee, error)
	MarkCheckedIn(ctx context.Context, organizerID, attendeeID string) (domain.Attendee, error)
	ListAttendees(ctx context.Context, organizerID, eventID string) ([]domain.Attendee, error)
}

type PublicEventService interface {
	GetEventByCheckInCode(ctx context.Context, code string) (domain.Event, error)
}

// CheckInHandler serves the public check-in page reached from a scanned
// code. No organizer identity is involved on these routes.
type CheckInHandler struct {
	svc    CheckInService
	events PublicEventService
}

func NewCheckInHandler(svc CheckInService, events PublicEventService) *CheckInHandler {
	return &CheckInHandler{
		svc:    svc,
		events: events,
	}
}

// HandleGetPublicEvent godoc
// @Summary      Event snapshot for the public check-in page
// @Tags         checkin
// @Produce      json
// @Param        code  path      string  true  "Check-in code from the scanned QR"
// @Success      200   {object}  response.PublicEvent
// @Failure      404   {object}  response.Err
// @Failure      503   {object}  response.Err
// @Router       /checkin/{code} [get]
func (h *CheckInHandler) HandleGetPublicEvent(ctx *gin.Context) {
	event, err := h.events.GetEventByCheckInCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "code", ctx.Param("code")))
			return
		}

		renderServiceErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewPublicEvent(event))
}

// HandleCheckIn godoc
// @Summary      Register and check in an attendee
// @Description  Registers the submitted name/email for the event behind the scanned code and marks them checked in. Re-scanning with the same email is an idempotent success.
// @Tags         checkin
// @Accept       json
// @Produce      json
// @Param        code   path      string                  true  "Check-in code from the scanned QR"
// @Param        input  body      request.CheckInRequest  true  "Attendee identity"
// @Success      200    {object}  response.CheckInResponse
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      503    {object}  response.Err
// @Router       /checkin/{code} [post]
func (h *CheckInHandler) HandleCheckIn(ctx *gin.Context) {
	var input request.CheckInRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.events.GetEventByCheckInCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "code", ctx.Param("code")))
			return
		}

		renderServiceErr(ctx, err)
		return
	}

	attendee, snapshot, err := h.svc.CheckIn(ctx.Request.Context(), event.ID, input.Name, input.Email)
	if err != nil {
		renderServiceErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.CheckInResponse{
		Message:  "You're checked in!",
		Attendee: attendee,
		Event:    response.NewPublicEvent(snapshot),
	})
}
