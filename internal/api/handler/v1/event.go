package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventpulse/eventpulse-api/internal/api/handler/v1/request"
	"github.com/eventpulse/eventpulse-api/internal/api/handler/v1/response"
	"github.com/eventpulse/eventpulse-api/internal/domain"
	"github.com/eventpulse/eventpulse-api/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, organizerID string, event domain.Event) (domain.Event, error)
	ListEvents(ctx context.Context, organizerID string) ([]domain.Event, error)
	GetEvent(ctx context.Context, organizerID, id string) (domain.Event, error)
	UpdateEvent(ctx context.Context, organizerID, id string, update service.EventUpdate) (domain.Event, error)
	DeleteEvent(ctx context.Context, organizerID, id string) error
}

type StatsService interface {
	GetStats(ctx context.Context, organizerID string) (domain.EventStats, error)
}

type EventHandler struct {
	svc      EventService
	statsSvc StatsService
}

func NewEventHandler(svc EventService, statsSvc StatsService) *EventHandler {
	return &EventHandler{
		svc:      svc,
		statsSvc: statsSvc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Description  Creates an event owned by the calling organizer. The response carries the check-in code to embed in the event's QR code.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateEventRequest  true  "Event details"
// @Success      201    {object}  domain.Event
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      503    {object}  response.Err
// @Router       /events [post]
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	organizerID, respErr := organizerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	startsAt, err := parseStartsAt(input.Date, input.Time)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event := domain.Event{
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		StartsAt:     startsAt,
		MaxAttendees: input.MaxAttendees,
	}

	created, err := h.svc.CreateEvent(ctx.Request.Context(), organizerID, event)
	if err != nil {
		renderServiceErr(ctx, fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleListEvents godoc
// @Summary      List the organizer's events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	organizerID, respErr := organizerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.ListEvents(ctx.Request.Context(), organizerID)
	if err != nil {
		renderServiceErr(ctx, fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get one event
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	organizerID, respErr := organizerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), organizerID, ctx.Param("eventID"))
	if err != nil {
		renderServiceErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Updates event details. Capacity may not drop below current registrations; status only moves forward.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                      true  "Event ID"
// @Param        input    body      request.UpdateEventRequest  true  "Fields to change"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID} [put]
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	organizerID, respErr := organizerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	update := service.EventUpdate{
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		MaxAttendees: input.MaxAttendees,
	}
	if input.Status != nil {
		status := domain.EventStatus(*input.Status)
		update.Status = &status
	}
	if input.Date != nil || input.Time != nil {
		startsAt, err := mergeStartsAt(ctx, h.svc, organizerID, input)
		if err != nil {
			renderServiceErr(ctx, err)
			return
		}
		update.StartsAt = &startsAt
	}

	updated, err := h.svc.UpdateEvent(ctx.Request.Context(), organizerID, ctx.Param("eventID"), update)
	if err != nil {
		renderServiceErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Removes the event and all of its attendees.
// @Tags         events
// @Produce      json
// @Param        eventID  path  string  true  "Event ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /events/{eventID} [delete]
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	organizerID, respErr := organizerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteEvent(ctx.Request.Context(), organizerID, ctx.Param("eventID")); err != nil {
		renderServiceErr(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetStats godoc
// @Summary      Dashboard aggregates for the organizer
// @Tags         stats
// @Produce      json
// @Success      200  {object}  domain.EventStats
// @Failure      401  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /stats [get]
func (h *EventHandler) HandleGetStats(ctx *gin.Context) {
	organizerID, respErr := organizerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	stats, err := h.statsSvc.GetStats(ctx.Request.Context(), organizerID)
	if err != nil {
		renderServiceErr(ctx, fmt.Errorf("v1.HandleGetStats -> h.statsSvc.GetStats -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func parseStartsAt(date, clock string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date or time: %w", err)
	}

	return t, nil
}

// mergeStartsAt combines a partial date/time update with the stored value,
// so a caller may change just the time without resending the date.
func mergeStartsAt(ctx *gin.Context, svc EventService, organizerID string, input request.UpdateEventRequest) (time.Time, error) {
	event, err := svc.GetEvent(ctx.Request.Context(), organizerID, ctx.Param("eventID"))
	if err != nil {
		return time.Time{}, err
	}

	date := event.StartsAt.Format("2006-01-02")
	clock := event.StartsAt.Format("15:04")
	if input.Date != nil {
		date = *input.Date
	}
	if input.Time != nil {
		clock = *input.Time
	}

	startsAt, err := parseStartsAt(date, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}

	return startsAt, nil
}
