package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventpulse/eventpulse-api/internal/api/handler/v1/response"
	"github.com/eventpulse/eventpulse-api/internal/api/middleware"
	"github.com/eventpulse/eventpulse-api/internal/service"
)

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// organizerFromContext reads the identity placed by the middleware.
func organizerFromContext(ctx *gin.Context) (string, *response.Err) {
	organizerID := ctx.GetString(middleware.OrganizerIDKey)
	if organizerID == "" {
		return "", response.ErrUnauthorized("missing organizer identity")
	}

	return organizerID, nil
}

// renderServiceErr maps the service error taxonomy onto HTTP statuses. Each
// kind keeps its own human-readable message; only unexpected errors are
// replaced with a generic one.
func renderServiceErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "id", ctx.Param("eventID")))
	case errors.Is(err, service.ErrAttendeeNotFound):
		response.RenderErr(ctx, response.ErrNotFound("attendee", "id", ctx.Param("attendeeID")))
	case errors.Is(err, service.ErrNotOwner):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrEventEnded),
		errors.Is(err, service.ErrEventFull),
		errors.Is(err, service.ErrDuplicateRegistration):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrCapacityTooSmall):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrStoreUnavailable):
		response.RenderErr(ctx, response.ErrServiceUnavailable(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
