package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/eventpulse/eventpulse-api/internal/api/handler/v1/response"
)

// OrganizerIDKey is the gin context key the identity middleware stores the
// caller's organizer id under.
const OrganizerIDKey = "organizerID"

// organizerIDHeader is set by the upstream gateway after it authenticates
// the organizer. This service only propagates the identity; it performs no
// session handling of its own.
const organizerIDHeader = "X-Organizer-ID"

// RequireOrganizer rejects requests that carry no organizer identity.
func RequireOrganizer() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		organizerID := ctx.GetHeader(organizerIDHeader)
		if organizerID == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("missing organizer identity"))
			return
		}

		ctx.Set(OrganizerIDKey, organizerID)
		ctx.Next()
	}
}
