package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ConfigCORS allows the configured front-end origins to call the API.
func ConfigCORS(allowedDomains []string) gin.HandlerFunc {
	conf := cors.DefaultConfig()
	conf.AllowOrigins = allowedDomains
	conf.AllowHeaders = append(conf.AllowHeaders, "Authorization", "X-Organizer-ID")

	return cors.New(conf)
}
