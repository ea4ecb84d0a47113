// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/http/handlers"
	"carpool/internal/http/middleware"
	"carpool/internal/infra"
)

// RouterDeps carries the wired handlers. Nil handlers leave their routes
// unregistered so the binary degrades gracefully without, say, an AI key.
type RouterDeps struct {
	Verifier infra.TokenVerifier
	Match    *handlers.MatchHandler
	Plan     *handlers.PlanHandler
	Config   *handlers.ConfigHandler
	Geocode  *handlers.GeocodeHandler
	Announce *handlers.AnnounceHandler
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")

	if deps.Match != nil {
		api.POST("/matches", deps.Match.Create)
		api.GET("/matches/:id", deps.Match.Get)
	}
	if deps.Geocode != nil {
		api.POST("/geocode", deps.Geocode.Resolve)
	}
	if deps.Config != nil {
		api.GET("/config", deps.Config.Get)
	}

	// Mutating organizer endpoints sit behind token auth.
	authed := api.Group("", middleware.Auth(deps.Verifier))
	if deps.Plan != nil {
		authed.POST("/matches/:id/moves", deps.Plan.Move)
	}
	if deps.Config != nil {
		authed.PUT("/config", deps.Config.Put)
	}
	if deps.Announce != nil {
		authed.POST("/matches/:id/announce", deps.Announce.Create)
	}

	return r
}
