package live

import (
	"net/http"
	"poolcare_server/api/middleware"
	"poolcare_server/realtime"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// LiveRoutesManager upgrades signed-in clients to the schedule change feed.
type LiveRoutesManager struct {
	logger *gecho.Logger
	hub    *realtime.Hub
	mw     *middleware.Middleware
}

func NewLiveRoutesManager(logger *gecho.Logger, hub *realtime.Hub, mw *middleware.Middleware) *LiveRoutesManager {
	return &LiveRoutesManager{logger: logger, hub: hub, mw: mw}
}

func (lrm *LiveRoutesManager) RegisterRoutes(r chi.Router) {
	r.With(lrm.mw.RequireSession).Get("/ws/schedules", lrm.Schedules)
}

func (lrm *LiveRoutesManager) Schedules(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	// the upgrader has already answered the client when this fails
	if err := lrm.hub.Serve(w, r, claims.Sub, claims.Role); err != nil {
		lrm.logger.Warn("Websocket upgrade failed", gecho.Field("error", err), gecho.Field("user_id", claims.Sub))
	}
}
