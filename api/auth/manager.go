package auth

import (
	"poolcare_server/api/middleware"
	"poolcare_server/services"
	"poolcare_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger      *gecho.Logger
	authService *services.AuthService
	roleService *services.RoleService
	cfg         *structs.Config
	mw          *middleware.Middleware
}

func NewAuthRoutesManager(
	logger *gecho.Logger,
	authService *services.AuthService,
	roleService *services.RoleService,
	cfg *structs.Config,
	mw *middleware.Middleware,
) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:      logger,
		authService: authService,
		roleService: roleService,
		cfg:         cfg,
		mw:          mw,
	}
}

func (arm *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		// CSRF token endpoint (must be called before protected routes)
		r.Get("/csrf", arm.HandleCSRF)

		r.Group(func(r chi.Router) {
			r.Use(arm.mw.CSRFMiddleware())
			r.Post("/login", arm.HandleLogin)
			r.Post("/logout", arm.HandleLogout)
			r.Post("/refresh", arm.HandleRefresh)
		})

		r.With(arm.mw.RequireSession).Get("/me", arm.HandleMe)
	})
}
