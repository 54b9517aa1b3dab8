package handler

import (
	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/middleware"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/gofiber/fiber/v2"
)

// Guards are the per-route middlewares shared by every handler.
type Guards struct {
	Auth      fiber.Handler
	Staff     fiber.Handler
	Admin     fiber.Handler
	CVLimit   fiber.Handler
	FormLimit fiber.Handler
	PDFLimit  fiber.Handler
}

// NewGuards builds the route guards. storage may be nil for in-memory
// rate-limit counters.
func NewGuards(auth middleware.Authenticator, rl *config.RateLimitConfig, storage fiber.Storage) Guards {
	return Guards{
		Auth:      middleware.Authenticate(auth, true),
		Staff:     middleware.RequireRole(model.RoleAdmin, model.RoleEditor),
		Admin:     middleware.RequireRole(model.RoleAdmin),
		CVLimit:   middleware.RateLimiter("cv", rl.CVMax, rl.CVWindow, storage),
		FormLimit: middleware.RateLimiter("form", rl.FormMax, rl.FormWindow, storage),
		PDFLimit:  middleware.RateLimiter("pdf", rl.PDFMax, rl.PDFWindow, storage),
	}
}

func chain(guards []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, h)
}
