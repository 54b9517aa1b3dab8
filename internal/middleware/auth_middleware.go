package middleware

import (
	"context"
	"strings"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const userLocal = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Authenticate resolves the bearer token into a user stored in c.Locals.
// When required is false, anonymous requests and rejected tokens pass
// through without a user.
func Authenticate(auth Authenticator, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) != nil {
			return c.Next()
		}

		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			if required {
				return util.HandleError(c, apperror.Unauthorized("missing bearer token", nil))
			}
			return c.Next()
		}

		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if !required && apperror.Is(err, apperror.ErrTypeUnauthorized) {
				zap.L().Debug("ignoring rejected token on public route", zap.String("path", c.Path()))
				return c.Next()
			}
			return util.HandleError(c, err)
		}

		c.Locals(userLocal, user)
		return c.Next()
	}
}

// RequireRole must run after Authenticate.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return util.HandleError(c, apperror.Unauthorized("authentication required", nil))
		}
		if !user.HasRole(roles...) {
			return util.HandleError(c, apperror.Forbidden("insufficient permissions", nil))
		}
		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(userLocal).(*model.User)
	return u
}

// IsStaff reports whether the caller may see unpublished content.
func IsStaff(c *fiber.Ctx) bool {
	u := CurrentUser(c)
	return u != nil && u.IsStaff()
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
