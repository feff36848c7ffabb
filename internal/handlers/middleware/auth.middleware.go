package middleware

import (
	"strings"

	domainerrors "roomlog/internal/errors"
	"roomlog/internal/models"

	"github.com/gofiber/fiber/v2"
)

const UserKeyFiber = "User"

// RequireAuth accepts "Authorization: Bearer <token>", resolves the token's user
// and stores it in Locals for GetUser.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.TraceFromContext(c.UserContext()).Function("RequireAuth")

		scheme, token, found := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return RenderError(c, domainerrors.Unauthorized(
				domainerrors.CodeInvalidToken,
				"bearer token required",
			))
		}

		claims, err := m.tokens.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			return RenderError(c, domainerrors.ErrInvalidToken)
		}

		user, err := m.users.GetByID(c.UserContext(), m.db, claims.UserID)
		if err != nil {
			log.Info("token user not found", "userID", claims.UserID, "error", err.Error())
			return RenderError(c, domainerrors.ErrInvalidToken)
		}

		c.Locals(UserKeyFiber, user)
		return c.Next()
	}
}

func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}
