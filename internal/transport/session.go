package transport

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/bill-notifier/internal/auth"
)

const (
	organisationIDLocal = "organisationId"
	userIDLocal         = "userId"
)

// SessionValidator verifies a session token.
type SessionValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// RequireSession accepts the session cookie or an Authorization bearer token
// and stores the caller's organisation in the request locals.
func RequireSession(validator SessionValidator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c, cookieName)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, auth.ErrMissingSession.Error())
		}

		claims, err := validator.Validate(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, auth.ErrInvalidSession.Error())
		}

		c.Locals(organisationIDLocal, claims.OrganisationID)
		c.Locals(userIDLocal, claims.UserID)
		return c.Next()
	}
}

// OrganisationID returns the organisation set by RequireSession.
func OrganisationID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(organisationIDLocal).(uint)
	return id, ok && id != 0
}

// UserID returns the session user set by RequireSession, or "".
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDLocal).(string)
	return id
}

func sessionToken(c *fiber.Ctx, cookieName string) string {
	if cookieName != "" {
		if token := strings.TrimSpace(c.Cookies(cookieName)); token != "" {
			return token
		}
	}

	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
