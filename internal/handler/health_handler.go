package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readinessTimeout = 2 * time.Second

var errNotConfigured = errors.New("dependency not configured")

// Pinger is satisfied by *sql.DB through PingContext and by a thin wrapper
// around the redis client.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Check is an extra named dependency reported by /readyz, such as the broker
// in queue mode.
type Check struct {
	Name   string
	Pinger Pinger
}

func RegisterHealthRoutes(app fiber.Router, postgres Pinger, redis Pinger, extra ...Check) {
	app.Get("/livez", LivezHandler())
	app.Get("/readyz", ReadyzHandler(postgres, redis, extra...))
}

func LivezHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
		})
	}
}

func ReadyzHandler(postgres Pinger, redis Pinger, extra ...Check) fiber.Handler {
	checks := append([]Check{
		{Name: "postgres", Pinger: postgres},
		{Name: "redis", Pinger: redis},
	}, extra...)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
		defer cancel()

		status := "ready"
		statusCode := fiber.StatusOK
		results := fiber.Map{}
		for _, check := range checks {
			err := ping(ctx, check.Pinger)
			if err != nil {
				status = "not_ready"
				statusCode = fiber.StatusServiceUnavailable
			}
			results[check.Name] = checkStatus(err)
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
			"checks": results,
		})
	}
}

func ping(ctx context.Context, p Pinger) error {
	if p == nil {
		return errNotConfigured
	}
	return p.PingContext(ctx)
}

func checkStatus(err error) string {
	if err != nil {
		return "down"
	}
	return "ok"
}
