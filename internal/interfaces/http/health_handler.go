package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck verifica una dependencia (DB, Redis). nil = sin chequeo.
type HealthCheck func(ctx context.Context) error

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func Health(checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		out := fiber.Map{"status": "ok"}
		status := fiber.StatusOK
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check(ctx); err != nil {
				out[name] = err.Error()
				out["status"] = "degraded"
				status = fiber.StatusServiceUnavailable
				continue
			}
			out[name] = "ok"
		}
		return c.Status(status).JSON(out)
	}
}
