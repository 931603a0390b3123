package community

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"backend-motormates/internal/sync"
)

// Browsing shared routes is public; share links are handed around outside the
// app, so no auth on the read side.
func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/routes", func(c *fiber.Ctx) error {
		summaries, err := svc.SharedRoutes(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(summaries)
	})

	r.Get("/routes/:remoteID", func(c *fiber.Ctx) error {
		shared, err := svc.SharedRoute(c.Context(), c.Params("remoteID"))
		if err != nil {
			if errors.Is(err, sync.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "shared route not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(shared)
	})
}
