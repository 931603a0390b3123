package sync

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, syncer *Syncer, authMiddleware fiber.Handler) {
	r.Post("/run", authMiddleware, func(c *fiber.Ctx) error {
		report, err := syncer.Run(c.Context(), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(report)
	})

	r.Get("/status", authMiddleware, func(c *fiber.Ctx) error {
		status, err := syncer.Status(c.Context(), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(status)
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
