package storage

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/upload", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			RouteID  string `json:"route_id"`
			FileName string `json:"file_name"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if body.FileName == "" {
			body.FileName = "upload"
		}
		url, err := svc.SaveReference(c.Context(), body.RouteID, body.FileName)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"url":        url,
			"expires_at": time.Now().Add(15 * time.Minute),
		})
	})
}
