package route

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Difficulty  string `json:"difficulty"`
			Season      string `json:"season"`
			Category    string `json:"category"`
			Notes       string `json:"notes"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name required")
		}

		input := New(userID(c), body.Name, body.Description)
		if body.Difficulty != "" {
			input.Difficulty = ParseDifficulty(body.Difficulty)
		}
		if body.Season != "" {
			input.Season = ParseSeason(body.Season)
		}
		if body.Category != "" {
			input.Category = ParseCategory(body.Category)
		}
		input.Notes = body.Notes

		created, err := svc.CreateRoute(c.Context(), input)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		routes, err := svc.ListRoutes(c.Context(), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(routes)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		route, err := svc.GetRoute(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		return c.JSON(route)
	})

	r.Put("/:id/geometry", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Points    []Point    `json:"points"`
			Waypoints []Waypoint `json:"waypoints"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		updated, err := svc.UpdateGeometry(c.Context(), c.Params("id"), body.Points, body.Waypoints)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fiber.NewError(fiber.StatusNotFound, "route not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(updated)
	})

	r.Post("/:id/photos", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			FileName   string   `json:"file_name"`
			Caption    string   `json:"caption"`
			Lat        *float64 `json:"lat"`
			Lng        *float64 `json:"lng"`
			IsKey      bool     `json:"is_key"`
			Position   int      `json:"position"`
			CapturedAt string   `json:"captured_at"`
		}
		if err := c.BodyParser(&body); err != nil || body.FileName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "file_name required")
		}

		photo := Photo{
			FileName: body.FileName,
			Caption:  body.Caption,
			IsKey:    body.IsKey,
			Position: body.Position,
		}
		if body.Lat != nil && body.Lng != nil {
			photo.Point = &Point{Lat: *body.Lat, Lng: *body.Lng}
		}
		if body.CapturedAt != "" {
			if captured, err := time.Parse(time.RFC3339, body.CapturedAt); err == nil {
				photo.CapturedAt = captured
			}
		}

		created, err := svc.AddPhoto(c.Context(), c.Params("id"), photo)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Post("/:id/landmarks", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Name        string  `json:"name"`
			Description string  `json:"description"`
			Type        string  `json:"type"`
			Lat         float64 `json:"lat"`
			Lng         float64 `json:"lng"`
		}
		if err := c.BodyParser(&body); err != nil || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name required")
		}

		landmark := Landmark{
			Name:        body.Name,
			Description: body.Description,
			Type:        ParseLandmarkType(body.Type),
			Point:       Point{Lat: body.Lat, Lng: body.Lng},
		}
		created, err := svc.AddLandmark(c.Context(), c.Params("id"), landmark)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Post("/:id/complete", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.MarkCompleted(c.Context(), c.Params("id")); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fiber.NewError(fiber.StatusNotFound, "route not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/rating", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Rating int `json:"rating"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := svc.Rate(c.Context(), c.Params("id"), body.Rating); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fiber.NewError(fiber.StatusNotFound, "route not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/share", authMiddleware, func(c *fiber.Ctx) error {
		shareID, shareURL, err := svc.ShareRoute(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"share_id": shareID, "share_url": shareURL})
	})

	r.Post("/:id/collaborate", authMiddleware, func(c *fiber.Ctx) error {
		remoteID, err := svc.CollaborativeShare(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, ErrNotSynced) {
				return fiber.NewError(fiber.StatusConflict, "route must be synced before collaborating")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"remote_id": remoteID})
	})

	r.Get("/:id/gpx", func(c *fiber.Ctx) error {
		doc, err := svc.ExportGPX(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		c.Set(fiber.HeaderContentType, "application/gpx+xml")
		return c.SendString(doc)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteRoute(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
