package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/starscape/town-server/models"
)

// statusFor maps the engine's error taxonomy onto transport codes. The
// mapping lives here on purpose: the engine returns error kinds, the surface
// decides what they mean over HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrPlayerNotFound),
		errors.Is(err, models.ErrTownNotFound),
		errors.Is(err, models.ErrMissionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrAlreadyOnMission),
		errors.Is(err, models.ErrNoActiveMission),
		errors.Is(err, models.ErrMissionInProgress),
		errors.Is(err, models.ErrCooldownActive):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrInsufficientResources),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidPayload):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	body := fiber.Map{"success": false, "error": err.Error()}
	var se *models.StorageError
	if errors.As(err, &se) {
		body["error"] = "storage failure"
		body["cause"] = se.Error()
	}
	return c.Status(status).JSON(body)
}
