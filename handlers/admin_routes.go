package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/starscape/town-server/middleware"
	"github.com/starscape/town-server/models"
	"github.com/starscape/town-server/services"
)

// SetupAdminRoutes wires the operator grant surface behind the admin token.
func SetupAdminRoutes(app *fiber.App, adminService *services.AdminService, adminToken string) {
	admin := app.Group("/s/admin", middleware.AdminAuthMiddleware(adminToken))

	admin.Post("/resources", func(c *fiber.Ctx) error {
		var req struct {
			UserID    string         `json:"user_id"`
			Resources map[string]int `json:"resources"`
		}
		if err := c.BodyParser(&req); err != nil || req.UserID == "" {
			return badRequest(c, "user_id and resources are required")
		}
		message, err := adminService.GiveResources(req.UserID, req.Resources)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": message})
	})

	admin.Post("/coins", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id"`
			Amount int    `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil || req.UserID == "" {
			return badRequest(c, "user_id and amount are required")
		}
		message, err := adminService.GiveCoins(req.UserID, req.Amount)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": message})
	})

	admin.Post("/stats", func(c *fiber.Ctx) error {
		var req struct {
			UserID string             `json:"user_id"`
			Stats  models.StatUpdates `json:"stats"`
		}
		if err := c.BodyParser(&req); err != nil || req.UserID == "" {
			return badRequest(c, "user_id and stats are required")
		}
		message, err := adminService.SetStats(req.UserID, req.Stats)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": message})
	})

	admin.Post("/skill-xp", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id"`
			Skill  string `json:"skill"`
			XP     int    `json:"xp"`
		}
		if err := c.BodyParser(&req); err != nil || req.UserID == "" {
			return badRequest(c, "user_id, skill and xp are required")
		}
		message, err := adminService.GiveSkillXP(req.UserID, req.Skill, req.XP)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": message})
	})

	admin.Get("/players", func(c *fiber.Ctx) error {
		players, err := adminService.ListPlayers()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "data": players})
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
