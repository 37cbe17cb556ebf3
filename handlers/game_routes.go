package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/starscape/town-server/catalog"
	"github.com/starscape/town-server/middleware"
	"github.com/starscape/town-server/services"
)

// SetupGameRoutes wires the player-facing surface. All routes sit behind the
// user-context middleware; the engine only ever sees validated identity.
func SetupGameRoutes(app *fiber.App, gameService *services.GameService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	// GET /s/game — complete game state
	secured.Get("/game", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		state, err := gameService.Repo.Batch.GetGameState(userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "data": state})
	})

	// POST /s/game — idempotent initialization for the caller
	secured.Post("/game", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		state, err := gameService.Repo.Batch.InitializeGame(userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "data": state})
	})

	// DELETE /s/game — reset player + town + logs back to starter state
	secured.Delete("/game", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := gameService.ResetGameData(userID); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	// GET /s/game/missions — what the caller can do right now
	secured.Get("/game/missions", func(c *fiber.Ctx) error {
		town, err := gameService.Repo.Town.FindOrCreate()
		if err != nil {
			return fail(c, err)
		}
		missions := catalog.AvailableMissions(town.UnlockedTerritories, town.UnlockedMissions)
		recipes := catalog.AvailableCraftingRecipes(town.Upgrades["crafting_station_unlocked"])
		return c.JSON(fiber.Map{
			"success":           true,
			"missions":          missions,
			"crafting_recipes":  recipes,
			"current_objective": catalog.CurrentObjective(town.CompletedObjectives),
		})
	})

	// POST /s/game/missions/start
	secured.Post("/game/missions/start", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			MissionID   string `json:"mission_id"`
			CombatSkill string `json:"combat_skill"`
		}
		if err := c.BodyParser(&req); err != nil || req.MissionID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "mission_id is required",
			})
		}
		if err := gameService.StartMission(userID, req.MissionID, req.CombatSkill); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	// POST /s/game/missions/resolve
	secured.Post("/game/missions/resolve", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		result, err := gameService.ResolveMission(userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "data": result})
	})

	// POST /s/game/town/contribute
	secured.Post("/game/town/contribute", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Resource string `json:"resource"`
			Amount   int    `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil || req.Resource == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "resource is required",
			})
		}
		if err := gameService.ContributeToTown(userID, req.Resource, req.Amount); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	// POST /s/game/town/objectives/check — town-global re-evaluation
	secured.Post("/game/town/objectives/check", func(c *fiber.Ctx) error {
		check, err := gameService.CheckAndCompleteObjectives()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "data": check})
	})
}
