package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starscape/town-server/cache"
	"github.com/starscape/town-server/repository"
	"github.com/starscape/town-server/services"
	"github.com/starscape/town-server/storage"
)

func newTestApp(t *testing.T) (*fiber.App, *services.GameService) {
	t.Helper()
	store, err := storage.NewMemoryStore("")
	require.NoError(t, err)
	svc := services.NewGameService(repository.New(store, cache.New()))
	svc.Cooldown = 0
	app := fiber.New()
	SetupGameRoutes(app, svc)
	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, target, userID, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

func TestSecuredRoutesRequireUserID(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/s/game", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body["error"], "X-User-ID")
}

func TestInitializeGame(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/s/game", "u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	player := data["player"].(map[string]any)
	assert.Equal(t, "u1", player["id"])
	assert.Equal(t, float64(10), player["coins"])
	town := data["town"].(map[string]any)
	assert.Equal(t, "Starscape Village", town["name"])
	logs := data["logs"].([]any)
	require.Len(t, logs, 1)
}

func TestGetGameStateBeforeInit(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/s/game", "u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Nil(t, data["player"])
}

func TestMissionFlowOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/s/game", "u1", "")

	resp, body := doJSON(t, app, http.MethodPost, "/s/game/missions/start", "u1",
		`{"mission_id":"m101"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, body = doJSON(t, app, http.MethodPost, "/s/game/missions/resolve", "u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["success"])
	assert.Equal(t, "You successfully gathered 1 sturdy wood.", data["results_text"])
}

func TestStartMissionValidation(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/s/game", "u1", "")

	resp, _ := doJSON(t, app, http.MethodPost, "/s/game/missions/start", "u1", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/s/game/missions/start", "u1",
		`{"mission_id":"m999"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResolveWhileIdleConflicts(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/s/game", "u1", "")

	resp, _ := doJSON(t, app, http.MethodPost, "/s/game/missions/resolve", "u1", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDoubleStartConflicts(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/s/game", "u1", "")
	doJSON(t, app, http.MethodPost, "/s/game/missions/start", "u1", `{"mission_id":"m101"}`)

	resp, _ := doJSON(t, app, http.MethodPost, "/s/game/missions/start", "u1",
		`{"mission_id":"m102"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestListMissions(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/s/game", "u1", "")

	resp, body := doJSON(t, app, http.MethodGet, "/s/game/missions", "u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	missions := body["missions"].([]any)
	ids := make([]string, len(missions))
	for i, m := range missions {
		ids[i] = m.(map[string]any)["id"].(string)
	}
	assert.Equal(t, []string{"m101", "m102"}, ids, "territory missions only before unlocks")
	assert.Nil(t, body["crafting_recipes"], "no recipes before the crafting station")

	objective := body["current_objective"].(map[string]any)
	assert.Equal(t, "build_notice_board", objective["id"])
}

func TestContributeOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/s/game", "u1", "")

	resp, _ := doJSON(t, app, http.MethodPost, "/s/game/town/contribute", "u1",
		`{"resource":"stone","amount":1}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/s/game/town/contribute", "u1",
		`{"resource":"stone","amount":99}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/s/game/town/contribute", "u1", `{"amount":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestObjectiveCheckOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/s/game", "u1", "")

	resp, body := doJSON(t, app, http.MethodPost, "/s/game/town/objectives/check", "u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["completed"])
}

func TestResetOverHTTP(t *testing.T) {
	app, svc := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/s/game", "u1", "")
	require.NoError(t, svc.ContributeToTown("u1", "stone", 1))

	resp, body := doJSON(t, app, http.MethodDelete, "/s/game", "u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	player, err := svc.Repo.Player.FindByIDOrThrow("u1")
	require.NoError(t, err)
	assert.Equal(t, 10, player.Coins)
}
