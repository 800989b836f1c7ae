package v1

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/service"
)

func newFarmRouter(userID uint, svc *mockFarmService) *gin.Engine {
	h := NewFarmHandler(svc, newUsers())
	r := newTestRouter(userID)
	r.GET("/games", h.HandleListGames)
	r.POST("/games", h.HandleCreateGame)
	r.GET("/games/:game", h.HandleGetGame)
	r.DELETE("/games/:game", h.HandleDeleteGame)
	r.GET("/games/:game/farm-sources", h.HandleListSources)
	r.POST("/games/:game/farm-sources", h.HandleCreateSource)
	r.GET("/games/:game/farm-sources/:source/rewards", h.HandleListRewards)
	r.GET("/games/:game/farm-events", h.HandleListEvents)
	r.POST("/games/:game/farm-events", h.HandleCreateEvent)
	r.GET("/games/:game/farm-events/history", h.HandleHistory)
	r.GET("/games/:game/farm-events/:event", h.HandleGetEvent)
	r.DELETE("/games/:game/farm-events/:event", h.HandleDeleteEvent)
	return r
}

func newFarmService() *mockFarmService {
	return &mockFarmService{games: map[uint]domain.Game{1: {ID: 1, Name: "Teyvat"}}}
}

const staffID = 9

func TestFarmHandler_Games(t *testing.T) {
	svc := newFarmService()
	r := newFarmRouter(7, svc)
	staff := newFarmRouter(staffID, svc)

	w := serve(r, http.MethodGet, "/games/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Teyvat"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/games/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodGet, "/games/abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeErr(t, w).Details, "game")

	w = serve(staff, http.MethodPost, "/games", `{"name":"Elsewhere"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	svc.createErr = service.ErrGameExists
	w = serve(staff, http.MethodPost, "/games", `{"name":"Teyvat"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeErr(t, w).Details, "name")

	w = serve(staff, http.MethodDelete, "/games/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = serve(staff, http.MethodDelete, "/games/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFarmHandler_Sources(t *testing.T) {
	svc := newFarmService()
	r := newFarmRouter(7, svc)
	staff := newFarmRouter(staffID, svc)

	w := serve(r, http.MethodGet, "/games/1/farm-sources?type=domain", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "domain", svc.sourcesType)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = serve(r, http.MethodGet, "/games/5/farm-sources", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(staff, http.MethodPost, "/games/1/farm-sources", `{"name":"Abyss","source_type":"domain artifact"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"source_type":"DOMAIN_ARTIFACT"`)

	w = serve(staff, http.MethodPost, "/games/1/farm-sources", `{"name":"Abyss","source_type":"arena"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeErr(t, w).Details, "source_type")

	w = serve(r, http.MethodGet, "/games/1/farm-sources/3/rewards", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestFarmHandler_WritesRequireStaff(t *testing.T) {
	tests := []struct {
		name   string
		userID uint
		method string
		target string
		body   string
	}{
		{name: "create game", userID: 7, method: http.MethodPost, target: "/games", body: `{"name":"Elsewhere"}`},
		{name: "delete game", userID: 7, method: http.MethodDelete, target: "/games/1"},
		{name: "create source", userID: 7, method: http.MethodPost, target: "/games/1/farm-sources", body: `{"name":"Abyss","source_type":"DOMAIN"}`},
		{name: "anonymous delete", userID: 0, method: http.MethodDelete, target: "/games/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFarmService()

			w := serve(newFarmRouter(tt.userID, svc), tt.method, tt.target, tt.body)

			require.Equal(t, http.StatusForbidden, w.Code)
			assert.Zero(t, svc.writes)
			assert.Contains(t, svc.games, uint(1))
		})
	}
}

func TestFarmHandler_CreateEvent(t *testing.T) {
	svc := newFarmService()
	r := newFarmRouter(7, svc)

	w := serve(r, http.MethodPost, "/games/1/farm-events",
		`{"source":10,"drops":[{"reward_name":"Gem","rarity":"RARE","quantity":3},{"reward_name":"Ore","rarity":"COMMON"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		UserID     uint              `json:"user_id"`
		Source     uint              `json:"source"`
		TotalDrops int               `json:"total_drops"`
		Drops      []domain.FarmDrop `json:"drops"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, uint(7), body.UserID)
	assert.Equal(t, uint(10), body.Source)
	assert.Equal(t, 4, body.TotalDrops)
	assert.Equal(t, 1, svc.drops[1].Quantity)
}

func TestFarmHandler_CreateEvent_Errors(t *testing.T) {
	tests := []struct {
		name       string
		userID     uint
		recordErr  error
		body       string
		wantStatus int
		field      string
	}{
		{name: "anonymous", userID: 0, body: `{"source":10}`, wantStatus: http.StatusForbidden},
		{name: "source of another game", userID: 7, recordErr: service.ErrSourceGameMismatch, body: `{"source":20}`, wantStatus: http.StatusBadRequest, field: "source"},
		{name: "unknown source", userID: 7, recordErr: service.ErrSourceNotFound, body: `{"source":99}`, wantStatus: http.StatusBadRequest, field: "source"},
		{name: "unknown game", userID: 7, recordErr: service.ErrGameNotFound, body: `{"source":10}`, wantStatus: http.StatusNotFound},
		{name: "zero quantity", userID: 7, body: `{"source":10,"drops":[{"reward_name":"Gem","rarity":"RARE","quantity":0}]}`, wantStatus: http.StatusBadRequest, field: "drops"},
		{name: "missing source", userID: 7, body: `{"drops":[]}`, wantStatus: http.StatusBadRequest, field: "source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFarmService()
			svc.recordErr = tt.recordErr

			w := serve(newFarmRouter(tt.userID, svc), http.MethodPost, "/games/1/farm-events", tt.body)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.field != "" {
				assert.Contains(t, decodeErr(t, w).Details, tt.field)
			}
		})
	}
}

func TestFarmHandler_Events(t *testing.T) {
	svc := newFarmService()
	svc.events = []domain.FarmEvent{{
		ID:     3,
		UserID: 7,
		GameID: 1,
		Date:   time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
		Drops:  []domain.FarmDrop{{RewardName: "Gem", Rarity: domain.RarityRare, Quantity: 2}},
	}}
	r := newFarmRouter(7, svc)

	w := serve(r, http.MethodGet, "/games/1/farm-events", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"date":"2024-05-06"`)
	assert.Contains(t, w.Body.String(), `"total_drops":2`)

	w = serve(r, http.MethodGet, "/games/1/farm-events/3", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(r, http.MethodGet, "/games/2/farm-events/3", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodDelete, "/games/1/farm-events/3", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = serve(r, http.MethodDelete, "/games/1/farm-events/4", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFarmHandler_History(t *testing.T) {
	svc := newFarmService()
	r := newFarmRouter(7, svc)

	w := serve(r, http.MethodGet, "/games/1/farm-events/history?user=alice&gameID=1&sourceID=10&type=boss", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, service.HistoryQuery{Username: "alice", GameID: 1, SourceID: 10, Type: "boss"}, svc.history)

	w = serve(r, http.MethodGet, "/games/1/farm-events/history?sourceID=x", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeErr(t, w).Details, "sourceID")

	svc.historyErr = service.ErrGameMismatch
	w = serve(r, http.MethodGet, "/games/1/farm-events/history?gameID=2", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeErr(t, w).Details, "gameID")
}
