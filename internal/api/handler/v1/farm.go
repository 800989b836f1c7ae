package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/farmlog/farmlog-api/internal/api/handler/v1/request"
	"github.com/farmlog/farmlog-api/internal/api/handler/v1/response"
	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/service"
)

type FarmService interface {
	ListGames(ctx context.Context) ([]domain.Game, error)
	GetGame(ctx context.Context, id uint) (domain.Game, error)
	CreateGame(ctx context.Context, name string) (domain.Game, error)
	DeleteGame(ctx context.Context, id uint) error
	ListSources(ctx context.Context, gameID uint, sourceType string) ([]domain.FarmSource, error)
	CreateSource(ctx context.Context, source domain.FarmSource) (domain.FarmSource, error)
	ListRewards(ctx context.Context, gameID, sourceID uint) ([]domain.FarmReward, error)
	RecordEvent(ctx context.Context, userID, gameID uint, event domain.FarmEvent, drops []domain.NewDrop) (domain.FarmEvent, error)
	GetEvent(ctx context.Context, gameID, id uint) (domain.FarmEvent, error)
	DeleteEvent(ctx context.Context, userID, gameID, id uint) error
	ListUserEvents(ctx context.Context, gameID, userID uint) ([]domain.FarmEvent, error)
	History(ctx context.Context, requester domain.User, pathGameID uint, q service.HistoryQuery) ([]domain.FarmEvent, error)
}

type FarmHandler struct {
	svc  FarmService
	uSvc UserGetter
}

func NewFarmHandler(svc FarmService, uSvc UserGetter) *FarmHandler {
	return &FarmHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListGames godoc
// @Summary      List games
// @Tags         games
// @Produce      json
// @Success      200  {array}   domain.Game
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games [get]
// @Security BearerAuth
func (h *FarmHandler) HandleListGames(ctx *gin.Context) {
	games, err := h.svc.ListGames(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleListGames -> h.svc.ListGames -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, games)
}

// HandleGetGame godoc
// @Summary      Get a game
// @Tags         games
// @Produce      json
// @Param        game   path      int  true  "Game ID"
// @Success      200  {object}  domain.Game
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game} [get]
// @Security BearerAuth
func (h *FarmHandler) HandleGetGame(ctx *gin.Context) {
	gameID, respErr := parseIDParam(ctx, "game")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	game, err := h.svc.GetGame(ctx.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("game", "ID", gameID))
			return
		}

		err = fmt.Errorf("HandleGetGame -> h.svc.GetGame -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, game)
}

// HandleCreateGame godoc
// @Summary      Create a game
// @Description  Staff only.
// @Tags         games
// @Produce      json
// @Param        request   body      request.CreateGameRequest true "request body"
// @Success      201  {object}  domain.Game
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games [post]
// @Security BearerAuth
func (h *FarmHandler) HandleCreateGame(ctx *gin.Context) {
	if respErr := requireStaff(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	game, err := h.svc.CreateGame(ctx.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrGameExists) {
			response.RenderErr(ctx, response.ErrBadRequest(validation.Errors{"name": service.ErrGameExists}))
			return
		}

		err = fmt.Errorf("HandleCreateGame -> h.svc.CreateGame -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, game)
}

// HandleDeleteGame godoc
// @Summary      Delete a game with its sources, rewards and events
// @Description  Staff only.
// @Tags         games
// @Param        game   path      int  true  "Game ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game} [delete]
// @Security BearerAuth
func (h *FarmHandler) HandleDeleteGame(ctx *gin.Context) {
	if respErr := requireStaff(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseIDParam(ctx, "game")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteGame(ctx.Request.Context(), gameID); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("game", "ID", gameID))
			return
		}

		err = fmt.Errorf("HandleDeleteGame -> h.svc.DeleteGame -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListSources godoc
// @Summary      List the farm sources of a game
// @Description  type matches case-insensitively; DOMAIN matches every DOMAIN variant
// @Tags         farm-sources
// @Produce      json
// @Param        game   path      int     true   "Game ID"
// @Param        type   query     string  false  "Source type"
// @Success      200  {array}   domain.FarmSource
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game}/farm-sources [get]
// @Security BearerAuth
func (h *FarmHandler) HandleListSources(ctx *gin.Context) {
	gameID, respErr := parseIDParam(ctx, "game")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var q request.SourcesQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	sources, err := h.svc.ListSources(ctx.Request.Context(), gameID, q.Type)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("game", "ID", gameID))
			return
		}

		err = fmt.Errorf("HandleListSources -> h.svc.ListSources -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, sources)
}

// HandleCreateSource godoc
// @Summary      Create a farm source in a game
// @Description  Staff only.
// @Tags         farm-sources
// @Produce      json
// @Param        game      path      int  true  "Game ID"
// @Param        request   body      request.CreateSourceRequest true "request body"
// @Success      201  {object}  domain.FarmSource
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game}/farm-sources [post]
// @Security BearerAuth
func (h *FarmHandler) HandleCreateSource(ctx *gin.Context) {
	if respErr := requireStaff(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseIDParam(ctx, "game")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateSourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	source, err := h.svc.CreateSource(ctx.Request.Context(), req.ToDomain(gameID))
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("game", "ID", gameID))
			return
		}
		if errors.Is(err, service.ErrSourceExists) {
			response.RenderErr(ctx, response.ErrBadRequest(validation.Errors{"name": service.ErrSourceExists}))
			return
		}

		err = fmt.Errorf("HandleCreateSource -> h.svc.CreateSource -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, source)
}

// HandleListRewards godoc
// @Summary      List the rewards of a farm source
// @Tags         farm-sources
// @Produce      json
// @Param        game     path      int  true  "Game ID"
// @Param        source   path      int  true  "Source ID"
// @Success      200  {array}   domain.FarmReward
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game}/farm-sources/{source}/rewards [get]
// @Security BearerAuth
func (h *FarmHandler) HandleListRewards(ctx *gin.Context) {
	gameID, respErr := parseIDParam(ctx, "game")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	sourceID, respErr := parseIDParam(ctx, "source")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rewards, err := h.svc.ListRewards(ctx.Request.Context(), gameID, sourceID)
	if err != nil {
		err = fmt.Errorf("HandleListRewards -> h.svc.ListRewards -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rewards)
}

// HandleCreateEvent godoc
// @Summary      Record a farming run
// @Tags         farm-events
// @Produce      json
// @Param        game      path      int  true  "Game ID"
// @Param        request   body      request.CreateEventRequest true "request body"
// @Success      201  {object}  response.FarmEvent
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game}/farm-events [post]
// @Security BearerAuth
func (h *FarmHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseIDParam(ctx, "game")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, drops := req.ToDomain()
	created, err := h.svc.RecordEvent(ctx.Request.Context(), user.ID, gameID, event, drops)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			response.RenderErr(ctx, response.ErrNotFound("game", "ID", gameID))
		case errors.Is(err, service.ErrSourceNotFound), errors.Is(err, service.ErrSourceGameMismatch):
			response.RenderErr(ctx, response.ErrBadRequest(validation.Errors{"source": err}))
		default:
			err = fmt.Errorf("HandleCreateEvent -> h.svc.RecordEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.NewFarmEvent(created))
}

// HandleListEvents godoc
// @Summary      List the authenticated user's runs in a game
// @Tags         farm-events
// @Produce      json
// @Param        game   path      int  true  "Game ID"
// @Success      200  {array}   response.FarmEvent
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game}/farm-events [get]
// @Security BearerAuth
func (h *FarmHandler) HandleListEvents(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseIDParam(ctx, "game")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.ListUserEvents(ctx.Request.Context(), gameID, user.ID)
	if err != nil {
		err = fmt.Errorf("HandleListEvents -> h.svc.ListUserEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewFarmEvents(events))
}

// HandleGetEvent godoc
// @Summary      Get a farming run
// @Tags         farm-events
// @Produce      json
// @Param        game    path      int  true  "Game ID"
// @Param        event   path      int  true  "Event ID"
// @Success      200  {object}  response.FarmEvent
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game}/farm-events/{event} [get]
// @Security BearerAuth
func (h *FarmHandler) HandleGetEvent(ctx *gin.Context) {
	gameID, respErr := parseIDParam(ctx, "game")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	eventID, respErr := parseIDParam(ctx, "event")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), gameID, eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("farm event", "ID", eventID))
			return
		}

		err = fmt.Errorf("HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewFarmEvent(event))
}

// HandleDeleteEvent godoc
// @Summary      Delete one of the authenticated user's runs
// @Tags         farm-events
// @Param        game    path      int  true  "Game ID"
// @Param        event   path      int  true  "Event ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game}/farm-events/{event} [delete]
// @Security BearerAuth
func (h *FarmHandler) HandleDeleteEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseIDParam(ctx, "game")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	eventID, respErr := parseIDParam(ctx, "event")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteEvent(ctx.Request.Context(), user.ID, gameID, eventID); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("farm event", "ID", eventID))
			return
		}

		err = fmt.Errorf("HandleDeleteEvent -> h.svc.DeleteEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleHistory godoc
// @Summary      List a player's runs in a game
// @Description  user defaults to the authenticated user; an unknown user yields an empty list
// @Tags         farm-events
// @Produce      json
// @Param        game       path      int     true   "Game ID"
// @Param        user       query     string  false  "Username"
// @Param        gameID     query     int     false  "Must equal the path game"
// @Param        sourceID   query     int     false  "Source ID"
// @Param        type       query     string  false  "Source type"
// @Success      200  {array}   response.FarmEvent
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game}/farm-events/history [get]
// @Security BearerAuth
func (h *FarmHandler) HandleHistory(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseIDParam(ctx, "game")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var q request.HistoryQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	events, err := h.svc.History(ctx.Request.Context(), user, gameID, service.HistoryQuery{
		Username: q.User,
		GameID:   q.ParsedGameID(),
		SourceID: q.ParsedSourceID(),
		Type:     q.Type,
	})
	if err != nil {
		if errors.Is(err, service.ErrGameMismatch) {
			response.RenderErr(ctx, response.ErrInvalidParam("gameID", err))
			return
		}

		err = fmt.Errorf("HandleHistory -> h.svc.History -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewFarmEvents(events))
}
