package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmlog/farmlog-api/internal/api/handler/v1/request"
	"github.com/farmlog/farmlog-api/internal/api/handler/v1/response"
	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/service"
)

var errNarrowFilters = errors.New("too many records match, narrow the filters (dates, source or item)")

type StatsService interface {
	UserStats(ctx context.Context, f domain.StatsFilter) (domain.StatsReport, error)
	FarmStats(ctx context.Context, f domain.StatsFilter) (domain.StatsReport, error)
	DropRate(ctx context.Context, f domain.StatsFilter) (domain.DropRate, error)
}

type StatsHandler struct {
	svc  StatsService
	uSvc UserGetter
}

func NewStatsHandler(svc StatsService, uSvc UserGetter) *StatsHandler {
	return &StatsHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// statsErr maps the errors shared by every statistics endpoint.
func statsErr(op string, gameID uint, err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return response.ErrNotFound("game", "ID", gameID)
	case errors.Is(err, service.ErrGameRequired):
		return response.ErrInvalidParam("game_id", err)
	case errors.Is(err, service.ErrSourceRequired):
		return response.ErrInvalidParam("sourceID", err)
	case errors.Is(err, service.ErrTooManyRows):
		return response.ErrBadRequest(errNarrowFilters)
	}

	return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
}

// HandleUserStats godoc
// @Summary      Statistics of the authenticated user's runs
// @Tags         stats
// @Produce      json
// @Param        game_id      query     int     true   "Game ID"
// @Param        source       query     string  false  "Source name"
// @Param        item         query     string  false  "Reward name"
// @Param        start_date   query     string  false  "YYYY-MM-DD, inclusive"
// @Param        end_date     query     string  false  "YYYY-MM-DD, inclusive"
// @Success      200  {object}  response.UserStatsReport
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /user-stats [get]
// @Security BearerAuth
func (h *StatsHandler) HandleUserStats(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var q request.UserStatsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	f := q.Filter(user.ID)
	report, err := h.svc.UserStats(ctx.Request.Context(), f)
	if err != nil {
		response.RenderErr(ctx, statsErr("HandleUserStats -> h.svc.UserStats", f.GameID, err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewUserStatsReport(user.Username, f.GameID, response.UserStatsFilters{
		Source:    response.Optional(q.Source),
		Item:      response.Optional(q.Item),
		StartDate: response.Optional(q.StartDate),
		EndDate:   response.Optional(q.EndDate),
	}, report))
}

// HandleFarmStats godoc
// @Summary      Statistics of every player's runs in a game
// @Tags         stats
// @Produce      json
// @Param        game        path      int     true   "Game ID"
// @Param        type        query     string  false  "Source type, DOMAIN matches every variant"
// @Param        sourceID    query     int     false  "Source ID"
// @Param        itemID      query     int     false  "Reward ID"
// @Param        startDate   query     string  false  "YYYY-MM-DD, inclusive"
// @Param        endDate     query     string  false  "YYYY-MM-DD, inclusive"
// @Success      200  {object}  response.FarmStatsReport
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game}/farm-stats [get]
// @Security BearerAuth
func (h *StatsHandler) HandleFarmStats(ctx *gin.Context) {
	gameID, respErr := parseIDParam(ctx, "game")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var q request.FarmStatsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	report, err := h.svc.FarmStats(ctx.Request.Context(), q.Filter(gameID))
	if err != nil {
		response.RenderErr(ctx, statsErr("HandleFarmStats -> h.svc.FarmStats", gameID, err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewFarmStatsReport(gameID, response.FarmStatsFilters{
		Type:      response.Optional(q.Type),
		SourceID:  response.Optional(q.SourceID),
		ItemID:    response.Optional(q.ItemID),
		DateRange: [2]*string{response.Optional(q.StartDate), response.Optional(q.EndDate)},
	}, report))
}

// HandleDropRate godoc
// @Summary      Empirical drop rate of the authenticated user's runs against a source
// @Tags         stats
// @Produce      json
// @Param        game       path      int  true   "Game ID"
// @Param        sourceID   query     int  true   "Source ID"
// @Param        itemID     query     int  false  "Reward ID, any drop when absent"
// @Success      200  {object}  response.DropRateReport
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /games/{game}/stats/drop-rate [get]
// @Security BearerAuth
func (h *StatsHandler) HandleDropRate(ctx *gin.Context) {
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

	var q request.DropRateQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	f := q.Filter(gameID, user.ID)
	rate, err := h.svc.DropRate(ctx.Request.Context(), f)
	if err != nil {
		response.RenderErr(ctx, statsErr("HandleDropRate -> h.svc.DropRate", gameID, err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewDropRateReport(gameID, f.SourceID, q.ParsedItemID(), rate))
}
