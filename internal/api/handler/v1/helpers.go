package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/farmlog/farmlog-api/internal/api/handler/v1/request"
	"github.com/farmlog/farmlog-api/internal/api/handler/v1/response"
	"github.com/farmlog/farmlog-api/internal/api/middleware"
	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/service"
)

var errNoUserInContext = errors.New("no authenticated user in context")

type UserGetter interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// getUserFromContext loads the user authenticated by middleware.VerifyJWT.
func getUserFromContext(ctx *gin.Context, uSvc UserGetter) (domain.User, *response.Err) {
	userID := ctx.GetUint(middleware.UserIDKey)
	if userID == 0 {
		return domain.User{}, response.ErrAuthRequired(errNoUserInContext)
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrAuthRequired(err)
		}

		err = fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err)
		return domain.User{}, response.ErrInternalServerError(err)
	}

	return user, nil
}

// requireStaff loads the requester and refuses anyone who may not curate games and sources.
func requireStaff(ctx *gin.Context, uSvc UserGetter) *response.Err {
	user, respErr := getUserFromContext(ctx, uSvc)
	if respErr != nil {
		return respErr
	}

	if !user.IsStaff {
		return response.ErrPermissionDenied(fmt.Errorf("user %v is not staff", user.ID))
	}

	return nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := request.ParseID(ctx.Param(name))
	if err != nil {
		return 0, response.ErrInvalidParam(name, errors.New("must be a positive integer"))
	}

	return id, nil
}
