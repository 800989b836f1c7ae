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
	"github.com/farmlog/farmlog-api/internal/config"
	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/pkg/jwthelper"
	"github.com/farmlog/farmlog-api/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, error)
	SecretQuestion(ctx context.Context, identifier string) (string, error)
	ResetPasswordWithSecret(ctx context.Context, identifier, answer, newPassword string) error
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// uniquenessErr maps a duplicate username or email to a field-level 400.
func uniquenessErr(err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrUserUsernameExists):
		return response.ErrBadRequest(validation.Errors{"username": service.ErrUserUsernameExists})
	case errors.Is(err, service.ErrUserEmailExists):
		return response.ErrBadRequest(validation.Errors{"email": service.ErrUserEmailExists})
	}
	return nil
}

// HandleRegister godoc
// @Summary      Register a new user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.RegisterRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Register(ctx.Request.Context(), domain.User{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		SecretQuestion: req.SecretQuestion,
		SecretAnswer:   req.SecretAnswer,
	})
	if err != nil {
		if respErr := uniquenessErr(err); respErr != nil {
			response.RenderErr(ctx, respErr)
			return
		}

		err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleLogin godoc
// @Summary      Login a user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), user.ID, ctx.Request.UserAgent(), h.conf.JWTTTL)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken() -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  user,
	})
}

// HandleSecretQuestion godoc
// @Summary      Get the secret question of a user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.SecretQuestionRequest true "request body"
// @Success      200      {object}   response.SecretQuestionResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/password-reset-secret [post]
func (h *AuthHandler) HandleSecretQuestion(ctx *gin.Context) {
	var req request.SecretQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	question, err := h.svc.SecretQuestion(ctx.Request.Context(), req.Identifier)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrNoSecretQuestion) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleSecretQuestion -> h.svc.SecretQuestion -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.SecretQuestionResponse{SecretQuestion: question})
}

// HandleResetPassword godoc
// @Summary      Reset a password by answering the secret question
// @Tags         auth
// @Produce      json
// @Param        request   body      request.ResetPasswordRequest true "request body"
// @Success      200      {object}   response.DetailResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/password-reset-secret [put]
func (h *AuthHandler) HandleResetPassword(ctx *gin.Context) {
	var req request.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.ResetPasswordWithSecret(ctx.Request.Context(), req.Identifier, req.Answer, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongSecretAnswer) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleResetPassword -> h.svc.ResetPasswordWithSecret -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.DetailResponse{Detail: "password has been reset"})
}
