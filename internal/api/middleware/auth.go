package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farmlog/farmlog-api/internal/api/handler/v1/response"
	"github.com/farmlog/farmlog-api/internal/pkg/jwthelper"
)

// UserIDKey is the gin context key holding the authenticated user's id.
const UserIDKey = "userID"

var (
	ErrMissingToken      = errors.New("missing bearer token")
	ErrUserAgentMismatch = errors.New("token was issued to a different user agent")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stores the user id in the context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.RenderErr(ctx, response.ErrAuthRequired(ErrMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, strings.TrimSpace(token))
		if err != nil {
			response.RenderErr(ctx, response.ErrAuthRequired(err))
			return
		}
		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrAuthRequired(ErrUserAgentMismatch))
			return
		}

		ctx.Set(UserIDKey, claims.UserID)
		ctx.Next()
	}
}
