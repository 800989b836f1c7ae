package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlog/farmlog-api/internal/api/middleware"
	"github.com/farmlog/farmlog-api/internal/config"
	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/pkg/jwthelper"
	"github.com/farmlog/farmlog-api/internal/service"
)

const testSigningKey = "handler-test-key"

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter authenticates every request as userID; zero leaves it anonymous.
func newTestRouter(userID uint) *gin.Engine {
	r := gin.New()
	r.Use(requestid.New())
	r.Use(func(ctx *gin.Context) {
		if userID != 0 {
			ctx.Set(middleware.UserIDKey, userID)
		}
	})
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("User-Agent", "handler-test")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errBody struct {
	Status    string            `json:"status"`
	Error     string            `json:"error"`
	Details   map[string]string `json:"details"`
	RequestID string            `json:"request_id"`
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) errBody {
	t.Helper()
	var body errBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newUsers() *mockUserService {
	return &mockUserService{users: map[uint]domain.User{
		7: {ID: 7, Username: "traveler", Email: "traveler@example.com"},
		9: {ID: 9, Username: "curator", Email: "curator@example.com", IsStaff: true},
	}}
}

// auth

func newAuthRouter(svc *mockAuthService) *gin.Engine {
	h := NewAuthHandler(&config.APIConfig{JWTSigningKey: testSigningKey, JWTTTL: time.Hour}, svc)
	r := newTestRouter(0)
	r.POST("/auth/register", h.HandleRegister)
	r.POST("/auth/login", h.HandleLogin)
	r.POST("/auth/password-reset-secret", h.HandleSecretQuestion)
	r.PUT("/auth/password-reset-secret", h.HandleResetPassword)
	return r
}

const registerBody = `{"username":"traveler","email":"traveler@example.com","password":"harvest123","password2":"harvest123","secret_question":"pet?","secret_answer":"paimon"}`

func TestAuthHandler_Register(t *testing.T) {
	svc := &mockAuthService{}
	w := serve(newAuthRouter(svc), http.MethodPost, "/auth/register", registerBody)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "harvest123")
	assert.NotContains(t, w.Body.String(), "paimon")
	assert.Equal(t, "paimon", svc.registered.SecretAnswer)
}

func TestAuthHandler_Register_Errors(t *testing.T) {
	tests := []struct {
		name  string
		svc   *mockAuthService
		body  string
		field string
	}{
		{name: "duplicate email", svc: &mockAuthService{registerErr: service.ErrUserEmailExists}, body: registerBody, field: "email"},
		{name: "duplicate username", svc: &mockAuthService{registerErr: service.ErrUserUsernameExists}, body: registerBody, field: "username"},
		{
			name:  "password mismatch",
			svc:   &mockAuthService{},
			body:  `{"username":"traveler","email":"traveler@example.com","password":"harvest123","password2":"harvest321"}`,
			field: "password2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newAuthRouter(tt.svc), http.MethodPost, "/auth/register", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeErr(t, w).Details, tt.field)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &mockAuthService{loginUser: domain.User{ID: 7, Username: "traveler"}}
	w := serve(newAuthRouter(svc), http.MethodPost, "/auth/login", `{"username":"traveler","password":"harvest123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	claims, err := jwthelper.ParseToken([]byte(testSigningKey), body.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "handler-test", claims.UserAgent)

	svc.loginErr = service.ErrWrongPassword
	w = serve(newAuthRouter(svc), http.MethodPost, "/auth/login", `{"username":"traveler","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_PasswordResetSecret(t *testing.T) {
	svc := &mockAuthService{question: "pet?"}
	r := newAuthRouter(svc)

	w := serve(r, http.MethodPost, "/auth/password-reset-secret", `{"identifier":"traveler"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"secret_question":"pet?"}`, w.Body.String())

	w = serve(r, http.MethodPut, "/auth/password-reset-secret", `{"identifier":"traveler","answer":"paimon","new_password":"newharvest1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	svc.questionErr = service.ErrUserNotFound
	w = serve(r, http.MethodPost, "/auth/password-reset-secret", `{"identifier":"ghost"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.resetErr = service.ErrWrongSecretAnswer
	w = serve(r, http.MethodPut, "/auth/password-reset-secret", `{"identifier":"traveler","answer":"x","new_password":"newharvest1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// profile

func newUserRouter(userID uint, svc *mockUserService) *gin.Engine {
	h := NewUserHandler(svc)
	r := newTestRouter(userID)
	r.GET("/users/profile", h.HandleGetProfile)
	r.PUT("/users/profile", h.HandleUpdateProfile)
	r.DELETE("/users/profile", h.HandleDeleteProfile)
	return r
}

func TestUserHandler_Profile(t *testing.T) {
	svc := newUsers()

	w := serve(newUserRouter(7, svc), http.MethodGet, "/users/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"traveler"`)

	w = serve(newUserRouter(0, svc), http.MethodGet, "/users/profile", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(newUserRouter(99, svc), http.MethodGet, "/users/profile", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	svc := newUsers()
	r := newUserRouter(7, svc)

	w := serve(r, http.MethodPut, "/users/profile", `{"email":"new@example.com","current_password":"harvest123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new@example.com")

	svc.updateErr = service.ErrWrongPassword
	w = serve(r, http.MethodPut, "/users/profile", `{"current_password":"bad"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeErr(t, w).Details, "current_password")

	svc.updateErr = service.ErrUserEmailExists
	w = serve(r, http.MethodPut, "/users/profile", `{"email":"taken@example.com","current_password":"harvest123"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeErr(t, w).Details, "email")
}

func TestUserHandler_DeleteProfile(t *testing.T) {
	svc := newUsers()
	r := newUserRouter(7, svc)

	w := serve(r, http.MethodDelete, "/users/profile", `{"password":"harvest123"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uint{7}, svc.deleted)

	svc.deleteErr = service.ErrWrongPassword
	w = serve(r, http.MethodDelete, "/users/profile", `{"password":"bad"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
