package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
)

// Err is the JSON envelope of every error response.
type Err struct {
	Err            error             `json:"-"`
	HTTPStatusCode int               `json:"-"`
	StatusText     string            `json:"status"`
	ErrorText      string            `json:"error,omitempty"`
	Details        map[string]string `json:"details,omitempty"`
	RequestID      string            `json:"request_id,omitempty"`
}

func (e *Err) Error() string {
	return e.ErrorText
}

// RenderErr aborts the request with e. Server-side failures are logged with the request id.
func RenderErr(ctx *gin.Context, e *Err) {
	e.RequestID = requestid.Get(ctx)

	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", e.RequestID),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

// ErrBadRequest reports invalid input. ozzo validation errors are expanded into Details keyed by field.
func ErrBadRequest(err error) *Err {
	e := &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request",
		ErrorText:      err.Error(),
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		e.ErrorText = "invalid request parameters"
		e.Details = make(map[string]string, len(verrs))
		for field, ferr := range verrs {
			if ferr != nil {
				e.Details[field] = ferr.Error()
			}
		}
	}

	return e
}

// ErrInvalidParam reports a single malformed parameter.
func ErrInvalidParam(field string, err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request",
		ErrorText:      fmt.Sprintf("invalid %s", field),
		Details:        map[string]string{field: err.Error()},
	}
}

func ErrNotFound(resource, field string, value any) *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found",
		ErrorText:      fmt.Sprintf("%s with %s %v not found", resource, field, value),
	}
}

func ErrAuthRequired(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusForbidden,
		StatusText:     "Forbidden",
		ErrorText:      "authentication credentials were not provided or are invalid",
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusForbidden,
		StatusText:     "Forbidden",
		ErrorText:      err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Unauthorized",
		ErrorText:      "wrong username or password",
	}
}

func ErrTooManyRequests() *Err {
	return &Err{
		HTTPStatusCode: http.StatusTooManyRequests,
		StatusText:     "Too many requests",
		ErrorText:      "rate limit exceeded, retry later",
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error",
		ErrorText:      "something went wrong",
	}
}
