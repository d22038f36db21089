package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	ErrorText  string `json:"error,omitempty"` // application-level error message, for debugging
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.StatusText
	}

	return e.Err.Error()
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.HTTPStatusCode, err)
}

func newErr(status int, err error) *Err {
	e := &Err{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     http.StatusText(status),
	}
	if err != nil {
		e.ErrorText = err.Error()
	}

	return e
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err)
}

func ErrNotFound(resource, field string, value any) *Err {
	return newErr(http.StatusNotFound, fmt.Errorf("%s with %s %v not found", resource, field, value))
}

func ErrNotFoundErr(err error) *Err {
	return newErr(http.StatusNotFound, err)
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, err)
}

func ErrGone(err error) *Err {
	return newErr(http.StatusGone, err)
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, err)
}

func ErrWrongCredentials(err error) *Err {
	zap.L().Info("login rejected", zap.Error(err))

	return newErr(http.StatusUnauthorized, errors.New("wrong email or password"))
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err)
}

// ErrInternalServerError hides err from the client and logs it instead.
func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     http.StatusText(http.StatusInternalServerError),
	}
}
