package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unidrl/campus-connect/internal/api/handler/v1/response"
	"github.com/unidrl/campus-connect/internal/api/middleware"
	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/service"
)

var errNoStudentID = errors.New("only accounts with a student id can do this")

type UserService interface {
	GetUser(ctx context.Context, email string) (domain.User, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the logged-in user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// getUserFromContext loads the account behind the request's token.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errors.New("missing token claims"))
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), claims.Email())
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(fmt.Errorf("account %s no longer exists", claims.Email()))
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err))
	}

	return user, nil
}

// getStudentFromContext is getUserFromContext for routes that act on the
// caller's own registrations.
func getStudentFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	user, respErr := getUserFromContext(ctx, uSvc)
	if respErr != nil {
		return domain.User{}, respErr
	}
	if user.MSSV == "" {
		return domain.User{}, response.ErrPermissionDenied(errNoStudentID)
	}

	return user, nil
}
