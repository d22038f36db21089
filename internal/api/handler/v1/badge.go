package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unidrl/campus-connect/internal/api/handler/v1/request"
	"github.com/unidrl/campus-connect/internal/api/handler/v1/response"
	"github.com/unidrl/campus-connect/internal/domain"
)

type BadgeService interface {
	GetConfig(ctx context.Context, eventID string) (domain.BadgeConfig, error)
	SetConfig(ctx context.Context, eventID string, cfg domain.BadgeConfig) (domain.BadgeConfig, error)
}

type BadgeHandler struct {
	svc BadgeService
}

func NewBadgeHandler(svc BadgeService) *BadgeHandler {
	return &BadgeHandler{
		svc: svc,
	}
}

// HandleGetBadgeConfig godoc
// @Summary      Get the badge config of an event
// @Description  Admins only. Includes the quiz answers.
// @Tags         badges
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200  {object}  domain.BadgeConfig
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/badge-config [get]
// @Security     BearerAuth
func (h *BadgeHandler) HandleGetBadgeConfig(ctx *gin.Context) {
	cfg, err := h.svc.GetConfig(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleGetBadgeConfig -> h.svc.GetConfig", err))
		return
	}

	ctx.JSON(http.StatusOK, cfg)
}

// HandleSetBadgeConfig godoc
// @Summary      Replace the badge config of an event
// @Description  Admins only.
// @Tags         badges
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                      true  "Event ID"
// @Param        input    body      request.BadgeConfigRequest  true  "Badge config"
// @Success      200      {object}  domain.BadgeConfig
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/badge-config [put]
// @Security     BearerAuth
func (h *BadgeHandler) HandleSetBadgeConfig(ctx *gin.Context) {
	var req request.BadgeConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cfg, err := h.svc.SetConfig(ctx.Request.Context(), ctx.Param("eventID"), req.ToDomain())
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleSetBadgeConfig -> h.svc.SetConfig", err))
		return
	}

	ctx.JSON(http.StatusOK, cfg)
}
