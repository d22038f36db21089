package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unidrl/campus-connect/internal/api/handler/v1/request"
	"github.com/unidrl/campus-connect/internal/api/handler/v1/response"
	"github.com/unidrl/campus-connect/internal/domain"
)

type EventService interface {
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, id string) (domain.Event, error)
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleListEvents godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      500  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleListEvents -> h.svc.List", err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200  {object}  domain.Event
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	event, err := h.svc.Get(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleGetEvent -> h.svc.Get", err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Admins only.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateEventRequest  true  "Event details"
// @Success      201    {object}  domain.Event
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), req.ToDomain(req.ID))
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleCreateEvent -> h.svc.Create", err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Admins only. Replaces every field of the event; seats already taken stay taken.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                 true  "Event ID"
// @Param        input    body      request.EventRequest   true  "Event details"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [put]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	var req request.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.Update(ctx.Request.Context(), req.ToDomain(ctx.Param("eventID")))
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleUpdateEvent -> h.svc.Update", err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}
