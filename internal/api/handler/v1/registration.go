package v1

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/unidrl/campus-connect/internal/api/handler/v1/request"
	"github.com/unidrl/campus-connect/internal/api/handler/v1/response"
	"github.com/unidrl/campus-connect/internal/domain"
)

type RegistrationService interface {
	Register(ctx context.Context, reg domain.Registration) (domain.Registration, error)
	CheckIn(ctx context.Context, token string) (domain.Registration, error)
	MarkAbsent(ctx context.Context, mssv, eventID string) (domain.Registration, error)
	Cancel(ctx context.Context, mssv, eventID string) error
	ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
	ListByStudent(ctx context.Context, mssv string) ([]domain.Registration, error)
	Statistics(ctx context.Context, eventID string) (domain.Statistics, error)
}

type RegistrationHandler struct {
	svc        RegistrationService
	uSvc       UserService
	qrImageURL string
}

func NewRegistrationHandler(svc RegistrationService, uSvc UserService, qrImageURL string) *RegistrationHandler {
	return &RegistrationHandler{
		svc:        svc,
		uSvc:       uSvc,
		qrImageURL: qrImageURL,
	}
}

// HandleRegister godoc
// @Summary      Register for an event
// @Description  Registers the logged-in student and returns the ticket with its QR code.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      201  {object}  response.Ticket
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/registrations [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleRegister(ctx *gin.Context) {
	user, respErr := getStudentFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reg, err := h.svc.Register(ctx.Request.Context(), domain.Registration{
		MSSV:    user.MSSV,
		Email:   user.Email,
		Name:    user.Name,
		Class:   user.Class,
		EventID: ctx.Param("eventID"),
	})
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleRegister -> h.svc.Register", err))
		return
	}

	ctx.JSON(http.StatusCreated, h.ticket(reg))
}

// HandleListEventRegistrations godoc
// @Summary      List an event's registrations
// @Description  Admins only.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200  {array}   domain.Registration
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/registrations [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleListEventRegistrations(ctx *gin.Context) {
	regs, err := h.svc.ListByEvent(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleListEventRegistrations -> h.svc.ListByEvent", err))
		return
	}

	ctx.JSON(http.StatusOK, regs)
}

// HandleListMyRegistrations godoc
// @Summary      List my tickets
// @Tags         registrations
// @Produce      json
// @Success      200  {array}   response.Ticket
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/me [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleListMyRegistrations(ctx *gin.Context) {
	user, respErr := getStudentFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	regs, err := h.svc.ListByStudent(ctx.Request.Context(), user.MSSV)
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleListMyRegistrations -> h.svc.ListByStudent", err))
		return
	}

	tickets := make([]response.Ticket, len(regs))
	for i, reg := range regs {
		tickets[i] = h.ticket(reg)
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleEventStatistics godoc
// @Summary      Registration statistics of an event
// @Description  Admins only.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200  {object}  domain.Statistics
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/statistics [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleEventStatistics(ctx *gin.Context) {
	h.renderStatistics(ctx, ctx.Param("eventID"))
}

// HandleStatistics godoc
// @Summary      Registration statistics of all events
// @Description  Admins only.
// @Tags         registrations
// @Produce      json
// @Success      200  {object}  domain.Statistics
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /statistics [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleStatistics(ctx *gin.Context) {
	h.renderStatistics(ctx, "")
}

func (h *RegistrationHandler) renderStatistics(ctx *gin.Context, eventID string) {
	stats, err := h.svc.Statistics(ctx.Request.Context(), eventID)
	if err != nil {
		response.RenderErr(ctx, renderableErr("renderStatistics -> h.svc.Statistics", err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleCheckIn godoc
// @Summary      Check a student in
// @Description  Admins only. Takes the token scanned from the student's ticket.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        input  body      request.CheckInRequest  true  "Scanned ticket"
// @Success      200    {object}  domain.Registration
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /registrations/check-in [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleCheckIn(ctx *gin.Context) {
	var req request.CheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reg, err := h.svc.CheckIn(ctx.Request.Context(), req.QRToken)
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleCheckIn -> h.svc.CheckIn", err))
		return
	}

	ctx.JSON(http.StatusOK, reg)
}

// HandleMarkAbsent godoc
// @Summary      Mark a student absent
// @Description  Admins only. Only registrations still waiting for check-in can be marked absent.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Param        mssv     path      string  true  "Student ID"
// @Success      200  {object}  domain.Registration
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/registrations/{mssv}/absent [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleMarkAbsent(ctx *gin.Context) {
	reg, err := h.svc.MarkAbsent(ctx.Request.Context(), ctx.Param("mssv"), ctx.Param("eventID"))
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleMarkAbsent -> h.svc.MarkAbsent", err))
		return
	}

	ctx.JSON(http.StatusOK, reg)
}

// HandleCancel godoc
// @Summary      Delete a registration
// @Description  Admins only. The seat goes back to the event.
// @Tags         registrations
// @Param        eventID  path      string  true  "Event ID"
// @Param        mssv     path      string  true  "Student ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/registrations/{mssv} [delete]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleCancel(ctx *gin.Context) {
	if err := h.svc.Cancel(ctx.Request.Context(), ctx.Param("mssv"), ctx.Param("eventID")); err != nil {
		response.RenderErr(ctx, renderableErr("HandleCancel -> h.svc.Cancel", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *RegistrationHandler) ticket(reg domain.Registration) response.Ticket {
	return response.Ticket{
		Registration: reg,
		QRImageURL:   qrImageURL(h.qrImageURL, reg.QRToken),
	}
}

func qrImageURL(endpoint, data string) string {
	if endpoint == "" || data == "" {
		return ""
	}

	return endpoint + url.QueryEscape(data)
}
