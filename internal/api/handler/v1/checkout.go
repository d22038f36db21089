package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unidrl/campus-connect/internal/api/handler/v1/request"
	"github.com/unidrl/campus-connect/internal/api/handler/v1/response"
	"github.com/unidrl/campus-connect/internal/domain"
)

type CheckoutService interface {
	IssueQR(ctx context.Context, eventID string, validMinutes int, issuer string) (domain.CheckoutQR, error)
	VerifyQR(ctx context.Context, code string) (string, error)
	ProcessCheckout(ctx context.Context, code, mssv string) (domain.CheckoutResult, error)
	SubmitQuiz(ctx context.Context, code, mssv string, answers []string) (domain.Registration, error)
	ActiveQR(ctx context.Context, eventID string) (domain.CheckoutQR, error)
	DeleteQR(ctx context.Context, eventID string) error
	IsExpired(qr domain.CheckoutQR) bool
}

type CheckoutHandler struct {
	svc        CheckoutService
	uSvc       UserService
	qrImageURL string
}

func NewCheckoutHandler(svc CheckoutService, uSvc UserService, qrImageURL string) *CheckoutHandler {
	return &CheckoutHandler{
		svc:        svc,
		uSvc:       uSvc,
		qrImageURL: qrImageURL,
	}
}

// HandleIssueQR godoc
// @Summary      Issue the checkout QR of an event
// @Description  Admins only. Replaces the event's current checkout QR, which stops working immediately.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                  true   "Event ID"
// @Param        input    body      request.IssueQRRequest  false  "Validity, 0 for the default"
// @Success      201      {object}  response.CheckoutQR
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/checkout-qr [post]
// @Security     BearerAuth
func (h *CheckoutHandler) HandleIssueQR(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.IssueQRRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	qr, err := h.svc.IssueQR(ctx.Request.Context(), ctx.Param("eventID"), req.ValidMinutes, user.Email)
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleIssueQR -> h.svc.IssueQR", err))
		return
	}

	ctx.JSON(http.StatusCreated, h.checkoutQR(qr))
}

// HandleGetQR godoc
// @Summary      Get the checkout QR of an event
// @Description  Admins only.
// @Tags         checkout
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200  {object}  response.CheckoutQR
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/checkout-qr [get]
// @Security     BearerAuth
func (h *CheckoutHandler) HandleGetQR(ctx *gin.Context) {
	qr, err := h.svc.ActiveQR(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleGetQR -> h.svc.ActiveQR", err))
		return
	}

	ctx.JSON(http.StatusOK, h.checkoutQR(qr))
}

// HandleDeleteQR godoc
// @Summary      Delete the checkout QR of an event
// @Description  Admins only.
// @Tags         checkout
// @Param        eventID  path      string  true  "Event ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/checkout-qr [delete]
// @Security     BearerAuth
func (h *CheckoutHandler) HandleDeleteQR(ctx *gin.Context) {
	if err := h.svc.DeleteQR(ctx.Request.Context(), ctx.Param("eventID")); err != nil {
		response.RenderErr(ctx, renderableErr("HandleDeleteQR -> h.svc.DeleteQR", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleVerifyQR godoc
// @Summary      Verify a scanned checkout QR
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        input  body      request.CheckoutRequest  true  "Scanned code"
// @Success      200    {object}  response.VerifyQR
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      410    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /checkout/verify [post]
// @Security     BearerAuth
func (h *CheckoutHandler) HandleVerifyQR(ctx *gin.Context) {
	var req request.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	eventID, err := h.svc.VerifyQR(ctx.Request.Context(), req.Code)
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleVerifyQR -> h.svc.VerifyQR", err))
		return
	}

	ctx.JSON(http.StatusOK, response.VerifyQR{EventID: eventID})
}

// HandleCheckout godoc
// @Summary      Check out with a scanned checkout QR
// @Description  Completes the logged-in student's registration, or returns the badge quiz when the event awards badges.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        input  body      request.CheckoutRequest  true  "Scanned code"
// @Success      200    {object}  domain.CheckoutResult
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      410    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /checkout [post]
// @Security     BearerAuth
func (h *CheckoutHandler) HandleCheckout(ctx *gin.Context) {
	user, respErr := getStudentFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.ProcessCheckout(ctx.Request.Context(), req.Code, user.MSSV)
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleCheckout -> h.svc.ProcessCheckout", err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleSubmitQuiz godoc
// @Summary      Submit badge quiz answers
// @Description  Scores the answers, awards the badge and completes the checkout.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        input  body      request.QuizRequest  true  "Scanned code and answers in question order"
// @Success      200    {object}  domain.Registration
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      410    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /checkout/quiz [post]
// @Security     BearerAuth
func (h *CheckoutHandler) HandleSubmitQuiz(ctx *gin.Context) {
	user, respErr := getStudentFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reg, err := h.svc.SubmitQuiz(ctx.Request.Context(), req.Code, user.MSSV, req.Answers)
	if err != nil {
		response.RenderErr(ctx, renderableErr("HandleSubmitQuiz -> h.svc.SubmitQuiz", err))
		return
	}

	ctx.JSON(http.StatusOK, reg)
}

func (h *CheckoutHandler) checkoutQR(qr domain.CheckoutQR) response.CheckoutQR {
	return response.CheckoutQR{
		CheckoutQR: qr,
		Expired:    h.svc.IsExpired(qr),
		QRImageURL: qrImageURL(h.qrImageURL, qr.Code),
	}
}
