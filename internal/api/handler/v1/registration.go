package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ojass-festival/ojass-api/internal/api/handler/v1/request"
	"github.com/ojass-festival/ojass-api/internal/api/handler/v1/response"
	"github.com/ojass-festival/ojass-api/internal/domain"
	"github.com/ojass-festival/ojass-api/internal/metrics"
	"github.com/ojass-festival/ojass-api/internal/service"
)

type RegistrationService interface {
	Register(ctx context.Context, leader domain.User, eventID uint, memberIDs []uint) (domain.Registration, error)
	Verify(ctx context.Context, actor domain.User, registrationID uint) (domain.Registration, error)
	Reject(ctx context.Context, actor domain.User, registrationID uint) (domain.Registration, error)
	ListForEvent(ctx context.Context, actor domain.User, eventID uint, verifiedOnly bool) ([]domain.Registration, error)
	ListForUser(ctx context.Context, user domain.User, eventID uint) ([]domain.Registration, error)
	Referrals(ctx context.Context, actor domain.User, userID uint) ([]domain.User, error)
}

type PaymentService interface {
	ConfirmPayment(ctx context.Context, userID uint, sessionID string) error
}

type RegistrationHandler struct {
	svc        RegistrationService
	paymentSvc PaymentService
	uSvc       UserService
}

func NewRegistrationHandler(svc RegistrationService, paymentSvc PaymentService, uSvc UserService) *RegistrationHandler {
	return &RegistrationHandler{
		svc:        svc,
		paymentSvc: paymentSvc,
		uSvc:       uSvc,
	}
}

// HandleRegister godoc
// @Summary      Register a team for an event
// @Description  The authenticated, paid user becomes the team leader.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateRegistrationRequest  true  "registration details"
// @Success      201    {object}  domain.Registration
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      402    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /registrations [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleRegister(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateRegistrationRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	registration, err := h.svc.Register(ctx.Request.Context(), user, input.EventID, input.TeamMemberIDs)
	if err != nil {
		renderRegistrationErr(ctx, "v1.HandleRegister", err)
		return
	}

	metrics.ObserveRegistrationCreated()

	ctx.JSON(http.StatusCreated, registration)
}

// HandleListMine godoc
// @Summary      List the caller's registrations
// @Description  Registrations where the caller is leader or member, newest first. An optional event_id query narrows to one event.
// @Tags         registrations
// @Produce      json
// @Param        event_id  query     int  false  "event ID"
// @Success      200  {array}   domain.Registration
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleListMine(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var eventID uint
	if raw := ctx.Query("event_id"); raw != "" {
		parsed, err := parseID(raw)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid event_id")))
			return
		}
		eventID = parsed
	}

	registrations, err := h.svc.ListForUser(ctx.Request.Context(), user, eventID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMine -> h.svc.ListForUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, registrations)
}

// HandleConfirmPayment godoc
// @Summary      Confirm the registration-fee payment
// @Description  Verifies the Stripe checkout session and marks the caller as paid. Safe to repeat.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        input  body      request.ConfirmPaymentRequest  true  "checkout session"
// @Success      200
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /payments/confirm [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleConfirmPayment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.ConfirmPaymentRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.paymentSvc.ConfirmPayment(ctx.Request.Context(), user.ID, input.SessionID); err != nil {
		if errors.Is(err, service.ErrPaymentNotCompleted) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleConfirmPayment -> h.paymentSvc.ConfirmPayment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusOK)
}

// HandleVerify godoc
// @Summary      Verify a registration
// @Description  Admin only. Marks the team as present; repeating the call is a no-op.
// @Tags         admin
// @Produce      json
// @Param        registrationID  path      int  true  "registration ID"
// @Success      200  {object}  domain.Registration
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/registrations/{registrationID}/verify [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleVerify(ctx *gin.Context) {
	h.handleSetVerified(ctx, "v1.HandleVerify", h.svc.Verify)
}

// HandleReject godoc
// @Summary      Reject a registration
// @Description  Admin only. Marks the team as absent; repeating the call is a no-op.
// @Tags         admin
// @Produce      json
// @Param        registrationID  path      int  true  "registration ID"
// @Success      200  {object}  domain.Registration
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/registrations/{registrationID}/reject [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleReject(ctx *gin.Context) {
	h.handleSetVerified(ctx, "v1.HandleReject", h.svc.Reject)
}

func (h *RegistrationHandler) handleSetVerified(
	ctx *gin.Context,
	caller string,
	op func(context.Context, domain.User, uint) (domain.Registration, error),
) {
	actor, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registrationID, respErr := parseIDParam(ctx, "registrationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registration, err := op(ctx.Request.Context(), actor, registrationID)
	if err != nil {
		renderRegistrationErr(ctx, caller, err)
		return
	}

	ctx.JSON(http.StatusOK, registration)
}

// HandleListForEvent godoc
// @Summary      List registrations for an event
// @Description  Admin only. Newest first, leader and member identities expanded. filter=verified narrows to verified teams.
// @Tags         admin
// @Produce      json
// @Param        eventID  path      int     true   "event ID"
// @Param        filter   query     string  false  "all or verified"
// @Success      200  {array}   domain.Registration
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/events/{eventID}/registrations [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleListForEvent(ctx *gin.Context) {
	actor, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	verifiedOnly := ctx.Query("filter") == "verified"

	registrations, err := h.svc.ListForEvent(ctx.Request.Context(), actor, eventID, verifiedOnly)
	if err != nil {
		renderRegistrationErr(ctx, "v1.HandleListForEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, registrations)
}

// HandleReferrals godoc
// @Summary      List a user's referrals
// @Description  Admin only. Every user whose referred_by equals the target's ojass id.
// @Tags         admin
// @Produce      json
// @Param        userID  path      int  true  "user ID"
// @Success      200  {array}   domain.User
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/users/{userID}/referrals [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleReferrals(ctx *gin.Context) {
	actor, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	referrals, err := h.svc.Referrals(ctx.Request.Context(), actor, userID)
	if err != nil {
		renderRegistrationErr(ctx, "v1.HandleReferrals", err)
		return
	}

	ctx.JSON(http.StatusOK, referrals)
}

func renderRegistrationErr(ctx *gin.Context, caller string, err error) {
	switch {
	case errors.Is(err, service.ErrAdminRequired):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrPaymentRequired):
		response.RenderErr(ctx, response.ErrPaymentRequired(err))
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "ID", ctx.Param("eventID")))
	case errors.Is(err, service.ErrUserNotFound):
		response.RenderErr(ctx, response.ErrNotFound("user", "ID", ctx.Param("userID")))
	case errors.Is(err, service.ErrRegistrationNotFound):
		response.RenderErr(ctx, response.ErrNotFound("registration", "ID", ctx.Param("registrationID")))
	case errors.Is(err, service.ErrAlreadyRegistered):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrTeamSizeViolation), errors.Is(err, service.ErrInvalidMember):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		err = fmt.Errorf("%v -> %w", caller, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func parseID(raw string) (uint, error) {
	var id uint
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil {
		return 0, err
	}
	return id, nil
}
