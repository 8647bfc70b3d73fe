package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ojass-festival/ojass-api/internal/api/handler/v1/request"
	"github.com/ojass-festival/ojass-api/internal/api/handler/v1/response"
	"github.com/ojass-festival/ojass-api/internal/api/middleware"
	"github.com/ojass-festival/ojass-api/internal/config"
	"github.com/ojass-festival/ojass-api/internal/domain"
	"github.com/ojass-festival/ojass-api/internal/pkg/cookiepolicy"
	"github.com/ojass-festival/ojass-api/internal/pkg/jwthelper"
	"github.com/ojass-festival/ojass-api/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
}

type AuthHandler struct {
	conf    *config.APIConfig
	cookies *cookiepolicy.Resolver
	svc     AuthService
}

func NewAuthHandler(conf *config.APIConfig, cookies *cookiepolicy.Resolver, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf:    conf,
		cookies: cookies,
		svc:     svc,
	}
}

// HandleSignup godoc
// @Summary      Signup a new user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.SignupRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Signup(ctx.Request.Context(), domain.User{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Phone:      req.Phone,
		College:    req.College,
		ReferredBy: req.ReferredBy,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUserEmailExists))
			return
		}
		if errors.Is(err, service.ErrUnknownReferralCode) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUnknownReferralCode))
			return
		}
		err = fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleLogin godoc
// @Summary      Login a user
// @Description  Returns a bearer token and also sets the session cookie scoped per the request's origin and host.
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	lifetime := time.Duration(h.conf.TokenLifetimeHours) * time.Hour
	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), user.ID, user.Role, lifetime)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	cookie := h.cookies.IssueCookie(
		h.sessionCookieName(user),
		token,
		ctx.GetHeader("Origin"),
		ctx.Request.Host,
		lifetime,
	)
	http.SetCookie(ctx.Writer, cookie)

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  user,
	})
}

// HandleLogout godoc
// @Summary      Logout
// @Description  Stateless logout: the server holds no session, so this only deletes the cookie with the same domain it was issued under.
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	origin := ctx.GetHeader("Origin")
	host := ctx.Request.Host

	for _, name := range []string{middleware.SessionCookieName, middleware.AdminSessionCookieName} {
		if _, err := ctx.Cookie(name); err == nil {
			http.SetCookie(ctx.Writer, h.cookies.DeleteCookie(name, origin, host))
		}
	}

	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) sessionCookieName(user domain.User) string {
	if user.IsAdmin() {
		return middleware.AdminSessionCookieName
	}
	return middleware.SessionCookieName
}
