package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ojass-festival/ojass-api/internal/api/handler/v1/response"
	"github.com/ojass-festival/ojass-api/internal/domain"
	"github.com/ojass-festival/ojass-api/internal/pkg/cookiepolicy"
	"github.com/ojass-festival/ojass-api/internal/pkg/jwthelper"
)

const (
	// SessionCookieName carries the credential for users on the public
	// site; AdminSessionCookieName is the admin dashboard's cookie.
	SessionCookieName      = "ojass_session"
	AdminSessionCookieName = "ojass_admin_session"

	CtxKeyUserID = "userID"
	CtxKeyRole   = "role"
)

var (
	errMissingCredential = errors.New("missing credential")
	errAdminOnly         = errors.New("admin role required")
	errUnpaid            = errors.New("payment required")
)

type UserGetter interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// Authenticator is the per-request gate. Routes are grouped into three
// classes: public, authenticated-and-paid, and admin; the middlewares
// below compose to enforce them.
type Authenticator struct {
	signingKey []byte
	cookies    *cookiepolicy.Resolver
	loginURL   string
}

func NewAuthenticator(signingKey string, cookies *cookiepolicy.Resolver, loginURL string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		cookies:    cookies,
		loginURL:   loginURL,
	}
}

// VerifyJWT authenticates the request from the bearer header or the
// session cookies and stores the verified subject and role claim in
// the context. Any dead cookie credential is cleared before rejecting,
// so clients don't loop on an expired token.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, cookieName := a.extractToken(ctx)
		if token == "" {
			a.rejectUnauthenticated(ctx, response.ErrUnauthorized(errMissingCredential))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			if cookieName != "" {
				a.clearCookie(ctx, cookieName)
			}
			a.rejectUnauthenticated(ctx, response.ErrUnauthorized(err))
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			if cookieName != "" {
				a.clearCookie(ctx, cookieName)
			}
			a.rejectUnauthenticated(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Set(CtxKeyUserID, userID)
		ctx.Set(CtxKeyRole, claims.Role)
		ctx.Next()
	}
}

// RequireAdmin gates admin-only routes on the verified role claim.
// Page-class requests go back to the site root; API requests get 403.
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if GetRole(ctx) != domain.RoleAdmin {
			if wantsHTML(ctx) {
				ctx.Redirect(http.StatusFound, "/")
				ctx.Abort()
				return
			}
			response.RenderErr(ctx, response.ErrPermissionDenied(errAdminOnly))
			return
		}
		ctx.Next()
	}
}

// RequirePaid re-reads the principal so the payment check is always
// against current state, not a stale claim.
func (a *Authenticator) RequirePaid(users UserGetter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := GetUserID(ctx)
		if !ok {
			a.rejectUnauthenticated(ctx, response.ErrUnauthorized(errMissingCredential))
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), userID)
		if err != nil {
			a.rejectUnauthenticated(ctx, response.ErrUnauthorized(err))
			return
		}

		if !user.IsPaid {
			response.RenderErr(ctx, response.ErrPaymentRequired(errUnpaid))
			return
		}

		ctx.Next()
	}
}

func GetUserID(ctx *gin.Context) (uint, bool) {
	id, ok := ctx.Get(CtxKeyUserID)
	if !ok {
		return 0, false
	}
	userID, ok := id.(uint)
	return userID, ok
}

func GetRole(ctx *gin.Context) string {
	role, ok := ctx.Get(CtxKeyRole)
	if !ok {
		return ""
	}
	r, _ := role.(string)
	return r
}

// extractToken returns the credential and, when it came from a cookie,
// the cookie's name so a dead token can be deleted.
func (a *Authenticator) extractToken(ctx *gin.Context) (string, string) {
	header := ctx.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer "), ""
	}

	for _, name := range []string{AdminSessionCookieName, SessionCookieName} {
		if token, err := ctx.Cookie(name); err == nil && token != "" {
			return token, name
		}
	}

	return "", ""
}

func (a *Authenticator) clearCookie(ctx *gin.Context, name string) {
	cookie := a.cookies.DeleteCookie(name, ctx.GetHeader("Origin"), ctx.Request.Host)
	http.SetCookie(ctx.Writer, cookie)
}

func (a *Authenticator) rejectUnauthenticated(ctx *gin.Context, respErr *response.Err) {
	if wantsHTML(ctx) {
		ctx.Redirect(http.StatusFound, a.loginURL)
		ctx.Abort()
		return
	}
	response.RenderErr(ctx, respErr)
}

func wantsHTML(ctx *gin.Context) bool {
	return strings.Contains(ctx.GetHeader("Accept"), "text/html")
}
