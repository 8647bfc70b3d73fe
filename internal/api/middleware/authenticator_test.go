package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojass-festival/ojass-api/internal/domain"
	"github.com/ojass-festival/ojass-api/internal/pkg/cookiepolicy"
	"github.com/ojass-festival/ojass-api/internal/pkg/jwthelper"
)

const testSigningKey = "test-signing-key"

type stubUserGetter struct {
	user domain.User
	err  error
}

func (s *stubUserGetter) GetUser(_ context.Context, _ uint) (domain.User, error) {
	return s.user, s.err
}

func newTestAuthenticator() *Authenticator {
	return NewAuthenticator(testSigningKey, cookiepolicy.NewResolver("ojass.org", false), "/auth/login")
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	chain := append(handlers, func(ctx *gin.Context) {
		userID, _ := GetUserID(ctx)
		ctx.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"role":    GetRole(ctx),
		})
	})
	router.GET("/protected", chain...)

	return router
}

func issueToken(t *testing.T, userID uint, role string, lifetime time.Duration) string {
	t.Helper()

	token, err := jwthelper.GenerateToken([]byte(testSigningKey), userID, role, lifetime)
	require.NoError(t, err)

	return token
}

func TestVerifyJWT_MissingCredential(t *testing.T) {
	router := newTestRouter(newTestAuthenticator().VerifyJWT())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestVerifyJWT_MissingCredentialRedirectsPages(t *testing.T) {
	router := newTestRouter(newTestAuthenticator().VerifyJWT())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Accept", "text/html")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))
}

func TestVerifyJWT_ValidBearerToken(t *testing.T) {
	router := newTestRouter(newTestAuthenticator().VerifyJWT())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, 7, domain.RoleUser, time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestVerifyJWT_ValidSessionCookie(t *testing.T) {
	router := newTestRouter(newTestAuthenticator().VerifyJWT())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueToken(t, 9, domain.RoleUser, time.Hour)})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":9`)
}

func TestVerifyJWT_ExpiredCookieIsCleared(t *testing.T) {
	router := newTestRouter(newTestAuthenticator().VerifyJWT())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueToken(t, 9, domain.RoleUser, -time.Minute)})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The dead credential must not survive to retry forever.
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestVerifyJWT_TamperedBearerToken(t *testing.T) {
	router := newTestRouter(newTestAuthenticator().VerifyJWT())

	token := issueToken(t, 7, domain.RoleAdmin, time.Hour)
	tampered := token[:len(token)-2] + "xx"

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tampered)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	guard := newTestAuthenticator()
	router := newTestRouter(guard.VerifyJWT(), guard.RequireAdmin())

	t.Run("user role is denied", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, 7, domain.RoleUser, time.Hour))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("user role on a page is sent home", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Accept", "text/html")
		req.Header.Set("Authorization", "Bearer "+issueToken(t, 7, domain.RoleUser, time.Hour))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("admin role passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, 1, domain.RoleAdmin, time.Hour))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequirePaid(t *testing.T) {
	guard := newTestAuthenticator()

	t.Run("unpaid user gets 402", func(t *testing.T) {
		users := &stubUserGetter{user: domain.User{ID: 7, IsPaid: false}}
		router := newTestRouter(guard.VerifyJWT(), guard.RequirePaid(users))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, 7, domain.RoleUser, time.Hour))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})

	t.Run("paid user passes", func(t *testing.T) {
		users := &stubUserGetter{user: domain.User{ID: 7, IsPaid: true}}
		router := newTestRouter(guard.VerifyJWT(), guard.RequirePaid(users))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, 7, domain.RoleUser, time.Hour))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
