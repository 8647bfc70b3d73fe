package cookiepolicy

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		resolver   *Resolver
		origin     string
		host       string
		want       Policy
	}{
		{
			name:     "apex host gets shared domain",
			resolver: NewResolver("ojass.org", true),
			origin:   "https://ojass.org",
			host:     "ojass.org",
			want:     Policy{Domain: "ojass.org", SameSite: http.SameSiteLaxMode, Secure: true},
		},
		{
			name:     "admin subdomain gets shared domain",
			resolver: NewResolver("ojass.org", true),
			origin:   "https://admin.ojass.org",
			host:     "admin.ojass.org",
			want:     Policy{Domain: "ojass.org", SameSite: http.SameSiteLaxMode, Secure: true},
		},
		{
			name:     "sponsor subdomain with port",
			resolver: NewResolver("ojass.org", true),
			origin:   "https://sponsor.ojass.org",
			host:     "sponsor.ojass.org:443",
			want:     Policy{Domain: "ojass.org", SameSite: http.SameSiteLaxMode, Secure: true},
		},
		{
			name:     "lookalike domain is not family",
			resolver: NewResolver("ojass.org", true),
			origin:   "https://evilojass.org",
			host:     "evilojass.org",
			want:     Policy{SameSite: http.SameSiteLaxMode, Secure: true},
		},
		{
			name:     "cross origin requires none and secure",
			resolver: NewResolver("ojass.org", true),
			origin:   "https://partner.example.com",
			host:     "api.other.net",
			want:     Policy{SameSite: http.SameSiteNoneMode, Secure: true},
		},
		{
			name:     "cross origin on dev localhost stays insecure",
			resolver: NewResolver("ojass.org", false),
			origin:   "http://localhost:3000",
			host:     "localhost:8080",
			want:     Policy{SameSite: http.SameSiteNoneMode, Secure: false},
		},
		{
			name:     "same origin non apex defaults to lax",
			resolver: NewResolver("ojass.org", false),
			origin:   "http://staging.example.net",
			host:     "staging.example.net",
			want:     Policy{SameSite: http.SameSiteLaxMode, Secure: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.resolver.Resolve(tt.origin, tt.host)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIssueAndDeleteCookieShareDomain(t *testing.T) {
	resolver := NewResolver("ojass.org", true)

	issued := resolver.IssueCookie("ojass_session", "token", "https://ojass.org", "admin.ojass.org", 24*time.Hour)
	assert.Equal(t, "ojass.org", issued.Domain)
	assert.Equal(t, "/", issued.Path)
	assert.True(t, issued.HttpOnly)
	assert.Equal(t, int((24 * time.Hour).Seconds()), issued.MaxAge)

	// Deletion must use the same domain or the browser keeps the cookie.
	deleted := resolver.DeleteCookie("ojass_session", "https://ojass.org", "admin.ojass.org")
	assert.Equal(t, issued.Domain, deleted.Domain)
	assert.Equal(t, -1, deleted.MaxAge)
	assert.Empty(t, deleted.Value)
}
