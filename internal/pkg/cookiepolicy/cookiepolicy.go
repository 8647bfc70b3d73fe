// Package cookiepolicy decides how the session cookie is scoped for a
// deployment that spans the apex domain and its admin/ambassador/
// sponsor subdomains. A single sign-in must be visible to every
// subdomain without ever widening scope beyond the configured apex.
package cookiepolicy

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Policy struct {
	Domain   string
	SameSite http.SameSite
	Secure   bool
}

type Resolver struct {
	// ApexDomain is the registrable parent shared by the public site
	// and the partner micro-sites, e.g. "ojass.org".
	ApexDomain string
	Production bool
}

func NewResolver(apexDomain string, production bool) *Resolver {
	return &Resolver{
		ApexDomain: apexDomain,
		Production: production,
	}
}

// Resolve picks the cookie scope for a login or logout response.
// Priority: apex-family host gets the shared parent domain with Lax;
// a cross-origin request needs None+Secure (except localhost in
// development); everything else stays host-only Lax.
func (r *Resolver) Resolve(origin, host string) Policy {
	host = stripPort(host)

	if r.isApexFamily(host) {
		return Policy{
			Domain:   r.ApexDomain,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.Production,
		}
	}

	if origin != "" && !r.sameOrigin(origin, host) {
		secure := true
		if !r.Production && isLocalhost(host) {
			secure = false
		}
		return Policy{
			SameSite: http.SameSiteNoneMode,
			Secure:   secure,
		}
	}

	return Policy{
		SameSite: http.SameSiteLaxMode,
		Secure:   r.Production,
	}
}

// IssueCookie builds the session cookie set at login.
func (r *Resolver) IssueCookie(name, token, origin, host string, lifetime time.Duration) *http.Cookie {
	policy := r.Resolve(origin, host)

	return &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Domain:   policy.Domain,
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   policy.Secure,
		SameSite: policy.SameSite,
	}
}

// DeleteCookie builds the logout cookie. It must carry the same domain
// that was used at issuance or the browser silently keeps the session.
func (r *Resolver) DeleteCookie(name, origin, host string) *http.Cookie {
	cookie := r.IssueCookie(name, "", origin, host, 0)
	cookie.MaxAge = -1

	return cookie
}

func (r *Resolver) isApexFamily(host string) bool {
	if r.ApexDomain == "" {
		return false
	}
	return host == r.ApexDomain || strings.HasSuffix(host, "."+r.ApexDomain)
}

func (r *Resolver) sameOrigin(origin, host string) bool {
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return stripPort(parsed.Host) == host
}

func isLocalhost(host string) bool {
	return host == "localhost" || host == "127.0.0.1"
}

func stripPort(host string) string {
	if i := strings.LastIndex(host, ":"); i != -1 && !strings.Contains(host[i:], "]") {
		return host[:i]
	}
	return host
}
