package middleware

import (
	"crypto/subtle"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iota-uz/clubs/pkg/configuration"
	"github.com/iota-uz/clubs/pkg/httpapi"
)

const opsTokenHeader = "X-Ops-Token"

// opsCheck reports whether a request may see ops routes.
type opsCheck func(r *http.Request) bool

// OpsGuard hides the routes under opsPrefixes in production. A request passes when it comes from
// OPS_GUARD_CIDRS or carries the ops token or basic-auth pair; anything else gets the JSON 404.
func OpsGuard(conf *configuration.Configuration, opsPrefixes ...string) mux.MiddlewareFunc {
	if conf == nil {
		conf = configuration.Use()
	}
	if conf.GoAppEnvironment != configuration.Production || !conf.OpsGuardEnabled {
		return func(next http.Handler) http.Handler { return next }
	}

	checks := opsChecks(conf)
	deny := httpapi.NotFound()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasAnyPrefix(r.URL.Path, opsPrefixes) {
				next.ServeHTTP(w, r)
				return
			}
			for _, ok := range checks {
				if ok(r) {
					next.ServeHTTP(w, r)
					return
				}
			}
			deny.ServeHTTP(w, r)
		})
	}
}

func opsChecks(conf *configuration.Configuration) []opsCheck {
	var checks []opsCheck

	if cidrs := parseCIDRs(conf.OpsGuardCIDRs); len(cidrs) > 0 {
		header := conf.RealIPHeader
		checks = append(checks, func(r *http.Request) bool {
			addr, err := netip.ParseAddr(clientIP(r, header))
			if err != nil {
				return false
			}
			for _, p := range cidrs {
				if p.Contains(addr) {
					return true
				}
			}
			return false
		})
	}

	if token := strings.TrimSpace(conf.OpsGuardToken); token != "" {
		checks = append(checks, func(r *http.Request) bool {
			return constantEqual(bearerOrOpsToken(r), token)
		})
	}

	user, pass := conf.OpsGuardBasicAuthUser, conf.OpsGuardBasicAuthPass
	if strings.TrimSpace(user) != "" || strings.TrimSpace(pass) != "" {
		checks = append(checks, func(r *http.Request) bool {
			u, p, ok := r.BasicAuth()
			return ok && constantEqual(u, user) && constantEqual(p, pass)
		})
	}

	return checks
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func constantEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// parseCIDRs accepts comma, semicolon or whitespace separated prefixes and skips malformed ones.
func parseCIDRs(raw string) []netip.Prefix {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
	})
	out := make([]netip.Prefix, 0, len(parts))
	for _, part := range parts {
		if p, err := netip.ParsePrefix(part); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func bearerOrOpsToken(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get(opsTokenHeader)); t != "" {
		return t
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}

// clientIP is getRealIP reduced to a bare address: first X-Forwarded-For hop, no port.
func clientIP(r *http.Request, header string) string {
	v := getRealIP(r, header)
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	v = strings.TrimSpace(v)
	if host, _, err := net.SplitHostPort(v); err == nil {
		return host
	}
	return v
}
