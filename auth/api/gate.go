package api

import (
	"net/http"
	"strings"

	"atelier/auth"
	"atelier/internal/logutil"
	"atelier/internal/webutil"
)

type (
	// Realm is the single chokepoint in front of the admin area. It
	// classifies every request path and decides between forwarding,
	// redirecting to the login page or replying 401.
	Realm struct {
		sessions *auth.Registry
	}
)

// LoginPath is where unauthenticated admin page requests are sent.
const LoginPath = "/admin/login/"

func NewRealm(sessions *auth.Registry) *Realm {
	return &Realm{sessions: sessions}
}

// Protect wraps the admin handler. Paths outside the admin area pass
// through untouched; admin pages without a valid session are redirected
// to the login page, admin API calls without one get a JSON 401.
func (s *Realm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		adminPage := (p == "/admin" || strings.HasPrefix(p, "/admin/")) &&
			!strings.HasPrefix(p, "/admin/login")
		adminAPI := p == "/api/admin" || strings.HasPrefix(p, "/api/admin/")
		if !adminPage && !adminAPI {
			sensitive.ServeHTTP(w, r)
			return
		}
		if _, ok := s.sessions.Authenticate(r); ok {
			sensitive.ServeHTTP(w, r)
			return
		}
		log := logutil.GetOrDefault(r.Context())
		log.Debug().Str("path", p).Msg("Rejecting request without a valid session")
		if adminAPI {
			webutil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		http.Redirect(w, r, LoginPath, http.StatusFound)
	})
}
