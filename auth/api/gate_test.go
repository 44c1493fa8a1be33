package api

import (
	"net/http"
	"sync/atomic"
	"testing"

	"atelier/auth"

	"github.com/steinfletcher/apitest"
)

func TestProtect(t *testing.T) {
	sessions := auth.NewRegistry(auth.SessionTTL)
	sr := NewRealm(sessions)
	var count uint32
	protected := sr.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint32(&count, 1)
		http.Error(w, "OK", http.StatusOK)
	}))

	// paths outside the admin area pass through untouched
	apitest.Handler(protected).Get("/").Expect(t).Status(http.StatusOK).End()
	apitest.Handler(protected).Get("/blog/first-post").Expect(t).Status(http.StatusOK).End()
	// the login page itself is never gated
	apitest.Handler(protected).Get("/admin/login/").Expect(t).Status(http.StatusOK).End()

	// admin pages without a session redirect to the login page
	apitest.Handler(protected).Get("/admin").
		Expect(t).Status(http.StatusFound).Header("Location", LoginPath).End()
	apitest.Handler(protected).Get("/admin/settings").
		Expect(t).Status(http.StatusFound).Header("Location", LoginPath).End()

	// admin APIs without a session get a JSON 401, never a redirect
	apitest.Handler(protected).Get("/api/admin/users").
		Expect(t).Status(http.StatusUnauthorized).
		Header("Content-Type", "application/json").End()
	apitest.Handler(protected).Get("/api/admin").
		Expect(t).Status(http.StatusUnauthorized).End()

	if count != 3 {
		t.Fatalf("gated requests should not have reached the handler, count %v", count)
	}

	token := sessions.Create("amelia")
	cookie := apitest.NewCookie(auth.CookieName).Value(token)
	apitest.Handler(protected).Get("/admin/settings").Cookies(cookie).
		Expect(t).Status(http.StatusOK).End()
	apitest.Handler(protected).Get("/api/admin/users").Cookies(cookie).
		Expect(t).Status(http.StatusOK).End()
	if count != 5 {
		t.Fatalf("authenticated requests should reach the handler, count %v", count)
	}

	// a destroyed session stops working immediately
	sessions.Destroy(token)
	apitest.Handler(protected).Get("/api/admin/users").Cookies(cookie).
		Expect(t).Status(http.StatusUnauthorized).End()
}
