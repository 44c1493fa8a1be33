// Package api exposes the authentication endpoints and the user
// management API, plus the Realm that gates the whole admin area.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"atelier/auth"
	"atelier/internal/logutil"
	"atelier/internal/webutil"

	"github.com/julienschmidt/httprouter"
)

type (
	// Handler serves /api/auth and /api/admin/users. It holds no state
	// of its own beyond the data directory and the shared session
	// registry.
	Handler struct {
		dataDir        string
		sessions       *auth.Registry
		insecureCookie bool
	}

	loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	userRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	publicUser struct {
		Username  string `json:"username"`
		Role      string `json:"role"`
		CreatedAt string `json:"createdAt"`
	}
)

func NewHandler(dataDir string, sessions *auth.Registry, insecureCookie bool) *Handler {
	return &Handler{dataDir: dataDir, sessions: sessions, insecureCookie: insecureCookie}
}

func (h *Handler) Register(router *httprouter.Router) {
	router.HandlerFunc("POST", "/api/auth/login", h.login)
	router.HandlerFunc("POST", "/api/auth/logout", h.logout)
	router.HandlerFunc("GET", "/api/admin/users", h.listUsers)
	router.HandlerFunc("POST", "/api/admin/users", h.createUser)
	router.HandlerFunc("PUT", "/api/admin/users", h.updateUser)
	router.HandlerFunc("DELETE", "/api/admin/users", h.deleteUser)
}

// authenticate re-validates the session cookie even though the Realm
// already did, so no mutation ever depends on middleware ordering.
func (h *Handler) authenticate(r *http.Request) (string, bool) {
	return h.sessions.Authenticate(r)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		webutil.WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	users, err := auth.LoadUsers(h.dataDir)
	if err != nil {
		h.serverError(r, err, w)
		return
	}
	user := auth.FindUser(users, req.Username)
	if user == nil || !auth.VerifyPassword(req.Password, user.Password) {
		webutil.WriteError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	token := h.sessions.Create(user.Username)
	http.SetCookie(w, h.sessionCookie(token, int(auth.SessionTTL/time.Second)))
	log := logutil.GetOrDefault(r.Context())
	log.Info().Str("user", user.Username).Msg("Login succeeded")
	webutil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.sessions.Destroy(cookie.Value)
	}
	http.SetCookie(w, h.sessionCookie("", -1))
	webutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(r); !ok {
		webutil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	users, err := auth.LoadUsers(h.dataDir)
	if err != nil {
		h.serverError(r, err, w)
		return
	}
	// hashes never leave the credential file
	public := make([]publicUser, 0, len(users))
	for _, u := range users {
		public = append(public, publicUser{Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt})
	}
	webutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "users": public})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(r); !ok {
		webutil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" || req.Role == "" {
		webutil.WriteError(w, http.StatusBadRequest, "Username, password, and role are required")
		return
	}
	users, err := auth.LoadUsers(h.dataDir)
	if err != nil {
		h.serverError(r, err, w)
		return
	}
	if auth.FindUser(users, req.Username) != nil {
		webutil.WriteError(w, http.StatusConflict, "Username already exists")
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.serverError(r, err, w)
		return
	}
	users = append(users, auth.User{
		Username:  req.Username,
		Password:  hash,
		Role:      req.Role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err := auth.SaveUsers(h.dataDir, users); err != nil {
		h.serverError(r, err, w)
		return
	}
	webutil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"username": req.Username,
		"role":     req.Role,
	})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(r); !ok {
		webutil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		webutil.WriteError(w, http.StatusBadRequest, "Username is required")
		return
	}
	users, err := auth.LoadUsers(h.dataDir)
	if err != nil {
		h.serverError(r, err, w)
		return
	}
	user := auth.FindUser(users, req.Username)
	if user == nil {
		webutil.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.serverError(r, err, w)
			return
		}
		user.Password = hash
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if err := auth.SaveUsers(h.dataDir, users); err != nil {
		h.serverError(r, err, w)
		return
	}
	webutil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	currentUser, ok := h.authenticate(r)
	if !ok {
		webutil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		webutil.WriteError(w, http.StatusBadRequest, "Username is required")
		return
	}
	if req.Username == currentUser {
		webutil.WriteError(w, http.StatusForbidden, "Cannot delete yourself")
		return
	}
	users, err := auth.LoadUsers(h.dataDir)
	if err != nil {
		h.serverError(r, err, w)
		return
	}
	target := auth.FindUser(users, req.Username)
	if target == nil {
		webutil.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if target.Role == auth.RoleAdmin && auth.CountRole(users, auth.RoleAdmin) <= 1 {
		webutil.WriteError(w, http.StatusForbidden, "Cannot delete the last admin")
		return
	}
	filtered := make([]auth.User, 0, len(users)-1)
	for _, u := range users {
		if u.Username != req.Username {
			filtered = append(filtered, u)
		}
	}
	if err := auth.SaveUsers(h.dataDir, filtered); err != nil {
		h.serverError(r, err, w)
		return
	}
	webutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   !h.insecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// serverError logs the real failure and hands the client a generic 500,
// internal detail never reaches the response body.
func (h *Handler) serverError(r *http.Request, err error, w http.ResponseWriter) {
	log := logutil.GetOrDefault(r.Context())
	log.Error().Err(err).
		Str("path", r.URL.Path).Msg("Unexpected failure handling request")
	webutil.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
