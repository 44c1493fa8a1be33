// Package api exposes the content CRUD endpoints: JSON documents
// partitioned by type under /api/admin/content and Markdown posts
// under /api/admin/posts.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"atelier/auth"
	"atelier/content"
	"atelier/internal/logutil"
	"atelier/internal/webutil"

	"github.com/julienschmidt/httprouter"
)

type (
	Handler struct {
		contentDir string
		sessions   *auth.Registry
	}

	contentRequest struct {
		Type string          `json:"type"`
		ID   string          `json:"id"`
		Data json.RawMessage `json:"data"`
	}

	postRequest struct {
		ID          string              `json:"id"`
		Frontmatter content.Frontmatter `json:"frontmatter"`
		Content     *string             `json:"content"`
	}
)

func NewHandler(contentDir string, sessions *auth.Registry) *Handler {
	return &Handler{contentDir: contentDir, sessions: sessions}
}

func (h *Handler) Register(router *httprouter.Router) {
	router.HandlerFunc("GET", "/api/admin/content", h.listContent)
	router.HandlerFunc("POST", "/api/admin/content", h.createContent)
	router.HandlerFunc("PUT", "/api/admin/content", h.updateContent)
	router.HandlerFunc("DELETE", "/api/admin/content", h.deleteContent)
	router.HandlerFunc("GET", "/api/admin/posts", h.listPosts)
	router.HandlerFunc("POST", "/api/admin/posts", h.createPost)
	router.HandlerFunc("PUT", "/api/admin/posts", h.updatePost)
	router.HandlerFunc("DELETE", "/api/admin/posts", h.deletePost)
}

func invalidTypeMessage() string {
	return fmt.Sprintf("Invalid type. Must be one of: %v", strings.Join(content.ValidTypes, ", "))
}

// authenticate re-checks the cookie on every call, the Realm in front
// is not trusted to be the only line of defense.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := h.sessions.Authenticate(r); !ok {
		webutil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}
	return true
}

func (h *Handler) typeDir(contentType string) string {
	return filepath.Join(h.contentDir, contentType)
}

func (h *Handler) postsDir() string {
	return filepath.Join(h.contentDir, content.PostsDir)
}

func (h *Handler) listContent(w http.ResponseWriter, r *http.Request) {
	if !h.authenticate(w, r) {
		return
	}
	contentType := r.URL.Query().Get("type")
	if !content.ValidType(contentType) {
		webutil.WriteError(w, http.StatusBadRequest, invalidTypeMessage())
		return
	}
	items, err := content.ListJSON(h.typeDir(contentType))
	if err != nil {
		h.serverError(r, err, w)
		return
	}
	webutil.WriteJSONWithETag(w, http.StatusOK, map[string]interface{}{"success": true, "items": items})
}

func (h *Handler) createContent(w http.ResponseWriter, r *http.Request) {
	if !h.authenticate(w, r) {
		return
	}
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" || req.ID == "" || req.Data == nil {
		webutil.WriteError(w, http.StatusBadRequest, "type, id, and data are required")
		return
	}
	if !content.ValidType(req.Type) {
		webutil.WriteError(w, http.StatusBadRequest, invalidTypeMessage())
		return
	}
	err := content.CreateJSON(h.typeDir(req.Type), req.ID, req.Data)
	if err != nil {
		h.contentError(r, err, w, "Content item already exists", "")
		return
	}
	webutil.WriteJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": req.ID})
}

func (h *Handler) updateContent(w http.ResponseWriter, r *http.Request) {
	if !h.authenticate(w, r) {
		return
	}
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" || req.ID == "" || req.Data == nil {
		webutil.WriteError(w, http.StatusBadRequest, "type, id, and data are required")
		return
	}
	if !content.ValidType(req.Type) {
		webutil.WriteError(w, http.StatusBadRequest, invalidTypeMessage())
		return
	}
	err := content.UpdateJSON(h.typeDir(req.Type), req.ID, req.Data)
	if err != nil {
		h.contentError(r, err, w, "", "Content item not found")
		return
	}
	webutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": req.ID})
}

func (h *Handler) deleteContent(w http.ResponseWriter, r *http.Request) {
	if !h.authenticate(w, r) {
		return
	}
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" || req.ID == "" {
		webutil.WriteError(w, http.StatusBadRequest, "type and id are required")
		return
	}
	if !content.ValidType(req.Type) {
		webutil.WriteError(w, http.StatusBadRequest, invalidTypeMessage())
		return
	}
	err := content.Delete(h.typeDir(req.Type), req.ID, content.ExtJSON)
	if err != nil {
		h.contentError(r, err, w, "", "Content item not found")
		return
	}
	webutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	if !h.authenticate(w, r) {
		return
	}
	posts, err := content.ListPosts(h.postsDir())
	if err != nil {
		h.serverError(r, err, w)
		return
	}
	webutil.WriteJSONWithETag(w, http.StatusOK, map[string]interface{}{"success": true, "posts": posts})
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	if !h.authenticate(w, r) {
		return
	}
	req, ok := h.decodePost(w, r)
	if !ok {
		return
	}
	doc, err := content.SerializeFrontmatter(req.Frontmatter, *req.Content)
	if err != nil {
		h.serverError(r, err, w)
		return
	}
	err = content.Create(h.postsDir(), req.ID, content.ExtMarkdown, []byte(doc))
	if err != nil {
		h.contentError(r, err, w, "Post already exists", "")
		return
	}
	webutil.WriteJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": req.ID})
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	if !h.authenticate(w, r) {
		return
	}
	req, ok := h.decodePost(w, r)
	if !ok {
		return
	}
	doc, err := content.SerializeFrontmatter(req.Frontmatter, *req.Content)
	if err != nil {
		h.serverError(r, err, w)
		return
	}
	err = content.Update(h.postsDir(), req.ID, content.ExtMarkdown, []byte(doc))
	if err != nil {
		h.contentError(r, err, w, "", "Post not found")
		return
	}
	webutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": req.ID})
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	if !h.authenticate(w, r) {
		return
	}
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		webutil.WriteError(w, http.StatusBadRequest, "id is required")
		return
	}
	err := content.Delete(h.postsDir(), req.ID, content.ExtMarkdown)
	if err != nil {
		h.contentError(r, err, w, "", "Post not found")
		return
	}
	webutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) decodePost(w http.ResponseWriter, r *http.Request) (postRequest, bool) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" || req.Frontmatter == nil || req.Content == nil {
		webutil.WriteError(w, http.StatusBadRequest, "id, frontmatter, and content are required")
		return req, false
	}
	return req, true
}

// contentError maps the store error taxonomy onto the HTTP contract:
// traversal ids are a plain invalid-id 400, conflicts 409, missing
// items 404 and anything else a generic 500.
func (h *Handler) contentError(r *http.Request, err error, w http.ResponseWriter, conflictMsg, notFoundMsg string) {
	var traversal content.PathTraversalError
	var conflict content.ConflictError
	var notFound content.NotFoundError
	switch {
	case errors.As(err, &traversal):
		webutil.WriteError(w, http.StatusBadRequest, "Invalid id")
	case errors.As(err, &conflict):
		webutil.WriteError(w, http.StatusConflict, conflictMsg)
	case errors.As(err, &notFound):
		webutil.WriteError(w, http.StatusNotFound, notFoundMsg)
	default:
		h.serverError(r, err, w)
	}
}

func (h *Handler) serverError(r *http.Request, err error, w http.ResponseWriter) {
	log := logutil.GetOrDefault(r.Context())
	log.Error().Err(err).
		Str("path", r.URL.Path).Msg("Unexpected failure handling request")
	webutil.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
