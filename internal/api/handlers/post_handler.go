package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/blog-api-be/internal/auth"
	"github.com/isdelr/blog-api-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// PostPayload defines the structure for create and update requests.
type PostPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// List handles the request to get all posts with their owners embedded.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve posts")
		writeMessage(w, http.StatusInternalServerError, "Failed to retrieve posts")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// Create handles the request to create a new post owned by the
// authenticated user.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "You are not authorized to perform this action")
		return
	}

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.service.CreatePost(claims.UserID, payload.Title, payload.Description)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to create post")
		writeMessage(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// Update handles the request to overwrite a post's title and description.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "You are not authorized to perform this action")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.service.UpdatePost(id, claims.UserID, payload.Title, payload.Description)
	if err != nil {
		h.writeMutationError(w, err, id, claims.UserID, "update")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Delete handles the request to remove a post.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "You are not authorized to perform this action")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	if err := h.service.DeletePost(id, claims.UserID); err != nil {
		h.writeMutationError(w, err, id, claims.UserID, "delete")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Post has been deleted"})
}

// writeMutationError maps post mutation failures to a status and body.
func (h *PostHandler) writeMutationError(w http.ResponseWriter, err error, postID, userID int64, op string) {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		writeMessage(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, services.ErrNotPostOwner):
		log.Warn().Int64("post_id", postID).Int64("user_id", userID).Str("op", op).Msg("Post mutation by non-owner rejected")
		writeMessage(w, http.StatusUnauthorized, "You are not authorized to perform this action")
	default:
		log.Error().Err(err).Int64("post_id", postID).Str("op", op).Msg("Post mutation failed")
		writeMessage(w, http.StatusInternalServerError, "Failed to "+op+" post")
	}
}
