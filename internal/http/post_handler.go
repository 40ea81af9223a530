package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/pkg/logger"
)

type PostHandler struct {
	repo   domain.PostRepository
	logger logger.Logger
}

func NewPostHandler(repo domain.PostRepository, logger logger.Logger) *PostHandler {
	return &PostHandler{
		repo:   repo,
		logger: logger,
	}
}

func (h *PostHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/posts.list", http.HandlerFunc(h.handleList))
	mux.Handle("/api/posts.get", http.HandlerFunc(h.handleGet))
	mux.Handle("/api/posts.create", http.HandlerFunc(h.handleCreate))
	mux.Handle("/api/posts.update", http.HandlerFunc(h.handleUpdate))
	mux.Handle("/api/posts.delete", http.HandlerFunc(h.handleDelete))
}

func (h *PostHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	filter := domain.ListPostsFilter{
		PostType: query.Get("post_type"),
		Status:   domain.PostStatus(query.Get("status")),
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			WriteJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}
	if filter.Status != "" {
		if err := filter.Status.Validate(); err != nil {
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	posts, err := h.repo.ListPosts(r.Context(), filter)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list posts")
		WriteJSONError(w, "Failed to list posts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
	})
}

func (h *PostHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		WriteJSONError(w, "id must be a positive integer", http.StatusBadRequest)
		return
	}

	post, err := h.repo.GetPostByID(r.Context(), id)
	if err != nil {
		if _, ok := err.(*domain.ErrPostNotFound); ok {
			WriteJSONError(w, "Post not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to get post")
		WriteJSONError(w, "Failed to get post", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"post": post,
	})
}

func (h *PostHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var post domain.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := post.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.CreatePost(r.Context(), &post); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to create post")
		WriteJSONError(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"post": post,
	})
}

func (h *PostHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var post domain.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if post.ID <= 0 {
		WriteJSONError(w, "id must be a positive integer", http.StatusBadRequest)
		return
	}
	if err := post.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdatePost(r.Context(), &post); err != nil {
		if _, ok := err.(*domain.ErrPostNotFound); ok {
			WriteJSONError(w, "Post not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to update post")
		WriteJSONError(w, "Failed to update post", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"post": post,
	})
}

func (h *PostHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID <= 0 {
		WriteJSONError(w, "id must be a positive integer", http.StatusBadRequest)
		return
	}

	if err := h.repo.DeletePost(r.Context(), req.ID); err != nil {
		if _, ok := err.(*domain.ErrPostNotFound); ok {
			WriteJSONError(w, "Post not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to delete post")
		WriteJSONError(w, "Failed to delete post", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
