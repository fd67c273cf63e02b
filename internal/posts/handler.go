package posts

import (
	"errors"
	"net/http"

	"feed-ranking-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

// Protected: create a post as the current user
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	body, err := httpx.Decode[CreatePostRequest](r)
	if err != nil {
		return err
	}
	p, err := h.svc.Create(r.Context(), uid, body.Caption, body.MediaURL)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, p, http.StatusCreated)
	return nil
}

// Public: fetch one post
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) error {
	p, err := h.svc.GetByID(r.PathValue("post_id"))
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return httpx.ErrNotFound
		}
		return err
	}
	httpx.WriteJSON(w, p, http.StatusOK)
	return nil
}

// Public: a user's posts, newest first
func (h *Handler) ListByAuthor(w http.ResponseWriter, r *http.Request) error {
	limit := httpx.QueryInt(r, "limit", 50)
	offset := httpx.QueryInt(r, "offset", 0)
	items, err := h.svc.ListByAuthor(r.PathValue("user_id"), limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"items": items, "limit": limit, "offset": offset}, http.StatusOK)
	return nil
}

// Protected: toggle a like on a post
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	liked, err := h.svc.ToggleLike(r.Context(), r.PathValue("post_id"), uid)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return httpx.ErrNotFound
		}
		return err
	}
	httpx.WriteJSON(w, map[string]bool{"liked": liked}, http.StatusOK)
	return nil
}

// Protected: comment on a post
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	body, err := httpx.Decode[CreateCommentRequest](r)
	if err != nil {
		return err
	}
	c, err := h.svc.AddComment(r.Context(), r.PathValue("post_id"), uid, body.Text)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return httpx.ErrNotFound
		}
		return err
	}
	httpx.WriteJSON(w, c, http.StatusCreated)
	return nil
}

// Public: list comments, newest first
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) error {
	limit := httpx.QueryInt(r, "limit", 50)
	offset := httpx.QueryInt(r, "offset", 0)
	items, err := h.svc.ListComments(r.PathValue("post_id"), limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"items": items, "limit": limit, "offset": offset}, http.StatusOK)
	return nil
}
