package social

import (
	"net/http"

	"feed-ranking-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

// Protected: follow a user
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	if err := h.svc.Follow(r.Context(), uid, r.PathValue("user_id")); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"status": "followed"}, http.StatusOK)
	return nil
}

// Protected: unfollow a user
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	if err := h.svc.Unfollow(r.Context(), uid, r.PathValue("user_id")); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"status": "unfollowed"}, http.StatusOK)
	return nil
}

// Public: who user_id follows
func (h *Handler) ListFollowing(w http.ResponseWriter, r *http.Request) error {
	limit := httpx.QueryInt(r, "limit", 100)
	offset := httpx.QueryInt(r, "offset", 0)
	ids, err := h.svc.ListFollowing(r.PathValue("user_id"), limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"items": ids, "limit": limit, "offset": offset}, http.StatusOK)
	return nil
}

// Public: who follows user_id
func (h *Handler) ListFollowers(w http.ResponseWriter, r *http.Request) error {
	limit := httpx.QueryInt(r, "limit", 100)
	offset := httpx.QueryInt(r, "offset", 0)
	ids, err := h.svc.ListFollowers(r.PathValue("user_id"), limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"items": ids, "limit": limit, "offset": offset}, http.StatusOK)
	return nil
}
