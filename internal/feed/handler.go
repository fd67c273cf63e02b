package feed

import (
	"net/http"

	"feed-ranking-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

// Home feed. Runs behind OptionalAuth: with a token the feed is personalized,
// without one it is the anonymous recency pass-through.
func (h *Handler) GetHomeFeed(w http.ResponseWriter, r *http.Request) error {
	uid := httpx.MaybeUserFromCtx(r)
	limit := httpx.QueryInt(r, "limit", 0)
	offset := httpx.QueryInt(r, "offset", 0)
	items, err := h.svc.GetFeed(r.Context(), uid, limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"items": items, "limit": limit, "offset": offset, "personalized": uid != ""}, http.StatusOK)
	return nil
}

// Protected: force a recompute of the current user's feed
func (h *Handler) RebuildHomeFeed(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	if err := h.svc.Rebuild(r.Context(), uid); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	return nil
}
