package users

import (
	"errors"
	"net/http"
	"time"

	"feed-ranking-service/internal/shared/httpx"
)

type Handler struct{ repo Repository }

func NewHandler(r Repository) *Handler { return &Handler{repo: r} }

type profileRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Protected: create or update the current user's display profile
func (h *Handler) UpsertProfile(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	body, err := httpx.Decode[profileRequest](r)
	if err != nil {
		return err
	}
	if body.Name == "" {
		return errors.New("name cannot be empty")
	}
	u := &User{ID: uid, Name: body.Name, AvatarURL: body.AvatarURL, CreatedAt: time.Now()}
	if err := h.repo.Upsert(u); err != nil {
		return err
	}
	httpx.WriteJSON(w, u, http.StatusOK)
	return nil
}

// Public: fetch a user's display profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) error {
	u, err := h.repo.GetByID(r.PathValue("user_id"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return httpx.ErrNotFound
		}
		return err
	}
	httpx.WriteJSON(w, u, http.StatusOK)
	return nil
}
