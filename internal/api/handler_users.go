package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"acm/internal/domain"
)

type createUserRequest struct {
	AdditionalInfo *string `json:"additional_info"`
}

// CreateUser handles POST /users/{user_id}. The body is optional; when
// present it may carry additional info.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req createUserRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeInvalid(w, "could not read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeInvalid(w, "malformed json")
			return
		}
	}

	user, err := h.users.Create(r.Context(), domain.CreateUserRequest{
		ID:             &userID,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", locationURL(r, "/users/"+user.ImmutableID))
	writeJSON(w, http.StatusOK, userToAPI(user))
}

// GetUser handles GET /users/{user_id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Find(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToAPI(user))
}
