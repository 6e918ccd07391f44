package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"acm/internal/domain"
)

type createObjectTypeRequest struct {
	Name string `json:"name"`
}

// CreateObjectType handles POST /object_types.
func (h *Handler) CreateObjectType(w http.ResponseWriter, r *http.Request) {
	var req createObjectTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "malformed json")
		return
	}

	t, err := h.objects.CreateType(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, objectTypeJSON{
		Name: t.Name,
		Meta: newMeta(t.CreatedAt, t.LastUpdatedAt),
	})
}

type createObjectRequest struct {
	ID             *string `json:"id"`
	Name           *string `json:"name"`
	Type           string  `json:"type"`
	AdditionalInfo *string `json:"additional_info"`
}

// CreateObject handles POST /objects.
func (h *Handler) CreateObject(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeInvalid(w, "missing request body")
		return
	}

	var req createObjectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeInvalid(w, "malformed json")
		return
	}

	object, err := h.objects.Create(r.Context(), domain.CreateObjectRequest{
		ID:             req.ID,
		Name:           req.Name,
		AdditionalInfo: req.AdditionalInfo,
		Type:           req.Type,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", locationURL(r, "/objects/"+object.ImmutableID))
	writeJSON(w, http.StatusOK, objectToAPI(object))
}

// GetObject handles GET /objects/{object_id}.
func (h *Handler) GetObject(w http.ResponseWriter, r *http.Request) {
	object, err := h.objects.Find(r.Context(), chi.URLParam(r, "object_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, objectToAPI(object))
}

// DeleteObject handles DELETE /objects/{object_id}. Every ACE naming the
// object disappears in the same transaction.
func (h *Handler) DeleteObject(w http.ResponseWriter, r *http.Request) {
	if err := h.objects.Delete(r.Context(), chi.URLParam(r, "object_id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
