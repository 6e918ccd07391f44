package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"acm/internal/domain"
)

// permissionSetRequest keeps permissions raw so that a non-array value can
// be rejected as an invalid request.
type permissionSetRequest struct {
	Name           *string         `json:"name"`
	AdditionalInfo *string         `json:"additional_info"`
	Permissions    json.RawMessage `json:"permissions"`
}

func decodePermissionSetRequest(body []byte) (domain.PermissionSetRequest, error) {
	var req permissionSetRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return domain.PermissionSetRequest{}, domain.ErrValidation("malformed json")
	}
	if req.Name == nil || *req.Name == "" {
		return domain.PermissionSetRequest{}, domain.ErrValidation("permission set name is required")
	}

	out := domain.PermissionSetRequest{
		Name:           *req.Name,
		AdditionalInfo: req.AdditionalInfo,
	}
	if len(req.Permissions) > 0 && string(req.Permissions) != "null" {
		if err := json.Unmarshal(req.Permissions, &out.Permissions); err != nil {
			return domain.PermissionSetRequest{}, domain.ErrValidation("permissions must be an array of names")
		}
	}
	return out, nil
}

// CreatePermissionSet handles POST /permission_sets.
func (h *Handler) CreatePermissionSet(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeInvalid(w, "missing request body")
		return
	}

	req, err := decodePermissionSetRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}

	set, err := h.permissionSets.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, permissionSetToAPI(set))
}

// UpdatePermissionSet handles PUT /permission_sets. The set's permission
// membership becomes exactly the requested list: permissions are moved in
// from other sets, created fresh, or deleted, never duplicated.
func (h *Handler) UpdatePermissionSet(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeInvalid(w, "missing request body")
		return
	}

	req, err := decodePermissionSetRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}

	set, err := h.permissionSets.Update(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, permissionSetToAPI(set))
}

// GetPermissionSet handles GET /permission_sets/{name}.
func (h *Handler) GetPermissionSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.permissionSets.Read(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, permissionSetToAPI(set))
}
