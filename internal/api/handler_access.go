package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"acm/internal/domain"
)

// GrantAccess handles PUT /objects/{object_id}/acl/{permission}/{group_id}.
// On success the updated object entity is returned with a Location header
// pointing back at it.
func (h *Handler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	req := domain.GrantRequest{
		ObjectID:   chi.URLParam(r, "object_id"),
		Permission: chi.URLParam(r, "permission"),
		GroupID:    chi.URLParam(r, "group_id"),
	}
	if _, err := h.access.Grant(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}

	object, err := h.objects.Find(r.Context(), req.ObjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", locationURL(r, "/objects/"+object.ImmutableID))
	writeJSON(w, http.StatusOK, objectToAPI(object))
}

// RevokeAccess handles DELETE /objects/{object_id}/acl/{permission}/{group_id}.
// Revoking a grant that was never made still returns 200.
func (h *Handler) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	req := domain.GrantRequest{
		ObjectID:   chi.URLParam(r, "object_id"),
		Permission: chi.URLParam(r, "permission"),
		GroupID:    chi.URLParam(r, "group_id"),
	}
	if err := h.access.Revoke(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

type decisionJSON struct {
	ID         string `json:"id"`
	Permission string `json:"permission"`
	ObjectID   string `json:"object_id"`
	Decision   string `json:"decision"`
}

// CheckAccess handles GET /objects/{object_id}/access?id={subject}&p={permission}.
// A grant answers 200; a denial answers 404 so callers cannot probe which
// objects exist.
func (h *Handler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	req := domain.CheckAccessRequest{
		SubjectID:  r.URL.Query().Get("id"),
		Permission: r.URL.Query().Get("p"),
		ObjectID:   chi.URLParam(r, "object_id"),
	}

	decision, err := h.decisions.Evaluate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	if !decision.Granted() {
		writeError(w, domain.ErrNotFound("access to %s is not granted", req.ObjectID))
		return
	}
	writeJSON(w, http.StatusOK, decisionJSON{
		ID:         req.SubjectID,
		Permission: req.Permission,
		ObjectID:   req.ObjectID,
		Decision:   string(domain.DecisionGrant),
	})
}
