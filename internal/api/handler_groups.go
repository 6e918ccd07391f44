package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"acm/internal/domain"
)

// createGroupRequest keeps members raw so that a non-array value can be
// rejected as an invalid request rather than a decode failure.
type createGroupRequest struct {
	ID             *string         `json:"id"`
	AdditionalInfo *string         `json:"additional_info"`
	Members        json.RawMessage `json:"members"`
}

// CreateGroup handles POST /groups. Group creation plus member resolution
// is one atomic unit.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeInvalid(w, "missing request body")
		return
	}

	var req createGroupRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeInvalid(w, "malformed json")
		return
	}

	members, err := decodeMembers(req.Members)
	if err != nil {
		writeInvalid(w, "members must be an array of subject ids")
		return
	}

	group, err := h.groups.Create(r.Context(), domain.CreateGroupRequest{
		ID:             req.ID,
		AdditionalInfo: req.AdditionalInfo,
		Members:        members,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", locationURL(r, "/groups/"+group.ImmutableID))
	writeJSON(w, http.StatusOK, groupToAPI(group))
}

// decodeMembers parses the raw members value. Absent or null means no
// members; null entries inside the array are skipped, matching the
// creation semantics where empty entries never become members.
func decodeMembers(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var entries []*string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	members := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		members = append(members, *e)
	}
	return members, nil
}

// GetGroup handles GET /groups/{group_id}.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.Find(r.Context(), chi.URLParam(r, "group_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupToAPI(group))
}

// DeleteGroup handles DELETE /groups/{group_id}. Members and every ACE
// naming the group disappear in the same transaction.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.Delete(r.Context(), chi.URLParam(r, "group_id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// AddGroupMember handles PUT /groups/{group_id}/users/{user_id}. Unknown
// users are created; re-adding an existing member is a no-op.
func (h *Handler) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.AddMember(r.Context(),
		chi.URLParam(r, "group_id"), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", locationURL(r, "/groups/"+group.ImmutableID))
	writeJSON(w, http.StatusOK, groupToAPI(group))
}

// RemoveGroupMember handles DELETE /groups/{group_id}/users/{user_id}.
func (h *Handler) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.RemoveMember(r.Context(),
		chi.URLParam(r, "group_id"), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupToAPI(group))
}
