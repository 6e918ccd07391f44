// Package api provides the HTTP handlers for the ACM REST API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"acm/internal/domain"
)

// SchemaURI identifies the ACM wire format carried by every entity and
// error payload.
const SchemaURI = "urn:acm:schemas:1.0"

// ACM error codes. Unrecognized internal failures map to HTTP 500 with no
// guaranteed body shape.
const (
	CodeNotFound       = 1000
	CodeInvalidRequest = 1001
)

const contentType = "application/json;charset=utf-8, schema=" + SchemaURI

// Meta is the audit block attached to every entity payload.
type Meta struct {
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Schema  string    `json:"schema"`
}

func newMeta(created, updated time.Time) Meta {
	return Meta{Created: created, Updated: updated, Schema: SchemaURI}
}

// errorPayload is the body shape of every error response.
type errorPayload struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a domain error to its HTTP status and ACM error body.
// NotFound becomes 404/1000; validation and conflicts both become 400/1001
// (a duplicate id is an invalid request at this boundary); anything else is
// a 500 with no body, so storage internals never leak to the wire.
func writeError(w http.ResponseWriter, err error) {
	var notFound *domain.NotFoundError
	var invalid *domain.ValidationError
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorPayload{
			Code:        CodeNotFound,
			Description: "The object was not found: " + notFound.Message,
			Schema:      SchemaURI,
		})
	case errors.As(err, &invalid):
		writeInvalid(w, invalid.Message)
	case errors.As(err, &conflict):
		writeInvalid(w, conflict.Message)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func writeInvalid(w http.ResponseWriter, description string) {
	writeJSON(w, http.StatusBadRequest, errorPayload{
		Code:        CodeInvalidRequest,
		Description: "Invalid request: " + description,
		Schema:      SchemaURI,
	})
}

// --- entity payloads ---

type userJSON struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	Meta           Meta   `json:"meta"`
}

type groupJSON struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	AdditionalInfo string   `json:"additionalInfo,omitempty"`
	Members        []string `json:"members,omitempty"`
	Meta           Meta     `json:"meta"`
}

type objectJSON struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Name           string `json:"name,omitempty"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	Meta           Meta   `json:"meta"`
}

type objectTypeJSON struct {
	Name string `json:"name"`
	Meta Meta   `json:"meta"`
}

type permissionSetJSON struct {
	Name           string   `json:"name"`
	Permissions    []string `json:"permissions"`
	AdditionalInfo string   `json:"additionalInfo,omitempty"`
	Meta           Meta     `json:"meta"`
}

func userToAPI(u *domain.Subject) userJSON {
	return userJSON{
		ID:             u.ImmutableID,
		Type:           u.Type,
		AdditionalInfo: u.AdditionalInfo,
		Meta:           newMeta(u.CreatedAt, u.LastUpdatedAt),
	}
}

func groupToAPI(g *domain.Group) groupJSON {
	return groupJSON{
		ID:             g.ImmutableID,
		Type:           g.Type,
		AdditionalInfo: g.AdditionalInfo,
		Members:        g.Members,
		Meta:           newMeta(g.CreatedAt, g.LastUpdatedAt),
	}
}

func objectToAPI(o *domain.Object) objectJSON {
	return objectJSON{
		ID:             o.ImmutableID,
		Type:           o.TypeName,
		Name:           o.Name,
		AdditionalInfo: o.AdditionalInfo,
		Meta:           newMeta(o.CreatedAt, o.LastUpdatedAt),
	}
}

func permissionSetToAPI(s *domain.PermissionSet) permissionSetJSON {
	perms := s.Permissions
	if perms == nil {
		perms = []string{}
	}
	return permissionSetJSON{
		Name:           s.Name,
		Permissions:    perms,
		AdditionalInfo: s.AdditionalInfo,
		Meta:           newMeta(s.CreatedAt, s.LastUpdatedAt),
	}
}

// locationURL builds the absolute URL for the Location response header.
func locationURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
