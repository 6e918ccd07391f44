package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"acm/internal/service"
)

// Handler holds the ACM services and exposes them as HTTP endpoints.
type Handler struct {
	users          *service.UserService
	groups         *service.GroupService
	objects        *service.ObjectService
	permissionSets *service.PermissionSetService
	access         *service.AccessService
	decisions      *service.DecisionService
	logger         *slog.Logger
}

// NewHandler creates a new Handler with all required service dependencies.
func NewHandler(
	users *service.UserService,
	groups *service.GroupService,
	objects *service.ObjectService,
	permissionSets *service.PermissionSetService,
	access *service.AccessService,
	decisions *service.DecisionService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		users:          users,
		groups:         groups,
		objects:        objects,
		permissionSets: permissionSets,
		access:         access,
		decisions:      decisions,
		logger:         logger.With("component", "api"),
	}
}

// Routes mounts every ACM endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/users/{user_id}", h.CreateUser)
	r.Get("/users/{user_id}", h.GetUser)

	r.Post("/groups", h.CreateGroup)
	r.Get("/groups/{group_id}", h.GetGroup)
	r.Delete("/groups/{group_id}", h.DeleteGroup)
	r.Put("/groups/{group_id}/users/{user_id}", h.AddGroupMember)
	r.Delete("/groups/{group_id}/users/{user_id}", h.RemoveGroupMember)

	r.Post("/permission_sets", h.CreatePermissionSet)
	r.Put("/permission_sets", h.UpdatePermissionSet)
	r.Get("/permission_sets/{name}", h.GetPermissionSet)

	r.Post("/object_types", h.CreateObjectType)
	r.Post("/objects", h.CreateObject)
	r.Get("/objects/{object_id}", h.GetObject)
	r.Delete("/objects/{object_id}", h.DeleteObject)

	r.Put("/objects/{object_id}/acl/{permission}/{group_id}", h.GrantAccess)
	r.Delete("/objects/{object_id}/acl/{permission}/{group_id}", h.RevokeAccess)
	r.Get("/objects/{object_id}/access", h.CheckAccess)
}
