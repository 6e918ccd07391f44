package service

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"

	internaldb "acm/internal/db"
	"acm/internal/db/repository"
)

// testServices bundles every service wired against one fresh database.
type testServices struct {
	users          *UserService
	groups         *GroupService
	objects        *ObjectService
	permissionSets *PermissionSetService
	access         *AccessService
	decisions      *DecisionService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)

	subjectRepo := repository.NewSubjectRepo(writeDB)
	objectRepo := repository.NewObjectRepo(writeDB)
	permissionRepo := repository.NewPermissionRepo(writeDB)
	aceRepo := repository.NewACERepo(writeDB)

	return &testServices{
		users:          NewUserService(subjectRepo),
		groups:         NewGroupService(subjectRepo),
		objects:        NewObjectService(objectRepo),
		permissionSets: NewPermissionSetService(permissionRepo),
		access:         NewAccessService(objectRepo, permissionRepo, subjectRepo, aceRepo),
		decisions:      NewDecisionService(objectRepo, permissionRepo, subjectRepo, aceRepo, nil),
	}
}

func strPtr(s string) *string { return &s }
