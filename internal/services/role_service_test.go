package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub/internal/models"
	apperrors "github.com/accesshub/accesshub/pkg/errors"
)

func createTestApp(t *testing.T, svc *AppService) *models.App {
	t.Helper()
	app, err := svc.Register(context.Background(), RegisterAppInput{Name: "Slack"})
	require.NoError(t, err)
	return app
}

func TestRoleServiceCreateEnforcesUniqueName(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = svc.Create(ctx, CreateRoleInput{Name: "admin", Description: "first"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateRoleInput{Name: "admin", Description: "second"})
	require.ErrorIs(t, err, apperrors.ErrUniqueConstraintViolation)
}

func TestRoleServiceGroupGrantLifecycle(t *testing.T) {
	db := openServiceTestDB(t)
	roleSvc, err := NewRoleService(db)
	require.NoError(t, err)
	appSvc, err := NewAppService(db)
	require.NoError(t, err)
	groupSvc, err := NewGroupService(db)
	require.NoError(t, err)

	ctx := context.Background()

	app := createTestApp(t, appSvc)
	group, err := groupSvc.Create(ctx, CreateGroupInput{Name: "eng", AppGroupID: "S123", AppID: app.ID})
	require.NoError(t, err)

	role, err := roleSvc.Create(ctx, CreateRoleInput{Name: "admin", Description: "d"})
	require.NoError(t, err)

	require.NoError(t, roleSvc.AssignGroup(ctx, role.ID, group.ID))

	err = roleSvc.AssignGroup(ctx, role.ID, group.ID)
	require.ErrorIs(t, err, ErrGroupAlreadyAssigned)

	groups, err := roleSvc.ListGroups(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "eng", groups[0].Name)

	loaded, err := roleSvc.GetByID(ctx, role.ID)
	require.NoError(t, err)
	out := loaded.ToDict()
	require.Len(t, out["groups"], 1)

	require.NoError(t, roleSvc.RevokeGroup(ctx, role.ID, group.ID))

	err = roleSvc.RevokeGroup(ctx, role.ID, group.ID)
	require.ErrorIs(t, err, ErrGroupNotAssigned)
}

func TestRoleServiceAssignGroupRejectsDanglingGroup(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	ctx := context.Background()

	role, err := svc.Create(ctx, CreateRoleInput{Name: "admin"})
	require.NoError(t, err)

	err = svc.AssignGroup(ctx, role.ID, 9999)
	require.ErrorIs(t, err, apperrors.ErrForeignKeyViolation)
}

func TestRoleServiceDeleteCascadesGrants(t *testing.T) {
	db := openServiceTestDB(t)
	roleSvc, err := NewRoleService(db)
	require.NoError(t, err)
	appSvc, err := NewAppService(db)
	require.NoError(t, err)
	groupSvc, err := NewGroupService(db)
	require.NoError(t, err)

	ctx := context.Background()

	app := createTestApp(t, appSvc)
	group, err := groupSvc.Create(ctx, CreateGroupInput{Name: "eng", AppID: app.ID})
	require.NoError(t, err)

	role, err := roleSvc.Create(ctx, CreateRoleInput{Name: "admin"})
	require.NoError(t, err)
	require.NoError(t, roleSvc.AssignGroup(ctx, role.ID, group.ID))

	require.NoError(t, roleSvc.Delete(ctx, role.ID))

	var remaining int64
	require.NoError(t, db.Model(&models.RoleToGroup{}).Where("role_id = ?", role.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	// The group itself survives.
	_, err = groupSvc.GetByID(ctx, group.ID)
	require.NoError(t, err)

	err = roleSvc.Delete(ctx, role.ID)
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestRoleServiceUpdateRename(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = svc.Create(ctx, CreateRoleInput{Name: "taken"})
	require.NoError(t, err)

	role, err := svc.Create(ctx, CreateRoleInput{Name: "admin", Description: "d"})
	require.NoError(t, err)

	name := "administrator"
	updated, err := svc.Update(ctx, role.ID, UpdateRoleInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "administrator", updated.Name)

	conflict := "taken"
	_, err = svc.Update(ctx, role.ID, UpdateRoleInput{Name: &conflict})
	require.ErrorIs(t, err, apperrors.ErrUniqueConstraintViolation)
}

func TestRoleServiceGetByName(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRoleInput{Name: "auditor"})
	require.NoError(t, err)

	role, err := svc.GetByName(ctx, "auditor")
	require.NoError(t, err)
	assert.Equal(t, created.ID, role.ID)

	_, err = svc.GetByName(ctx, "missing")
	require.ErrorIs(t, err, ErrRoleNotFound)
}
