package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/accesshub/accesshub/internal/models"
)

func openMigrationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestAutoMigrateCreatesAllTables(t *testing.T) {
	db := openMigrationTestDB(t)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"user", "employee", "app", "role", "group", "employee_role", "role_group"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestSeedDataIsIdempotent(t *testing.T) {
	db := openMigrationTestDB(t)
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, SeedData(db))
	require.NoError(t, SeedData(db))

	var count int64
	require.NoError(t, db.Model(&models.Role{}).Where("name = ?", "administrator").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeedDataInstallsBuiltinRoles(t *testing.T) {
	db := openMigrationTestDB(t)
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, SeedData(db))

	for _, name := range []string{"administrator", "employee"} {
		var role models.Role
		require.NoError(t, db.First(&role, "name = ?", name).Error)
		assert.NotZero(t, role.ID)
		assert.NotEmpty(t, role.Description)
	}
}

func TestSeedDataKeepsExistingDescriptions(t *testing.T) {
	db := openMigrationTestDB(t)
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, db.Create(models.NewRole("administrator", "customised")).Error)
	require.NoError(t, SeedData(db))

	var role models.Role
	require.NoError(t, db.First(&role, "name = ?", "administrator").Error)
	assert.Equal(t, "customised", role.Description)
}
