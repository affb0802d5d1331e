package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/accesshub/accesshub/internal/models"
	"github.com/accesshub/accesshub/pkg/logger"
)

// AutoMigrate creates or updates the database schema for all record kinds.
// The association tables are migrated last so their foreign keys can be
// created against the already-existing parent tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.App{},
		&models.Role{},
		&models.Group{},
		&models.EmployeeToRole{},
		&models.RoleToGroup{},
	)
}

// SeedData installs the built-in roles. Seeding is idempotent: existing
// rows with the same name are left untouched.
func SeedData(db *gorm.DB) error {
	roles := []models.Role{
		{
			Name:        "administrator",
			Description: "Full access to every application",
		},
		{
			Name:        "employee",
			Description: "Baseline access for all employees",
		},
	}

	for _, role := range roles {
		var seeded models.Role
		result := db.Where(models.Role{Name: role.Name}).Attrs(role).FirstOrCreate(&seeded)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			logger.WithRecord("role", seeded.ID).Info("seed role installed", zap.String("name", seeded.Name))
		}
	}

	return nil
}
