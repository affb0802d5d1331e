package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/accesshub/accesshub/internal/models"
	apperrors "github.com/accesshub/accesshub/pkg/errors"
	"github.com/accesshub/accesshub/pkg/logger"
	"github.com/accesshub/accesshub/pkg/metrics"
	"github.com/accesshub/accesshub/pkg/validator"
)

var (
	// ErrRoleNotFound indicates the requested role does not exist.
	ErrRoleNotFound = apperrors.New("ROLE_NOT_FOUND", "Role not found")
	// ErrGroupAlreadyAssigned signals the group is already granted by the role.
	ErrGroupAlreadyAssigned = apperrors.New("GROUP_ALREADY_ASSIGNED", "Group already assigned to role")
	// ErrGroupNotAssigned indicates the requested group grant does not exist.
	ErrGroupNotAssigned = apperrors.New("GROUP_NOT_ASSIGNED", "Group is not assigned to the role")
)

// CreateRoleInput captures new role metadata.
type CreateRoleInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// UpdateRoleInput describes mutable role fields.
type UpdateRoleInput struct {
	Name        *string
	Description *string
}

// RoleService manages roles and the groups they grant.
type RoleService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRoleService constructs a RoleService instance.
func NewRoleService(db *gorm.DB) (*RoleService, error) {
	if db == nil {
		return nil, errors.New("role service: db is required")
	}
	return &RoleService{
		db:  db,
		log: logger.WithModule("services.role"),
	}, nil
}

// Create registers a new role. Role names are globally unique.
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	if err := validator.ValidateStruct(input); err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}

	role := models.NewRole(strings.TrimSpace(input.Name), strings.TrimSpace(input.Description))

	if err := s.db.WithContext(ctx).Create(role).Error; err != nil {
		if isUniqueConstraintError(err) {
			metrics.RecordMutations.WithLabelValues("role", "create", "conflict").Inc()
			return nil, apperrors.ErrUniqueConstraintViolation
		}
		metrics.RecordMutations.WithLabelValues("role", "create", "error").Inc()
		return nil, fmt.Errorf("role service: create role: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("role", "create", "success").Inc()
	s.log.Info("role created", zap.Uint("role_id", role.ID), zap.String("name", role.Name))
	return role, nil
}

// GetByID loads a role with its group grants.
func (s *RoleService) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	ctx = ensureContext(ctx)

	var role models.Role
	err := s.db.WithContext(ctx).
		Preload("RoleGroups.Group").
		First(&role, "role_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("role service: load role: %w", err)
	}
	return &role, nil
}

// GetByName loads a role by its unique name.
func (s *RoleService) GetByName(ctx context.Context, name string) (*models.Role, error) {
	ctx = ensureContext(ctx)

	var role models.Role
	err := s.db.WithContext(ctx).
		Preload("RoleGroups.Group").
		First(&role, "name = ?", strings.TrimSpace(name)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("role service: load role: %w", err)
	}
	return &role, nil
}

// List returns all roles ordered by id.
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	ctx = ensureContext(ctx)

	var roles []models.Role
	err := s.db.WithContext(ctx).
		Preload("RoleGroups.Group").
		Order("role_id").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("role service: list roles: %w", err)
	}
	return roles, nil
}

// Update modifies role metadata. Renames keep the uniqueness constraint.
func (s *RoleService) Update(ctx context.Context, id uint, input UpdateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	role, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" && name != role.Name {
			updates["name"] = name
		}
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}

	if len(updates) == 0 {
		return role, nil
	}

	if err := s.db.WithContext(ctx).Model(role).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrUniqueConstraintViolation
		}
		metrics.RecordMutations.WithLabelValues("role", "update", "error").Inc()
		return nil, fmt.Errorf("role service: update role: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("role", "update", "success").Inc()
	return s.GetByID(ctx, id)
}

// Delete removes a role together with its group grant rows. Both deletes run
// in one transaction so a failure leaves no orphaned rows. Assignments of
// the role to employees are not touched and block the delete.
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	var cascaded int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		grants := tx.Where("role_id = ?", id).Delete(&models.RoleToGroup{})
		if grants.Error != nil {
			return grants.Error
		}
		cascaded = grants.RowsAffected

		result := tx.Delete(&models.Role{}, "role_id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRoleNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return ErrRoleNotFound
		}
		if isForeignKeyError(err) {
			return apperrors.ErrForeignKeyViolation
		}
		metrics.RecordMutations.WithLabelValues("role", "delete", "error").Inc()
		return fmt.Errorf("role service: delete role: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("role", "delete", "success").Inc()
	metrics.CascadeDeletedRows.WithLabelValues("role_group").Add(float64(cascaded))
	s.log.Info("role deleted",
		zap.Uint("role_id", id),
		zap.Int64("cascaded_grants", cascaded))
	return nil
}

// AssignGroup links a group to a role.
func (s *RoleService) AssignGroup(ctx context.Context, roleID, groupID uint) error {
	ctx = ensureContext(ctx)

	var existing int64
	err := s.db.WithContext(ctx).
		Model(&models.RoleToGroup{}).
		Where("role_id = ? AND group_id = ?", roleID, groupID).
		Count(&existing).Error
	if err != nil {
		return fmt.Errorf("role service: check grant: %w", err)
	}
	if existing > 0 {
		return ErrGroupAlreadyAssigned
	}

	row := &models.RoleToGroup{RoleID: roleID, GroupID: groupID}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrGroupAlreadyAssigned
		}
		if isForeignKeyError(err) {
			return apperrors.ErrForeignKeyViolation
		}
		return fmt.Errorf("role service: assign group: %w", err)
	}

	metrics.AssociationChanges.WithLabelValues("role_group", "assign").Inc()
	s.log.Info("group assigned", zap.Uint("role_id", roleID), zap.Uint("group_id", groupID))
	return nil
}

// RevokeGroup removes a group grant from a role.
func (s *RoleService) RevokeGroup(ctx context.Context, roleID, groupID uint) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("role_id = ? AND group_id = ?", roleID, groupID).
		Delete(&models.RoleToGroup{})
	if result.Error != nil {
		return fmt.Errorf("role service: revoke group: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotAssigned
	}

	metrics.AssociationChanges.WithLabelValues("role_group", "revoke").Inc()
	s.log.Info("group revoked", zap.Uint("role_id", roleID), zap.Uint("group_id", groupID))
	return nil
}

// ListGroups returns the groups granted by a role, joining through the
// association table so callers never see the join rows themselves.
func (s *RoleService) ListGroups(ctx context.Context, roleID uint) ([]models.Group, error) {
	ctx = ensureContext(ctx)

	if _, err := s.GetByID(ctx, roleID); err != nil {
		return nil, err
	}

	var rows []models.RoleToGroup
	if err := s.db.WithContext(ctx).Where("role_id = ?", roleID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("role service: load grants: %w", err)
	}
	if len(rows) == 0 {
		return []models.Group{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.GroupID)
	}

	var groups []models.Group
	err := s.db.WithContext(ctx).
		Where("group_id IN ?", ids).
		Order("group_id").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("role service: list groups: %w", err)
	}
	return groups, nil
}
