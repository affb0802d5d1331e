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

// ErrGroupNotFound indicates the requested group does not exist.
var ErrGroupNotFound = apperrors.New("GROUP_NOT_FOUND", "Group not found")

// CreateGroupInput captures new group metadata. AppID must reference an
// existing app; AppGroupID carries the application's own group identifier.
type CreateGroupInput struct {
	Name       string `json:"name" validate:"required"`
	AppGroupID string `json:"app_group_id"`
	AppID      uint   `json:"app_id" validate:"required"`
}

// UpdateGroupInput describes mutable group fields.
type UpdateGroupInput struct {
	Name       *string
	AppGroupID *string
}

// GroupService manages groups defined inside external applications.
type GroupService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGroupService constructs a GroupService instance.
func NewGroupService(db *gorm.DB) (*GroupService, error) {
	if db == nil {
		return nil, errors.New("group service: db is required")
	}
	return &GroupService{
		db:  db,
		log: logger.WithModule("services.group"),
	}, nil
}

// Create registers a new group under an existing app.
func (s *GroupService) Create(ctx context.Context, input CreateGroupInput) (*models.Group, error) {
	ctx = ensureContext(ctx)

	if err := validator.ValidateStruct(input); err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}

	var apps int64
	err := s.db.WithContext(ctx).
		Model(&models.App{}).
		Where("app_id = ?", input.AppID).
		Count(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("group service: check app: %w", err)
	}
	if apps == 0 {
		return nil, apperrors.ErrForeignKeyViolation
	}

	group := models.NewGroup(
		strings.TrimSpace(input.Name),
		strings.TrimSpace(input.AppGroupID),
		input.AppID,
	)

	if err := s.db.WithContext(ctx).Create(group).Error; err != nil {
		if isForeignKeyError(err) {
			return nil, apperrors.ErrForeignKeyViolation
		}
		metrics.RecordMutations.WithLabelValues("group", "create", "error").Inc()
		return nil, fmt.Errorf("group service: create group: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("group", "create", "success").Inc()
	s.log.Info("group created",
		zap.Uint("group_id", group.ID),
		zap.String("name", group.Name),
		zap.Uint("app_id", group.AppID))
	return group, nil
}

// GetByID loads a group by its numeric id.
func (s *GroupService) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	ctx = ensureContext(ctx)

	var group models.Group
	err := s.db.WithContext(ctx).First(&group, "group_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("group service: load group: %w", err)
	}
	return &group, nil
}

// ListByApp returns the groups belonging to an app, ordered by id.
func (s *GroupService) ListByApp(ctx context.Context, appID uint) ([]models.Group, error) {
	ctx = ensureContext(ctx)

	var groups []models.Group
	err := s.db.WithContext(ctx).
		Where("app_id = ?", appID).
		Order("group_id").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("group service: list groups: %w", err)
	}
	return groups, nil
}

// Update modifies group metadata.
func (s *GroupService) Update(ctx context.Context, id uint, input UpdateGroupInput) (*models.Group, error) {
	ctx = ensureContext(ctx)

	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			updates["name"] = name
		}
	}
	if input.AppGroupID != nil {
		updates["app_group_id"] = strings.TrimSpace(*input.AppGroupID)
	}

	if len(updates) == 0 {
		return group, nil
	}

	if err := s.db.WithContext(ctx).Model(group).Updates(updates).Error; err != nil {
		metrics.RecordMutations.WithLabelValues("group", "update", "error").Inc()
		return nil, fmt.Errorf("group service: update group: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("group", "update", "success").Inc()
	return s.GetByID(ctx, id)
}

// Delete removes a group. Groups still granted by a role cannot be deleted;
// only deleting the role cascades its grant rows.
func (s *GroupService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	var grants int64
	err := s.db.WithContext(ctx).
		Model(&models.RoleToGroup{}).
		Where("group_id = ?", id).
		Count(&grants).Error
	if err != nil {
		return fmt.Errorf("group service: count grants: %w", err)
	}
	if grants > 0 {
		return apperrors.ErrForeignKeyViolation
	}

	result := s.db.WithContext(ctx).Delete(&models.Group{}, "group_id = ?", id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return apperrors.ErrForeignKeyViolation
		}
		metrics.RecordMutations.WithLabelValues("group", "delete", "error").Inc()
		return fmt.Errorf("group service: delete group: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	metrics.RecordMutations.WithLabelValues("group", "delete", "success").Inc()
	s.log.Info("group deleted", zap.Uint("group_id", id))
	return nil
}
