package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/accesshub/accesshub/internal/models"
	apperrors "github.com/accesshub/accesshub/pkg/errors"
	"github.com/accesshub/accesshub/pkg/logger"
	"github.com/accesshub/accesshub/pkg/metrics"
	"github.com/accesshub/accesshub/pkg/validator"
)

// ErrAppNotFound indicates the requested app does not exist.
var ErrAppNotFound = apperrors.New("APP_NOT_FOUND", "App not found")

// RegisterAppInput captures new app metadata. The token is optional; a fresh
// one is minted when it is empty.
type RegisterAppInput struct {
	Name  string `json:"name" validate:"required"`
	Token string `json:"token"`
}

// AppService manages external application records. App tokens live only on
// the in-memory record handed back by Register: they are never persisted,
// never logged and never serialized.
type AppService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewAppService constructs an AppService instance.
func NewAppService(db *gorm.DB) (*AppService, error) {
	if db == nil {
		return nil, errors.New("app service: db is required")
	}
	return &AppService{
		db:  db,
		log: logger.WithModule("services.app"),
	}, nil
}

// Register stores a new app and returns it with its access token set. The
// token is the caller's only chance to capture the credential: reloading the
// app later yields an empty token.
func (s *AppService) Register(ctx context.Context, input RegisterAppInput) (*models.App, error) {
	ctx = ensureContext(ctx)

	if err := validator.ValidateStruct(input); err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}

	app := models.NewApp(strings.TrimSpace(input.Name), input.Token)
	if app.Token == "" {
		app.Token = uuid.NewString()
	}

	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		metrics.RecordMutations.WithLabelValues("app", "create", "error").Inc()
		return nil, fmt.Errorf("app service: register app: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("app", "create", "success").Inc()
	s.log.Info("app registered", zap.Any("app", app.ToDict()))
	return app, nil
}

// GetByID loads an app by its numeric id.
func (s *AppService) GetByID(ctx context.Context, id uint) (*models.App, error) {
	ctx = ensureContext(ctx)

	var app models.App
	err := s.db.WithContext(ctx).First(&app, "app_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("app service: load app: %w", err)
	}
	return &app, nil
}

// List returns all apps ordered by id.
func (s *AppService) List(ctx context.Context) ([]models.App, error) {
	ctx = ensureContext(ctx)

	var apps []models.App
	if err := s.db.WithContext(ctx).Order("app_id").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("app service: list apps: %w", err)
	}
	return apps, nil
}

// RotateToken mints a fresh access token for an existing app. Tokens are
// never persisted, so rotation hands back the record with a new token set
// and invalidates nothing server-side.
func (s *AppService) RotateToken(ctx context.Context, id uint) (*models.App, error) {
	ctx = ensureContext(ctx)

	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	app.Token = uuid.NewString()
	s.log.Info("app token rotated", zap.Uint("app_id", id))
	return app, nil
}

// Rename changes the app's display name.
func (s *AppService) Rename(ctx context.Context, id uint, name string) (*models.App, error) {
	ctx = ensureContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequest("app name is required")
	}

	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(app).Update("name", name).Error; err != nil {
		metrics.RecordMutations.WithLabelValues("app", "update", "error").Inc()
		return nil, fmt.Errorf("app service: rename app: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("app", "update", "success").Inc()
	return s.GetByID(ctx, id)
}

// Delete removes an app. Apps that still own groups cannot be deleted.
func (s *AppService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	var groups int64
	err := s.db.WithContext(ctx).
		Model(&models.Group{}).
		Where("app_id = ?", id).
		Count(&groups).Error
	if err != nil {
		return fmt.Errorf("app service: count groups: %w", err)
	}
	if groups > 0 {
		return apperrors.ErrForeignKeyViolation
	}

	result := s.db.WithContext(ctx).Delete(&models.App{}, "app_id = ?", id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return apperrors.ErrForeignKeyViolation
		}
		metrics.RecordMutations.WithLabelValues("app", "delete", "error").Inc()
		return fmt.Errorf("app service: delete app: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAppNotFound
	}

	metrics.RecordMutations.WithLabelValues("app", "delete", "success").Inc()
	s.log.Info("app deleted", zap.Uint("app_id", id))
	return nil
}
