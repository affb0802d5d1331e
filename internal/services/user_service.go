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

// ErrUserNotFound indicates the requested user does not exist.
var ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found")

// CreateUserInput captures new user credentials and profile fields.
type CreateUserInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IsAdmin   bool   `json:"is_admin"`
}

// UpdateUserInput describes mutable user fields.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Username  *string
	Password  *string
	IsAdmin   *bool
}

// UserService manages user accounts.
type UserService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{
		db:  db,
		log: logger.WithModule("services.user"),
	}, nil
}

// Create registers a new user. The email must be unique; the password is
// stored exactly as supplied.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	if err := validator.ValidateStruct(input); err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}

	user := models.NewUser(
		strings.TrimSpace(input.Email),
		strings.TrimSpace(input.FirstName),
		strings.TrimSpace(input.LastName),
		strings.TrimSpace(input.Username),
		input.Password,
		input.IsAdmin,
	)

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			metrics.RecordMutations.WithLabelValues("user", "create", "conflict").Inc()
			return nil, apperrors.ErrUniqueConstraintViolation
		}
		metrics.RecordMutations.WithLabelValues("user", "create", "error").Inc()
		return nil, fmt.Errorf("user service: create user: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("user", "create", "success").Inc()
	s.log.Info("user created", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// GetByID loads a user by its numeric id.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}

// GetByEmail loads a user by its login identity.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", strings.TrimSpace(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}

// List returns all users ordered by id.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	ctx = ensureContext(ctx)

	var users []models.User
	if err := s.db.WithContext(ctx).Order("user_id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("user service: list users: %w", err)
	}
	return users, nil
}

// Update modifies user profile fields.
func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Username != nil {
		if username := strings.TrimSpace(*input.Username); username != "" {
			updates["username"] = username
		}
	}
	if input.Password != nil {
		updates["password"] = *input.Password
	}
	if input.IsAdmin != nil {
		updates["is_admin"] = *input.IsAdmin
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		metrics.RecordMutations.WithLabelValues("user", "update", "error").Inc()
		return nil, fmt.Errorf("user service: update user: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("user", "update", "success").Inc()
	return s.GetByID(ctx, id)
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.User{}, "user_id = ?", id)
	if result.Error != nil {
		metrics.RecordMutations.WithLabelValues("user", "delete", "error").Inc()
		return fmt.Errorf("user service: delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	metrics.RecordMutations.WithLabelValues("user", "delete", "success").Inc()
	s.log.Info("user deleted", zap.Uint("user_id", id))
	return nil
}
