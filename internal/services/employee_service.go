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
	// ErrEmployeeNotFound indicates the requested employee does not exist.
	ErrEmployeeNotFound = apperrors.New("EMPLOYEE_NOT_FOUND", "Employee not found")
	// ErrRoleAlreadyAssigned signals the employee already holds the role.
	ErrRoleAlreadyAssigned = apperrors.New("ROLE_ALREADY_ASSIGNED", "Role already assigned to employee")
	// ErrRoleNotAssigned indicates the requested role assignment does not exist.
	ErrRoleNotAssigned = apperrors.New("ROLE_NOT_ASSIGNED", "Role is not assigned to the employee")
)

// CreateEmployeeInput captures new employee metadata.
type CreateEmployeeInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	SlackID   string `json:"slack_id"`
}

// UpdateEmployeeInput describes mutable employee fields.
type UpdateEmployeeInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	SlackID   *string
}

// EmployeeService manages employees and their role assignments.
type EmployeeService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewEmployeeService constructs an EmployeeService instance.
func NewEmployeeService(db *gorm.DB) (*EmployeeService, error) {
	if db == nil {
		return nil, errors.New("employee service: db is required")
	}
	return &EmployeeService{
		db:  db,
		log: logger.WithModule("services.employee"),
	}, nil
}

// Create registers a new employee.
func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error) {
	ctx = ensureContext(ctx)

	if err := validator.ValidateStruct(input); err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}

	employee := models.NewEmployee(
		strings.TrimSpace(input.Email),
		strings.TrimSpace(input.FirstName),
		strings.TrimSpace(input.LastName),
		strings.TrimSpace(input.SlackID),
	)

	if err := s.db.WithContext(ctx).Create(employee).Error; err != nil {
		metrics.RecordMutations.WithLabelValues("employee", "create", "error").Inc()
		return nil, fmt.Errorf("employee service: create employee: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("employee", "create", "success").Inc()
	s.log.Info("employee created", zap.Uint("employee_id", employee.ID), zap.String("email", employee.Email))
	return employee, nil
}

// GetByID loads an employee with its role assignments.
func (s *EmployeeService) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	ctx = ensureContext(ctx)

	var employee models.Employee
	err := s.db.WithContext(ctx).
		Preload("EmployeeRoles.Role").
		First(&employee, "employee_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("employee service: load employee: %w", err)
	}
	return &employee, nil
}

// List returns all employees with their role assignments, ordered by id.
func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	ctx = ensureContext(ctx)

	var employees []models.Employee
	err := s.db.WithContext(ctx).
		Preload("EmployeeRoles.Role").
		Order("employee_id").
		Find(&employees).Error
	if err != nil {
		return nil, fmt.Errorf("employee service: list employees: %w", err)
	}
	return employees, nil
}

// Update modifies employee metadata.
func (s *EmployeeService) Update(ctx context.Context, id uint, input UpdateEmployeeInput) (*models.Employee, error) {
	ctx = ensureContext(ctx)

	employee, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Email != nil {
		if email := strings.TrimSpace(*input.Email); email != "" {
			updates["email"] = email
		}
	}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.SlackID != nil {
		updates["slack_user_id"] = strings.TrimSpace(*input.SlackID)
	}

	if len(updates) == 0 {
		return employee, nil
	}

	if err := s.db.WithContext(ctx).Model(employee).Updates(updates).Error; err != nil {
		metrics.RecordMutations.WithLabelValues("employee", "update", "error").Inc()
		return nil, fmt.Errorf("employee service: update employee: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("employee", "update", "success").Inc()
	return s.GetByID(ctx, id)
}

// Delete removes an employee together with its role assignment rows. Both
// deletes run in one transaction so a failure leaves no orphaned rows.
func (s *EmployeeService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	var cascaded int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignments := tx.Where("employee_id = ?", id).Delete(&models.EmployeeToRole{})
		if assignments.Error != nil {
			return assignments.Error
		}
		cascaded = assignments.RowsAffected

		result := tx.Delete(&models.Employee{}, "employee_id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEmployeeNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return ErrEmployeeNotFound
		}
		metrics.RecordMutations.WithLabelValues("employee", "delete", "error").Inc()
		return fmt.Errorf("employee service: delete employee: %w", err)
	}

	metrics.RecordMutations.WithLabelValues("employee", "delete", "success").Inc()
	metrics.CascadeDeletedRows.WithLabelValues("employee_role").Add(float64(cascaded))
	s.log.Info("employee deleted",
		zap.Uint("employee_id", id),
		zap.Int64("cascaded_assignments", cascaded))
	return nil
}

// AssignRole links a role to an employee.
func (s *EmployeeService) AssignRole(ctx context.Context, employeeID, roleID uint) error {
	ctx = ensureContext(ctx)

	var existing int64
	err := s.db.WithContext(ctx).
		Model(&models.EmployeeToRole{}).
		Where("employee_id = ? AND role_id = ?", employeeID, roleID).
		Count(&existing).Error
	if err != nil {
		return fmt.Errorf("employee service: check assignment: %w", err)
	}
	if existing > 0 {
		return ErrRoleAlreadyAssigned
	}

	row := &models.EmployeeToRole{EmployeeID: employeeID, RoleID: roleID}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrRoleAlreadyAssigned
		}
		if isForeignKeyError(err) {
			return apperrors.ErrForeignKeyViolation
		}
		return fmt.Errorf("employee service: assign role: %w", err)
	}

	metrics.AssociationChanges.WithLabelValues("employee_role", "assign").Inc()
	s.log.Info("role assigned", zap.Uint("employee_id", employeeID), zap.Uint("role_id", roleID))
	return nil
}

// RevokeRole removes a role assignment from an employee.
func (s *EmployeeService) RevokeRole(ctx context.Context, employeeID, roleID uint) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("employee_id = ? AND role_id = ?", employeeID, roleID).
		Delete(&models.EmployeeToRole{})
	if result.Error != nil {
		return fmt.Errorf("employee service: revoke role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRoleNotAssigned
	}

	metrics.AssociationChanges.WithLabelValues("employee_role", "revoke").Inc()
	s.log.Info("role revoked", zap.Uint("employee_id", employeeID), zap.Uint("role_id", roleID))
	return nil
}

// ListRoles returns the roles assigned to an employee, joining through the
// association table so callers never see the join rows themselves.
func (s *EmployeeService) ListRoles(ctx context.Context, employeeID uint) ([]models.Role, error) {
	ctx = ensureContext(ctx)

	if _, err := s.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	var rows []models.EmployeeToRole
	if err := s.db.WithContext(ctx).Where("employee_id = ?", employeeID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("employee service: load assignments: %w", err)
	}
	if len(rows) == 0 {
		return []models.Role{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.RoleID)
	}

	var roles []models.Role
	err := s.db.WithContext(ctx).
		Where("role_id IN ?", ids).
		Order("role_id").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("employee service: list roles: %w", err)
	}
	return roles, nil
}
