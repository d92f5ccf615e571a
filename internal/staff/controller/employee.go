package controller

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/staff/internal/staff/errors"
	"github.com/gartstein/staff/internal/staff/events"
	"github.com/gartstein/staff/internal/staff/models"
	"github.com/gartstein/staff/internal/staff/validation"
	"go.uber.org/zap"
)

// EmployeeService validates employee writes and persists them, one
// transaction per write.
type EmployeeService struct {
	repo      Repository
	validator *validation.Validator
	producer  EventProducer
	logger    *zap.Logger
}

func NewEmployeeService(repo Repository, validator *validation.Validator, producer EventProducer, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		repo:      repo,
		validator: validator,
		producer:  producer,
		logger:    logger.Named("employee_service"),
	}
}

func (s *EmployeeService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// CreateEmployee runs the candidate through the validation pipeline and
// stores it. Store constraint violations come back as *e.ConstraintError.
func (s *EmployeeService) CreateEmployee(ctx context.Context, in models.EmployeeInput) (*models.Employee, error) {
	var created *models.Employee
	err := s.repo.WithTransaction(ctx, func(tx TxRepository) error {
		validated, err := s.validator.WithFinder(tx).ValidateEmployeeData(ctx, in)
		if err != nil {
			return err
		}
		created, err = tx.CreateEmployee(ctx, validated)
		return err
	})
	if err != nil {
		return nil, s.wrap("create", err)
	}

	s.logger.Info("employee created", zap.Uint("employee_id", created.ID), zap.String("uid", created.UID))
	s.producer.ProduceEmployee(events.EmployeeCreated, created)
	return created, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// UpdateEmployee merges partial into the stored employee and re-validates
// the whole record, recomputing its uid.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint, partial map[string]any) (*models.Employee, error) {
	var updated *models.Employee
	err := s.repo.WithTransaction(ctx, func(tx TxRepository) error {
		existing, err := tx.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		validated, err := s.validator.WithFinder(tx).MergeUpdate(ctx, partial, existing)
		if err != nil {
			return err
		}
		updated, err = tx.UpdateEmployee(ctx, id, validated)
		return err
	})
	if err != nil {
		return nil, s.wrap("update", err)
	}

	s.producer.ProduceEmployee(events.EmployeeUpdated, updated)
	return updated, nil
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint) error {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get employee for deletion: %w", err)
	}

	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.producer.ProduceEmployee(events.EmployeeDeleted, employee)
	return nil
}

// wrap leaves validation and lookup failures untouched so callers can
// report them as-is.
func (s *EmployeeService) wrap(op string, err error) error {
	var fieldErr *e.FieldError
	var constraintErr *e.ConstraintError
	switch {
	case errors.As(err, &fieldErr), errors.Is(err, e.ErrNotFound):
		return err
	case errors.As(err, &constraintErr):
		s.logger.Info("employee rejected by store constraint",
			zap.String("op", op),
			zap.String("field", constraintErr.Field),
		)
		return err
	default:
		return fmt.Errorf("failed to %s employee: %w", op, err)
	}
}
