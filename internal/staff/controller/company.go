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

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, and a logger.
func NewCompanyService(repo Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// ListCompanies returns every company ordered by id.
func (s *CompanyService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// CreateCompany validates and stores a new Company and triggers an event.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	if err := validation.RequireCompanyFields(company.Name, company.EmpPrefix); err != nil {
		return nil, err
	}
	if _, err := validation.ValidateCompanyName(company.Name); err != nil {
		return nil, err
	}
	if _, err := validation.ValidateEmpPrefix(company.EmpPrefix); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	s.producer.ProduceCompany(events.CompanyCreated, company)
	return company, nil
}

// GetCompany retrieves a Company by ID, returning an error if not found.
func (s *CompanyService) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// UpdateCompany applies a partial update. Only name and emp_prefix may be
// changed, and emp_prefix only while no employee belongs to the company.
func (s *CompanyService) UpdateCompany(ctx context.Context, id uint, partial map[string]any) (*models.Company, error) {
	update, err := companyUpdate(id, partial)
	if err != nil {
		return nil, err
	}

	var updated *models.Company
	err = s.repo.WithTransaction(ctx, func(tx TxRepository) error {
		current, err := tx.GetCompany(ctx, id)
		if err != nil {
			return err
		}
		if update.EmpPrefix != nil && *update.EmpPrefix != current.EmpPrefix {
			count, err := tx.CountEmployees(ctx, id)
			if err != nil {
				return err
			}
			if count > 0 {
				return e.NewFieldError(e.ErrPrefixInUse, "emp_prefix",
					fmt.Sprintf("emp_prefix cannot change while %d employees use it", count))
			}
		}
		if err := tx.UpdateCompany(ctx, update); err != nil {
			return err
		}
		updated, err = tx.GetCompany(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrPrefixInUse) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	s.producer.ProduceCompany(events.CompanyUpdated, updated)
	return updated, nil
}

// DeleteCompany removes a Company by ID and fires a deletion event.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uint) error {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get company for deletion: %w", err)
	}

	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		if errors.Is(err, e.ErrRestrictedDelete) {
			s.logger.Info("company delete restricted", zap.Uint("company_id", id), zap.Error(err))
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.producer.ProduceCompany(events.CompanyDeleted, company)
	return nil
}

func companyUpdate(id uint, partial map[string]any) (*models.CompanyUpdate, error) {
	update := &models.CompanyUpdate{ID: id}
	for key, raw := range partial {
		switch key {
		case "name":
			name, ok := raw.(string)
			if !ok {
				return nil, e.NewFieldError(e.ErrInvalidField, key, "name: Not a valid string.")
			}
			if _, err := validation.ValidateCompanyName(name); err != nil {
				return nil, err
			}
			update.Name = &name
		case "emp_prefix":
			prefix, ok := raw.(string)
			if !ok {
				return nil, e.NewFieldError(e.ErrInvalidField, key, "emp_prefix: Not a valid string.")
			}
			if _, err := validation.ValidateEmpPrefix(prefix); err != nil {
				return nil, err
			}
			update.EmpPrefix = &prefix
		default:
			return nil, e.NewFieldError(e.ErrInvalidInput, key, fmt.Sprintf("%s cannot be updated", key))
		}
	}
	return update, nil
}
