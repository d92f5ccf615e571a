// Package controller implements the core business logic (service layer)
// for managing Company and Employee entities, orchestrating validation,
// repository transactions and change events.
package controller

import (
	"context"

	"github.com/gartstein/staff/internal/staff/db"
	"github.com/gartstein/staff/internal/staff/events"
	"github.com/gartstein/staff/internal/staff/models"
)

type EventProducer interface {
	ProduceCompany(eventType events.EventType, company *models.Company)
	ProduceEmployee(eventType events.EventType, employee *models.Employee)
}

// Repository defines the storage interface used by the services.
type Repository interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uint) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uint) error
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id uint) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id uint) error
	WithTransaction(ctx context.Context, fn func(tx TxRepository) error) error
	Close() error
}

// TxRepository is the storage a service sees inside a transaction.
type TxRepository interface {
	GetCompany(ctx context.Context, id uint) (*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error
	CountEmployees(ctx context.Context, companyID uint) (int64, error)
	GetEmployee(ctx context.Context, id uint) (*models.Employee, error)
	CreateEmployee(ctx context.Context, record *models.ValidatedEmployee) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id uint, record *models.ValidatedEmployee) (*models.Employee, error)
}

// Store adapts a gorm repository to Repository.
type Store struct {
	*db.Repository
}

func NewStore(repo *db.Repository) *Store {
	return &Store{Repository: repo}
}

func (s *Store) WithTransaction(ctx context.Context, fn func(tx TxRepository) error) error {
	return s.Repository.WithTransaction(ctx, func(tx *db.Repository) error {
		return fn(tx)
	})
}
