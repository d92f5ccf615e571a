package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gartstein/staff/internal/staff/db/models"
	e "github.com/gartstein/staff/internal/staff/errors"
	domain "github.com/gartstein/staff/internal/staff/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	// DBName is the database name for postgres and the file path for sqlite.
	DBName  string
	SSLMode string
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case "", DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(c.DBName), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

func NewRepository(cfg *Config, log *zap.Logger) (*Repository, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// Every sqlite connection to ":memory:" is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.Company{}, &models.Employee{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	var rows []models.Company
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	companies := make([]domain.Company, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, companyFromRow(row))
	}
	return companies, nil
}

func (r *Repository) CreateCompany(ctx context.Context, company *domain.Company) error {
	row := companyToRow(company)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.mapError(err)
	}
	*company = companyFromRow(row)
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uint) (*domain.Company, error) {
	var row models.Company
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	company := companyFromRow(row)
	return &company, nil
}

func (r *Repository) UpdateCompany(ctx context.Context, update *domain.CompanyUpdate) error {
	changes := map[string]interface{}{}
	if update.Name != nil {
		changes["name"] = *update.Name
	}
	if update.EmpPrefix != nil {
		changes["emp_prefix"] = *update.EmpPrefix
	}

	if len(changes) == 0 {
		_, err := r.GetCompany(ctx, update.ID)
		return err
	}

	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", update.ID).
		Updates(changes)
	if result.Error != nil {
		return r.mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DeleteCompany removes a company that no employee references.
func (r *Repository) DeleteCompany(ctx context.Context, id uint) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		count, err := tx.CountEmployees(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: company %d is referenced by %d employees", e.ErrRestrictedDelete, id, count)
		}

		result := tx.db.WithContext(ctx).Delete(&models.Company{}, "id = ?", id)
		if result.Error != nil {
			return tx.mapError(result.Error)
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) CountEmployees(ctx context.Context, companyID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("company_id = ?", companyID).
		Count(&count)
	return count, result.Error
}

func (r *Repository) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var rows []models.Employee
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	employees := make([]domain.Employee, 0, len(rows))
	for _, row := range rows {
		employee, err := employeeFromRow(row)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *employee)
	}
	return employees, nil
}

func (r *Repository) GetEmployee(ctx context.Context, id uint) (*domain.Employee, error) {
	var row models.Employee
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return employeeFromRow(row)
}

func (r *Repository) CreateEmployee(ctx context.Context, record *domain.ValidatedEmployee) (*domain.Employee, error) {
	row := employeeToRow(record)
	if err := r.db.WithContext(ctx).Omit("Company").Create(&row).Error; err != nil {
		return nil, r.mapError(err)
	}
	return employeeFromRow(row)
}

func (r *Repository) UpdateEmployee(ctx context.Context, id uint, record *domain.ValidatedEmployee) (*domain.Employee, error) {
	row := employeeToRow(record)
	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ?", id).
		Select("company_id", "uid", "fname", "lname", "phone", "email", "role", "emp_number", "updated_at").
		Updates(&row)
	if result.Error != nil {
		return nil, r.mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, e.ErrNotFound
	}
	return r.GetEmployee(ctx, id)
}

func (r *Repository) DeleteEmployee(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
