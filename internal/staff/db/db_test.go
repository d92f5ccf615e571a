package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	e "github.com/gartstein/staff/internal/staff/errors"
	"github.com/gartstein/staff/internal/staff/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	repo, err := NewRepository(&Config{Driver: DriverSQLite, DBName: ":memory:"}, zaptest.NewLogger(t))
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func createCompany(t *testing.T, repo *Repository, name, prefix string) *models.Company {
	t.Helper()
	company := &models.Company{Name: name, EmpPrefix: prefix}
	require.NoError(t, repo.CreateCompany(context.Background(), company), "CreateCompany should succeed")
	return company
}

func validatedEmployee(companyID uint, prefix string, number uint, email string, national uint64) *models.ValidatedEmployee {
	return &models.ValidatedEmployee{
		CompanyID: companyID,
		UID:       fmt.Sprintf("%s-%d", prefix, number),
		FName:     "John",
		LName:     "Doe",
		Phone:     models.Phone{CountryCode: 91, NationalNumber: national},
		Email:     email,
		Role:      models.RoleRegular,
		EmpNumber: number,
	}
}

func TestNewRepositoryUnsupportedDriver(t *testing.T) {
	_, err := NewRepository(&Config{Driver: "oracle"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

// TestCreateCompany tests the creation of a company record.
func TestCreateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := createCompany(t, repo, "Acme", "ACM")
	assert.NotZero(t, company.ID, "store should assign an id")
	assert.False(t, company.CreatedAt.IsZero())

	retrieved, err := repo.GetCompany(ctx, company.ID)
	require.NoError(t, err, "GetCompany should retrieve the created company")
	assert.Equal(t, "Acme", retrieved.Name)
	assert.Equal(t, "ACM", retrieved.EmpPrefix)
}

func TestGetCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.GetCompany(context.Background(), 42)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestListCompanies(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	companies, err := repo.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Empty(t, companies)

	createCompany(t, repo, "Acme", "ACM")
	createCompany(t, repo, "Beta", "BET")

	companies, err = repo.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "Acme", companies[0].Name)
	assert.Equal(t, "Beta", companies[1].Name)
}

func TestUpdateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company := createCompany(t, repo, "Old Name", "OLD")

	name := "New Name"
	err := repo.UpdateCompany(ctx, &models.CompanyUpdate{ID: company.ID, Name: &name})
	require.NoError(t, err)

	updated, err := repo.GetCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "OLD", updated.EmpPrefix, "prefix should be untouched")
}

func TestUpdateCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	name := "Ghost"
	err := repo.UpdateCompany(ctx, &models.CompanyUpdate{ID: 9, Name: &name})
	assert.ErrorIs(t, err, e.ErrNotFound)

	err = repo.UpdateCompany(ctx, &models.CompanyUpdate{ID: 9})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestDeleteCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company := createCompany(t, repo, "To Be Deleted", "DEL")

	require.NoError(t, repo.DeleteCompany(ctx, company.ID))

	_, err := repo.GetCompany(ctx, company.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)

	err = repo.DeleteCompany(ctx, company.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestDeleteCompanyRestricted(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company := createCompany(t, repo, "Acme", "ACM")

	employee, err := repo.CreateEmployee(ctx, validatedEmployee(company.ID, "ACM", 1, "john@acme.com", 9876543210))
	require.NoError(t, err)

	err = repo.DeleteCompany(ctx, company.ID)
	assert.ErrorIs(t, err, e.ErrRestrictedDelete)

	_, err = repo.GetCompany(ctx, company.ID)
	assert.NoError(t, err, "company must survive a restricted delete")

	require.NoError(t, repo.DeleteEmployee(ctx, employee.ID))
	assert.NoError(t, repo.DeleteCompany(ctx, company.ID))
}

func TestCreateAndGetEmployee(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company := createCompany(t, repo, "Acme", "ACM")

	created, err := repo.CreateEmployee(ctx, validatedEmployee(company.ID, "ACM", 1, "john@acme.com", 212345678))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACM-1", got.UID)
	assert.Equal(t, company.ID, got.CompanyID)
	assert.Equal(t, "+91212345678", got.Phone.E164())
	assert.Equal(t, "0212345678", got.Phone.NationalDigits())
	assert.Equal(t, models.RoleRegular, got.Role)
	assert.Equal(t, uint(1), got.EmpNumber)

	count, err := repo.CountEmployees(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	all, err := repo.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetEmployeeNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.GetEmployee(context.Background(), 3)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestCreateEmployeeConstraints(t *testing.T) {
	tests := []struct {
		name   string
		second func(companyID uint) *models.ValidatedEmployee
		field  string
	}{
		{
			name: "same company and email",
			second: func(id uint) *models.ValidatedEmployee {
				return validatedEmployee(id, "ACM", 2, "john@acme.com", 9876500000)
			},
			field: "email",
		},
		{
			name: "same company and phone",
			second: func(id uint) *models.ValidatedEmployee {
				return validatedEmployee(id, "ACM", 2, "jane@acme.com", 9876543210)
			},
			field: "phone",
		},
		{
			name: "same company and emp number",
			second: func(id uint) *models.ValidatedEmployee {
				rec := validatedEmployee(id, "ACM", 1, "jane@acme.com", 9876500000)
				rec.UID = "ACM-1b"
				return rec
			},
			field: "emp_number",
		},
		{
			name: "same uid",
			second: func(id uint) *models.ValidatedEmployee {
				rec := validatedEmployee(id, "ACM", 2, "jane@acme.com", 9876500000)
				rec.UID = "ACM-1"
				return rec
			},
			field: "uid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := SetupTestDB(t)
			ctx := context.Background()
			company := createCompany(t, repo, "Acme", "ACM")

			_, err := repo.CreateEmployee(ctx, validatedEmployee(company.ID, "ACM", 1, "john@acme.com", 9876543210))
			require.NoError(t, err)

			_, err = repo.CreateEmployee(ctx, tt.second(company.ID))
			require.Error(t, err)
			assert.ErrorIs(t, err, e.ErrConstraintViolation)

			var constraintErr *e.ConstraintError
			require.True(t, errors.As(err, &constraintErr))
			assert.Equal(t, tt.field, constraintErr.Field)
		})
	}
}

func TestSameEmailInDifferentCompanies(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	acme := createCompany(t, repo, "Acme", "ACM")
	beta := createCompany(t, repo, "Beta", "BET")

	_, err := repo.CreateEmployee(ctx, validatedEmployee(acme.ID, "ACM", 1, "john@acme.com", 9876543210))
	require.NoError(t, err)
	_, err = repo.CreateEmployee(ctx, validatedEmployee(beta.ID, "BET", 1, "john@acme.com", 9876543210))
	assert.NoError(t, err, "email and phone are unique per company only")
}

func TestUpdateEmployee(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company := createCompany(t, repo, "Acme", "ACM")

	created, err := repo.CreateEmployee(ctx, validatedEmployee(company.ID, "ACM", 1, "john@acme.com", 9876543210))
	require.NoError(t, err)

	record := validatedEmployee(company.ID, "ACM", 5, "jane@acme.com", 9876543210)
	record.FName = "Jane"
	record.Role = models.RoleAdmin

	updated, err := repo.UpdateEmployee(ctx, created.ID, record)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Jane", updated.FName)
	assert.Equal(t, "ACM-5", updated.UID)
	assert.Equal(t, "jane@acme.com", updated.Email)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func TestUpdateEmployeeNotFound(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company := createCompany(t, repo, "Acme", "ACM")

	_, err := repo.UpdateEmployee(ctx, 77, validatedEmployee(company.ID, "ACM", 1, "john@acme.com", 9876543210))
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestUpdateEmployeeConstraint(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company := createCompany(t, repo, "Acme", "ACM")

	_, err := repo.CreateEmployee(ctx, validatedEmployee(company.ID, "ACM", 1, "john@acme.com", 9876543210))
	require.NoError(t, err)
	second, err := repo.CreateEmployee(ctx, validatedEmployee(company.ID, "ACM", 2, "jane@acme.com", 9876500000))
	require.NoError(t, err)

	_, err = repo.UpdateEmployee(ctx, second.ID, validatedEmployee(company.ID, "ACM", 2, "john@acme.com", 9876500000))
	assert.ErrorIs(t, err, e.ErrConstraintViolation)
}

func TestDeleteEmployee(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company := createCompany(t, repo, "Acme", "ACM")

	created, err := repo.CreateEmployee(ctx, validatedEmployee(company.ID, "ACM", 1, "john@acme.com", 9876543210))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteEmployee(ctx, created.ID))
	_, err = repo.GetEmployee(ctx, created.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteEmployee(ctx, created.ID), e.ErrNotFound)
}

// TestWithTransaction ensures transactions commit and roll back.
func TestWithTransaction(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(txRepo *Repository) error {
		return txRepo.CreateCompany(ctx, &models.Company{Name: "Committed", EmpPrefix: "COM"})
	})
	require.NoError(t, err)

	rollback := errors.New("rollback")
	err = repo.WithTransaction(ctx, func(txRepo *Repository) error {
		if err := txRepo.CreateCompany(ctx, &models.Company{Name: "Rolled Back", EmpPrefix: "RB"}); err != nil {
			return err
		}
		return rollback
	})
	assert.ErrorIs(t, err, rollback)

	companies, err := repo.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Committed", companies[0].Name)
}

func TestMapErrorPostgresCodes(t *testing.T) {
	repo := SetupTestDB(t)

	err := repo.mapError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_employees_company_phone"})
	var constraintErr *e.ConstraintError
	require.ErrorAs(t, err, &constraintErr)
	assert.Equal(t, "phone", constraintErr.Field)

	err = repo.mapError(&pgconn.PgError{Code: "22001"})
	require.ErrorIs(t, err, e.ErrConstraintViolation)
	require.ErrorAs(t, err, &constraintErr)
	assert.Empty(t, constraintErr.Field)

	err = repo.mapError(&pgconn.PgError{Code: "08006"})
	assert.NotErrorIs(t, err, e.ErrConstraintViolation)
}

func TestIndexFromMessage(t *testing.T) {
	assert.Equal(t, "idx_employees_company_email",
		indexFromMessage("UNIQUE constraint failed: employees.company_id, employees.email"))
	assert.Equal(t, "idx_employees_uid", indexFromMessage("UNIQUE constraint failed: employees.uid"))
	assert.Equal(t, "", indexFromMessage("disk I/O error"))
}
