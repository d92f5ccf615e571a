package db

import (
	"fmt"

	"github.com/gartstein/staff/internal/staff/db/models"
	domain "github.com/gartstein/staff/internal/staff/models"
)

func companyToRow(company *domain.Company) models.Company {
	return models.Company{
		ID:        company.ID,
		Name:      company.Name,
		EmpPrefix: company.EmpPrefix,
	}
}

func companyFromRow(row models.Company) domain.Company {
	return domain.Company{
		ID:        row.ID,
		Name:      row.Name,
		EmpPrefix: row.EmpPrefix,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func employeeToRow(record *domain.ValidatedEmployee) models.Employee {
	return models.Employee{
		CompanyID: record.CompanyID,
		UID:       record.UID,
		FName:     record.FName,
		LName:     record.LName,
		Phone:     record.Phone.E164(),
		Email:     record.Email,
		Role:      string(record.Role),
		EmpNumber: record.EmpNumber,
	}
}

func employeeFromRow(row models.Employee) (*domain.Employee, error) {
	var phone domain.Phone
	if row.Phone != "" {
		parsed, err := domain.ParsePhone(row.Phone)
		if err != nil {
			return nil, fmt.Errorf("employee %d: %w", row.ID, err)
		}
		phone = parsed
	}

	return &domain.Employee{
		ID:        row.ID,
		CompanyID: row.CompanyID,
		UID:       row.UID,
		FName:     row.FName,
		LName:     row.LName,
		Phone:     phone,
		Email:     row.Email,
		Role:      domain.Role(row.Role),
		EmpNumber: row.EmpNumber,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
