package models

import (
	"time"
)

// Index names are matched against constraint violations reported by the
// database to tell which field was rejected.
const (
	IndexUID              = "idx_employees_uid"
	IndexCompanyEmail     = "idx_employees_company_email"
	IndexCompanyPhone     = "idx_employees_company_phone"
	IndexCompanyEmpNumber = "idx_employees_company_emp_number"
	ForeignKeyCompany     = "fk_employees_company"
)

// Employee is a row of the employees table. Deleting a company is restricted
// while rows here still reference it.
type Employee struct {
	ID        uint    `gorm:"primaryKey"`
	CompanyID uint    `gorm:"not null;uniqueIndex:idx_employees_company_email;uniqueIndex:idx_employees_company_phone;uniqueIndex:idx_employees_company_emp_number"`
	Company   Company `gorm:"foreignKey:CompanyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	UID       string  `gorm:"column:uid;size:12;not null;uniqueIndex:idx_employees_uid"`
	FName     string  `gorm:"column:fname;size:255;not null"`
	LName     string  `gorm:"column:lname;size:255;not null"`
	Phone     string  `gorm:"size:128;not null;uniqueIndex:idx_employees_company_phone"`
	Email     string  `gorm:"size:255;not null;uniqueIndex:idx_employees_company_email"`
	Role      string  `gorm:"size:15;not null;default:regular"`
	EmpNumber uint    `gorm:"not null;uniqueIndex:idx_employees_company_emp_number"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
