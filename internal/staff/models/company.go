// Package models defines the core domain models of the staff service:
// Company, Employee and the values that flow through employee validation.
package models

import (
	"time"
)

const (
	// MaxCompanyNameLength is the longest accepted company name.
	MaxCompanyNameLength = 200
	// MaxEmpPrefixLength is the longest accepted employee prefix.
	MaxEmpPrefixLength = 4
)

// Company defines the domain model for a company entity.
type Company struct {
	// ID is the store-assigned identifier.
	ID uint
	// Name is the company's name.
	Name string
	// EmpPrefix namespaces the UIDs of every employee of the company.
	EmpPrefix string
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time
	// UpdatedAt records the timestamp when the company was last updated.
	UpdatedAt time.Time
}

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyUpdate struct {
	ID        uint
	Name      *string
	EmpPrefix *string
}
