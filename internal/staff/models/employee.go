package models

import (
	"time"
)

// MaxUIDLength is the longest UID the store accepts.
const MaxUIDLength = 12

// Role is the position of an employee inside its company.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleRegular
}

// Employee is a persisted employee record.
type Employee struct {
	ID        uint
	CompanyID uint
	// UID is "{company.EmpPrefix}-{EmpNumber}".
	UID       string
	FName     string
	LName     string
	Phone     Phone
	Email     string
	Role      Role
	EmpNumber uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeInput is an unvalidated employee candidate as supplied by a caller.
// Zero values mean the field was not supplied.
type EmployeeInput struct {
	// Supplied is set when the raw request carried at least one key, even
	// one that decoded to nothing.
	Supplied  bool
	CompanyID uint
	FName     string
	LName     string
	Phone     string
	Email     string
	Role      string
	EmpNumber uint
}

// IsEmpty reports whether no key at all was supplied.
func (in EmployeeInput) IsEmpty() bool {
	return in == EmployeeInput{}
}

// ValidatedEmployee is a candidate that passed every field and referential
// check and is ready to be persisted.
type ValidatedEmployee struct {
	CompanyID uint
	UID       string
	FName     string
	LName     string
	Phone     Phone
	Email     string
	Role      Role
	EmpNumber uint
}
