// Package validation implements the employee validation and identifier
// derivation pipeline: single-field validators, UID generation, the create
// pipeline and the partial-update merge.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	e "github.com/gartstein/staff/internal/staff/errors"
	"github.com/gartstein/staff/internal/staff/models"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength  = 255
	maxEmailLength = 255
	// DefaultISDCode is used when no country calling code is configured.
	DefaultISDCode int32 = 91
)

var (
	// Alphabetic words separated by exactly one space, two letters minimum.
	namePattern = regexp.MustCompile(`^[A-Za-z]( ?[A-Za-z])+$`)
	// Ten digits; a leading zero must be followed by a non-zero digit.
	phonePattern = regexp.MustCompile(`^(0[1-9]|[1-9][0-9])[0-9]{8}$`)

	fieldValidator = validator.New()
)

// ValidateEmail returns email unchanged when it is a well-formed address.
func ValidateEmail(email string) (string, error) {
	if email == "" {
		return "", e.NewFieldError(e.ErrInvalidField, "email", "Email is mandatory")
	}
	if utf8.RuneCountInString(email) > maxEmailLength {
		return "", e.NewFieldError(e.ErrInvalidField, "email", "Enter a valid email address.")
	}
	if err := fieldValidator.Var(email, "email"); err != nil {
		return "", e.NewFieldError(e.ErrInvalidField, "email", "Enter a valid email address.")
	}
	return email, nil
}

// ValidateName returns name unchanged when it is made of alphabetic words
// separated by single spaces.
func ValidateName(name string) (string, error) {
	if len(name) > maxNameLength || !namePattern.MatchString(name) {
		return "", e.NewFieldError(e.ErrInvalidField, "name", "invalid name")
	}
	return name, nil
}

// ValidatePhoneNumber checks a ten digit local number and normalizes it with
// the given country calling code.
func ValidatePhoneNumber(raw string, isdCode int32) (models.Phone, error) {
	if !phonePattern.MatchString(raw) {
		return models.Phone{}, e.NewFieldError(e.ErrInvalidField, "phone", "Please enter a valid ten digit number")
	}
	phone, err := models.NewPhone(isdCode, raw)
	if err != nil {
		return models.Phone{}, e.NewFieldError(e.ErrInvalidField, "phone", "Please enter a valid ten digit number")
	}
	return phone, nil
}

// ValidateRole defaults an empty role to regular and rejects unknown ones.
func ValidateRole(raw string) (models.Role, error) {
	if raw == "" {
		return models.RoleRegular, nil
	}
	role := models.Role(raw)
	if !role.Valid() {
		return "", e.NewFieldError(e.ErrInvalidField, "role", strconv.Quote(raw)+" is not a valid choice.")
	}
	return role, nil
}

// RequireCompanyFields reports a missing name and prefix of a new company in
// one message.
func RequireCompanyFields(name, prefix string) error {
	switch {
	case name == "" && prefix == "":
		return e.NewFieldError(e.ErrMissingField, "name", "Please provide the name of the company and the prefix to be used")
	case name == "":
		return e.NewFieldError(e.ErrMissingField, "name", "Please provide the name of the company")
	case prefix == "":
		return e.NewFieldError(e.ErrMissingField, "emp_prefix", "Please provide the prefix to be used")
	}
	return nil
}

// ValidateCompanyName accepts a non-empty name of at most
// models.MaxCompanyNameLength characters.
func ValidateCompanyName(name string) (string, error) {
	if name == "" {
		return "", e.NewFieldError(e.ErrInvalidField, "name", "Please provide the name of the company")
	}
	if utf8.RuneCountInString(name) > models.MaxCompanyNameLength {
		return "", e.NewFieldError(e.ErrInvalidField, "name",
			fmt.Sprintf("Ensure company name has no more than %d characters.", models.MaxCompanyNameLength))
	}
	return name, nil
}

// ValidateEmpPrefix accepts a non-empty prefix of at most
// models.MaxEmpPrefixLength characters without the UID separator.
func ValidateEmpPrefix(prefix string) (string, error) {
	if prefix == "" {
		return "", e.NewFieldError(e.ErrInvalidField, "emp_prefix", "Please provide the prefix to be used")
	}
	if utf8.RuneCountInString(prefix) > models.MaxEmpPrefixLength {
		return "", e.NewFieldError(e.ErrInvalidField, "emp_prefix",
			fmt.Sprintf("Ensure emp_prefix has no more than %d characters.", models.MaxEmpPrefixLength))
	}
	if strings.ContainsAny(prefix, "- ") {
		return "", e.NewFieldError(e.ErrInvalidField, "emp_prefix", "Employee prefix may not contain spaces or hyphens")
	}
	return prefix, nil
}
