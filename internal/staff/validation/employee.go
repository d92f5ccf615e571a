package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	e "github.com/gartstein/staff/internal/staff/errors"
	"github.com/gartstein/staff/internal/staff/models"
	"go.uber.org/zap"
)

// Validator runs the employee create pipeline and the update merge.
type Validator struct {
	companies CompanyFinder
	isdCode   int32
	logger    *zap.Logger
}

// NewValidator constructs a Validator. isdCode is the country calling code
// attached to every validated phone number.
func NewValidator(companies CompanyFinder, isdCode int32, logger *zap.Logger) *Validator {
	if isdCode <= 0 {
		isdCode = DefaultISDCode
	}
	return &Validator{
		companies: companies,
		isdCode:   isdCode,
		logger:    logger.Named("validator"),
	}
}

// WithFinder returns a copy of v that looks companies up through companies,
// typically a repository bound to the caller's transaction.
func (v *Validator) WithFinder(companies CompanyFinder) *Validator {
	clone := *v
	clone.companies = companies
	return &clone
}

// ValidateEmployeeData checks a create candidate in a fixed order and returns
// the first failure, or the record ready to be persisted.
func (v *Validator) ValidateEmployeeData(ctx context.Context, in models.EmployeeInput) (*models.ValidatedEmployee, error) {
	if in.IsEmpty() {
		return nil, v.reject(e.NewFieldError(e.ErrEmptyPayload, "", "employee details not found"))
	}

	email, err := ValidateEmail(in.Email)
	if err != nil {
		return nil, v.reject(err)
	}

	phone, err := ValidatePhoneNumber(in.Phone, v.isdCode)
	if err != nil {
		return nil, v.reject(err)
	}

	if in.EmpNumber == 0 {
		return nil, v.reject(e.NewFieldError(e.ErrMissingField, "emp_number", "Please Enter a valid Employee Number"))
	}

	if in.CompanyID == 0 {
		return nil, v.reject(e.NewFieldError(e.ErrMissingField, "company_id", "Please enter the valid company details of the employee"))
	}
	uid, err := GenerateUID(ctx, v.companies, in.CompanyID, in.EmpNumber)
	if err != nil {
		return nil, v.reject(err)
	}
	if utf8.RuneCountInString(uid) > models.MaxUIDLength {
		return nil, v.reject(e.NewFieldError(e.ErrInvalidField, "uid",
			fmt.Sprintf("Ensure this field has no more than %d characters.", models.MaxUIDLength)))
	}

	if _, err := ValidateName(in.FName); err != nil {
		return nil, v.reject(e.NewFieldError(e.ErrInvalidField, "fname", "Please Enter a valid first name"))
	}
	if _, err := ValidateName(in.LName); err != nil {
		return nil, v.reject(e.NewFieldError(e.ErrInvalidField, "lname", "Please Enter a valid last name"))
	}

	role, err := ValidateRole(in.Role)
	if err != nil {
		return nil, v.reject(err)
	}

	return &models.ValidatedEmployee{
		CompanyID: in.CompanyID,
		UID:       uid,
		FName:     in.FName,
		LName:     in.LName,
		Phone:     phone,
		Email:     email,
		Role:      role,
		EmpNumber: in.EmpNumber,
	}, nil
}

// MergeUpdate fills the fields missing from a partial update with the
// current values of existing and runs the result through the create
// pipeline. Any empty value in partial rejects the whole update.
func (v *Validator) MergeUpdate(ctx context.Context, partial map[string]any, existing *models.Employee) (*models.ValidatedEmployee, error) {
	for key, value := range partial {
		if isEmptyValue(value) {
			v.logger.Info("update rejected, empty value", zap.String("field", key))
			return nil, e.NewFieldError(e.ErrEmptyValue, key, "No Empty/Null value is allowed")
		}
	}

	in := models.EmployeeInput{
		CompanyID: existing.CompanyID,
		FName:     existing.FName,
		LName:     existing.LName,
		Phone:     existing.Phone.NationalDigits(),
		Email:     existing.Email,
		Role:      string(existing.Role),
		EmpNumber: existing.EmpNumber,
	}

	if err := applyPayload(&in, partial); err != nil {
		return nil, v.reject(err)
	}

	return v.ValidateEmployeeData(ctx, in)
}

// DecodeEmployeeInput converts a decoded JSON object into a create
// candidate. Null values and unknown keys are ignored, but still count as
// supplied.
func DecodeEmployeeInput(payload map[string]any) (models.EmployeeInput, error) {
	in := models.EmployeeInput{Supplied: len(payload) > 0}
	present := make(map[string]any, len(payload))
	for key, value := range payload {
		if value != nil {
			present[key] = value
		}
	}
	if err := applyPayload(&in, present); err != nil {
		return models.EmployeeInput{}, err
	}
	return in, nil
}

func applyPayload(in *models.EmployeeInput, payload map[string]any) error {
	var err error
	if raw, ok := payload["company_id"]; ok {
		if in.CompanyID, err = uintValue("company_id", raw); err != nil {
			return err
		}
	}
	if raw, ok := payload["emp_number"]; ok {
		if in.EmpNumber, err = uintValue("emp_number", raw); err != nil {
			return err
		}
	}
	stringFields := []struct {
		key    string
		target *string
	}{
		{"fname", &in.FName},
		{"lname", &in.LName},
		{"phone", &in.Phone},
		{"email", &in.Email},
		{"role", &in.Role},
	}
	for _, f := range stringFields {
		raw, ok := payload[f.key]
		if !ok {
			continue
		}
		if *f.target, err = stringValue(f.key, raw); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) reject(err error) error {
	var fieldErr *e.FieldError
	if errors.As(err, &fieldErr) {
		v.logger.Info("employee validation failed",
			zap.String("field", fieldErr.Field),
			zap.String("reason", fieldErr.Message),
		)
	}
	return err
}

// isEmptyValue mirrors the falsy values of a decoded JSON document.
func isEmptyValue(value any) bool {
	switch val := value.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case json.Number:
		f, err := val.Float64()
		return err == nil && f == 0
	case float64:
		return val == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	case uint:
		return val == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

func uintValue(field string, value any) (uint, error) {
	invalid := e.NewFieldError(e.ErrInvalidField, field, fmt.Sprintf("%s: A valid integer is required.", field))

	var raw string
	switch val := value.(type) {
	case json.Number:
		raw = val.String()
	case string:
		raw = val
	case float64:
		if val < 0 || val != float64(uint64(val)) {
			return 0, invalid
		}
		return uint(val), nil
	case int:
		if val < 0 {
			return 0, invalid
		}
		return uint(val), nil
	case uint:
		return val, nil
	default:
		return 0, invalid
	}

	n, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, invalid
	}
	return uint(n), nil
}

func stringValue(field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", e.NewFieldError(e.ErrInvalidField, field, fmt.Sprintf("%s: Not a valid string.", field))
	}
	return s, nil
}
