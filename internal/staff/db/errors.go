package db

import (
	"errors"
	"strings"

	"github.com/gartstein/staff/internal/staff/db/models"
	e "github.com/gartstein/staff/internal/staff/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgStringTooLong       = "22001"
)

type constraintTarget struct {
	field   string
	message string
}

var constraintTargets = map[string]constraintTarget{
	models.IndexUID:              {"uid", "employee with this Unique ID already exists."},
	models.IndexCompanyEmail:     {"email", "employee with this company and email address already exists."},
	models.IndexCompanyPhone:     {"phone", "employee with this company and Mobile Number already exists."},
	models.IndexCompanyEmpNumber: {"emp_number", "employee with this company and employee number already exists."},
	models.ForeignKeyCompany:     {"company", "Invalid pk - object does not exist."},
}

// Column that tells the composite indexes apart, as named in sqlite messages.
var columnIndexes = map[string]string{
	"uid":        models.IndexUID,
	"email":      models.IndexCompanyEmail,
	"phone":      models.IndexCompanyPhone,
	"emp_number": models.IndexCompanyEmpNumber,
}

// mapError translates constraint violations into *e.ConstraintError and
// leaves every other error untouched.
func (r *Repository) mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return constraintError(pgErr.ConstraintName)
		case pgStringTooLong:
			return &e.ConstraintError{Message: "Ensure no field exceeds its maximum length."}
		}
		return err
	}

	translated := err
	if translator, ok := r.db.Dialector.(gorm.ErrorTranslator); ok {
		translated = translator.Translate(err)
	}
	switch {
	case errors.Is(translated, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return constraintError(indexFromMessage(err.Error()))
	case errors.Is(translated, gorm.ErrForeignKeyViolated):
		return constraintError(models.ForeignKeyCompany)
	}
	return err
}

func constraintError(name string) error {
	if target, ok := constraintTargets[name]; ok {
		return &e.ConstraintError{Field: target.field, Message: target.message}
	}
	return &e.ConstraintError{Message: "resource with the same unique attributes already exists"}
}

// indexFromMessage reads the index out of a message such as
// "UNIQUE constraint failed: employees.company_id, employees.email".
func indexFromMessage(msg string) string {
	_, columns, found := strings.Cut(msg, "constraint failed:")
	if !found {
		return ""
	}
	parts := strings.Split(columns, ",")
	last := strings.TrimSpace(parts[len(parts)-1])
	if _, column, ok := strings.Cut(last, "."); ok {
		last = column
	}
	return columnIndexes[last]
}
