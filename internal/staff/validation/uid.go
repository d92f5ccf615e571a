package validation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	e "github.com/gartstein/staff/internal/staff/errors"
	"github.com/gartstein/staff/internal/staff/models"
)

// CompanyFinder is the read-only company lookup the pipeline depends on.
// GetCompany returns e.ErrNotFound when no such company exists.
type CompanyFinder interface {
	GetCompany(ctx context.Context, id uint) (*models.Company, error)
}

// FormatUID joins a company prefix and an enrollment number.
func FormatUID(prefix string, empNumber uint) string {
	return prefix + "-" + strconv.FormatUint(uint64(empNumber), 10)
}

// GenerateUID derives the UID of employee empNumber of company companyID.
func GenerateUID(ctx context.Context, finder CompanyFinder, companyID, empNumber uint) (string, error) {
	company, err := finder.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return "", e.NewFieldError(e.ErrUnknownCompany, "company_id", "Invalid company id")
		}
		return "", fmt.Errorf("failed to look up company: %w", err)
	}
	return FormatUID(company.EmpPrefix, empNumber), nil
}
