package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	e "github.com/gartstein/staff/internal/staff/errors"
	"github.com/gartstein/staff/internal/staff/models"
	"go.uber.org/zap"
)

var errMalformedBody = errors.New("invalid JSON body")

type companyJSON struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	EmpPrefix string `json:"emp_prefix"`
}

type employeeJSON struct {
	ID        uint   `json:"id"`
	UID       string `json:"uid"`
	FName     string `json:"fname"`
	LName     string `json:"lname"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	EmpNumber uint   `json:"emp_number"`
	Company   uint   `json:"company"`
}

type statusMessage struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// modelToCompanyJSON converts an internal Company model into its wire form.
func modelToCompanyJSON(company *models.Company) companyJSON {
	return companyJSON{
		ID:        company.ID,
		Name:      company.Name,
		EmpPrefix: company.EmpPrefix,
	}
}

// modelToEmployeeJSON converts an internal Employee model into its wire form.
func modelToEmployeeJSON(employee *models.Employee) employeeJSON {
	return employeeJSON{
		ID:        employee.ID,
		UID:       employee.UID,
		FName:     employee.FName,
		LName:     employee.LName,
		Phone:     employee.Phone.E164(),
		Email:     employee.Email,
		Role:      string(employee.Role),
		EmpNumber: employee.EmpNumber,
		Company:   employee.CompanyID,
	}
}

// decodeObject reads a JSON object body. Numbers stay json.Number so
// integers keep their exact value. An empty body decodes to an empty map.
func decodeObject(r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, errMalformedBody
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}

func parseID(pathParams map[string]string) (uint, bool) {
	id, err := strconv.ParseUint(pathParams["id"], 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}

func writeStatusMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, statusMessage{Status: false, Message: message})
}

// writeServiceError maps domain or repository errors to HTTP responses.
// notFound is the plain text reply for a missing resource.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, notFound string) {
	var constraintErr *e.ConstraintError
	var fieldErr *e.FieldError
	switch {
	case errors.Is(err, errMalformedBody):
		writeStatusMessage(w, http.StatusBadRequest, errMalformedBody.Error())
	case errors.Is(err, e.ErrNotFound):
		writeText(w, http.StatusBadRequest, notFound)
	case errors.As(err, &constraintErr):
		field := constraintErr.Field
		if field == "" {
			field = "non_field_errors"
		}
		writeJSON(w, http.StatusBadRequest, map[string][]string{field: {constraintErr.Message}})
	case errors.As(err, &fieldErr):
		writeStatusMessage(w, http.StatusBadRequest, fieldErr.Message)
	case errors.Is(err, e.ErrRestrictedDelete):
		writeStatusMessage(w, http.StatusBadRequest, "Company is referenced by employees and cannot be deleted")
	default:
		logger.Error("Internal server error", zap.Error(err))
		writeStatusMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func stringField(payload map[string]any, key string) (string, error) {
	raw, ok := payload[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", e.NewFieldError(e.ErrInvalidField, key, fmt.Sprintf("%s: Not a valid string.", key))
	}
	return s, nil
}
