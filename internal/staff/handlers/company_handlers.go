package handlers

import (
	"net/http"

	"github.com/gartstein/staff/internal/staff/models"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// CompanyHandler serves the /companies routes, mapping requests to a
// CompanyController.
type CompanyHandler struct {
	service CompanyController
	logger  *zap.Logger
}

// NewCompanyHandler constructs a new CompanyHandler with the given service and logger.
func NewCompanyHandler(service CompanyController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		logger:  logger.Named("company_handler"),
	}
}

// Register adds the company routes to mux.
func (h *CompanyHandler) Register(mux *runtime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodGet, "/companies", h.ListCompanies},
		{http.MethodPost, "/companies", h.CreateCompany},
		{http.MethodGet, "/companies/{id}", h.GetCompany},
		{http.MethodPut, "/companies/{id}", h.UpdateCompany},
		{http.MethodDelete, "/companies/{id}", h.DeleteCompany},
	}
	for _, route := range routes {
		if err := mux.HandlePath(route.method, route.pattern, route.handler); err != nil {
			return err
		}
	}
	return nil
}

// ListCompanies replies with every company, or 404 when there is none.
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "No Company found")
		return
	}
	if len(companies) == 0 {
		writeText(w, http.StatusNotFound, "No Company found")
		return
	}

	result := make([]companyJSON, 0, len(companies))
	for i := range companies {
		result = append(result, modelToCompanyJSON(&companies[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// CreateCompany processes a new company and replies with its id.
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	payload, err := decodeObject(r)
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	company := &models.Company{}
	if company.Name, err = stringField(payload, "name"); err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	if company.EmpPrefix, err = stringField(payload, "emp_prefix"); err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}

	created, err := h.service.CreateCompany(r.Context(), company)
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": created.ID})
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	const notFound = "Company ID does not exist"
	id, ok := parseID(pathParams)
	if !ok {
		writeText(w, http.StatusBadRequest, notFound)
		return
	}

	company, err := h.service.GetCompany(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, notFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": []companyJSON{modelToCompanyJSON(company)}})
}

func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	const notFound = "Company does not exist"
	id, ok := parseID(pathParams)
	if !ok {
		writeText(w, http.StatusBadRequest, notFound)
		return
	}
	payload, err := decodeObject(r)
	if err != nil {
		writeServiceError(w, h.logger, err, notFound)
		return
	}

	updated, err := h.service.UpdateCompany(r.Context(), id, payload)
	if err != nil {
		writeServiceError(w, h.logger, err, notFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": updated.ID})
}

func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	const notFound = "Company does not exist"
	id, ok := parseID(pathParams)
	if !ok {
		writeText(w, http.StatusBadRequest, notFound)
		return
	}

	if err := h.service.DeleteCompany(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, notFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
