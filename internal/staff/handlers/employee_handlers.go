package handlers

import (
	"net/http"

	"github.com/gartstein/staff/internal/staff/validation"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// EmployeeHandler serves the /employees routes.
type EmployeeHandler struct {
	service EmployeeController
	logger  *zap.Logger
}

func NewEmployeeHandler(service EmployeeController, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		logger:  logger.Named("employee_handler"),
	}
}

// Register adds the employee routes to mux.
func (h *EmployeeHandler) Register(mux *runtime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodGet, "/employees", h.ListEmployees},
		{http.MethodPost, "/employees", h.CreateEmployee},
		{http.MethodGet, "/employees/{id}", h.GetEmployee},
		{http.MethodPut, "/employees/{id}", h.UpdateEmployee},
		{http.MethodDelete, "/employees/{id}", h.DeleteEmployee},
	}
	for _, route := range routes {
		if err := mux.HandlePath(route.method, route.pattern, route.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *EmployeeHandler) ListEmployees(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "No employee found")
		return
	}
	if len(employees) == 0 {
		writeText(w, http.StatusNotFound, "No employee found")
		return
	}

	result := make([]employeeJSON, 0, len(employees))
	for i := range employees {
		result = append(result, modelToEmployeeJSON(&employees[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// CreateEmployee validates the candidate and replies 201 with the stored
// record.
func (h *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	payload, err := decodeObject(r)
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	in, err := validation.DecodeEmployeeInput(payload)
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}

	created, err := h.service.CreateEmployee(r.Context(), in)
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"employee": modelToEmployeeJSON(created)})
}

func (h *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	const notFound = "Employee ID does not exist"
	id, ok := parseID(pathParams)
	if !ok {
		writeText(w, http.StatusBadRequest, notFound)
		return
	}

	employee, err := h.service.GetEmployee(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, notFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": []employeeJSON{modelToEmployeeJSON(employee)}})
}

// UpdateEmployee applies a partial update and replies with the employee id.
func (h *EmployeeHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	const notFound = "Employee does not exist"
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

	updated, err := h.service.UpdateEmployee(r.Context(), id, payload)
	if err != nil {
		writeServiceError(w, h.logger, err, notFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"employee": updated.ID})
}

func (h *EmployeeHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	const notFound = "Employee does not exist"
	id, ok := parseID(pathParams)
	if !ok {
		writeText(w, http.StatusBadRequest, notFound)
		return
	}

	if err := h.service.DeleteEmployee(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, notFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
