package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi"

	"github.com/avvvet/scan-services/internal/scansvc/models"
	"github.com/avvvet/scan-services/internal/scansvc/service"
)

type addEmployeeRequest struct {
	EmployeeID *string `json:"employee_id"`
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
}

type updateStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

type updateFieldsRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
}

type EmployeesResponse struct {
	Response
	Employees []models.Employee `json:"employees"`
	Total     int               `json:"total"`
}

type EmployeeCreatedResponse struct {
	Response
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
}

func (h *Handler) ListEmployeesHandler(w http.ResponseWriter, r *http.Request) {
	activeOnly := strings.ToLower(queryDefault(r, "active_only", "true")) == "true"

	employees, err := h.services.Employees.List(r.Context(), activeOnly)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	h.CreateResponse(w, http.StatusOK, EmployeesResponse{
		Response:  Response{Success: true},
		Employees: employees,
		Total:     len(employees),
	})
}

func (h *Handler) AddEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	var req addEmployeeRequest
	if err := decodeJSON(r, &req); err != nil || req.EmployeeID == nil || req.Name == nil {
		h.fail(w, http.StatusBadRequest, "employee_id and name are required")
		return
	}

	e, err := h.services.Employees.Add(r.Context(), service.EmployeeInput{
		EmployeeID: *req.EmployeeID,
		Name:       *req.Name,
		Department: req.Department,
		Position:   req.Position,
	})
	switch {
	case errors.Is(err, service.ErrMissingEmployeeID), errors.Is(err, service.ErrMissingName):
		h.fail(w, http.StatusBadRequest, "employee_id and name are required")
		return
	case errors.Is(err, service.ErrInvalidField):
		h.fail(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrEmployeeExists):
		h.fail(w, http.StatusBadRequest, "Employee ID already exists")
		return
	case err != nil:
		h.internalError(w, r, err)
		return
	}

	h.CreateResponse(w, http.StatusCreated, EmployeeCreatedResponse{
		Response:   Response{Success: true, Message: fmt.Sprintf("Employee %s added successfully", e.EmployeeID)},
		EmployeeID: e.EmployeeID,
		Name:       e.Name,
	})
}

// UpdateStatusHandler sets is_active from the body, defaulting to true.
func (h *Handler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.fail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	h.setActive(w, r, active)
}

func (h *Handler) DeactivateHandler(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := h.services.Employees.SetActive(r.Context(), chi.URLParam(r, "id"), active)
	if errors.Is(err, service.ErrEmployeeNotFound) {
		h.fail(w, http.StatusNotFound, fmt.Sprintf("Employee %s not found", id))
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	statusText := "deactivated"
	if active {
		statusText = "activated"
	}
	h.CreateResponse(w, http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("Employee %s %s successfully", id, statusText),
	})
}

func (h *Handler) UpdateFieldsHandler(w http.ResponseWriter, r *http.Request) {
	var req updateFieldsRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.fail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := h.services.Employees.Update(r.Context(), chi.URLParam(r, "id"), models.EmployeeUpdate{
		Name:       req.Name,
		Department: req.Department,
		Position:   req.Position,
	})
	switch {
	case errors.Is(err, service.ErrNoFields):
		h.fail(w, http.StatusBadRequest, "at least one of name, department or position is required")
		return
	case errors.Is(err, service.ErrInvalidField):
		h.fail(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrEmployeeNotFound):
		h.fail(w, http.StatusNotFound, fmt.Sprintf("Employee %s not found", id))
		return
	case err != nil:
		h.internalError(w, r, err)
		return
	}

	h.CreateResponse(w, http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("Employee %s updated successfully", id),
	})
}
