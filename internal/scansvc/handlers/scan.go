package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avvvet/scan-services/internal/scansvc/service"
)

type scanRequest struct {
	EmployeeID *string `json:"employee_id"`
}

type ScanResponse struct {
	Response
	EmployeeID         string    `json:"employee_id"`
	EmployeeName       string    `json:"employee_name,omitempty"`
	EmployeeDepartment *string   `json:"employee_department,omitempty"`
	EmployeePosition   *string   `json:"employee_position,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
	Status             string    `json:"status"`
}

const msgMissingEmployeeID = "employee_id not found in request"

func (h *Handler) ScanHandler(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeJSON(r, &req); err != nil || req.EmployeeID == nil {
		h.fail(w, http.StatusBadRequest, msgMissingEmployeeID)
		return
	}

	res, err := h.services.Scans.Scan(r.Context(), service.ScanRequest{
		EmployeeID: *req.EmployeeID,
		IPAddress:  clientIP(r.RemoteAddr),
		UserAgent:  optional(r.UserAgent()),
	})
	if errors.Is(err, service.ErrMissingEmployeeID) {
		h.fail(w, http.StatusBadRequest, msgMissingEmployeeID)
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	if res.Decision == service.Allowed {
		h.CreateResponse(w, http.StatusOK, ScanResponse{
			Response:           Response{Success: true, Message: fmt.Sprintf("Access granted for employee %s", res.EmployeeID)},
			EmployeeID:         res.EmployeeID,
			EmployeeName:       res.Employee.Name,
			EmployeeDepartment: res.Employee.Department,
			EmployeePosition:   res.Employee.Position,
			Timestamp:          res.Timestamp,
			Status:             string(service.Allowed),
		})
		return
	}

	h.CreateResponse(w, http.StatusForbidden, ScanResponse{
		Response:   Response{Success: false, Message: fmt.Sprintf("Access denied. Employee ID %s is not registered or inactive", res.EmployeeID)},
		EmployeeID: res.EmployeeID,
		Timestamp:  res.Timestamp,
		Status:     string(service.Denied),
	})
}
