package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/avvvet/scan-services/internal/scansvc/metrics"
	"github.com/avvvet/scan-services/internal/scansvc/service"
)

const (
	ServiceVersion = "2.0.0"

	msgDatabaseUnavailable = "Database connection error"
)

var errEmptyBody = errors.New("request body required")

type Dependencies struct {
	// Services is nil when the database could not be initialized; every
	// business endpoint then answers 500 without touching the database.
	Services   *service.Services
	Health     *service.HealthService
	Metrics    *metrics.Metrics
	InstanceID string
}

type Handler struct {
	services   *service.Services
	health     *service.HealthService
	metrics    *metrics.Metrics
	instanceID string
}

func NewHandler(d Dependencies) *Handler {
	return &Handler{
		services:   d.Services,
		health:     d.Health,
		metrics:    d.Metrics,
		instanceID: d.InstanceID,
	}
}

// Response is the envelope shared by every business endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, code int, rsp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Error encoding response: %s", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, code int, message string) {
	h.CreateResponse(w, code, Response{Success: false, Message: message})
}

// internalError logs err and answers 500 carrying its text.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Errorf("Error [%s %s] %s", r.Method, r.URL.Path, err)
	h.fail(w, http.StatusInternalServerError, fmt.Sprintf("An error occurred: %s", err))
}

// requireDatabase short-circuits business routes while no backend exists.
func (h *Handler) requireDatabase(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.services == nil {
			h.fail(w, http.StatusInternalServerError, msgDatabaseUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, http.StatusOK, map[string]any{
		"message":     "QR Scanner Backend API with PostgreSQL",
		"version":     ServiceVersion,
		"database":    "PostgreSQL",
		"instance_id": h.instanceID,
		"endpoints": map[string]string{
			"scan":       "/api/scan",
			"logs":       "/api/logs",
			"employees":  "/api/employees",
			"statistics": "/api/statistics",
			"summary":    "/api/employees/summary",
			"health":     "/api/health",
		},
	})
}

// HealthHandler always answers 200; problems show up as a degraded status.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, http.StatusOK, h.health.Check(r.Context()))
}

// decodeJSON decodes an optional JSON body. An empty body yields errEmptyBody.
func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dest)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

// clientIP extracts the address chi RealIP left in RemoteAddr. Values that
// are not an IP are dropped so they never reach the inet column.
func clientIP(remoteAddr string) *string {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return nil
	}
	s := ip.String()
	return &s
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
