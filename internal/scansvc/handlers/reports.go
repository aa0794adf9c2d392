package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avvvet/scan-services/internal/scansvc/models"
	"github.com/avvvet/scan-services/internal/scansvc/service"
)

type LogsResponse struct {
	Response
	Logs   []models.ScanLog `json:"logs"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type StatisticsResponse struct {
	Response
	Statistics []models.ScanStat `json:"statistics"`
}

type SummaryResponse struct {
	Response
	Summary []models.EmployeeScanSummary `json:"summary"`
	Days    int                          `json:"days"`
}

func (h *Handler) LogsHandler(w http.ResponseWriter, r *http.Request) {
	f := service.NormalizeLogFilter(models.ScanLogFilter{
		Limit:      queryInt(r, "limit", service.DefaultLogLimit),
		Offset:     queryInt(r, "offset", 0),
		EmployeeID: queryOptional(r, "employee_id"),
	})
	if s := queryOptional(r, "status"); s != nil {
		status := models.ScanStatus(strings.ToUpper(*s))
		if !status.Valid() {
			h.fail(w, http.StatusBadRequest, "status must be one of SUCCESS, DENIED, ERROR")
			return
		}
		f.Status = &status
	}

	logs, err := h.services.Reports.Logs(r.Context(), f)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	h.CreateResponse(w, http.StatusOK, LogsResponse{
		Response: Response{Success: true},
		Logs:     logs,
		Total:    len(logs),
		Limit:    f.Limit,
		Offset:   f.Offset,
	})
}

func (h *Handler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	var rng models.DateRange
	for _, p := range []struct {
		key  string
		dest **time.Time
	}{
		{"start_date", &rng.Start},
		{"end_date", &rng.End},
	} {
		v := queryOptional(r, p.key)
		if v == nil {
			continue
		}
		d, err := time.Parse(time.DateOnly, *v)
		if err != nil {
			h.fail(w, http.StatusBadRequest, p.key+" must be formatted as YYYY-MM-DD")
			return
		}
		*p.dest = &d
	}

	stats, err := h.services.Reports.Statistics(r.Context(), rng)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	h.CreateResponse(w, http.StatusOK, StatisticsResponse{
		Response:   Response{Success: true},
		Statistics: stats,
	})
}

func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	days := service.NormalizeSummaryDays(queryInt(r, "days", service.DefaultSummaryDays))

	summary, err := h.services.Reports.Summary(r.Context(), queryOptional(r, "employee_id"), days)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	h.CreateResponse(w, http.StatusOK, SummaryResponse{
		Response: Response{Success: true},
		Summary:  summary,
		Days:     days,
	})
}

func queryDefault(r *http.Request, key, def string) string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	return v
}

// queryInt falls back to def when the value is missing or not an integer.
func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(queryDefault(r, key, ""))
	if err != nil {
		return def
	}
	return n
}

func queryOptional(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}
