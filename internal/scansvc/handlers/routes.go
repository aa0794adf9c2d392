package handlers

import (
	"github.com/go-chi/chi"
)

func (h *Handler) SetRoutes(r chi.Router) {
	r.Get("/", h.RootHandler)
	if h.metrics != nil {
		r.Method("GET", "/metrics", h.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)

		// business routes need a live database
		r.Group(func(r chi.Router) {
			r.Use(h.requireDatabase)

			r.Post("/scan", h.ScanHandler)
			r.Get("/logs", h.LogsHandler)
			r.Get("/statistics", h.StatisticsHandler)

			r.Get("/employees", h.ListEmployeesHandler)
			r.Post("/employees", h.AddEmployeeHandler)
			r.Get("/employees/summary", h.SummaryHandler)
			r.Put("/employees/{id}", h.UpdateStatusHandler)
			r.Patch("/employees/{id}", h.UpdateFieldsHandler)
			r.Delete("/employees/{id}", h.DeactivateHandler)
		})
	})
}
