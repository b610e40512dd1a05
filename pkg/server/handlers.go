package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ticketpulse/ticketpulse/pkg/analytics"
	"github.com/ticketpulse/ticketpulse/pkg/config"
	"github.com/ticketpulse/ticketpulse/pkg/export"
	"github.com/ticketpulse/ticketpulse/pkg/httpx"
	"github.com/ticketpulse/ticketpulse/pkg/live"
	"github.com/ticketpulse/ticketpulse/pkg/server/monitor"
)

var startTime = time.Now()

// knownMetrics is the set of metric names the growth endpoint accepts.
var knownMetrics = map[analytics.Metric]bool{
	analytics.MetricTicketsCreated:    true,
	analytics.MetricTicketsCheckedIn:  true,
	analytics.MetricTicketsCancelled:  true,
	analytics.MetricUsersRegistered:   true,
	analytics.MetricUsersActive:       true,
	analytics.MetricRevenueDaily:      true,
	analytics.MetricRevenueCumulative: true,
	analytics.MetricEngagementRate:    true,
}

// Handler serves the analytics API.
type Handler struct {
	engine   *analytics.Engine
	exporter *export.Exporter
	importer *export.Importer
	hub      *live.Hub
	log      zerolog.Logger
}

// NewHandler creates the analytics API handler.
func NewHandler(engine *analytics.Engine, exporter *export.Exporter, importer *export.Importer, hub *live.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		exporter: exporter,
		importer: importer,
		hub:      hub,
		log:      logger.With().Str("component", "api").Logger(),
	}
}

// HandleProcess computes (or recomputes) the rollup for one date.
// POST /v1/analytics/process?date=YYYY-MM-DD (defaults to yesterday)
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	date := time.Now().AddDate(0, 0, -1)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(analytics.DateFormat, raw)
		if err != nil {
			httpx.RespondErrorString(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
			return
		}
		date = parsed
	}

	record, err := h.engine.ProcessDay(r.Context(), date)
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err)
		return
	}

	h.broadcastRollup(record)
	httpx.RespondJSON(w, http.StatusOK, record)
}

// HandleRange returns the ordered rollups for a date range, backfilling
// missing days. GET /v1/analytics/range?start=...&end=...
func (h *Handler) HandleRange(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	rng, err := h.engine.Range(r.Context(), start, end)
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"days":    len(rng),
		"rollups": rng,
	})
}

// HandleGrowth returns day/week/month growth rates for one metric across a
// range. GET /v1/analytics/growth?start=...&end=...&metric=tickets.created
func (h *Handler) HandleGrowth(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	metric := analytics.Metric(r.URL.Query().Get("metric"))
	if !knownMetrics[metric] {
		httpx.RespondErrorString(w, http.StatusBadRequest, fmt.Sprintf("unknown metric %q", metric))
		return
	}

	rng, err := h.engine.Range(r.Context(), start, end)
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"metric": metric,
		"days":   len(rng),
		"growth": analytics.Growth(rng, metric),
	})
}

// HandleSummary reduces a range to aggregate totals and extremes.
// GET /v1/analytics/summary?start=...&end=...
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	rng, err := h.engine.Range(r.Context(), start, end)
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err)
		return
	}

	summary := analytics.Summarize(rng)
	if summary == nil {
		httpx.RespondErrorString(w, http.StatusNotFound, "no rollups available in range")
		return
	}

	httpx.RespondJSON(w, http.StatusOK, summary)
}

// HandleTrends fits a linear trend to a range and projects it forward.
// GET /v1/analytics/trends?start=...&end=...&days=7
func (h *Handler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	horizon := config.DefaultForecastDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpx.RespondErrorString(w, http.StatusBadRequest, fmt.Sprintf("invalid days %q", raw))
			return
		}
		horizon = parsed
	}
	if horizon > config.MaxForecastDays {
		httpx.RespondErrorString(w, http.StatusBadRequest,
			fmt.Sprintf("forecast horizon %d exceeds maximum of %d days", horizon, config.MaxForecastDays))
		return
	}

	rng, err := h.engine.Range(r.Context(), start, end)
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err)
		return
	}

	forecast := analytics.PredictTrends(rng, horizon)
	if forecast == nil {
		httpx.RespondErrorString(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("forecasting requires at least 7 days of history, range has %d", len(rng)))
		return
	}

	httpx.RespondJSON(w, http.StatusOK, forecast)
}

// HandleCleanup deletes rollups older than the retention window.
// POST /v1/analytics/cleanup?olderThanDays=365
func (h *Handler) HandleCleanup(retentionDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		olderThan := retentionDays
		if raw := r.URL.Query().Get("olderThanDays"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				httpx.RespondErrorString(w, http.StatusBadRequest, fmt.Sprintf("invalid olderThanDays %q", raw))
				return
			}
			olderThan = parsed
		}

		result, err := h.engine.Cleanup(r.Context(), olderThan)
		if err != nil {
			httpx.RespondError(w, http.StatusInternalServerError, err)
			return
		}

		httpx.RespondJSON(w, http.StatusOK, result)
	}
}

// HandleExport streams a range of rollups as JSON or CSV.
// GET /v1/analytics/export?start=...&end=...&format=json|csv
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=ticketpulse-rollups.json")
		if _, err := h.exporter.ExportJSON(r.Context(), w, start, end); err != nil {
			h.log.Error().Err(err).Msg("json export failed")
		}
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=ticketpulse-rollups.csv")
		if _, err := h.exporter.ExportCSV(r.Context(), w, start, end); err != nil {
			h.log.Error().Err(err).Msg("csv export failed")
		}
	default:
		httpx.RespondErrorString(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q, expected json or csv", format))
	}
}

// HandleImport restores rollups from a JSON export.
// POST /v1/analytics/import
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	result, err := h.importer.ImportJSON(r.Context(), r.Body)
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, result)
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string                  `json:"status"`
	Version   string                  `json:"version"`
	Uptime    string                  `json:"uptime"`
	Pipeline  analytics.HealthStatus  `json:"pipeline"`
	Retention monitor.RetentionStatus `json:"retention"`
}

// HandleHealth runs a full rollup for yesterday as an end-to-end probe and
// reports background-job health alongside it.
func (h *Handler) HandleHealth(retention *monitor.RetentionMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pipeline := h.engine.HealthCheck(r.Context())

		status := "healthy"
		code := http.StatusOK
		if !pipeline.Healthy || !retention.IsHealthy() {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.RespondJSON(w, code, HealthResponse{
			Status:    status,
			Version:   "1.0.0",
			Uptime:    time.Since(startTime).String(),
			Pipeline:  pipeline,
			Retention: retention.Status(),
		})
	}
}

// parseRange reads and validates start/end query parameters. It writes the
// error response itself and returns ok=false when validation fails.
func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	var zero time.Time

	rawStart := r.URL.Query().Get("start")
	rawEnd := r.URL.Query().Get("end")
	if rawStart == "" || rawEnd == "" {
		httpx.RespondErrorString(w, http.StatusBadRequest, "start and end query parameters are required")
		return zero, zero, false
	}

	start, err := time.Parse(analytics.DateFormat, rawStart)
	if err != nil {
		httpx.RespondErrorString(w, http.StatusBadRequest, fmt.Sprintf("invalid start %q, expected YYYY-MM-DD", rawStart))
		return zero, zero, false
	}
	end, err := time.Parse(analytics.DateFormat, rawEnd)
	if err != nil {
		httpx.RespondErrorString(w, http.StatusBadRequest, fmt.Sprintf("invalid end %q, expected YYYY-MM-DD", rawEnd))
		return zero, zero, false
	}
	if end.Before(start) {
		httpx.RespondErrorString(w, http.StatusBadRequest, "end must not be before start")
		return zero, zero, false
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days > config.MaxRangeDays {
		httpx.RespondErrorString(w, http.StatusBadRequest,
			fmt.Sprintf("range of %d days exceeds maximum of %d", days, config.MaxRangeDays))
		return zero, zero, false
	}

	return start, end, true
}

// broadcastRollup pushes a freshly computed rollup to dashboard clients.
func (h *Handler) broadcastRollup(record *analytics.DailyRecord) {
	if h.hub == nil || !h.hub.HasClients() {
		return
	}
	update := map[string]interface{}{
		"type":      "rollup_update",
		"timestamp": time.Now().Unix(),
		"rollup":    record,
	}
	if err := h.hub.Broadcast(update); err != nil {
		h.log.Warn().Err(err).Msg("failed to broadcast rollup")
	}
}

// SetupRoutes configures all HTTP routes for the server.
func SetupRoutes(router *mux.Router, h *Handler, retention *monitor.RetentionMonitor, cfg Config) {
	router.Use(corsMiddleware(cfg.Port))

	api := router.PathPrefix("/v1").Subrouter()

	api.HandleFunc("/analytics/process", h.HandleProcess).Methods("POST")
	api.HandleFunc("/analytics/range", h.HandleRange).Methods("GET")
	api.HandleFunc("/analytics/growth", h.HandleGrowth).Methods("GET")
	api.HandleFunc("/analytics/summary", h.HandleSummary).Methods("GET")
	api.HandleFunc("/analytics/trends", h.HandleTrends).Methods("GET")
	api.HandleFunc("/analytics/cleanup", h.HandleCleanup(cfg.RetentionDays)).Methods("POST")
	api.HandleFunc("/analytics/export", h.HandleExport).Methods("GET")
	api.HandleFunc("/analytics/import", h.HandleImport).Methods("POST")

	api.HandleFunc("/health", h.HandleHealth(retention)).Methods("GET")

	// WebSocket for live rollup updates
	api.HandleFunc("/ws", h.hub.Handler()).Methods("GET")
}

// corsMiddleware creates CORS middleware that restricts to localhost origins only.
func corsMiddleware(port string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowedOrigins := []string{
				"http://localhost:" + port,
				"http://127.0.0.1:" + port,
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			}

			allowed := false
			for _, allowedOrigin := range allowedOrigins {
				if origin == allowedOrigin {
					allowed = true
					break
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
