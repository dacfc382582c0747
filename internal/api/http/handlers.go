package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	alerts "ecocore-cloud/internal/alerts/domain"
	alertexport "ecocore-cloud/internal/alerts/interfaces"
	"ecocore-cloud/internal/observability/metrics"
	rooms "ecocore-cloud/internal/rooms/domain"
	schedulingapp "ecocore-cloud/internal/scheduling/application"
	scheduleexport "ecocore-cloud/internal/scheduling/interfaces"
)

// AlertHistoryHandler serves the alert log, newest first.
type AlertHistoryHandler struct {
	log alerts.Log
}

// NewAlertHistoryHandler constructs an AlertHistoryHandler.
func NewAlertHistoryHandler(log alerts.Log) *AlertHistoryHandler {
	return &AlertHistoryHandler{log: log}
}

// ServeHTTP handles GET /api/history/alerts.
func (h *AlertHistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.log == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entries, err := h.log.ListDesc(r.Context(), limit)
	if err != nil {
		http.Error(w, "query alerts error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

// ScheduleHistoryHandler serves a decision log, newest first.
type ScheduleHistoryHandler struct {
	optimizer *schedulingapp.Optimizer
	kind      string
}

// NewScheduleHistoryHandler constructs a ScheduleHistoryHandler for
// one decision kind.
func NewScheduleHistoryHandler(optimizer *schedulingapp.Optimizer, kind string) *ScheduleHistoryHandler {
	return &ScheduleHistoryHandler{optimizer: optimizer, kind: kind}
}

// ServeHTTP handles GET /api/history/pumping and /api/history/battery.
func (h *ScheduleHistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.optimizer == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var entries any
	if h.kind == "battery" {
		entries, err = h.optimizer.BatteryHistory(r.Context(), limit)
	} else {
		entries, err = h.optimizer.PumpHistory(r.Context(), limit)
	}
	if err != nil {
		http.Error(w, "query schedule error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

// OptimizeHandler triggers an optimizer run and returns the decision.
type OptimizeHandler struct {
	optimizer *schedulingapp.Optimizer
	kind      string
}

// NewOptimizeHandler constructs an OptimizeHandler for one kind.
func NewOptimizeHandler(optimizer *schedulingapp.Optimizer, kind string) *OptimizeHandler {
	return &OptimizeHandler{optimizer: optimizer, kind: kind}
}

// ServeHTTP handles GET /api/pump/optimize and /api/battery/optimize.
func (h *OptimizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.optimizer == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	var (
		decision any
		err      error
	)
	if h.kind == "battery" {
		decision, err = h.optimizer.OptimizeBattery(r.Context())
	} else {
		decision, err = h.optimizer.OptimizePump(r.Context())
	}
	if err != nil {
		http.Error(w, "optimize error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, decision)
}

// RoomStatusHandler serves the room state map.
type RoomStatusHandler struct {
	states rooms.Store
}

// NewRoomStatusHandler constructs a RoomStatusHandler.
func NewRoomStatusHandler(states rooms.Store) *RoomStatusHandler {
	return &RoomStatusHandler{states: states}
}

// ServeHTTP handles GET /api/rooms/status. With ?room_id= it returns a
// single room; unknown rooms return the default state.
func (h *RoomStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.states == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	if roomID := r.URL.Query().Get("room_id"); roomID != "" {
		state, _, err := h.states.Get(r.Context(), roomID)
		if err != nil {
			http.Error(w, "query room error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, state)
		return
	}
	states, err := h.states.List(r.Context())
	if err != nil {
		http.Error(w, "query rooms error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, states)
}

// BudgetForecastHandler serves the multi-day budget projection.
type BudgetForecastHandler struct {
	optimizer *schedulingapp.Optimizer
}

// NewBudgetForecastHandler constructs a BudgetForecastHandler.
func NewBudgetForecastHandler(optimizer *schedulingapp.Optimizer) *BudgetForecastHandler {
	return &BudgetForecastHandler{optimizer: optimizer}
}

// ServeHTTP handles GET /api/budget/forecast.
func (h *BudgetForecastHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.optimizer == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			http.Error(w, "days must be in 1..365", http.StatusBadRequest)
			return
		}
		days = parsed
	}
	writeJSON(w, h.optimizer.ForecastBudget(r.Context(), days))
}

// ExportHandler serves alert and schedule history downloads.
type ExportHandler struct {
	log       alerts.Log
	optimizer *schedulingapp.Optimizer
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(log alerts.Log, optimizer *schedulingapp.Optimizer) *ExportHandler {
	return &ExportHandler{log: log, optimizer: optimizer}
}

// ServeAlertsPDF handles GET /api/exports/alerts.pdf.
func (h *ExportHandler) ServeAlertsPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	entries, err := h.log.ListDesc(r.Context(), 0)
	if err != nil {
		metrics.ObserveExport("pdf", false)
		http.Error(w, "query alerts error", http.StatusInternalServerError)
		return
	}
	data, err := alertexport.BuildAlertHistoryPDF(entries, time.Now().UTC())
	if err != nil {
		metrics.ObserveExport("pdf", false)
		http.Error(w, "render pdf error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport("pdf", true)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="alerts.pdf"`)
	_, _ = w.Write(data)
}

// ServeAlertsXLSX handles GET /api/exports/alerts.xlsx.
func (h *ExportHandler) ServeAlertsXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	entries, err := h.log.ListDesc(r.Context(), 0)
	if err != nil {
		metrics.ObserveExport("xlsx", false)
		http.Error(w, "query alerts error", http.StatusInternalServerError)
		return
	}
	data, err := alertexport.BuildAlertHistoryXLSX(entries)
	if err != nil {
		metrics.ObserveExport("xlsx", false)
		http.Error(w, "render xlsx error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport("xlsx", true)
	writeXLSX(w, "alerts.xlsx", data)
}

// ServeSchedulesXLSX handles GET /api/exports/schedules.xlsx.
func (h *ExportHandler) ServeSchedulesXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	pump, err := h.optimizer.PumpHistory(r.Context(), 0)
	if err != nil {
		metrics.ObserveExport("xlsx", false)
		http.Error(w, "query schedule error", http.StatusInternalServerError)
		return
	}
	battery, err := h.optimizer.BatteryHistory(r.Context(), 0)
	if err != nil {
		metrics.ObserveExport("xlsx", false)
		http.Error(w, "query schedule error", http.StatusInternalServerError)
		return
	}
	data, err := scheduleexport.BuildScheduleXLSX(pump, battery)
	if err != nil {
		metrics.ObserveExport("xlsx", false)
		http.Error(w, "render xlsx error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport("xlsx", true)
	writeXLSX(w, "schedules.xlsx", data)
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0, errLimit
	}
	return parsed, nil
}

var errLimit = errors.New("limit must be a non-negative integer")

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeXLSX(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}
