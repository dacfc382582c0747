package ingesthttp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	detectionapp "ecocore-cloud/internal/detection/application"
	"ecocore-cloud/internal/observability/metrics"
	telemetry "ecocore-cloud/internal/telemetry/domain"
)

// IngestHandler accepts one sensor reading per call and feeds it to
// the detection service.
type IngestHandler struct {
	service *detectionapp.Service
	logger  *log.Logger
}

// NewIngestHandler constructs an ingest handler.
func NewIngestHandler(service *detectionapp.Service, logger *log.Logger) (*IngestHandler, error) {
	if service == nil {
		return nil, errors.New("sensor ingest: nil service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &IngestHandler{service: service, logger: logger}, nil
}

// ServeHTTP handles POST /sensor/ingest.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	start := time.Now()

	var reading telemetry.SensorReading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		h.logger.Printf("sensor ingest: decode error: %v", err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		metrics.ObserveIngest(false, time.Since(start))
		return
	}
	defer r.Body.Close()

	if err := reading.Validate(); err != nil {
		h.logger.Printf("sensor ingest: invalid reading: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		metrics.ObserveIngest(false, time.Since(start))
		return
	}

	alert, err := h.service.Ingest(r.Context(), reading)
	if err != nil {
		h.logger.Printf("sensor ingest: evaluate error: %v", err)
		http.Error(w, "evaluate error", http.StatusInternalServerError)
		metrics.ObserveIngest(false, time.Since(start))
		return
	}
	metrics.ObserveIngest(true, time.Since(start))

	resp := map[string]any{"status": "success", "alert": alert}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
