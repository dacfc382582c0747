package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RemoteModel queries an external model server for demand predictions.
// Any transport or decode failure degrades to the static formula; the
// predictor never surfaces an error to callers.
type RemoteModel struct {
	baseURL  string
	client   *http.Client
	fallback StaticModel
}

// RemoteOption configures the remote model.
type RemoteOption func(*RemoteModel)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(m *RemoteModel) {
		if client != nil {
			m.client = client
		}
	}
}

// NewRemoteModel constructs a remote model client.
func NewRemoteModel(baseURL string, opts ...RemoteOption) (*RemoteModel, error) {
	if baseURL == "" {
		return nil, errors.New("prediction: empty base url")
	}
	model := &RemoteModel{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(model)
	}
	return model, nil
}

type predictRequest struct {
	Hour      int     `json:"hour"`
	Occupancy int     `json:"occupancy"`
	LightLux  float64 `json:"light_lux"`
}

type predictResponse struct {
	WaterFlow float64 `json:"water_flow"`
}

// PredictDemand calls POST /predict on the model server.
func (m *RemoteModel) PredictDemand(ctx context.Context, hour, occupancy int, lightLux float64) float64 {
	if m == nil || m.client == nil {
		return StaticModel{}.PredictDemand(ctx, hour, occupancy, lightLux)
	}
	value, err := m.predict(ctx, hour, occupancy, lightLux)
	if err != nil {
		return m.fallback.PredictDemand(ctx, hour, occupancy, lightLux)
	}
	return Clamp(value)
}

func (m *RemoteModel) predict(ctx context.Context, hour, occupancy int, lightLux float64) (float64, error) {
	body, err := json.Marshal(predictRequest{Hour: hour, Occupancy: occupancy, LightLux: lightLux})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return 0, fmt.Errorf("prediction: non-2xx response %d", resp.StatusCode)
	}
	var decoded predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, err
	}
	return decoded.WaterFlow, nil
}
