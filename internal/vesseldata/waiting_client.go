package vesseldata

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// APIWaitingTimeClient implements WaitingTimeSource over the port congestion
// time series API
type APIWaitingTimeClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewWaitingTimeClient creates a waiting time client. An empty baseURL uses the default.
func NewWaitingTimeClient(baseURL, token string, timeout time.Duration) *APIWaitingTimeClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &APIWaitingTimeClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetAverageWaitingTime queries the average wait per observation date
func (c *APIWaitingTimeClient) GetAverageWaitingTime(ctx context.Context, q WaitingTimeQuery) ([]WaitingTimeObservation, error) {
	body, err := json.Marshal(waitingTimeRequest{
		SegmentID: []int{q.VesselClassID},
		PortName:  q.Ports,
		AreaName:  q.Areas,
		FromDate:  q.From.UTC().Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	requestURL := fmt.Sprintf("%s/portcongestion/timeseries", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req, c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch waiting time: %w", err)
	}
	defer resp.Body.Close()

	var wtResp waitingTimeResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&wtResp)

	if wtResp.Error != "" {
		return nil, fmt.Errorf("waiting time API error: %s", wtResp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	observations := make([]WaitingTimeObservation, 0, len(wtResp.Timeseries))
	for _, p := range wtResp.Timeseries {
		date, err := time.Parse("2006-01-02", p.ObservationDate)
		if err != nil {
			continue // Skip unparseable dates
		}
		observations = append(observations, WaitingTimeObservation{
			ObservationDate: date,
			AvgWaitEstimate: p.AvgWaitEstimate,
		})
	}

	return observations, nil
}

// Internal types for the port congestion API

type waitingTimeRequest struct {
	SegmentID []int    `json:"segmentId"`
	PortName  []string `json:"portName,omitempty"`
	AreaName  []string `json:"areaNameLevel0,omitempty"`
	FromDate  string   `json:"fromDate"`
}

type waitingTimeResponse struct {
	Timeseries []struct {
		ObservationDate string  `json:"observationDate"` // YYYY-MM-DD
		AvgWaitEstimate float64 `json:"avgWaitEstimate"`
	} `json:"timeseries"`
	Error string `json:"error"`
}
