package vesseldata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/ngmaloney/port-congestion/internal/models"
)

const defaultBaseURL = "https://beta.api.oceanbolt.com/v3"

// APIVoyageClient implements VoyageSource over the voyages REST API
type APIVoyageClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewVoyageClient creates a voyage API client. An empty baseURL uses the default.
func NewVoyageClient(baseURL, token string, timeout time.Duration) *APIVoyageClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &APIVoyageClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetFlattenedVoyages fetches the four voyage tables for a vessel class
func (c *APIVoyageClient) GetFlattenedVoyages(ctx context.Context, vesselClassID int, from time.Time) (*models.FlattenedVoyages, error) {
	params := url.Values{}
	params.Add("segmentId", strconv.Itoa(vesselClassID))
	params.Add("fromDate", from.UTC().Format("2006-01-02"))

	requestURL := fmt.Sprintf("%s/voyages/flattened?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voyages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var batch models.FlattenedVoyages
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &batch, nil
}

// FileVoyageSource serves a voyage batch saved as JSON on disk.
// The batch is re-read on every call.
type FileVoyageSource struct {
	path string
}

// NewFileVoyageSource creates a source reading the given JSON file
func NewFileVoyageSource(path string) *FileVoyageSource {
	return &FileVoyageSource{path: path}
}

// GetFlattenedVoyages loads the batch. Voyages are not filtered by class or date.
func (s *FileVoyageSource) GetFlattenedVoyages(ctx context.Context, vesselClassID int, from time.Time) (*models.FlattenedVoyages, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading voyage file: %w", err)
	}

	var batch models.FlattenedVoyages
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decoding voyage file %s: %w", s.path, err)
	}
	return &batch, nil
}

func setHeaders(req *http.Request, token string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "port-congestion/1.0")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
