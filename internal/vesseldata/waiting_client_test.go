package vesseldata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	gobreaker "github.com/sony/gobreaker/v2"
)

func TestAPIWaitingTimeClient_GetAverageWaitingTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/portcongestion/timeseries" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s", ct)
		}

		var body waitingTimeRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
			return
		}
		want := waitingTimeRequest{
			SegmentID: []int{3},
			PortName:  []string{"Qingdao", "Rotterdam"},
			AreaName:  []string{"North China"},
			FromDate:  "2022-01-01",
		}
		if diff := cmp.Diff(want, body); diff != "" {
			t.Errorf("request body mismatch (-want +got):\n%s", diff)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"timeseries":[
			{"observationDate":"2022-01-01","avgWaitEstimate":2.5},
			{"observationDate":"not-a-date","avgWaitEstimate":9.0},
			{"observationDate":"2022-01-02","avgWaitEstimate":1.25}
		]}`))
	}))
	defer server.Close()

	client := NewWaitingTimeClient(server.URL, "secret", time.Second)
	got, err := client.GetAverageWaitingTime(context.Background(), WaitingTimeQuery{
		VesselClassID: 3,
		Ports:         []string{"Qingdao", "Rotterdam"},
		Areas:         []string{"North China"},
		From:          time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("GetAverageWaitingTime() error = %v", err)
	}

	want := []WaitingTimeObservation{
		{ObservationDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), AvgWaitEstimate: 2.5},
		{ObservationDate: time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC), AvgWaitEstimate: 1.25},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("observations mismatch (-want +got):\n%s", diff)
	}
}

func TestAPIWaitingTimeClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"error payload", http.StatusOK, `{"error":"segment not licensed"}`},
		{"error payload with status", http.StatusForbidden, `{"error":"forbidden"}`},
		{"server error", http.StatusBadGateway, `upstream down`},
		{"bad json", http.StatusOK, `{"timeseries": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			client := NewWaitingTimeClient(server.URL, "", 0)
			if _, err := client.GetAverageWaitingTime(context.Background(), WaitingTimeQuery{VesselClassID: 3}); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

type flakyWaitingSource struct {
	err   error
	calls int
}

func (f *flakyWaitingSource) GetAverageWaitingTime(ctx context.Context, q WaitingTimeQuery) ([]WaitingTimeObservation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []WaitingTimeObservation{{AvgWaitEstimate: 1}}, nil
}

func TestBreakerWaitingTimeSource(t *testing.T) {
	inner := &flakyWaitingSource{err: errors.New("timeout")}
	breaker := NewBreakerWaitingTimeSource(inner, 2, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := breaker.GetAverageWaitingTime(context.Background(), WaitingTimeQuery{}); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if breaker.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %s, want open", breaker.State())
	}

	_, err := breaker.GetAverageWaitingTime(context.Background(), WaitingTimeQuery{})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected ErrOpenState, got %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner source called %d times, want 2", inner.calls)
	}
}

func TestBreakerWaitingTimeSource_PassesThrough(t *testing.T) {
	inner := &flakyWaitingSource{}
	breaker := NewBreakerWaitingTimeSource(inner, 0, time.Minute)

	got, err := breaker.GetAverageWaitingTime(context.Background(), WaitingTimeQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len(observations) = %d, want 1", len(got))
	}
	if breaker.State() != gobreaker.StateClosed {
		t.Errorf("State() = %s, want closed", breaker.State())
	}
}
