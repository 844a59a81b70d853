package vesseldata

import (
	"context"
	"time"

	"github.com/ngmaloney/port-congestion/internal/logging"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerWaitingTimeSource stops calling a failing waiting time source for a
// cool-down period. Rejected calls fail fast with gobreaker.ErrOpenState.
type BreakerWaitingTimeSource struct {
	source WaitingTimeSource
	cb     *gobreaker.CircuitBreaker[[]WaitingTimeObservation]
}

// NewBreakerWaitingTimeSource wraps source. The circuit opens after maxFailures
// consecutive failures and half-opens again after timeout.
func NewBreakerWaitingTimeSource(source WaitingTimeSource, maxFailures uint32, timeout time.Duration) *BreakerWaitingTimeSource {
	if maxFailures == 0 {
		maxFailures = 3
	}
	cb := gobreaker.NewCircuitBreaker[[]WaitingTimeObservation](gobreaker.Settings{
		Name:        "waiting-time-api",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return &BreakerWaitingTimeSource{source: source, cb: cb}
}

// GetAverageWaitingTime calls the wrapped source through the breaker
func (b *BreakerWaitingTimeSource) GetAverageWaitingTime(ctx context.Context, q WaitingTimeQuery) ([]WaitingTimeObservation, error) {
	return b.cb.Execute(func() ([]WaitingTimeObservation, error) {
		return b.source.GetAverageWaitingTime(ctx, q)
	})
}

// State reports the current breaker state
func (b *BreakerWaitingTimeSource) State() gobreaker.State {
	return b.cb.State()
}
