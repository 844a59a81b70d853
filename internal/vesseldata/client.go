package vesseldata

import (
	"context"
	"time"

	"github.com/ngmaloney/port-congestion/internal/models"
)

// VoyageSource defines the interface for fetching flattened voyage batches
type VoyageSource interface {
	// GetFlattenedVoyages returns voyages of a vessel class active from the given date
	GetFlattenedVoyages(ctx context.Context, vesselClassID int, from time.Time) (*models.FlattenedVoyages, error)
}

// WaitingTimeSource defines the interface for the average waiting time series
type WaitingTimeSource interface {
	// GetAverageWaitingTime returns per-observation average waits matching the query
	GetAverageWaitingTime(ctx context.Context, q WaitingTimeQuery) ([]WaitingTimeObservation, error)
}

// WaitingTimeQuery filters the waiting time series
type WaitingTimeQuery struct {
	VesselClassID int
	Ports         []string
	Areas         []string
	From          time.Time
}

// WaitingTimeObservation is one point of the waiting time series
type WaitingTimeObservation struct {
	ObservationDate time.Time
	AvgWaitEstimate float64 // days
}
