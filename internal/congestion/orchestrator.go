// Package congestion derives per-vessel, per-day port congestion from voyage events.
//
// The pipeline runs JoinEvents, ClassifyAll, Explode and then the three
// reductions (VesselsOverTime, LiveSnapshot, WaitingTimeOverTime). Service wires
// it to the voyage and waiting time sources.
package congestion

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/ngmaloney/port-congestion/internal/logging"
	"github.com/ngmaloney/port-congestion/internal/models"
	"github.com/ngmaloney/port-congestion/internal/vesseldata"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Query selects the congestion to compute
type Query struct {
	CongestionStartDate time.Time `validate:"required"`
	VesselClassID       int       `validate:"gt=0"`
	Ports               []string  `validate:"dive,required"`
	Areas               []string  `validate:"dive,required"`
}

// GeoLookup resolves geo assets that a voyage batch references but does not include
type GeoLookup interface {
	LookupGeos(ctx context.Context, ids []string) ([]models.VoyageGeo, error)
}

// Service computes port congestion reports
type Service struct {
	voyages vesseldata.VoyageSource
	waiting vesseldata.WaitingTimeSource
	geo     GeoLookup
	clock   clockwork.Clock
	opts    Options
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithGeoLookup backfills missing geo assets from lookup
func WithGeoLookup(lookup GeoLookup) ServiceOption {
	return func(s *Service) { s.geo = lookup }
}

// WithClock sets the clock that defines "today"
func WithClock(clock clockwork.Clock) ServiceOption {
	return func(s *Service) { s.clock = clock }
}

// WithOptions overrides the pipeline thresholds
func WithOptions(opts Options) ServiceOption {
	return func(s *Service) { s.opts = opts.withDefaults() }
}

// NewService creates a congestion service
func NewService(voyages vesseldata.VoyageSource, waiting vesseldata.WaitingTimeSource, opts ...ServiceOption) *Service {
	s := &Service{
		voyages: voyages,
		waiting: waiting,
		clock:   clockwork.NewRealClock(),
		opts:    DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPortCongestion fetches voyages and builds the congestion report for q
func (s *Service) GetPortCongestion(ctx context.Context, q Query) (*models.CongestionReport, error) {
	if err := validate.Struct(q); err != nil {
		return nil, fmt.Errorf("invalid congestion query: %w", err)
	}

	now := s.clock.Now().UTC()
	today := startOfDay(now)
	start := startOfDay(q.CongestionStartDate)
	dateFrom := start.AddDate(0, -s.opts.VoyageLookbackMonths, 0)

	// 1. Voyage context, reaching back far enough to catch voyages in progress
	batch, err := s.voyages.GetFlattenedVoyages(ctx, q.VesselClassID, dateFrom)
	if err != nil {
		return nil, fmt.Errorf("fetching voyages: %w", err)
	}
	batch = s.backfillGeos(ctx, batch)

	// 2. Join, classify and explode into per-day records
	joined, err := JoinEvents(batch, Filter{Ports: q.Ports, Areas: q.Areas}, s.opts)
	if err != nil {
		return nil, fmt.Errorf("joining voyage events: %w", err)
	}
	classified := ClassifyAll(joined, now)
	records := Explode(classified, start, today)

	logging.Debug().
		Int("voyages", len(batch.Voyages)).
		Int("events", len(batch.Events)).
		Int("port_calls", len(joined)).
		Int("records", len(records)).
		Msg("congestion records built")

	// 3. Reductions
	report := &models.CongestionReport{
		VesselsOverTime:     VesselsOverTime(records),
		WaitingTimeOverTime: WaitingTimeOverTime(ctx, s.waiting, q.VesselClassID, records, start),
		Live:                LiveSnapshot(records, today),
		Records:             records,
	}
	return report, nil
}

// backfillGeos returns a copy of batch with geo assets it references but lacks
// added from the geo lookup. Lookup failures leave the batch unchanged.
func (s *Service) backfillGeos(ctx context.Context, batch *models.FlattenedVoyages) *models.FlattenedVoyages {
	if s.geo == nil || batch == nil {
		return batch
	}

	have := make(map[string]struct{}, len(batch.Geos))
	for _, g := range batch.Geos {
		have[g.GeoAssetID] = struct{}{}
	}
	var missing []string
	want := func(id string) {
		if id == "" {
			return
		}
		if _, ok := have[id]; ok {
			return
		}
		have[id] = struct{}{}
		missing = append(missing, id)
	}
	for _, ev := range batch.Events {
		want(ev.GeoAssetID)
	}
	for _, d := range batch.Details {
		want(d.GeoAssetID)
	}
	if len(missing) == 0 {
		return batch
	}

	extra, err := s.geo.LookupGeos(ctx, missing)
	if err != nil {
		logging.Warn().Err(err).Int("missing", len(missing)).Msg("geo backfill failed")
		return batch
	}

	out := *batch
	out.Geos = append(append([]models.VoyageGeo(nil), batch.Geos...), extra...)
	return &out
}
