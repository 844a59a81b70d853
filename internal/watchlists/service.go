// Package watchlists saves named congestion filters in SQLite
package watchlists

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ngmaloney/port-congestion/internal/congestion"
	"github.com/ngmaloney/port-congestion/internal/models"
)

// Service validates and stores watchlists
type Service struct {
	repo     *Repository
	validate *validator.Validate
}

// NewService creates a watchlist service on the database at dbPath
func NewService(dbPath string) *Service {
	return &Service{
		repo:     NewRepository(dbPath),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Save normalizes and stores a watchlist, replacing any with the same name
func (s *Service) Save(ctx context.Context, name string, vesselClassID int, ports, areas []string) (*models.Watchlist, error) {
	w := &models.Watchlist{
		Name:          strings.TrimSpace(name),
		VesselClassID: vesselClassID,
		Ports:         cleanNames(ports),
		Areas:         cleanNames(areas),
	}
	if err := s.validate.Struct(w); err != nil {
		return nil, fmt.Errorf("invalid watchlist: %w", err)
	}
	for _, n := range append(append([]string(nil), w.Ports...), w.Areas...) {
		if strings.Contains(n, ",") {
			return nil, fmt.Errorf("invalid watchlist: name %q contains a comma", n)
		}
	}

	if err := s.repo.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Get returns the watchlist with the given name
func (s *Service) Get(ctx context.Context, name string) (*models.Watchlist, error) {
	return s.repo.Get(ctx, strings.TrimSpace(name))
}

func (s *Service) List(ctx context.Context) ([]models.Watchlist, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, name string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(name))
}

// Query builds the congestion query for a watchlist starting at start
func Query(w *models.Watchlist, start time.Time) congestion.Query {
	return congestion.Query{
		CongestionStartDate: start,
		VesselClassID:       w.VesselClassID,
		Ports:               w.Ports,
		Areas:               w.Areas,
	}
}

// cleanNames trims names and drops blanks and duplicates, keeping order
func cleanNames(names []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
