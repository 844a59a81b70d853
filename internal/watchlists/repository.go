package watchlists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ngmaloney/port-congestion/internal/database"
	"github.com/ngmaloney/port-congestion/internal/models"
	_ "modernc.org/sqlite"
)

// ErrWatchlistNotFound is returned when no watchlist has the requested name
var ErrWatchlistNotFound = errors.New("watchlist not found")

// Repository handles persistence for saved watchlists
type Repository struct {
	dbPath string
}

// NewRepository creates a watchlist repository backed by the database at dbPath
func NewRepository(dbPath string) *Repository {
	return &Repository{dbPath: dbPath}
}

func (r *Repository) open() (*sql.DB, error) {
	// Ensure schema exists (safe to call multiple times)
	if err := database.EnsureUserSchema(r.dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// Save inserts w or replaces the watchlist with the same name
func (r *Repository) Save(ctx context.Context, w *models.Watchlist) error {
	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()

	query := `
		INSERT INTO watchlists (name, vessel_class_id, ports, areas, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			vessel_class_id = excluded.vessel_class_id,
			ports = excluded.ports,
			areas = excluded.areas,
			created_at = excluded.created_at
	`

	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}

	_, err = db.ExecContext(ctx, query,
		w.Name,
		w.VesselClassID,
		joinList(w.Ports),
		joinList(w.Areas),
		w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving watchlist: %w", err)
	}

	// LastInsertId is not reliable after an upsert that updated
	if err := db.QueryRowContext(ctx, "SELECT id FROM watchlists WHERE name = ?", w.Name).Scan(&w.ID); err != nil {
		return fmt.Errorf("reading watchlist id: %w", err)
	}

	return nil
}

// List retrieves all saved watchlists ordered by name
func (r *Repository) List(ctx context.Context) ([]models.Watchlist, error) {
	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT id, name, vessel_class_id, ports, areas, created_at FROM watchlists ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying watchlists: %w", err)
	}
	defer rows.Close()

	var lists []models.Watchlist
	for rows.Next() {
		w, err := scanWatchlist(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *w)
	}

	return lists, rows.Err()
}

// Get retrieves a watchlist by name
func (r *Repository) Get(ctx context.Context, name string) (*models.Watchlist, error) {
	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	row := db.QueryRowContext(ctx, "SELECT id, name, vessel_class_id, ports, areas, created_at FROM watchlists WHERE name = ?", name)
	w, err := scanWatchlist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrWatchlistNotFound, name)
	}
	return w, err
}

// Delete removes a watchlist by name
func (r *Repository) Delete(ctx context.Context, name string) error {
	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, "DELETE FROM watchlists WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting watchlist: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrWatchlistNotFound, name)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWatchlist(s scanner) (*models.Watchlist, error) {
	var w models.Watchlist
	var ports, areas string
	if err := s.Scan(&w.ID, &w.Name, &w.VesselClassID, &ports, &areas, &w.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning watchlist: %w", err)
	}
	w.Ports = splitList(ports)
	w.Areas = splitList(areas)
	return &w, nil
}

// Names are stored comma separated. Port and area names never contain commas.
func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
