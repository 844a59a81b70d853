// Package geoassets stores geo asset reference data in SQLite
package geoassets

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ngmaloney/port-congestion/internal/models"
	_ "modernc.org/sqlite"
)

// Store looks up geo assets by ID
type Store struct {
	db *sql.DB
}

// NewStore creates a store on db, creating the geo_assets table if needed
func NewStore(db *sql.DB) (*Store, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS geo_assets (
			geo_asset_id TEXT PRIMARY KEY,
			geo_asset_name TEXT NOT NULL DEFAULT '',
			port_id INTEGER NOT NULL DEFAULT 0,
			port_name TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			area_level0 TEXT NOT NULL DEFAULT '',
			area_level1 TEXT NOT NULL DEFAULT '',
			latitude REAL NOT NULL,
			longitude REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_geo_assets_port ON geo_assets(port_name);
		CREATE INDEX IF NOT EXISTS idx_geo_assets_area ON geo_assets(area_level0);
	`)
	if err != nil {
		return nil, fmt.Errorf("creating geo_assets table: %w", err)
	}
	return &Store{db: db}, nil
}

// Count returns the number of stored geo assets
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM geo_assets").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting geo assets: %w", err)
	}
	return n, nil
}

// Upsert inserts or replaces geos in a single transaction
func (s *Store) Upsert(ctx context.Context, geos []models.VoyageGeo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO geo_assets (
			geo_asset_id, geo_asset_name, port_id, port_name,
			country, area_level0, area_level1, latitude, longitude
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range geos {
		_, err := stmt.ExecContext(ctx,
			g.GeoAssetID, g.GeoAssetName, g.PortID, g.PortName,
			g.Country, g.AreaLevel0, g.AreaLevel1, g.Latitude, g.Longitude)
		if err != nil {
			return fmt.Errorf("inserting geo asset %s: %w", g.GeoAssetID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing geo assets: %w", err)
	}
	return nil
}

// LookupGeos returns the stored geo assets among ids. Unknown IDs are skipped.
func (s *Store) LookupGeos(ctx context.Context, ids []string) ([]models.VoyageGeo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT geo_asset_id, geo_asset_name, port_id, port_name,
		       country, area_level0, area_level1, latitude, longitude
		FROM geo_assets
		WHERE geo_asset_id IN (`+placeholders+`)
		ORDER BY geo_asset_id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying geo assets: %w", err)
	}
	defer rows.Close()

	var geos []models.VoyageGeo
	for rows.Next() {
		var g models.VoyageGeo
		if err := rows.Scan(&g.GeoAssetID, &g.GeoAssetName, &g.PortID, &g.PortName,
			&g.Country, &g.AreaLevel0, &g.AreaLevel1, &g.Latitude, &g.Longitude); err != nil {
			return nil, fmt.Errorf("scanning geo asset: %w", err)
		}
		geos = append(geos, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating geo assets: %w", err)
	}
	return geos, nil
}
