package geoassets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/ngmaloney/port-congestion/internal/logging"
	"github.com/ngmaloney/port-congestion/internal/models"
)

// Shapefile attribute columns read by ProvisionFromShapefile. Only ID is required.
const (
	fieldID      = "ID"
	fieldName    = "NAME"
	fieldPortID  = "PORT_ID"
	fieldPort    = "PORT"
	fieldCountry = "COUNTRY"
	fieldArea0   = "AREA0"
	fieldArea1   = "AREA1"
)

// ProvisionFromShapefile loads geo assets from a shapefile into the store and
// returns how many were loaded. Point shapes use their coordinates, other
// shapes the center of their bounding box.
func ProvisionFromShapefile(ctx context.Context, store *Store, shapefilePath string) (int, error) {
	shape, err := shp.Open(shapefilePath)
	if err != nil {
		return 0, fmt.Errorf("opening shapefile: %w", err)
	}
	defer shape.Close()

	columns := make(map[string]int)
	for i, f := range shape.Fields() {
		columns[strings.ToUpper(f.String())] = i
	}
	if _, ok := columns[fieldID]; !ok {
		return 0, fmt.Errorf("shapefile %s has no %s attribute", shapefilePath, fieldID)
	}

	attr := func(n int, name string) string {
		idx, ok := columns[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(shape.ReadAttribute(n, idx))
	}

	var geos []models.VoyageGeo
	for shape.Next() {
		n, p := shape.Shape()

		id := attr(n, fieldID)
		if id == "" {
			logging.Warn().Int("record", n).Msg("skipping geo asset without ID")
			continue
		}

		g := models.VoyageGeo{
			GeoAssetID:   id,
			GeoAssetName: attr(n, fieldName),
			PortName:     attr(n, fieldPort),
			Country:      attr(n, fieldCountry),
			AreaLevel0:   attr(n, fieldArea0),
			AreaLevel1:   attr(n, fieldArea1),
		}
		if portID := attr(n, fieldPortID); portID != "" {
			g.PortID, _ = strconv.Atoi(portID)
		}

		switch pt := p.(type) {
		case *shp.Point:
			g.Longitude, g.Latitude = pt.X, pt.Y
		default:
			bbox := p.BBox()
			g.Longitude = (bbox.MinX + bbox.MaxX) / 2
			g.Latitude = (bbox.MinY + bbox.MaxY) / 2
		}

		geos = append(geos, g)
		if len(geos)%1000 == 0 {
			logging.Debug().Int("read", len(geos)).Msg("reading geo assets")
		}
	}
	if err := shape.Err(); err != nil {
		return 0, fmt.Errorf("reading shapefile: %w", err)
	}

	if err := store.Upsert(ctx, geos); err != nil {
		return 0, err
	}

	logging.Info().Int("geo_assets", len(geos)).Str("shapefile", shapefilePath).Msg("provisioned geo assets")
	return len(geos), nil
}
