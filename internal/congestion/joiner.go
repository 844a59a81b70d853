package congestion

import (
	"fmt"
	"sort"
	"time"

	"github.com/ngmaloney/port-congestion/internal/models"
)

// SchemaError reports a raw record that is missing a field the join depends on
type SchemaError struct {
	Table string
	Index int
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("malformed %s record at index %d: missing %s", e.Table, e.Index, e.Field)
}

// Filter restricts port calls to named ports or level-0 areas.
// A row matching either list is kept. Empty lists keep everything.
type Filter struct {
	Ports []string
	Areas []string
}

func (f Filter) matches(pc models.JoinedPortCall) bool {
	if len(f.Ports) == 0 && len(f.Areas) == 0 {
		return true
	}
	for _, p := range f.Ports {
		if pc.PortName == p {
			return true
		}
	}
	for _, a := range f.Areas {
		if pc.AreaLevel0 == a {
			return true
		}
	}
	return false
}

type callKey struct {
	voyageID string
	eventID  string
}

// JoinEvents joins the four voyage tables into port call rows, merging each
// future port call with the stop that immediately precedes it.
func JoinEvents(batch *models.FlattenedVoyages, filter Filter, opts Options) ([]models.JoinedPortCall, error) {
	if err := validateBatch(batch); err != nil {
		return nil, err
	}

	rows := joinTables(batch)

	var portCalls []models.JoinedPortCall
	for _, row := range rows {
		if !row.Purpose.IsPortCall() || row.eventDetailType == models.EventDetailTypeSTS {
			continue
		}
		if !filter.matches(row.JoinedPortCall) {
			continue
		}
		portCalls = append(portCalls, row.JoinedPortCall)
	}

	stops := precedingStops(rows, opts.StopMergeWindow)

	// Outer join on (voyage, event). Stop-only rows have no port call and are dropped.
	result := make([]models.JoinedPortCall, 0, len(portCalls))
	for _, pc := range portCalls {
		stop, ok := stops[callKey{pc.VoyageID, pc.EventID}]
		if !ok {
			result = append(result, resolveFields(pc, nil))
			continue
		}
		result = append(result, resolveFields(pc, &stop))
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.VoyageID != b.VoyageID {
			return a.VoyageID < b.VoyageID
		}
		if !a.ArrivalDate.Equal(b.ArrivalDate) {
			return a.ArrivalDate.Before(b.ArrivalDate)
		}
		if a.EventID != b.EventID {
			return a.EventID < b.EventID
		}
		return a.DetailID < b.DetailID
	})

	return result, nil
}

// resolveFields picks the geo, purpose and arrival fields for the row's merge
// origin. Merged rows take them from the stop side.
func resolveFields(pc models.JoinedPortCall, stop *models.JoinedPortCall) models.JoinedPortCall {
	pc.Origin = models.PortCallOnly
	if stop != nil {
		pc.Origin = models.Both
	}

	switch pc.Origin {
	case models.Both:
		pc.GeoAssetID = stop.GeoAssetID
		pc.GeoAssetName = stop.GeoAssetName
		pc.Purpose = stop.Purpose
		pc.Latitude = stop.Latitude
		pc.Longitude = stop.Longitude
		pc.PortName = stop.PortName
		pc.ArrivalDate = stop.ArrivalDate
		pc.StopEventID = stop.EventID
		pc.StopArrivalDate = stop.ArrivalDate
		pc.StopSailingDate = stop.SailingDate
	case models.PortCallOnly:
		// already carries port call side values
	}
	return pc
}

// precedingStops finds, per future port call, the latest stop on the same voyage
// that sailed no more than window before the port call's arrival.
func precedingStops(rows []joinedRow, window time.Duration) map[callKey]models.JoinedPortCall {
	stopsByVoyage := make(map[string][]models.JoinedPortCall)
	for _, row := range rows {
		if row.Purpose == models.PurposeStop {
			stopsByVoyage[row.VoyageID] = append(stopsByVoyage[row.VoyageID], row.JoinedPortCall)
		}
	}

	merged := make(map[callKey]models.JoinedPortCall)
	for _, row := range rows {
		if !row.Purpose.IsPortCall() || row.Horizon != models.HorizonFuture {
			continue
		}
		key := callKey{row.VoyageID, row.EventID}
		if _, done := merged[key]; done {
			continue
		}

		var best *models.JoinedPortCall
		for i := range stopsByVoyage[row.VoyageID] {
			stop := &stopsByVoyage[row.VoyageID][i]
			if stop.SailingDate.IsZero() || row.ArrivalDate.IsZero() {
				continue
			}
			gap := row.ArrivalDate.Sub(stop.SailingDate)
			if gap < 0 || gap > window {
				continue
			}
			if best == nil || stop.SailingDate.After(best.SailingDate) {
				best = stop
			}
		}
		if best != nil {
			merged[key] = *best
		}
	}
	return merged
}

// joinedRow is a joined row before the port call filter drops the detail type
type joinedRow struct {
	models.JoinedPortCall
	eventDetailType string
}

// joinTables left-joins voyage -> event -> detail -> geo
func joinTables(batch *models.FlattenedVoyages) []joinedRow {
	eventsByVoyage := make(map[string][]models.VoyageEvent)
	for _, ev := range batch.Events {
		eventsByVoyage[ev.VoyageID] = append(eventsByVoyage[ev.VoyageID], ev)
	}
	detailsByEvent := make(map[string][]models.VoyageEventDetail)
	for _, d := range batch.Details {
		detailsByEvent[d.EventID] = append(detailsByEvent[d.EventID], d)
	}
	geos := make(map[string]models.VoyageGeo, len(batch.Geos))
	for _, g := range batch.Geos {
		geos[g.GeoAssetID] = g
	}

	var rows []joinedRow
	for _, v := range batch.Voyages {
		for _, ev := range eventsByVoyage[v.VoyageID] {
			details := detailsByEvent[ev.EventID]
			if len(details) == 0 {
				rows = append(rows, buildRow(v, ev, nil, geos))
				continue
			}
			for i := range details {
				rows = append(rows, buildRow(v, ev, &details[i], geos))
			}
		}
	}
	return rows
}

func buildRow(v models.Voyage, ev models.VoyageEvent, d *models.VoyageEventDetail, geos map[string]models.VoyageGeo) joinedRow {
	pc := models.JoinedPortCall{
		VoyageID:    v.VoyageID,
		IMO:         v.IMO,
		VesselName:  v.VesselName,
		SegmentID:   v.SegmentID,
		EventID:     ev.EventID,
		Purpose:     ev.Purpose,
		Horizon:     ev.EventHorizon,
		ArrivalDate: ev.ArrivalDate.UTC(),
		SailingDate: ev.SailingDate.UTC(),
		GeoAssetID:  ev.GeoAssetID,
		PortName:    ev.PortName,
	}

	if d != nil {
		pc.DetailID = d.DetailID
		pc.DetailSailingDate = d.SailingDate.UTC()
		pc.StartTimeOfOperation = d.StartTimeOfOperation.UTC()
		pc.EndTimeOfOperation = d.EndTimeOfOperation.UTC()
		if d.GeoAssetID != "" {
			pc.GeoAssetID = d.GeoAssetID
		}
	}

	if g, ok := geos[pc.GeoAssetID]; ok {
		pc.GeoAssetName = g.GeoAssetName
		pc.Country = g.Country
		pc.AreaLevel0 = g.AreaLevel0
		pc.Latitude = g.Latitude
		pc.Longitude = g.Longitude
		if g.PortName != "" {
			pc.PortName = g.PortName
		}
	}

	return joinedRow{JoinedPortCall: pc, eventDetailType: ev.EventDetailType}
}

func validateBatch(batch *models.FlattenedVoyages) error {
	if batch == nil {
		return fmt.Errorf("voyage batch is nil")
	}
	for i, v := range batch.Voyages {
		if v.VoyageID == "" {
			return &SchemaError{Table: "voyage", Index: i, Field: "voyage_id"}
		}
	}
	for i, ev := range batch.Events {
		switch {
		case ev.EventID == "":
			return &SchemaError{Table: "event", Index: i, Field: "event_id"}
		case ev.VoyageID == "":
			return &SchemaError{Table: "event", Index: i, Field: "voyage_id"}
		case ev.Purpose == "":
			return &SchemaError{Table: "event", Index: i, Field: "purpose"}
		}
	}
	for i, d := range batch.Details {
		switch {
		case d.DetailID == "":
			return &SchemaError{Table: "event_detail", Index: i, Field: "detail_id"}
		case d.EventID == "":
			return &SchemaError{Table: "event_detail", Index: i, Field: "event_id"}
		}
	}
	for i, g := range batch.Geos {
		if g.GeoAssetID == "" {
			return &SchemaError{Table: "geo", Index: i, Field: "geo_asset_id"}
		}
	}
	return nil
}
