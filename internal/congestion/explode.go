package congestion

import (
	"iter"
	"time"

	"github.com/ngmaloney/port-congestion/internal/models"
)

// Days yields every UTC calendar date touched by w, first to last inclusive.
// A null window yields nothing.
func Days(w models.Window) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if w.IsNull() {
			return
		}
		last := startOfDay(w.End)
		for d := startOfDay(w.Start); !d.After(last); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

type vesselDay struct {
	imo int
	day int64
}

// Explode expands classified port calls into one record per vessel per day
// within [from, today]. Operating days are emitted before waiting days and the
// first record for a (vessel, day) wins, so a day with both is Operating.
func Explode(rows []models.ClassifiedPortCall, from, today time.Time) []models.VesselCongestionRecord {
	from = startOfDay(from)
	today = startOfDay(today)

	var records []models.VesselCongestionRecord
	seen := make(map[vesselDay]struct{})

	emit := func(pc models.ClassifiedPortCall, mode models.Mode, w models.Window) {
		for day := range Days(w) {
			key := vesselDay{imo: pc.IMO, day: day.Unix()}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if day.Before(from) || day.After(today) {
				continue
			}
			records = append(records, newRecord(pc, mode, day))
		}
	}

	for _, pc := range rows {
		emit(pc, models.ModeOperating, pc.Operating)
	}
	for _, pc := range rows {
		emit(pc, models.ModeWaiting, pc.Waiting)
	}

	return records
}

func newRecord(pc models.ClassifiedPortCall, mode models.Mode, day time.Time) models.VesselCongestionRecord {
	r := models.VesselCongestionRecord{
		IMO:          pc.IMO,
		VesselName:   pc.VesselName,
		Purpose:      pc.Purpose,
		PortName:     pc.PortName,
		Country:      pc.Country,
		AreaLevel0:   pc.AreaLevel0,
		DayDate:      day,
		Mode:         mode,
		GeoAssetName: pc.GeoAssetName,
		Latitude:     pc.Latitude,
		Longitude:    pc.Longitude,
		ArrivalDate:  pc.ArrivalDate,
	}
	r.WaitingTimeStart, r.WaitingTimeEnd = bounds(pc.Waiting)
	r.OperatingTimeStart, r.OperatingTimeEnd = bounds(pc.Operating)
	return r
}

func bounds(w models.Window) (*time.Time, *time.Time) {
	if w.IsNull() {
		return nil, nil
	}
	start, end := w.Start, w.End
	return &start, &end
}
