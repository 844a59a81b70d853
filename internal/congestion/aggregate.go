package congestion

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/ngmaloney/port-congestion/internal/logging"
	"github.com/ngmaloney/port-congestion/internal/models"
	"github.com/ngmaloney/port-congestion/internal/vesseldata"
)

const secondsPerDay = 86400

// VesselsOverTime counts distinct vessels per day, ordered by date
func VesselsOverTime(records []models.VesselCongestionRecord) []models.VesselCount {
	byDay := make(map[int64]map[int]struct{})
	for _, r := range records {
		key := r.DayDate.Unix()
		if byDay[key] == nil {
			byDay[key] = make(map[int]struct{})
		}
		byDay[key][r.IMO] = struct{}{}
	}

	counts := make([]models.VesselCount, 0, len(byDay))
	for day, imos := range byDay {
		counts = append(counts, models.VesselCount{
			Date:    time.Unix(day, 0).UTC(),
			Vessels: len(imos),
		})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Date.Before(counts[j].Date)
	})
	return counts
}

// LiveSnapshot returns today's records with fractional days elapsed since arrival.
// Negative values come from arrival dates after the day itself and are left nil.
func LiveSnapshot(records []models.VesselCongestionRecord, today time.Time) []models.LiveCongestion {
	today = startOfDay(today)

	var live []models.LiveCongestion
	for _, r := range records {
		if !r.DayDate.Equal(today) {
			continue
		}
		entry := models.LiveCongestion{VesselCongestionRecord: r}
		if !r.ArrivalDate.IsZero() {
			days := r.DayDate.Sub(r.ArrivalDate).Seconds() / secondsPerDay
			if days >= 0 {
				entry.DaysAtPort = &days
			}
		}
		live = append(live, entry)
	}
	return live
}

// WaitingTimeOverTime fetches the average waiting time for the ports and areas
// that currently have waiting vessels. A failed fetch is reported as a single
// zero row dated from.
func WaitingTimeOverTime(ctx context.Context, src vesseldata.WaitingTimeSource, vesselClassID int, records []models.VesselCongestionRecord, from time.Time) []models.WaitingTimePoint {
	from = startOfDay(from)
	fallback := []models.WaitingTimePoint{{Date: from, AvgWaitingTime: 0.0}}

	ports, areas := waitingLocations(records)
	if src == nil || (len(ports) == 0 && len(areas) == 0) {
		return fallback
	}

	observations, err := src.GetAverageWaitingTime(ctx, vesseldata.WaitingTimeQuery{
		VesselClassID: vesselClassID,
		Ports:         ports,
		Areas:         areas,
		From:          from,
	})
	if err != nil {
		logging.Warn().Err(err).Int("vessel_class", vesselClassID).Msg("waiting time unavailable, using zero series")
		return fallback
	}

	type acc struct {
		sum float64
		n   int
	}
	byDay := make(map[int64]*acc)
	for _, o := range observations {
		key := startOfDay(o.ObservationDate).Unix()
		if byDay[key] == nil {
			byDay[key] = &acc{}
		}
		byDay[key].sum += o.AvgWaitEstimate
		byDay[key].n++
	}

	points := make([]models.WaitingTimePoint, 0, len(byDay))
	for day, a := range byDay {
		points = append(points, models.WaitingTimePoint{
			Date:           time.Unix(day, 0).UTC(),
			AvgWaitingTime: roundTo1(a.sum / float64(a.n)),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// waitingLocations returns the sorted distinct port and area names of waiting records
func waitingLocations(records []models.VesselCongestionRecord) (ports, areas []string) {
	portSet := make(map[string]struct{})
	areaSet := make(map[string]struct{})
	for _, r := range records {
		if r.Mode != models.ModeWaiting {
			continue
		}
		if r.PortName != "" {
			portSet[r.PortName] = struct{}{}
		}
		if r.AreaLevel0 != "" {
			areaSet[r.AreaLevel0] = struct{}{}
		}
	}
	for p := range portSet {
		ports = append(ports, p)
	}
	for a := range areaSet {
		areas = append(areas, a)
	}
	sort.Strings(ports)
	sort.Strings(areas)
	return ports, areas
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
