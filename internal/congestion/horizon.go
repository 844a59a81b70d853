package congestion

import (
	"time"

	"github.com/ngmaloney/port-congestion/internal/models"
)

// Classify sets the waiting and operating windows of a port call.
//
// Cases, in priority order:
//  1. merged with a preceding stop: waiting from the stop's arrival to the port call's sailing
//  2. operation start known: waiting until the end of the day before operations
//     began, then operating until the operation end (or sailing)
//  3. historical without operation times: waiting from arrival to the detail's sailing
//  4. current or future: waiting from arrival to sailing
//
// A window that is missing a bound or ends before it starts is left null.
func Classify(pc models.JoinedPortCall, now time.Time) models.ClassifiedPortCall {
	c := models.ClassifiedPortCall{JoinedPortCall: pc}
	now = now.UTC()

	switch {
	case pc.Origin == models.Both:
		c.Waiting = window(pc.StopArrivalDate, pc.SailingDate)

	case !pc.StartTimeOfOperation.IsZero():
		opStart := pc.StartTimeOfOperation
		c.Waiting = window(pc.ArrivalDate, startOfDay(opStart).Add(-time.Minute))

		opEnd := pc.EndTimeOfOperation
		if opEnd.IsZero() {
			opEnd = pc.SailingDate
		}
		if opEnd.IsZero() && pc.Horizon == models.HorizonCurrent {
			opEnd = now
		}
		c.Operating = window(opStart, opEnd)

	case pc.Horizon == models.HorizonHistorical:
		end := pc.DetailSailingDate
		if end.IsZero() {
			end = pc.SailingDate
		}
		c.Waiting = window(pc.ArrivalDate, end)

	default:
		end := pc.SailingDate
		if end.IsZero() && pc.Horizon == models.HorizonCurrent {
			end = now
		}
		c.Waiting = window(pc.ArrivalDate, end)
	}

	return c
}

// ClassifyAll classifies every row against the same reference time
func ClassifyAll(rows []models.JoinedPortCall, now time.Time) []models.ClassifiedPortCall {
	out := make([]models.ClassifiedPortCall, len(rows))
	for i, pc := range rows {
		out[i] = Classify(pc, now)
	}
	return out
}

func window(start, end time.Time) models.Window {
	w := models.Window{Start: start.UTC(), End: end.UTC()}
	if w.IsNull() {
		return models.Window{}
	}
	return w
}

// startOfDay truncates t to midnight UTC
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
