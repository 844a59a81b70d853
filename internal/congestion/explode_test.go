package congestion

import (
	"slices"
	"testing"
	"time"

	"github.com/ngmaloney/port-congestion/internal/models"
)

func TestDays(t *testing.T) {
	tests := []struct {
		name string
		w    models.Window
		want []time.Time
	}{
		{
			name: "spans calendar dates",
			w:    models.Window{Start: ts("2022-01-10T08:00"), End: ts("2022-01-14T16:00")},
			want: []time.Time{day("2022-01-10"), day("2022-01-11"), day("2022-01-12"), day("2022-01-13"), day("2022-01-14")},
		},
		{
			name: "same day",
			w:    models.Window{Start: ts("2022-01-10T08:00"), End: ts("2022-01-10T09:00")},
			want: []time.Time{day("2022-01-10")},
		},
		{
			name: "null window",
			w:    models.Window{Start: ts("2022-01-10T08:00")},
		},
		{
			name: "inverted window",
			w:    models.Window{Start: ts("2022-01-12T08:00"), End: ts("2022-01-10T08:00")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Days(tt.w))
			if !slices.EqualFunc(got, tt.want, time.Time.Equal) {
				t.Errorf("Days() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDays_RestartableAndStoppable(t *testing.T) {
	seq := Days(models.Window{Start: ts("2022-01-10T08:00"), End: ts("2022-01-14T16:00")})

	if first, second := len(slices.Collect(seq)), len(slices.Collect(seq)); first != 5 || second != 5 {
		t.Fatalf("iterations yielded %d and %d days, want 5 each", first, second)
	}

	var n int
	for range seq {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("early break visited %d days, want 2", n)
	}
}

func classifiedHistorical(opStart, opEnd time.Time) []models.ClassifiedPortCall {
	joined, err := JoinEvents(historicalBatch(opStart, opEnd), Filter{}, DefaultOptions())
	if err != nil {
		panic(err)
	}
	return ClassifyAll(joined, ts("2022-01-20T12:00"))
}

func TestExplode_WaitingOnly(t *testing.T) {
	records := Explode(classifiedHistorical(time.Time{}, time.Time{}), day("2022-01-01"), day("2022-01-20"))

	if len(records) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(records))
	}
	for i, r := range records {
		wantDay := day("2022-01-10").AddDate(0, 0, i)
		if !r.DayDate.Equal(wantDay) {
			t.Errorf("record %d day = %v, want %v", i, r.DayDate, wantDay)
		}
		if r.Mode != models.ModeWaiting {
			t.Errorf("record %d mode = %s, want Waiting", i, r.Mode)
		}
		if r.WaitingTimeStart == nil || !r.WaitingTimeStart.Equal(ts("2022-01-10T08:00")) {
			t.Errorf("record %d waiting start = %v", i, r.WaitingTimeStart)
		}
		if r.OperatingTimeStart != nil || r.OperatingTimeEnd != nil {
			t.Errorf("record %d should have no operating window", i)
		}
		if r.PortName != "Qingdao" || r.Country != "China" {
			t.Errorf("record %d location = %s/%s", i, r.PortName, r.Country)
		}
	}
}

func TestExplode_OperatingWinsOverlap(t *testing.T) {
	rows := classifiedHistorical(ts("2022-01-12T06:00"), ts("2022-01-13T10:00"))
	records := Explode(rows, day("2022-01-01"), day("2022-01-20"))

	want := map[string]models.Mode{
		"2022-01-10": models.ModeWaiting,
		"2022-01-11": models.ModeWaiting,
		"2022-01-12": models.ModeOperating,
		"2022-01-13": models.ModeOperating,
	}
	if len(records) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(records))
	}
	for _, r := range records {
		key := r.DayDate.Format("2006-01-02")
		if mode, ok := want[key]; !ok || mode != r.Mode {
			t.Errorf("%s mode = %s, want %s", key, r.Mode, want[key])
		}
	}
}

func TestExplode_OverlappingWindowsPreferOperating(t *testing.T) {
	pc := models.JoinedPortCall{IMO: 9300001, Horizon: models.HorizonHistorical}
	rows := []models.ClassifiedPortCall{
		{
			JoinedPortCall: pc,
			Waiting:        models.Window{Start: ts("2022-01-10T08:00"), End: ts("2022-01-12T08:00")},
		},
		{
			JoinedPortCall: pc,
			Operating:      models.Window{Start: ts("2022-01-12T09:00"), End: ts("2022-01-13T08:00")},
		},
	}

	records := Explode(rows, day("2022-01-01"), day("2022-01-20"))
	if len(records) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(records))
	}
	for _, r := range records {
		if r.DayDate.Equal(day("2022-01-12")) && r.Mode != models.ModeOperating {
			t.Errorf("2022-01-12 mode = %s, want Operating", r.Mode)
		}
	}
}

func TestExplode_RestrictsRange(t *testing.T) {
	rows := classifiedHistorical(time.Time{}, time.Time{})

	records := Explode(rows, day("2022-01-11"), day("2022-01-13"))
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if !records[0].DayDate.Equal(day("2022-01-11")) || !records[2].DayDate.Equal(day("2022-01-13")) {
		t.Errorf("range = %v..%v", records[0].DayDate, records[2].DayDate)
	}
}

func TestExplode_OneRecordPerVesselDay(t *testing.T) {
	w := models.Window{Start: ts("2022-01-10T08:00"), End: ts("2022-01-12T08:00")}
	rows := []models.ClassifiedPortCall{
		{JoinedPortCall: models.JoinedPortCall{IMO: 1, PortName: "Qingdao"}, Waiting: w},
		{JoinedPortCall: models.JoinedPortCall{IMO: 1, PortName: "Qingdao Anchorage"}, Waiting: w},
		{JoinedPortCall: models.JoinedPortCall{IMO: 2, PortName: "Qingdao"}, Waiting: w},
	}

	records := Explode(rows, day("2022-01-01"), day("2022-01-20"))
	if len(records) != 6 {
		t.Fatalf("Expected 6 records, got %d", len(records))
	}

	seen := make(map[vesselDay]bool)
	for _, r := range records {
		key := vesselDay{imo: r.IMO, day: r.DayDate.Unix()}
		if seen[key] {
			t.Errorf("duplicate record for vessel %d on %v", r.IMO, r.DayDate)
		}
		seen[key] = true
		if r.IMO == 1 && r.PortName != "Qingdao" {
			t.Errorf("first row should win, got port %s", r.PortName)
		}
	}
}
