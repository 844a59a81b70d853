package congestion

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ngmaloney/port-congestion/internal/models"
	"github.com/ngmaloney/port-congestion/internal/vesseldata"
)

func TestVesselsOverTime(t *testing.T) {
	records := []models.VesselCongestionRecord{
		{IMO: 1, DayDate: day("2022-01-11"), Mode: models.ModeWaiting},
		{IMO: 2, DayDate: day("2022-01-11"), Mode: models.ModeOperating},
		{IMO: 1, DayDate: day("2022-01-10"), Mode: models.ModeWaiting},
		{IMO: 3, DayDate: day("2022-01-11"), Mode: models.ModeWaiting},
	}

	got := VesselsOverTime(records)
	want := []models.VesselCount{
		{Date: day("2022-01-10"), Vessels: 1},
		{Date: day("2022-01-11"), Vessels: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("VesselsOverTime() mismatch (-want +got):\n%s", diff)
	}
}

func TestVesselsOverTime_Empty(t *testing.T) {
	if got := VesselsOverTime(nil); len(got) != 0 {
		t.Errorf("Expected no counts, got %v", got)
	}
}

func TestLiveSnapshot(t *testing.T) {
	records := []models.VesselCongestionRecord{
		{IMO: 1, DayDate: day("2022-01-14"), ArrivalDate: ts("2022-01-10T12:00")},
		{IMO: 2, DayDate: day("2022-01-14"), ArrivalDate: ts("2022-01-14T06:00")},
		{IMO: 3, DayDate: day("2022-01-13"), ArrivalDate: ts("2022-01-10T12:00")},
		{IMO: 4, DayDate: day("2022-01-14")},
	}

	live := LiveSnapshot(records, ts("2022-01-14T18:30"))
	if len(live) != 3 {
		t.Fatalf("Expected 3 live rows, got %d", len(live))
	}

	byIMO := make(map[int]models.LiveCongestion)
	for _, l := range live {
		byIMO[l.IMO] = l
	}
	if _, ok := byIMO[3]; ok {
		t.Error("records for other days should be excluded")
	}
	if d := byIMO[1].DaysAtPort; d == nil || *d != 3.5 {
		t.Errorf("vessel 1 days at port = %v, want 3.5", d)
	}
	if d := byIMO[2].DaysAtPort; d != nil {
		t.Errorf("arrival after day start should give nil, got %v", *d)
	}
	if d := byIMO[4].DaysAtPort; d != nil {
		t.Errorf("missing arrival should give nil, got %v", *d)
	}
}

func TestWaitingTimeOverTime(t *testing.T) {
	src := &fakeWaitingSource{
		observations: []vesseldata.WaitingTimeObservation{
			{ObservationDate: day("2022-01-10"), AvgWaitEstimate: 2.0},
			{ObservationDate: day("2022-01-10"), AvgWaitEstimate: 3.0},
			{ObservationDate: day("2022-01-11"), AvgWaitEstimate: 1.26},
		},
	}
	records := []models.VesselCongestionRecord{
		{IMO: 1, Mode: models.ModeWaiting, PortName: "Rotterdam", AreaLevel0: "Continent"},
		{IMO: 2, Mode: models.ModeWaiting, PortName: "Qingdao", AreaLevel0: "North China"},
		{IMO: 2, Mode: models.ModeWaiting, PortName: "Qingdao", AreaLevel0: "North China"},
		{IMO: 3, Mode: models.ModeOperating, PortName: "New Orleans", AreaLevel0: "US Gulf"},
	}

	got := WaitingTimeOverTime(context.Background(), src, 3, records, ts("2022-01-10T15:00"))
	want := []models.WaitingTimePoint{
		{Date: day("2022-01-10"), AvgWaitingTime: 2.5},
		{Date: day("2022-01-11"), AvgWaitingTime: 1.3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WaitingTimeOverTime() mismatch (-want +got):\n%s", diff)
	}

	wantQuery := vesseldata.WaitingTimeQuery{
		VesselClassID: 3,
		Ports:         []string{"Qingdao", "Rotterdam"},
		Areas:         []string{"Continent", "North China"},
		From:          day("2022-01-10"),
	}
	if diff := cmp.Diff(wantQuery, src.query); diff != "" {
		t.Errorf("waiting time query mismatch (-want +got):\n%s", diff)
	}
}

func TestWaitingTimeOverTime_Fallback(t *testing.T) {
	waiting := []models.VesselCongestionRecord{
		{IMO: 1, Mode: models.ModeWaiting, PortName: "Qingdao", AreaLevel0: "North China"},
	}
	operating := []models.VesselCongestionRecord{
		{IMO: 1, Mode: models.ModeOperating, PortName: "Qingdao", AreaLevel0: "North China"},
	}

	tests := []struct {
		name      string
		src       *fakeWaitingSource
		records   []models.VesselCongestionRecord
		wantCalls int
	}{
		{
			name:      "source error",
			src:       &fakeWaitingSource{err: errors.New("upstream unavailable")},
			records:   waiting,
			wantCalls: 1,
		},
		{
			name:      "no waiting records",
			src:       &fakeWaitingSource{},
			records:   operating,
			wantCalls: 0,
		},
		{
			name:      "no records",
			src:       &fakeWaitingSource{},
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WaitingTimeOverTime(context.Background(), tt.src, 3, tt.records, day("2022-01-10"))
			want := []models.WaitingTimePoint{{Date: day("2022-01-10"), AvgWaitingTime: 0}}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("fallback mismatch (-want +got):\n%s", diff)
			}
			if tt.src.calls != tt.wantCalls {
				t.Errorf("source called %d times, want %d", tt.src.calls, tt.wantCalls)
			}
		})
	}
}

func TestWaitingTimeOverTime_NilSource(t *testing.T) {
	records := []models.VesselCongestionRecord{
		{IMO: 1, Mode: models.ModeWaiting, PortName: "Qingdao"},
	}
	got := WaitingTimeOverTime(context.Background(), nil, 3, records, day("2022-01-10"))
	if len(got) != 1 || got[0].AvgWaitingTime != 0 {
		t.Errorf("Expected single zero row, got %v", got)
	}
}
