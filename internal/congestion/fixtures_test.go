package congestion

import (
	"context"
	"time"

	"github.com/ngmaloney/port-congestion/internal/models"
	"github.com/ngmaloney/port-congestion/internal/vesseldata"
)

// ts parses a UTC timestamp in 2006-01-02T15:04 form
func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

var testGeos = []models.VoyageGeo{
	{GeoAssetID: "G-QD", GeoAssetName: "Qingdao Berth 7", PortName: "Qingdao", Country: "China", AreaLevel0: "North China", Latitude: 36.08, Longitude: 120.31},
	{GeoAssetID: "G-QD-ANCH", GeoAssetName: "Qingdao Anchorage", PortName: "Qingdao Anchorage", Country: "China", AreaLevel0: "North China", Latitude: 35.95, Longitude: 120.45},
	{GeoAssetID: "G-RT", GeoAssetName: "Rotterdam Maasvlakte", PortName: "Rotterdam", Country: "Netherlands", AreaLevel0: "Continent", Latitude: 51.95, Longitude: 4.05},
	{GeoAssetID: "G-NO", GeoAssetName: "New Orleans Midstream", PortName: "New Orleans", Country: "United States", AreaLevel0: "US Gulf", Latitude: 29.95, Longitude: -90.06},
}

// historicalBatch is one vessel with a single historical discharge at Qingdao
func historicalBatch(opStart, opEnd time.Time) *models.FlattenedVoyages {
	return &models.FlattenedVoyages{
		Voyages: []models.Voyage{
			{VoyageID: "V1", IMO: 9300001, VesselName: "Ocean Pearl", SegmentID: 3},
		},
		Events: []models.VoyageEvent{
			{
				EventID:      "E1",
				VoyageID:     "V1",
				Purpose:      models.PurposeDischarge,
				EventHorizon: models.HorizonHistorical,
				ArrivalDate:  ts("2022-01-10T08:00"),
				SailingDate:  ts("2022-01-14T16:00"),
				GeoAssetID:   "G-QD",
			},
		},
		Details: []models.VoyageEventDetail{
			{
				DetailID:             "D1",
				EventID:              "E1",
				GeoAssetID:           "G-QD",
				ArrivalDate:          ts("2022-01-10T08:00"),
				SailingDate:          ts("2022-01-14T16:00"),
				StartTimeOfOperation: opStart,
				EndTimeOfOperation:   opEnd,
			},
		},
		Geos: testGeos,
	}
}

type fakeVoyageSource struct {
	batch *models.FlattenedVoyages
	err   error

	calls         int
	vesselClassID int
	from          time.Time
}

func (f *fakeVoyageSource) GetFlattenedVoyages(ctx context.Context, vesselClassID int, from time.Time) (*models.FlattenedVoyages, error) {
	f.calls++
	f.vesselClassID = vesselClassID
	f.from = from
	if f.err != nil {
		return nil, f.err
	}
	return f.batch, nil
}

type fakeWaitingSource struct {
	observations []vesseldata.WaitingTimeObservation
	err          error

	calls int
	query vesseldata.WaitingTimeQuery
}

func (f *fakeWaitingSource) GetAverageWaitingTime(ctx context.Context, q vesseldata.WaitingTimeQuery) ([]vesseldata.WaitingTimeObservation, error) {
	f.calls++
	f.query = q
	if f.err != nil {
		return nil, f.err
	}
	return f.observations, nil
}
