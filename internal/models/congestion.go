package models

import "time"

// MergeOrigin records which sides of the stop merge a port call row came from
type MergeOrigin int

const (
	PortCallOnly MergeOrigin = iota // No preceding stop was merged
	Both                            // Merged with a stop immediately before the port call
)

func (o MergeOrigin) String() string {
	if o == Both {
		return "both"
	}
	return "left_only"
}

// JoinedPortCall is one port call row joined with its voyage, detail and geo data.
// Geo fields are already resolved for the row's MergeOrigin.
type JoinedPortCall struct {
	VoyageID    string
	IMO         int
	VesselName  string
	SegmentID   int
	EventID     string
	DetailID    string
	Purpose     Purpose
	Horizon     EventHorizon
	ArrivalDate time.Time
	SailingDate time.Time

	DetailSailingDate    time.Time
	StartTimeOfOperation time.Time
	EndTimeOfOperation   time.Time

	GeoAssetID   string
	GeoAssetName string
	PortName     string
	Country      string
	AreaLevel0   string
	Latitude     float64
	Longitude    float64

	Origin          MergeOrigin
	StopEventID     string
	StopArrivalDate time.Time
	StopSailingDate time.Time
}

// Window is a time interval a vessel spent waiting or operating
type Window struct {
	Start time.Time
	End   time.Time
}

// IsNull reports whether the window has a missing bound or ends before it starts
func (w Window) IsNull() bool {
	return w.Start.IsZero() || w.End.IsZero() || w.Start.After(w.End)
}

// ClassifiedPortCall is a port call with its waiting and operating windows set
type ClassifiedPortCall struct {
	JoinedPortCall
	Waiting   Window
	Operating Window
}

// Mode is what a vessel was doing at a port on a given day
type Mode string

const (
	ModeWaiting   Mode = "Waiting"
	ModeOperating Mode = "Operating"
)

// VesselCongestionRecord is a single vessel's state on a single calendar day.
type VesselCongestionRecord struct {
	IMO                int        `json:"imo"`
	VesselName         string     `json:"vessel_name"`
	Purpose            Purpose    `json:"purpose"`
	PortName           string     `json:"port_name"`
	Country            string     `json:"country"`
	AreaLevel0         string     `json:"area_name_level0"`
	WaitingTimeStart   *time.Time `json:"waiting_time_start"`
	WaitingTimeEnd     *time.Time `json:"waiting_time_end"`
	OperatingTimeStart *time.Time `json:"operating_time_start"`
	OperatingTimeEnd   *time.Time `json:"operating_time_end"`
	DayDate            time.Time  `json:"day_date"`
	Mode               Mode       `json:"mode"`
	GeoAssetName       string     `json:"geo_asset_name"`
	Latitude           float64    `json:"latitude"`
	Longitude          float64    `json:"longitude"`
	ArrivalDate        time.Time  `json:"arrival_date"`
}

// VesselCount is the number of distinct vessels at port on one day
type VesselCount struct {
	Date    time.Time `json:"date"`
	Vessels int       `json:"vessels"`
}

// WaitingTimePoint is the mean waiting time on one day, in days
type WaitingTimePoint struct {
	Date           time.Time `json:"date"`
	AvgWaitingTime float64   `json:"avg_waiting_time"`
}

// LiveCongestion is a congestion record for today with elapsed days at port.
// DaysAtPort is nil when it cannot be reported.
type LiveCongestion struct {
	VesselCongestionRecord
	DaysAtPort *float64 `json:"days_at_port"`
}

// CongestionReport holds the three reporting views and the per-day records behind them
type CongestionReport struct {
	VesselsOverTime     []VesselCount            `json:"vessels_over_time"`
	WaitingTimeOverTime []WaitingTimePoint       `json:"waiting_time_over_time"`
	Live                []LiveCongestion         `json:"live"`
	Records             []VesselCongestionRecord `json:"records"`
}
