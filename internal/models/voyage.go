package models

import "time"

// Purpose is why a vessel stopped during a voyage
type Purpose string

const (
	PurposeLoad      Purpose = "Load"
	PurposeDischarge Purpose = "Discharge"
	PurposeStop      Purpose = "Stop"
)

// IsPortCall reports whether the purpose moves cargo at a port
func (p Purpose) IsPortCall() bool {
	return p == PurposeLoad || p == PurposeDischarge
}

// EventHorizon places an event in the past, the present, or the predicted future
type EventHorizon string

const (
	HorizonHistorical EventHorizon = "Historical"
	HorizonCurrent    EventHorizon = "Current"
	HorizonFuture     EventHorizon = "Future"
)

// EventDetailTypeSTS marks a ship-to-ship transfer leg
const EventDetailTypeSTS = "StS"

// Voyage is one voyage of a single vessel.
type Voyage struct {
	VoyageID           string `json:"voyageId"`
	IMO                int    `json:"imo"`
	VesselName         string `json:"vesselName"`
	SegmentID          int    `json:"segmentId"` // Vessel class (e.g. 3 = Panamax)
	VesselClass        string `json:"vesselClass"`
	CommercialOperator string `json:"commercialOperator"`
}

// VoyageEvent is one stop or port call within a voyage.
type VoyageEvent struct {
	EventID         string       `json:"eventId"`
	VoyageID        string       `json:"voyageId"`
	Purpose         Purpose      `json:"purpose"`
	EventHorizon    EventHorizon `json:"eventHorizon"`
	EventDetailType string       `json:"eventDetailType"` // e.g. "Berth", "StS"
	ArrivalDate     time.Time    `json:"arrivalDate"`
	SailingDate     time.Time    `json:"sailingDate"`
	GeoAssetID      string       `json:"geoAssetId"`
	PortID          int          `json:"portId"`
	PortName        string       `json:"portName"`
}

// VoyageEventDetail describes a jetty or ship-to-ship operation within an event.
type VoyageEventDetail struct {
	DetailID             string    `json:"detailId"`
	EventID              string    `json:"eventId"`
	GeoAssetID           string    `json:"geoAssetId"`
	ArrivalDate          time.Time `json:"arrivalDate"`
	SailingDate          time.Time `json:"sailingDate"`
	StartTimeOfOperation time.Time `json:"startTimeOfOperation"`
	EndTimeOfOperation   time.Time `json:"endTimeOfOperation"`
}

// VoyageGeo maps a geo asset to its port, country and areas
type VoyageGeo struct {
	GeoAssetID   string  `json:"geoAssetId"`
	GeoAssetName string  `json:"geoAssetName"`
	PortID       int     `json:"portId"`
	PortName     string  `json:"portName"`
	Country      string  `json:"country"`
	AreaLevel0   string  `json:"areaNameLevel0"`
	AreaLevel1   string  `json:"areaNameLevel1"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// FlattenedVoyages is one batch of voyage data as four flat tables
type FlattenedVoyages struct {
	Voyages []Voyage            `json:"voyages"`
	Events  []VoyageEvent       `json:"events"`
	Details []VoyageEventDetail `json:"eventDetails"`
	Geos    []VoyageGeo         `json:"geos"`
}
