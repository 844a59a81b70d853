package congestion

import "time"

const (
	defaultStopMergeWindow      = 24 * time.Hour
	defaultVoyageLookbackMonths = 4
)

// Options tunes the pipeline thresholds
type Options struct {
	// StopMergeWindow is the longest gap between a stop's sailing and a future
	// port call's arrival for the two to be treated as one visit.
	StopMergeWindow time.Duration

	// VoyageLookbackMonths is how far before the congestion start date voyages
	// are fetched, so that voyages already in progress are included.
	VoyageLookbackMonths int
}

// DefaultOptions returns the standard thresholds
func DefaultOptions() Options {
	return Options{
		StopMergeWindow:      defaultStopMergeWindow,
		VoyageLookbackMonths: defaultVoyageLookbackMonths,
	}
}

func (o Options) withDefaults() Options {
	if o.StopMergeWindow <= 0 {
		o.StopMergeWindow = defaultStopMergeWindow
	}
	if o.VoyageLookbackMonths < 0 {
		o.VoyageLookbackMonths = defaultVoyageLookbackMonths
	}
	return o
}
