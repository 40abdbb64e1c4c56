package pkg

import "fmt"

const (
	INF_WEIGHT float64 = 1e15

	// congestion factor is capped so a single oversaturated link never
	// dominates the whole query with an unbounded weight
	MAX_CONGESTION_FACTOR = 5.0

	// free-flow speed assumed when converting distance to travel time (km/h)
	DEFAULT_FREE_FLOW_SPEED_KMH = 60.0

	EPSILON = 1e-9
)

// TimeOfDay is the closed set of traffic observation buckets. Every traffic
// observation fixes exactly one of these; anything else is a configuration
// error surfaced by ParseTimeOfDay, never inferred.
type TimeOfDay uint8

const (
	MORNING_PEAK TimeOfDay = iota
	AFTERNOON
	EVENING_PEAK
	NIGHT

	NUM_TIME_OF_DAY = 4
)

func (t TimeOfDay) String() string {
	switch t {
	case MORNING_PEAK:
		return "morning_peak"
	case AFTERNOON:
		return "afternoon"
	case EVENING_PEAK:
		return "evening_peak"
	case NIGHT:
		return "night"
	}
	return "unknown"
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch s {
	case "morning_peak":
		return MORNING_PEAK, nil
	case "afternoon":
		return AFTERNOON, nil
	case "evening_peak":
		return EVENING_PEAK, nil
	case "night":
		return NIGHT, nil
	}
	return 0, fmt.Errorf("unknown time of day %q", s)
}

// Metric selects which base edge attribute drives the search cost.
type Metric uint8

const (
	METRIC_DISTANCE Metric = iota
	METRIC_TRAVEL_TIME
	METRIC_MONETARY
)

func (m Metric) String() string {
	switch m {
	case METRIC_DISTANCE:
		return "distance"
	case METRIC_TRAVEL_TIME:
		return "travel_time"
	case METRIC_MONETARY:
		return "monetary"
	}
	return "unknown"
}

func ParseMetric(s string) (Metric, error) {
	switch s {
	case "distance", "":
		return METRIC_DISTANCE, nil
	case "travel_time":
		return METRIC_TRAVEL_TIME, nil
	case "monetary":
		return METRIC_MONETARY, nil
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

// RoadStatus distinguishes built road segments from planned ones that exist
// in the dataset but carry no traffic yet.
type RoadStatus uint8

const (
	ROAD_EXISTING RoadStatus = iota
	ROAD_POTENTIAL
)

func GetRoadStatus(s string) RoadStatus {
	if s == "potential" {
		return ROAD_POTENTIAL
	}
	return ROAD_EXISTING
}

const (
	DEBUG = false
)
