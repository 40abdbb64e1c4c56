package datastructure

import (
	"github.com/transportlab/citypath/pkg"
)

// TrafficSnapshot holds observed flow volume (vehicles/hour) per edge per
// time-of-day bucket. Edges without an observation report zero flow, which
// yields the free-flow weight. The snapshot is built once alongside the
// graph and never mutated by queries.
type TrafficSnapshot struct {
	flows [][pkg.NUM_TIME_OF_DAY]float64
}

func NewTrafficSnapshot(numEdges int) *TrafficSnapshot {
	return &TrafficSnapshot{
		flows: make([][pkg.NUM_TIME_OF_DAY]float64, numEdges),
	}
}

func (ts *TrafficSnapshot) SetFlow(edgeId Index, timeOfDay pkg.TimeOfDay, flow float64) {
	if flow < 0 {
		flow = 0
	}
	ts.flows[edgeId][timeOfDay] = flow
}

func (ts *TrafficSnapshot) GetFlow(edgeId Index, timeOfDay pkg.TimeOfDay) float64 {
	if int(edgeId) >= len(ts.flows) {
		return 0
	}
	return ts.flows[edgeId][timeOfDay]
}

func (ts *TrafficSnapshot) NumberOfEdges() int {
	return len(ts.flows)
}
