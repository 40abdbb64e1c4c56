// Package analysis reports on traffic conditions over a graph + snapshot
// pair. It reads the same immutable inputs as the routing engines and keeps
// no state of its own.
package analysis

import (
	"math"
	"sort"

	"github.com/transportlab/citypath/pkg"
	da "github.com/transportlab/citypath/pkg/datastructure"
)

type CongestionLevel uint8

const (
	CONGESTION_LOW CongestionLevel = iota
	CONGESTION_MODERATE
	CONGESTION_HIGH
	CONGESTION_SEVERE
)

func (c CongestionLevel) String() string {
	switch c {
	case CONGESTION_LOW:
		return "low"
	case CONGESTION_MODERATE:
		return "moderate"
	case CONGESTION_HIGH:
		return "high"
	case CONGESTION_SEVERE:
		return "severe"
	}
	return "unknown"
}

func (c CongestionLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

const (
	moderateVCThreshold = 0.5
	highVCThreshold     = 0.9
	severeVCThreshold   = 1.2
)

// ClassifyVC maps a volume/capacity ratio onto a congestion level.
func ClassifyVC(vcRatio float64) CongestionLevel {
	switch {
	case vcRatio >= severeVCThreshold:
		return CONGESTION_SEVERE
	case vcRatio >= highVCThreshold:
		return CONGESTION_HIGH
	case vcRatio >= moderateVCThreshold:
		return CONGESTION_MODERATE
	}
	return CONGESTION_LOW
}

type EdgeCongestion struct {
	EdgeId   da.Index        `json:"edge_id"`
	FromID   string          `json:"from"`
	ToID     string          `json:"to"`
	Volume   float64         `json:"volume"`
	Capacity float64         `json:"capacity"`
	VCRatio  float64         `json:"vc_ratio"`
	Level    CongestionLevel `json:"level"`
}

type Analyzer struct {
	graph   *da.RoadGraph
	traffic *da.TrafficSnapshot
}

func NewAnalyzer(graph *da.RoadGraph, traffic *da.TrafficSnapshot) *Analyzer {
	return &Analyzer{graph: graph, traffic: traffic}
}

// CongestionLevels computes the V/C ratio of every existing edge for one
// time-of-day bucket, in edge-id order. A zero-capacity edge with observed
// volume reports infinite congestion.
func (a *Analyzer) CongestionLevels(timeOfDay pkg.TimeOfDay) []EdgeCongestion {
	out := make([]EdgeCongestion, 0, a.graph.NumberOfEdges())
	for e := 0; e < a.graph.NumberOfEdges(); e++ {
		edge := a.graph.GetOutEdge(da.Index(e))
		if edge.IsPotential() {
			continue
		}

		volume := a.traffic.GetFlow(edge.GetEdgeId(), timeOfDay)
		capacity := edge.GetCapacity()

		var vc float64
		switch {
		case capacity > 0:
			vc = volume / capacity
		case volume > 0:
			vc = math.Inf(1)
		}

		out = append(out, EdgeCongestion{
			EdgeId:   edge.GetEdgeId(),
			FromID:   a.graph.GetVertex(edge.GetTail()).GetExternalID(),
			ToID:     a.graph.GetVertex(edge.GetHead()).GetExternalID(),
			Volume:   volume,
			Capacity: capacity,
			VCRatio:  vc,
			Level:    ClassifyVC(vc),
		})
	}
	return out
}

// Bottlenecks returns the edges at or above the V/C threshold, worst first.
// Equal ratios keep edge-id order.
func (a *Analyzer) Bottlenecks(timeOfDay pkg.TimeOfDay, threshold float64) []EdgeCongestion {
	levels := a.CongestionLevels(timeOfDay)

	bottlenecks := make([]EdgeCongestion, 0)
	for _, ec := range levels {
		if ec.VCRatio >= threshold {
			bottlenecks = append(bottlenecks, ec)
		}
	}
	sort.SliceStable(bottlenecks, func(i, j int) bool {
		return bottlenecks[i].VCRatio > bottlenecks[j].VCRatio
	})
	return bottlenecks
}
