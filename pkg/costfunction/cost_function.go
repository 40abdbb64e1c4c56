// Package costfunction computes congestion- and priority-adjusted edge
// weights. All three search engines share one CostFunction per query so the
// congestion model is never re-derived per algorithm.
package costfunction

import (
	"github.com/transportlab/citypath/pkg"
	"github.com/transportlab/citypath/pkg/datastructure"
)

type CostFunction interface {
	// Weight returns the effective weight of traversing e under ctx.
	// Never negative; pkg.INF_WEIGHT marks an edge excluded from search.
	Weight(e *datastructure.OutEdge, ctx datastructure.RouteContext) float64

	// LowerBoundFromDistance converts a straight-line distance (km) into
	// an admissible lower bound in the same units as Weight, including
	// the priority scaling.
	LowerBoundFromDistance(euclideanKm float64, ctx datastructure.RouteContext) float64
}

// New builds the cost function for a metric over a traffic snapshot.
// traffic may be nil, which means free flow everywhere.
func New(metric pkg.Metric, traffic *datastructure.TrafficSnapshot) CostFunction {
	switch metric {
	case pkg.METRIC_TRAVEL_TIME:
		return NewTravelTimeFunction(traffic)
	case pkg.METRIC_MONETARY:
		return NewMonetaryFunction()
	default:
		return NewDistanceFunction(traffic)
	}
}

// congestionFactor implements the V/C inflation model:
// factor = 1 + flow/capacity, capped at pkg.MAX_CONGESTION_FACTOR.
// A zero-capacity edge is effectively closed and reports +inf so the
// searches exclude it instead of dividing by zero.
func congestionFactor(e *datastructure.OutEdge, ctx datastructure.RouteContext,
	traffic *datastructure.TrafficSnapshot) float64 {
	if e.GetCapacity() <= 0 {
		return pkg.INF_WEIGHT
	}
	if traffic == nil {
		return 1.0
	}
	flow := traffic.GetFlow(e.GetEdgeId(), ctx.GetTimeOfDay())
	factor := 1.0 + flow/e.GetCapacity()
	if factor > pkg.MAX_CONGESTION_FACTOR {
		factor = pkg.MAX_CONGESTION_FACTOR
	}
	return factor
}

// edgeClosed reports whether the edge is out of play for this query before
// any weight math happens: planned roads are invisible unless the context
// opts in, and non-positive base attributes mark degenerate data.
func edgeClosed(e *datastructure.OutEdge, ctx datastructure.RouteContext) bool {
	return e.IsPotential() && !ctx.IncludePotentialRoads()
}

// scaleByPriority divides the weight by the emergency priority factor.
// The division is uniform over all edges, so the relative order of paths
// under the same context is preserved.
func scaleByPriority(w float64, ctx datastructure.RouteContext) float64 {
	if w >= pkg.INF_WEIGHT {
		return pkg.INF_WEIGHT
	}
	p := ctx.GetPriorityFactor()
	if p == 1.0 {
		return w
	}
	return w / p
}
