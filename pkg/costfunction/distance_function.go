package costfunction

import (
	"github.com/transportlab/citypath/pkg"
	"github.com/transportlab/citypath/pkg/datastructure"
)

// DistanceFunction weighs edges by congestion-inflated distance (km).
type DistanceFunction struct {
	traffic *datastructure.TrafficSnapshot
}

func NewDistanceFunction(traffic *datastructure.TrafficSnapshot) *DistanceFunction {
	return &DistanceFunction{traffic: traffic}
}

func (df *DistanceFunction) Weight(e *datastructure.OutEdge, ctx datastructure.RouteContext) float64 {
	if edgeClosed(e, ctx) {
		return pkg.INF_WEIGHT
	}
	factor := congestionFactor(e, ctx, df.traffic)
	if factor >= pkg.INF_WEIGHT {
		return pkg.INF_WEIGHT
	}
	return scaleByPriority(e.GetDistance()*factor, ctx)
}

func (df *DistanceFunction) LowerBoundFromDistance(euclideanKm float64, ctx datastructure.RouteContext) float64 {
	// congestion only inflates, so the uncongested straight line is a
	// valid lower bound; the priority division must match Weight's
	return scaleByPriority(euclideanKm, ctx)
}
