package costfunction

import (
	"github.com/transportlab/citypath/pkg"
	"github.com/transportlab/citypath/pkg/datastructure"
)

// TravelTimeFunction weighs edges by congestion-inflated travel time in
// minutes, assuming the default free-flow speed on every segment.
type TravelTimeFunction struct {
	traffic *datastructure.TrafficSnapshot
}

func NewTravelTimeFunction(traffic *datastructure.TrafficSnapshot) *TravelTimeFunction {
	return &TravelTimeFunction{traffic: traffic}
}

func freeFlowMinutes(distanceKm float64) float64 {
	return distanceKm / pkg.DEFAULT_FREE_FLOW_SPEED_KMH * 60.0
}

func (tf *TravelTimeFunction) Weight(e *datastructure.OutEdge, ctx datastructure.RouteContext) float64 {
	if edgeClosed(e, ctx) {
		return pkg.INF_WEIGHT
	}
	factor := congestionFactor(e, ctx, tf.traffic)
	if factor >= pkg.INF_WEIGHT {
		return pkg.INF_WEIGHT
	}
	return scaleByPriority(freeFlowMinutes(e.GetDistance())*factor, ctx)
}

func (tf *TravelTimeFunction) LowerBoundFromDistance(euclideanKm float64, ctx datastructure.RouteContext) float64 {
	// no edge can be traversed faster than free flow over the straight line
	return scaleByPriority(freeFlowMinutes(euclideanKm), ctx)
}
