package costfunction

import (
	"github.com/transportlab/citypath/pkg"
	"github.com/transportlab/citypath/pkg/datastructure"
)

// MonetaryFunction weighs edges by their monetary cost. Congestion does not
// change what a road costs, so the V/C model is not applied; a zero-capacity
// edge is still treated as closed.
type MonetaryFunction struct {
}

func NewMonetaryFunction() *MonetaryFunction {
	return &MonetaryFunction{}
}

func (mf *MonetaryFunction) Weight(e *datastructure.OutEdge, ctx datastructure.RouteContext) float64 {
	if edgeClosed(e, ctx) {
		return pkg.INF_WEIGHT
	}
	if e.GetCapacity() <= 0 {
		return pkg.INF_WEIGHT
	}
	if e.GetMonetaryCost() < 0 {
		return pkg.INF_WEIGHT
	}
	return scaleByPriority(e.GetMonetaryCost(), ctx)
}

func (mf *MonetaryFunction) LowerBoundFromDistance(euclideanKm float64, ctx datastructure.RouteContext) float64 {
	// geometry says nothing about cost, fall back to zero (plain dijkstra)
	return 0
}
