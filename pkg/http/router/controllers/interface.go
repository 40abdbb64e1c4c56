package controllers

import (
	"github.com/transportlab/citypath/pkg/analysis"
	"github.com/transportlab/citypath/pkg/http/usecases"
)

type RoutingService interface {
	ShortestPath(origLat, origLon, dstLat, dstLon float64, timeOfDay, metric string) (usecases.Route, error)
	AlternativeRoutes(origLat, origLon, dstLat, dstLon float64, timeOfDay, metric string, k int) ([]usecases.Route, error)
	EmergencyRoute(origLat, origLon, dstLat, dstLon float64, timeOfDay, metric string, priorityFactor float64) (usecases.Route, error)
	Congestion(timeOfDay string, threshold float64) ([]analysis.EdgeCongestion, []analysis.EdgeCongestion, error)
}
