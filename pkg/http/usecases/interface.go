package usecases

import (
	da "github.com/transportlab/citypath/pkg/datastructure"
)

// RoutingEngine is what the service needs from the pathfinding core.
type RoutingEngine interface {
	GetGraph() *da.RoadGraph
	ShortestPath(sourceID, targetID string, ctx da.RouteContext) (da.Path, error)
	KShortestPaths(sourceID, targetID string, k int, ctx da.RouteContext) ([]da.Path, error)
	PriorityPath(sourceID, targetID string, ctx da.RouteContext) (da.Path, error)
}

// SpatialIndex snaps raw coordinates onto the road network.
type SpatialIndex interface {
	SnapToVertex(qLat, qLon, radius float64) (da.Index, bool)
}
