package routing

import (
	"fmt"

	"github.com/transportlab/citypath/pkg/costfunction"
	da "github.com/transportlab/citypath/pkg/datastructure"
)

// RoutingEngine is the query facade over one immutable graph + traffic
// snapshot. Every operation is a pure function of its inputs: no state is
// kept between calls, so any number of queries may run concurrently
// against the same engine.
type RoutingEngine struct {
	graph   *da.RoadGraph
	traffic *da.TrafficSnapshot
}

func NewRoutingEngine(graph *da.RoadGraph, traffic *da.TrafficSnapshot) *RoutingEngine {
	return &RoutingEngine{
		graph:   graph,
		traffic: traffic,
	}
}

func (re *RoutingEngine) GetGraph() *da.RoadGraph {
	return re.graph
}

func (re *RoutingEngine) GetTraffic() *da.TrafficSnapshot {
	return re.traffic
}

func (re *RoutingEngine) costFunction(ctx da.RouteContext) costfunction.CostFunction {
	return costfunction.New(ctx.GetMetric(), re.traffic)
}

func (re *RoutingEngine) resolve(sourceID, targetID string) (da.Index, da.Index, error) {
	source, ok := re.graph.GetVertexByExternalID(sourceID)
	if !ok {
		return 0, 0, fmt.Errorf("%w: source %q", ErrInvalidNode, sourceID)
	}
	target, ok := re.graph.GetVertexByExternalID(targetID)
	if !ok {
		return 0, 0, fmt.Errorf("%w: target %q", ErrInvalidNode, targetID)
	}
	return source, target, nil
}

// ShortestPath runs time-dependent dijkstra between two dataset node ids.
func (re *RoutingEngine) ShortestPath(sourceID, targetID string, ctx da.RouteContext) (da.Path, error) {
	source, target, err := re.resolve(sourceID, targetID)
	if err != nil {
		return da.Path{}, err
	}

	path, ok := NewDijkstra(da.FullView(re.graph), re.costFunction(ctx)).ShortestPath(source, target, ctx)
	if !ok {
		return da.Path{}, fmt.Errorf("%w: %s -> %s", ErrNoPath, sourceID, targetID)
	}
	return path, nil
}

// KShortestPaths returns up to k loopless alternatives ordered by cost.
// Fewer than k is a valid result; err is non-nil only for bad input or a
// fully disconnected pair.
func (re *RoutingEngine) KShortestPaths(sourceID, targetID string, k int, ctx da.RouteContext) ([]da.Path, error) {
	source, target, err := re.resolve(sourceID, targetID)
	if err != nil {
		return nil, err
	}

	paths, ok := NewKShortestPaths(re.graph, re.costFunction(ctx)).Search(source, target, k, ctx)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoPath, sourceID, targetID)
	}
	return paths, nil
}

// PriorityPath runs the A* emergency search. The priority factor inside ctx
// shrinks apparent edge costs; with factor 1.0 the result matches
// ShortestPath on the same inputs.
func (re *RoutingEngine) PriorityPath(sourceID, targetID string, ctx da.RouteContext) (da.Path, error) {
	source, target, err := re.resolve(sourceID, targetID)
	if err != nil {
		return da.Path{}, err
	}

	path, ok := NewAStar(da.FullView(re.graph), re.costFunction(ctx)).ShortestPath(source, target, ctx)
	if !ok {
		return da.Path{}, fmt.Errorf("%w: %s -> %s", ErrNoPath, sourceID, targetID)
	}
	return path, nil
}
