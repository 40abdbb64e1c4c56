package routing

import (
	"testing"

	"github.com/transportlab/citypath/pkg"
	da "github.com/transportlab/citypath/pkg/datastructure"
)

// diamondWithCoords places the four nodes a few hundred meters apart, so
// the straight-line heuristic stays far below the road distances.
func diamondWithCoords(t *testing.T) *testNetwork {
	tn := diamondNetwork(t)
	tn.setCoordinate(t, "A", 0, 0)
	tn.setCoordinate(t, "B", 0, 0.001)
	tn.setCoordinate(t, "C", 0.001, 0)
	tn.setCoordinate(t, "D", 0.001, 0.001)
	return tn
}

func TestAStarMatchesDijkstra(t *testing.T) {
	tn := diamondWithCoords(t)
	ctx := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)

	astarPath, err := tn.engine.PriorityPath("A", "D", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	dijkstraPath, err := tn.engine.ShortestPath("A", "D", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !eq(astarPath.GetCost(), dijkstraPath.GetCost()) {
		t.Fatalf("astar cost = %v, dijkstra cost = %v", astarPath.GetCost(), dijkstraPath.GetCost())
	}
	checkPathIDs(t, astarPath, tn.graph, "A", "C", "D")
}

func TestAStarZeroHeuristicFallback(t *testing.T) {
	// no node has coordinates; the search degrades to dijkstra but must
	// still return the optimum
	tn := diamondNetwork(t)
	ctx := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)

	path, err := tn.engine.PriorityPath("A", "D", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	checkPathIDs(t, path, tn.graph, "A", "C", "D")
	if !eq(path.GetCost(), 8) {
		t.Fatalf("cost = %v, want 8", path.GetCost())
	}
}

func TestAStarMixedCoordinates(t *testing.T) {
	tn := diamondNetwork(t)
	tn.setCoordinate(t, "A", 0, 0)
	tn.setCoordinate(t, "D", 0.001, 0.001)
	// B and C stay coordinate-less, heuristic falls back to zero there

	ctx := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)
	path, err := tn.engine.PriorityPath("A", "D", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	checkPathIDs(t, path, tn.graph, "A", "C", "D")
	if !eq(path.GetCost(), 8) {
		t.Fatalf("cost = %v, want 8", path.GetCost())
	}
}

// oneWayNetwork builds a directed network: unlike buildNetwork, each
// testEdge becomes a single directed edge.
func oneWayNetwork(t *testing.T, nodes []string, edges []testEdge) *testNetwork {
	t.Helper()

	gb := da.NewGraphBuilder()
	for _, n := range nodes {
		gb.AddVertex(n, n, "")
	}
	for _, e := range edges {
		from, ok := gb.GetVertexIndex(e.from)
		if !ok {
			t.Fatalf("unknown node %q", e.from)
		}
		to, ok := gb.GetVertexIndex(e.to)
		if !ok {
			t.Fatalf("unknown node %q", e.to)
		}
		if _, err := gb.AddEdge(from, to, e.dist, e.dist, e.capacity, 10, pkg.ROAD_EXISTING); err != nil {
			t.Fatalf("add edge %s->%s: %v", e.from, e.to, err)
		}
	}

	g := gb.Build()
	traffic := da.NewTrafficSnapshot(g.NumberOfEdges())
	return &testNetwork{
		graph:   g,
		traffic: traffic,
		engine:  NewRoutingEngine(g, traffic),
	}
}

func TestAStarReopensCoordinateLessVertex(t *testing.T) {
	// C has no coordinates, so its heuristic drops to zero while B's
	// straight-line estimate to D is about 15 km. The search settles C first
	// through the 10 km shortcut and only later finds the cheaper label via
	// B; it must reopen C instead of keeping the expensive parent.
	tn := oneWayNetwork(t, []string{"A", "B", "C", "D"}, []testEdge{
		newTestEdge("A", "C", 10, 100),
		newTestEdge("A", "B", 1, 100),
		newTestEdge("B", "C", 1, 100),
		newTestEdge("C", "D", 20, 100),
	})
	tn.setCoordinate(t, "A", 0, 0)
	tn.setCoordinate(t, "B", 0, 0.001)
	tn.setCoordinate(t, "D", 0, 0.136)

	ctx := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)
	astarPath, err := tn.engine.PriorityPath("A", "D", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	dijkstraPath, err := tn.engine.ShortestPath("A", "D", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !eq(astarPath.GetCost(), dijkstraPath.GetCost()) {
		t.Fatalf("astar cost = %v, dijkstra cost = %v", astarPath.GetCost(), dijkstraPath.GetCost())
	}
	checkPathIDs(t, astarPath, tn.graph, "A", "B", "C", "D")
	if !eq(astarPath.GetCost(), 22) {
		t.Fatalf("cost = %v, want 22", astarPath.GetCost())
	}
}

func TestAStarPriorityFactorScalesCost(t *testing.T) {
	tn := diamondWithCoords(t)

	base := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)
	basePath, err := tn.engine.PriorityPath("A", "D", base)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	// a uniform priority factor shrinks every edge equally, so the route
	// is unchanged and the cost halves
	priority := base.WithPriorityFactor(2.0)
	priorityPath, err := tn.engine.PriorityPath("A", "D", priority)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !priorityPath.Equal(basePath) {
		t.Fatalf("priority path %v differs from base %v",
			priorityPath.ExternalIDs(tn.graph), basePath.ExternalIDs(tn.graph))
	}
	if !eq(priorityPath.GetCost(), basePath.GetCost()/2) {
		t.Fatalf("cost = %v, want %v", priorityPath.GetCost(), basePath.GetCost()/2)
	}
}

func TestAStarCongestionAware(t *testing.T) {
	tn := diamondWithCoords(t)
	tn.setFlow(t, "A", "C", pkg.MORNING_PEAK, 50)

	ctx := da.NewRouteContext(pkg.MORNING_PEAK, pkg.METRIC_DISTANCE)
	path, err := tn.engine.PriorityPath("A", "D", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	checkPathIDs(t, path, tn.graph, "A", "B", "D")
	if !eq(path.GetCost(), 10) {
		t.Fatalf("cost = %v, want 10", path.GetCost())
	}
}
