package routing

import (
	"errors"
	"testing"

	"github.com/transportlab/citypath/pkg"
	da "github.com/transportlab/citypath/pkg/datastructure"
)

func TestShortestPathFreeFlow(t *testing.T) {
	tn := diamondNetwork(t)
	ctx := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)

	path, err := tn.engine.ShortestPath("A", "D", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	checkPathIDs(t, path, tn.graph, "A", "C", "D")
	if !eq(path.GetCost(), 8) {
		t.Fatalf("cost = %v, want 8", path.GetCost())
	}
}

func TestShortestPathReroutesUnderCongestion(t *testing.T) {
	tn := diamondNetwork(t)
	// morning flow 50 on the A-C leg doubles its effective length
	tn.setFlow(t, "A", "C", pkg.MORNING_PEAK, 50)

	ctx := da.NewRouteContext(pkg.MORNING_PEAK, pkg.METRIC_DISTANCE)
	path, err := tn.engine.ShortestPath("A", "D", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	checkPathIDs(t, path, tn.graph, "A", "B", "D")
	if !eq(path.GetCost(), 10) {
		t.Fatalf("cost = %v, want 10", path.GetCost())
	}

	// other buckets keep the free-flow optimum
	night, err := tn.engine.ShortestPath("A", "D", da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	checkPathIDs(t, night, tn.graph, "A", "C", "D")
}

func TestShortestPathTravelTimeMetric(t *testing.T) {
	tn := diamondNetwork(t)
	ctx := da.NewRouteContext(pkg.AFTERNOON, pkg.METRIC_TRAVEL_TIME)

	path, err := tn.engine.ShortestPath("A", "D", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	// 8 km at the 60 km/h free-flow speed is 8 minutes
	checkPathIDs(t, path, tn.graph, "A", "C", "D")
	if !eq(path.GetCost(), 8) {
		t.Fatalf("cost = %v, want 8 minutes", path.GetCost())
	}
}

func TestShortestPathSourceEqualsTarget(t *testing.T) {
	tn := diamondNetwork(t)
	ctx := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)

	path, err := tn.engine.ShortestPath("A", "A", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	checkPathIDs(t, path, tn.graph, "A")
	if !eq(path.GetCost(), 0) {
		t.Fatalf("cost = %v, want 0", path.GetCost())
	}
}

func TestShortestPathInvalidNode(t *testing.T) {
	tn := diamondNetwork(t)
	ctx := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)

	_, err := tn.engine.ShortestPath("Z", "D", ctx)
	if !errors.Is(err, ErrInvalidNode) {
		t.Fatalf("err = %v, want ErrInvalidNode", err)
	}
	_, err = tn.engine.ShortestPath("A", "Z", ctx)
	if !errors.Is(err, ErrInvalidNode) {
		t.Fatalf("err = %v, want ErrInvalidNode", err)
	}
}

func TestShortestPathDisconnected(t *testing.T) {
	tn := buildNetwork(t, []string{"A", "B", "X"}, []testEdge{
		newTestEdge("A", "B", 2, 100),
	})
	ctx := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)

	_, err := tn.engine.ShortestPath("A", "X", ctx)
	if !errors.Is(err, ErrNoPath) {
		t.Fatalf("err = %v, want ErrNoPath", err)
	}
	if errors.Is(err, ErrInvalidNode) {
		t.Fatalf("disconnection must not be reported as invalid node")
	}
}

func TestShortestPathZeroCapacityEdgeUnusable(t *testing.T) {
	tn := buildNetwork(t, []string{"A", "B", "C"}, []testEdge{
		newTestEdge("A", "B", 1, 0),
		newTestEdge("A", "C", 9, 100),
		newTestEdge("C", "B", 9, 100),
	})
	ctx := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)

	path, err := tn.engine.ShortestPath("A", "B", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	// the direct 1 km road has no capacity; the detour must win
	checkPathIDs(t, path, tn.graph, "A", "C", "B")
	if !eq(path.GetCost(), 18) {
		t.Fatalf("cost = %v, want 18", path.GetCost())
	}
}

func TestShortestPathPotentialRoads(t *testing.T) {
	gb := da.NewGraphBuilder()
	a := gb.AddVertex("A", "A", "")
	b := gb.AddVertex("B", "B", "")
	c := gb.AddVertex("C", "C", "")

	// built roads A-C-B, plus an unbuilt direct shortcut A-B
	mustAddEdge(t, gb, a, c, 3, 100, pkg.ROAD_EXISTING)
	mustAddEdge(t, gb, c, b, 3, 100, pkg.ROAD_EXISTING)
	mustAddEdge(t, gb, a, b, 1, 100, pkg.ROAD_POTENTIAL)

	g := gb.Build()
	engine := NewRoutingEngine(g, da.NewTrafficSnapshot(g.NumberOfEdges()))

	ctx := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)
	path, err := engine.ShortestPath("A", "B", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	checkPathIDs(t, path, g, "A", "C", "B")

	path, err = engine.ShortestPath("A", "B", ctx.WithPotentialRoads())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	checkPathIDs(t, path, g, "A", "B")
	if !eq(path.GetCost(), 1) {
		t.Fatalf("cost = %v, want 1", path.GetCost())
	}
}

func TestShortestPathDeterministicUnderTies(t *testing.T) {
	// two cost-4 corridors; repeated queries must pick the same one
	tn := buildNetwork(t, []string{"A", "B", "C", "D"}, []testEdge{
		newTestEdge("A", "B", 2, 100),
		newTestEdge("B", "D", 2, 100),
		newTestEdge("A", "C", 2, 100),
		newTestEdge("C", "D", 2, 100),
	})
	ctx := da.NewRouteContext(pkg.NIGHT, pkg.METRIC_DISTANCE)

	first, err := tn.engine.ShortestPath("A", "D", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for i := 0; i < 25; i++ {
		path, err := tn.engine.ShortestPath("A", "D", ctx)
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if !path.Equal(first) {
			t.Fatalf("run %d: path %v differs from first %v",
				i, path.ExternalIDs(tn.graph), first.ExternalIDs(tn.graph))
		}
	}
}

func TestShortestPathMatchesBruteForce(t *testing.T) {
	tn := buildNetwork(t, []string{"A", "B", "C", "D", "E", "F"}, []testEdge{
		newTestEdge("A", "B", 3, 100),
		newTestEdge("A", "C", 1, 50),
		newTestEdge("B", "C", 1, 100),
		newTestEdge("B", "D", 4, 80),
		newTestEdge("C", "E", 6, 40),
		newTestEdge("D", "E", 1, 60),
		newTestEdge("D", "F", 2, 100),
		newTestEdge("E", "F", 3, 30),
	})
	tn.setFlow(t, "A", "C", pkg.EVENING_PEAK, 75)
	tn.setFlow(t, "D", "E", pkg.EVENING_PEAK, 30)

	ctx := da.NewRouteContext(pkg.EVENING_PEAK, pkg.METRIC_DISTANCE)

	source, _ := tn.graph.GetVertexByExternalID("A")
	target, _ := tn.graph.GetVertexByExternalID("F")
	want := bruteForcePaths(tn, source, target, ctx)
	if len(want) == 0 {
		t.Fatalf("brute force found no path")
	}

	path, err := tn.engine.ShortestPath("A", "F", ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !eq(path.GetCost(), want[0]) {
		t.Fatalf("cost = %v, brute force optimum = %v", path.GetCost(), want[0])
	}
}

func mustAddEdge(t *testing.T, gb *da.GraphBuilder, tail, head da.Index,
	dist, capacity float64, status pkg.RoadStatus) {
	t.Helper()
	if _, err := gb.AddEdge(tail, head, dist, dist, capacity, 10, status); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if _, err := gb.AddEdge(head, tail, dist, dist, capacity, 10, status); err != nil {
		t.Fatalf("add edge: %v", err)
	}
}
