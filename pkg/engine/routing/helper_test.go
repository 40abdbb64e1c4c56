package routing

import (
	"math"
	"sort"
	"testing"

	"github.com/transportlab/citypath/pkg"
	"github.com/transportlab/citypath/pkg/costfunction"
	da "github.com/transportlab/citypath/pkg/datastructure"
)

const EPS = 1e-6

// equal operator
func eq(a, b float64) bool {
	return math.Abs(a-b) <= EPS
}

type testEdge struct {
	from, to string
	dist     float64
	capacity float64
}

func newTestEdge(from, to string, dist, capacity float64) testEdge {
	return testEdge{from, to, dist, capacity}
}

type testNetwork struct {
	graph   *da.RoadGraph
	traffic *da.TrafficSnapshot
	engine  *RoutingEngine
}

// buildNetwork builds a bidirectional road network: every testEdge becomes
// two directed edges sharing distance and capacity.
func buildNetwork(t *testing.T, nodes []string, edges []testEdge) *testNetwork {
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
		if _, err := gb.AddEdge(to, from, e.dist, e.dist, e.capacity, 10, pkg.ROAD_EXISTING); err != nil {
			t.Fatalf("add edge %s->%s: %v", e.to, e.from, err)
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

// setFlow records a traffic observation on both directions of a road.
func (tn *testNetwork) setFlow(t *testing.T, from, to string, timeOfDay pkg.TimeOfDay, flow float64) {
	t.Helper()
	u, _ := tn.graph.GetVertexByExternalID(from)
	v, _ := tn.graph.GetVertexByExternalID(to)

	forward, ok := tn.graph.FindEdge(u, v)
	if !ok {
		t.Fatalf("no edge %s->%s", from, to)
	}
	tn.traffic.SetFlow(forward.GetEdgeId(), timeOfDay, flow)

	backward, ok := tn.graph.FindEdge(v, u)
	if !ok {
		t.Fatalf("no edge %s->%s", to, from)
	}
	tn.traffic.SetFlow(backward.GetEdgeId(), timeOfDay, flow)
}

func (tn *testNetwork) setCoordinate(t *testing.T, node string, lat, lon float64) {
	t.Helper()
	v, ok := tn.graph.GetVertexByExternalID(node)
	if !ok {
		t.Fatalf("unknown node %q", node)
	}
	tn.graph.GetVertex(v).SetCoordinate(lat, lon)
}

func checkPathIDs(t *testing.T, p da.Path, g *da.RoadGraph, want ...string) {
	t.Helper()
	got := p.ExternalIDs(g)
	if len(got) != len(want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("path = %v, want %v", got, want)
		}
	}
}

// diamondNetwork is a four-node network with two disjoint A->D corridors:
// A-B-D (5 km legs, capacity 100) and A-C-D (4 km legs, capacity 50).
func diamondNetwork(t *testing.T) *testNetwork {
	return buildNetwork(t, []string{"A", "B", "C", "D"}, []testEdge{
		newTestEdge("A", "B", 5, 100),
		newTestEdge("B", "D", 5, 100),
		newTestEdge("A", "C", 4, 50),
		newTestEdge("C", "D", 4, 50),
	})
}

func costFunctionFor(ctx da.RouteContext, tn *testNetwork) costfunction.CostFunction {
	return costfunction.New(ctx.GetMetric(), tn.traffic)
}

// bruteForcePaths enumerates every simple path between two vertices and
// returns their costs under the given context, sorted ascending.
func bruteForcePaths(tn *testNetwork, source, target da.Index, ctx da.RouteContext) []float64 {
	costFn := costfunction.New(ctx.GetMetric(), tn.traffic)

	var (
		costs   []float64
		visited = make([]bool, tn.graph.NumberOfVertices())
		dfs     func(u da.Index, acc float64)
	)
	dfs = func(u da.Index, acc float64) {
		if u == target {
			costs = append(costs, acc)
			return
		}
		visited[u] = true
		tn.graph.ForOutEdgesOf(u, func(e *da.OutEdge) {
			if visited[e.GetHead()] {
				return
			}
			w := costFn.Weight(e, ctx)
			if w >= pkg.INF_WEIGHT {
				return
			}
			dfs(e.GetHead(), acc+w)
		})
		visited[u] = false
	}
	dfs(source, 0)

	sort.Float64s(costs)
	return costs
}
