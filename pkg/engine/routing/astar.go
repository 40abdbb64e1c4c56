package routing

import (
	"github.com/transportlab/citypath/pkg"
	"github.com/transportlab/citypath/pkg/costfunction"
	da "github.com/transportlab/citypath/pkg/datastructure"
	"github.com/transportlab/citypath/pkg/geo"
)

// AStar is the heuristic-guided search used for emergency routing. The
// heuristic is the straight-line distance to the target converted into the
// active metric's units by the cost function, which also divides it by the
// priority factor — the same division applied to every edge weight, so the
// estimate stays admissible under priority scaling.
//
// Vertices without coordinates get a zero heuristic: the search degrades to
// plain dijkstra there rather than risking an overestimate. The fallback
// keeps the heuristic admissible but not consistent (h can drop to zero
// across one edge), so a settled vertex whose label improves is reopened
// instead of being skipped for good.
type AStar struct {
	view   *da.GraphView
	costFn costfunction.CostFunction

	dist       []float64
	parentEdge []da.Index
	settled    []bool
	pqNodes    []*da.PriorityQueueNode[da.Index]

	pq *da.MinHeap[da.Index]
}

func NewAStar(view *da.GraphView, costFn costfunction.CostFunction) *AStar {
	return &AStar{
		view:   view,
		costFn: costFn,
		pq:     da.NewFourAryHeap[da.Index](),
	}
}

func (a *AStar) preallocate() {
	n := a.view.NumberOfVertices()
	a.dist = make([]float64, n)
	a.parentEdge = make([]da.Index, n)
	a.settled = make([]bool, n)
	a.pqNodes = make([]*da.PriorityQueueNode[da.Index], n)
	for v := 0; v < n; v++ {
		a.dist[v] = pkg.INF_WEIGHT
		a.parentEdge[v] = da.INVALID_INDEX
	}
	a.pq.Preallocate(n)
}

// heuristic returns an admissible estimate of the remaining cost from v to
// target under ctx.
func (a *AStar) heuristic(v, target da.Index, ctx da.RouteContext) float64 {
	g := a.view.GetGraph()
	vv := g.GetVertex(v)
	tv := g.GetVertex(target)
	if !vv.HasCoordinate() || !tv.HasCoordinate() {
		return 0
	}
	euclidKm := geo.CalculateEuclidianDistance(vv.GetLat(), vv.GetLon(), tv.GetLat(), tv.GetLon())
	return a.costFn.LowerBoundFromDistance(euclidKm, ctx)
}

// ShortestPath runs best-first search on f = g + h, frontier ordered by f
// with ties broken on lower h then insertion order.
func (a *AStar) ShortestPath(source, target da.Index, ctx da.RouteContext) (da.Path, bool) {
	a.preallocate()

	if a.view.IsVertexExcluded(source) || a.view.IsVertexExcluded(target) {
		return da.Path{}, false
	}

	hSource := a.heuristic(source, target, ctx)
	a.dist[source] = 0
	sourceNode := da.NewPriorityQueueNodeWithTieBreak(hSource, hSource, source)
	a.pqNodes[source] = sourceNode
	a.pq.Insert(sourceNode)

	for !a.pq.IsEmpty() {
		minNode, err := a.pq.ExtractMin()
		if err != nil {
			break
		}
		u := minNode.GetItem()
		if a.settled[u] {
			continue
		}
		a.pqNodes[u] = nil
		a.settled[u] = true

		if u == target {
			return a.buildPath(source, target), true
		}

		a.relaxOutEdges(u, target, ctx)
	}

	return da.Path{}, false
}

func (a *AStar) relaxOutEdges(u, target da.Index, ctx da.RouteContext) {
	a.view.ForOutEdgesOf(u, func(e *da.OutEdge) {
		v := e.GetHead()

		w := a.costFn.Weight(e, ctx)
		if w >= pkg.INF_WEIGHT {
			return
		}

		newDist := a.dist[u] + w
		if newDist >= a.dist[v] {
			return
		}

		a.dist[v] = newDist
		a.parentEdge[v] = e.GetEdgeId()
		// reopen: with the inconsistent fallback a settled vertex can
		// still receive a cheaper label
		a.settled[v] = false

		h := a.heuristic(v, target, ctx)
		f := newDist + h
		if a.pqNodes[v] != nil {
			a.pq.DecreaseKeyWithTieBreak(a.pqNodes[v], f, h)
		} else {
			vNode := da.NewPriorityQueueNodeWithTieBreak(f, h, v)
			a.pqNodes[v] = vNode
			a.pq.Insert(vNode)
		}
	})
}

func (a *AStar) buildPath(source, target da.Index) da.Path {
	g := a.view.GetGraph()

	edges := make([]da.Index, 0)
	vertices := make([]da.Index, 0)

	cur := target
	vertices = append(vertices, cur)
	for cur != source {
		eid := a.parentEdge[cur]
		e := g.GetOutEdge(eid)
		edges = append(edges, eid)
		cur = e.GetTail()
		vertices = append(vertices, cur)
	}

	reverse(vertices)
	reverse(edges)

	return da.NewPath(vertices, edges, a.dist[target])
}
