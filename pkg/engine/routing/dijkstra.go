package routing

import (
	"github.com/transportlab/citypath/pkg"
	"github.com/transportlab/citypath/pkg/costfunction"
	da "github.com/transportlab/citypath/pkg/datastructure"
)

// Dijkstra is a label-setting single-source single-target search over a
// graph view. Weights come from the injected cost function and are fixed
// for the whole query (the time of day does not change mid-traversal).
//
// Relaxation is strictly-less, so among equal-cost paths to the same vertex
// the first one discovered wins; together with the heap's FIFO tie-break
// this makes results deterministic.
type Dijkstra struct {
	view   *da.GraphView
	costFn costfunction.CostFunction

	dist       []float64
	parentEdge []da.Index
	settled    []bool
	pqNodes    []*da.PriorityQueueNode[da.Index]

	pq *da.MinHeap[da.Index]
}

func NewDijkstra(view *da.GraphView, costFn costfunction.CostFunction) *Dijkstra {
	return &Dijkstra{
		view:   view,
		costFn: costFn,
		pq:     da.NewFourAryHeap[da.Index](),
	}
}

func (d *Dijkstra) preallocate() {
	n := d.view.NumberOfVertices()
	d.dist = make([]float64, n)
	d.parentEdge = make([]da.Index, n)
	d.settled = make([]bool, n)
	d.pqNodes = make([]*da.PriorityQueueNode[da.Index], n)
	for v := 0; v < n; v++ {
		d.dist[v] = pkg.INF_WEIGHT
		d.parentEdge[v] = da.INVALID_INDEX
	}
	d.pq.Preallocate(n)
}

// ShortestPath runs the search from source to target under ctx. The second
// return value is false when the target is unreachable.
func (d *Dijkstra) ShortestPath(source, target da.Index, ctx da.RouteContext) (da.Path, bool) {
	d.preallocate()

	if d.view.IsVertexExcluded(source) || d.view.IsVertexExcluded(target) {
		return da.Path{}, false
	}

	d.dist[source] = 0
	sourceNode := da.NewPriorityQueueNode(0, source)
	d.pqNodes[source] = sourceNode
	d.pq.Insert(sourceNode)

	for !d.pq.IsEmpty() {
		minNode, err := d.pq.ExtractMin()
		if err != nil {
			break
		}
		u := minNode.GetItem()
		d.settled[u] = true

		if u == target {
			return d.buildPath(source, target), true
		}

		d.relaxOutEdges(u, ctx)
	}

	return da.Path{}, false
}

func (d *Dijkstra) relaxOutEdges(u da.Index, ctx da.RouteContext) {
	d.view.ForOutEdgesOf(u, func(e *da.OutEdge) {
		v := e.GetHead()
		if d.settled[v] {
			return
		}

		w := d.costFn.Weight(e, ctx)
		if w >= pkg.INF_WEIGHT {
			// closed or degenerate edge, excluded from search
			return
		}

		newDist := d.dist[u] + w
		if newDist >= d.dist[v] {
			// strictly-less keeps the first-discovered path on ties
			return
		}

		d.dist[v] = newDist
		d.parentEdge[v] = e.GetEdgeId()

		if d.pqNodes[v] != nil {
			d.pq.DecreaseKey(d.pqNodes[v], newDist)
		} else {
			vNode := da.NewPriorityQueueNode(newDist, v)
			d.pqNodes[v] = vNode
			d.pq.Insert(vNode)
		}
	})
}

func (d *Dijkstra) buildPath(source, target da.Index) da.Path {
	g := d.view.GetGraph()

	edges := make([]da.Index, 0)
	vertices := make([]da.Index, 0)

	cur := target
	vertices = append(vertices, cur)
	for cur != source {
		eid := d.parentEdge[cur]
		e := g.GetOutEdge(eid)
		edges = append(edges, eid)
		cur = e.GetTail()
		vertices = append(vertices, cur)
	}

	reverse(vertices)
	reverse(edges)

	return da.NewPath(vertices, edges, d.dist[target])
}

func reverse(s []da.Index) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
