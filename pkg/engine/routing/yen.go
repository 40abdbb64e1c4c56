package routing

import (
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/transportlab/citypath/pkg/concurrent"
	"github.com/transportlab/citypath/pkg/costfunction"
	da "github.com/transportlab/citypath/pkg/datastructure"
)

// KShortestPaths implements Yen's algorithm for K loopless best paths.
// Each accepted path seeds spur searches from every prefix-split node; a
// spur search runs plain dijkstra over a graph view that excludes the
// root-path vertices and the next edge of every accepted path sharing the
// same root, which forces loop-freedom and prevents re-deriving a path
// already seen.
//
// The spur searches within one iteration are independent and run on a
// worker pool; their results are reordered by spur index before entering
// the candidate pool, so the output is identical to the sequential run.
// Candidates pop by (cost, generation order), matching the FIFO tie-break
// of the underlying dijkstra.
type KShortestPaths struct {
	graph      *da.RoadGraph
	costFn     costfunction.CostFunction
	numWorkers int
}

func NewKShortestPaths(graph *da.RoadGraph, costFn costfunction.CostFunction) *KShortestPaths {
	return &KShortestPaths{
		graph:      graph,
		costFn:     costFn,
		numWorkers: runtime.GOMAXPROCS(0),
	}
}

type spurResult struct {
	spurIndex int
	path      da.Path
	found     bool
}

// Search returns up to k loopless paths ordered by cost. Fewer than k paths
// is a valid partial result, not an error; found is false only when no path
// exists at all.
func (y *KShortestPaths) Search(source, target da.Index, k int, ctx da.RouteContext) ([]da.Path, bool) {
	if k <= 0 {
		return []da.Path{}, true
	}

	first, ok := NewDijkstra(da.FullView(y.graph), y.costFn).ShortestPath(source, target, ctx)
	if !ok {
		return nil, false
	}

	accepted := make([]da.Path, 0, k)
	accepted = append(accepted, first)

	seen := make(map[string]struct{})
	seen[pathKey(first)] = struct{}{}

	candidates := make([]da.Path, 0)
	candHeap := da.NewBinaryHeap[int]()

	for len(accepted) < k {
		prev := accepted[len(accepted)-1]

		for _, res := range y.runSpurSearches(prev, accepted, target, ctx) {
			key := pathKey(res.path)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			candidates = append(candidates, res.path)
			candHeap.Insert(da.NewPriorityQueueNode(res.path.GetCost(), len(candidates)-1))
		}

		if candHeap.IsEmpty() {
			// fewer than k distinct loopless paths exist
			break
		}

		best, err := candHeap.ExtractMin()
		if err != nil {
			break
		}
		accepted = append(accepted, candidates[best.GetItem()])
	}

	return accepted, true
}

// runSpurSearches fans the spur searches of one iteration out over the
// worker pool and returns the findings ordered by spur index.
func (y *KShortestPaths) runSpurSearches(prev da.Path, accepted []da.Path,
	target da.Index, ctx da.RouteContext) []spurResult {

	numSpurs := prev.Len() - 1
	if numSpurs <= 0 {
		return nil
	}

	workers := y.numWorkers
	if workers > numSpurs {
		workers = numSpurs
	}

	rootCosts := y.rootCostPrefix(prev, ctx)

	wp := concurrent.NewWorkerPool[int, spurResult](workers, numSpurs)
	wp.Start(func(spurIndex int) spurResult {
		path, found := y.spurSearch(prev, accepted, target, spurIndex, rootCosts[spurIndex], ctx)
		return spurResult{spurIndex: spurIndex, path: path, found: found}
	})
	for j := 0; j < numSpurs; j++ {
		wp.AddJob(j)
	}
	wp.Close()
	wp.Wait()

	results := make([]spurResult, 0, numSpurs)
	for res := range wp.CollectResults() {
		if res.found {
			results = append(results, res)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].spurIndex < results[j].spurIndex
	})
	return results
}

// spurSearch runs one constrained dijkstra from prev's spur node to target
// and splices the result onto the root path.
func (y *KShortestPaths) spurSearch(prev da.Path, accepted []da.Path, target da.Index,
	spurIndex int, rootCost float64, ctx da.RouteContext) (da.Path, bool) {

	prevVertices := prev.GetVertices()
	spurNode := prevVertices[spurIndex]
	rootVertices := prevVertices[:spurIndex+1]
	rootEdges := prev.GetEdges()[:spurIndex]

	view := da.NewGraphView(y.graph)

	// drop the continuation edge of every accepted path sharing this root
	for _, p := range accepted {
		if p.Len() > spurIndex && p.HasPrefix(rootVertices) {
			view.ExcludeEdge(p.GetEdges()[spurIndex])
		}
	}
	// drop the root-path vertices (except the spur node) to keep the spur
	// loop-free
	for _, v := range rootVertices[:spurIndex] {
		view.ExcludeVertex(v)
	}

	spur, ok := NewDijkstra(view, y.costFn).ShortestPath(spurNode, target, ctx)
	if !ok {
		return da.Path{}, false
	}

	vertices := make([]da.Index, 0, spurIndex+spur.Len())
	vertices = append(vertices, rootVertices[:spurIndex]...)
	vertices = append(vertices, spur.GetVertices()...)

	edges := make([]da.Index, 0, len(rootEdges)+len(spur.GetEdges()))
	edges = append(edges, rootEdges...)
	edges = append(edges, spur.GetEdges()...)

	return da.NewPath(vertices, edges, rootCost+spur.GetCost()), true
}

// rootCostPrefix returns the cost of prev's prefix ending at each spur
// index, under the same weights the searches use.
func (y *KShortestPaths) rootCostPrefix(prev da.Path, ctx da.RouteContext) []float64 {
	edges := prev.GetEdges()
	costs := make([]float64, len(edges)+1)
	for i, eid := range edges {
		costs[i+1] = costs[i] + y.costFn.Weight(y.graph.GetOutEdge(eid), ctx)
	}
	return costs
}

func pathKey(p da.Path) string {
	var sb strings.Builder
	for _, v := range p.GetVertices() {
		sb.WriteString(strconv.FormatUint(uint64(v), 10))
		sb.WriteByte(',')
	}
	return sb.String()
}
