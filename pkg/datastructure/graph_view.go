package datastructure

// GraphView is a copy-on-write overlay over a shared RoadGraph: the base
// graph with some vertices and edges logically removed. Yen's algorithm
// builds one per spur search instead of mutating (or deep-copying) the
// shared graph, so concurrent queries over the same RoadGraph stay safe.
type GraphView struct {
	g                *RoadGraph
	excludedVertices *Bitset
	excludedEdges    *Bitset
}

func NewGraphView(g *RoadGraph) *GraphView {
	return &GraphView{
		g:                g,
		excludedVertices: NewBitset(g.NumberOfVertices()),
		excludedEdges:    NewBitset(g.NumberOfEdges()),
	}
}

// FullView wraps a RoadGraph with nothing excluded.
func FullView(g *RoadGraph) *GraphView {
	return NewGraphView(g)
}

func (gv *GraphView) GetGraph() *RoadGraph {
	return gv.g
}

func (gv *GraphView) ExcludeVertex(v Index) {
	gv.excludedVertices.Set(v)
}

func (gv *GraphView) ExcludeEdge(e Index) {
	gv.excludedEdges.Set(e)
}

func (gv *GraphView) IsVertexExcluded(v Index) bool {
	return gv.excludedVertices.IsSet(v)
}

func (gv *GraphView) IsEdgeExcluded(e Index) bool {
	return gv.excludedEdges.IsSet(e)
}

// Reset clears all exclusions so the view can be reused across spur
// iterations without reallocating.
func (gv *GraphView) Reset() {
	gv.excludedVertices.Reset()
	gv.excludedEdges.Reset()
}

func (gv *GraphView) NumberOfVertices() int {
	return gv.g.NumberOfVertices()
}

// ForOutEdgesOf visits edges leaving u that survive the exclusions. Edges
// whose head vertex is excluded are skipped too, which is how root-path
// vertices disappear from spur searches.
func (gv *GraphView) ForOutEdgesOf(u Index, fn func(e *OutEdge)) {
	if gv.excludedVertices.IsSet(u) {
		return
	}
	gv.g.ForOutEdgesOf(u, func(e *OutEdge) {
		if gv.excludedEdges.IsSet(e.GetEdgeId()) {
			return
		}
		if gv.excludedVertices.IsSet(e.GetHead()) {
			return
		}
		fn(e)
	})
}
