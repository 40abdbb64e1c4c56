package datastructure

import (
	"fmt"
	"sort"

	"github.com/transportlab/citypath/pkg"
)

type Index uint32

const INVALID_INDEX = Index(^uint32(0))

// Vertex is a neighborhood or facility node of the road network. Coordinates
// are optional in the source data; hasCoord distinguishes a real (0,0) from
// a missing coordinate.
type Vertex struct {
	lat          float64
	lon          float64
	id           Index
	externalId   string
	name         string
	facilityType string
	hasCoord     bool
}

func NewVertex(externalId, name, facilityType string, id Index) *Vertex {
	return &Vertex{
		externalId:   externalId,
		name:         name,
		facilityType: facilityType,
		id:           id,
	}
}

func (v *Vertex) SetCoordinate(lat, lon float64) {
	v.lat = lat
	v.lon = lon
	v.hasCoord = true
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetExternalID() string {
	return v.externalId
}

func (v *Vertex) GetName() string {
	return v.name
}

func (v *Vertex) GetFacilityType() string {
	return v.facilityType
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) HasCoordinate() bool {
	return v.hasCoord
}

// OutEdge is one directed road segment leaving a vertex. Parallel segments
// between the same endpoints (an existing road and a planned upgrade) are
// distinct edges with distinct ids.
type OutEdge struct {
	edgeId       Index
	tail         Index
	head         Index
	distance     float64 // km
	monetaryCost float64 // construction/usage cost, million EGP
	capacity     float64 // vehicles/hour
	condition    int     // road condition 1..10
	status       pkg.RoadStatus
}

func NewOutEdge(edgeId, tail, head Index, distance, monetaryCost, capacity float64,
	condition int, status pkg.RoadStatus) OutEdge {
	return OutEdge{
		edgeId:       edgeId,
		tail:         tail,
		head:         head,
		distance:     distance,
		monetaryCost: monetaryCost,
		capacity:     capacity,
		condition:    condition,
		status:       status,
	}
}

func (e *OutEdge) GetEdgeId() Index {
	return e.edgeId
}

func (e *OutEdge) GetTail() Index {
	return e.tail
}

func (e *OutEdge) GetHead() Index {
	return e.head
}

func (e *OutEdge) GetDistance() float64 {
	return e.distance
}

func (e *OutEdge) GetMonetaryCost() float64 {
	return e.monetaryCost
}

func (e *OutEdge) GetCapacity() float64 {
	return e.capacity
}

func (e *OutEdge) GetCondition() int {
	return e.condition
}

func (e *OutEdge) GetStatus() pkg.RoadStatus {
	return e.status
}

func (e *OutEdge) IsPotential() bool {
	return e.status == pkg.ROAD_POTENTIAL
}

// RoadGraph is the immutable routing graph. outEdges is indexed by edge id;
// the adjacency is a compressed-sparse-row index over it (outIndex holds
// edge ids grouped by tail vertex, firstOut gives each vertex's slice
// boundaries). Built once per analysis session and treated as read-only by
// every query.
type RoadGraph struct {
	vertices   []Vertex
	outEdges   []OutEdge
	firstOut   []Index
	outIndex   []Index
	idToVertex map[string]Index
}

func (g *RoadGraph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *RoadGraph) NumberOfEdges() int {
	return len(g.outEdges)
}

func (g *RoadGraph) GetVertex(v Index) *Vertex {
	return &g.vertices[v]
}

// GetVertexByExternalID resolves a stable dataset node id ("1", "F3") to the
// internal index.
func (g *RoadGraph) GetVertexByExternalID(id string) (Index, bool) {
	v, ok := g.idToVertex[id]
	return v, ok
}

func (g *RoadGraph) GetVertexCoordinates(v Index) (float64, float64) {
	return g.vertices[v].GetLat(), g.vertices[v].GetLon()
}

func (g *RoadGraph) GetOutEdge(e Index) *OutEdge {
	return &g.outEdges[e]
}

// ForOutEdgesOf visits every edge leaving u in edge-id order.
func (g *RoadGraph) ForOutEdgesOf(u Index, fn func(e *OutEdge)) {
	for i := g.firstOut[u]; i < g.firstOut[u+1]; i++ {
		fn(&g.outEdges[g.outIndex[i]])
	}
}

func (g *RoadGraph) GetOutDegree(u Index) int {
	return int(g.firstOut[u+1] - g.firstOut[u])
}

// FindEdge returns the first edge from u to v, if any.
func (g *RoadGraph) FindEdge(from, to Index) (*OutEdge, bool) {
	var found *OutEdge
	g.ForOutEdgesOf(from, func(e *OutEdge) {
		if found == nil && e.GetHead() == to {
			found = e
		}
	})
	return found, found != nil
}

// GraphBuilder accumulates vertices and edges, then freezes them into the
// CSR layout. Edge ids are assigned in insertion order so traffic snapshot
// rows stay aligned with the edges they were observed on.
type GraphBuilder struct {
	vertices   []Vertex
	edges      []OutEdge
	idToVertex map[string]Index
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		vertices:   make([]Vertex, 0),
		edges:      make([]OutEdge, 0),
		idToVertex: make(map[string]Index),
	}
}

// AddVertex registers a node under its stable external id. Re-adding an
// existing id returns the prior index unchanged.
func (gb *GraphBuilder) AddVertex(externalId, name, facilityType string) Index {
	if v, ok := gb.idToVertex[externalId]; ok {
		return v
	}
	id := Index(len(gb.vertices))
	gb.vertices = append(gb.vertices, *NewVertex(externalId, name, facilityType, id))
	gb.idToVertex[externalId] = id
	return id
}

func (gb *GraphBuilder) SetVertexCoordinate(v Index, lat, lon float64) {
	gb.vertices[v].SetCoordinate(lat, lon)
}

func (gb *GraphBuilder) HasVertex(externalId string) bool {
	_, ok := gb.idToVertex[externalId]
	return ok
}

func (gb *GraphBuilder) GetVertexIndex(externalId string) (Index, bool) {
	v, ok := gb.idToVertex[externalId]
	return v, ok
}

func (gb *GraphBuilder) GetVertex(v Index) *Vertex {
	return &gb.vertices[v]
}

func (gb *GraphBuilder) NumberOfVertices() int {
	return len(gb.vertices)
}

// AddEdge appends one directed edge and returns its id.
func (gb *GraphBuilder) AddEdge(tail, head Index, distance, monetaryCost, capacity float64,
	condition int, status pkg.RoadStatus) (Index, error) {
	if int(tail) >= len(gb.vertices) || int(head) >= len(gb.vertices) {
		return INVALID_INDEX, fmt.Errorf("edge endpoints (%d,%d) out of range, graph has %d vertices",
			tail, head, len(gb.vertices))
	}
	edgeId := Index(len(gb.edges))
	gb.edges = append(gb.edges, NewOutEdge(edgeId, tail, head, distance, monetaryCost,
		capacity, condition, status))
	return edgeId, nil
}

// Build freezes the builder into an immutable RoadGraph.
func (gb *GraphBuilder) Build() *RoadGraph {
	n := len(gb.vertices)

	outEdges := make([]OutEdge, len(gb.edges))
	copy(outEdges, gb.edges)

	// stable by edge id so parallel edges keep their insertion order
	outIndex := make([]Index, len(outEdges))
	for i := range outIndex {
		outIndex[i] = Index(i)
	}
	sort.SliceStable(outIndex, func(i, j int) bool {
		return outEdges[outIndex[i]].GetTail() < outEdges[outIndex[j]].GetTail()
	})

	firstOut := make([]Index, n+1)
	for _, e := range outEdges {
		firstOut[e.GetTail()+1]++
	}
	for v := 1; v <= n; v++ {
		firstOut[v] += firstOut[v-1]
	}

	vertices := make([]Vertex, n)
	copy(vertices, gb.vertices)

	idToVertex := make(map[string]Index, n)
	for k, v := range gb.idToVertex {
		idToVertex[k] = v
	}

	return &RoadGraph{
		vertices:   vertices,
		outEdges:   outEdges,
		firstOut:   firstOut,
		outIndex:   outIndex,
		idToVertex: idToVertex,
	}
}
