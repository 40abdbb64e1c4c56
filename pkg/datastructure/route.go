package datastructure

import (
	"github.com/transportlab/citypath/pkg"
)

// RouteContext is the per-query configuration handed to the weight function
// and the search engines. It is a value type: callers build one per query
// and discard it, nothing retains it across calls.
type RouteContext struct {
	timeOfDay        pkg.TimeOfDay
	metric           pkg.Metric
	priorityFactor   float64
	includePotential bool
}

func NewRouteContext(timeOfDay pkg.TimeOfDay, metric pkg.Metric) RouteContext {
	return RouteContext{
		timeOfDay:      timeOfDay,
		metric:         metric,
		priorityFactor: 1.0,
	}
}

// WithPriorityFactor returns a copy with the emergency priority factor set.
// p > 1 shrinks apparent edge costs uniformly; p must be positive.
func (rc RouteContext) WithPriorityFactor(p float64) RouteContext {
	if p > 0 {
		rc.priorityFactor = p
	}
	return rc
}

// WithPotentialRoads returns a copy that also routes over planned
// (not-yet-built) road segments.
func (rc RouteContext) WithPotentialRoads() RouteContext {
	rc.includePotential = true
	return rc
}

func (rc RouteContext) GetTimeOfDay() pkg.TimeOfDay {
	return rc.timeOfDay
}

func (rc RouteContext) GetMetric() pkg.Metric {
	return rc.metric
}

func (rc RouteContext) GetPriorityFactor() float64 {
	return rc.priorityFactor
}

func (rc RouteContext) IncludePotentialRoads() bool {
	return rc.includePotential
}

// Path is one loopless route through the graph: the visited vertices from
// source to target inclusive, the edges between them, and the total
// effective cost under the query's weight function.
type Path struct {
	vertices []Index
	edges    []Index
	cost     float64
}

func NewPath(vertices, edges []Index, cost float64) Path {
	return Path{vertices: vertices, edges: edges, cost: cost}
}

func (p Path) GetVertices() []Index {
	return p.vertices
}

func (p Path) GetEdges() []Index {
	return p.edges
}

func (p Path) GetCost() float64 {
	return p.cost
}

func (p Path) Len() int {
	return len(p.vertices)
}

// ExternalIDs materializes the stable dataset node ids along the path.
func (p Path) ExternalIDs(g *RoadGraph) []string {
	ids := make([]string, len(p.vertices))
	for i, v := range p.vertices {
		ids[i] = g.GetVertex(v).GetExternalID()
	}
	return ids
}

// Equal reports whether two paths visit exactly the same vertex sequence.
func (p Path) Equal(other Path) bool {
	if len(p.vertices) != len(other.vertices) {
		return false
	}
	for i := range p.vertices {
		if p.vertices[i] != other.vertices[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether the first n vertices of p match prefix exactly.
func (p Path) HasPrefix(prefix []Index) bool {
	if len(prefix) > len(p.vertices) {
		return false
	}
	for i := range prefix {
		if p.vertices[i] != prefix[i] {
			return false
		}
	}
	return true
}
