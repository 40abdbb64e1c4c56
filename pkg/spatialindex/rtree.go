package spatialindex

import (
	"github.com/tidwall/rtree"
	"go.uber.org/zap"

	da "github.com/transportlab/citypath/pkg/datastructure"
	"github.com/transportlab/citypath/pkg/geo"
)

// Rtree indexes road segments by bounding box so HTTP queries given raw
// coordinates can be snapped onto the network before routing.
type Rtree struct {
	tr *rtree.RTreeG[da.Index]
	g  *da.RoadGraph
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[da.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build inserts every edge whose endpoints both carry coordinates. Each
// leaf bounding box is padded by boundingBoxRadius (km) so radius searches
// catch segments whose box would otherwise be degenerate.
func (rt *Rtree) Build(graph *da.RoadGraph, boundingBoxRadius float64, log *zap.Logger) {
	log.Info("building r-tree spatial index",
		zap.Int("edges", graph.NumberOfEdges()),
		zap.Float64("bounding_box_radius_km", boundingBoxRadius))

	rt.g = graph
	for e := 0; e < graph.NumberOfEdges(); e++ {
		edge := graph.GetOutEdge(da.Index(e))
		tail := graph.GetVertex(edge.GetTail())
		head := graph.GetVertex(edge.GetHead())
		if !tail.HasCoordinate() || !head.HasCoordinate() {
			continue
		}

		lowerTailLat, lowerTailLon := geo.GetDestinationPoint(tail.GetLat(), tail.GetLon(), 225, boundingBoxRadius)
		upperTailLat, upperTailLon := geo.GetDestinationPoint(tail.GetLat(), tail.GetLon(), 45, boundingBoxRadius)

		lowerHeadLat, lowerHeadLon := geo.GetDestinationPoint(head.GetLat(), head.GetLon(), 225, boundingBoxRadius)
		upperHeadLat, upperHeadLon := geo.GetDestinationPoint(head.GetLat(), head.GetLon(), 45, boundingBoxRadius)

		minLat := min(lowerTailLat, lowerHeadLat)
		minLon := min(lowerTailLon, lowerHeadLon)
		maxLat := max(upperTailLat, upperHeadLat)
		maxLon := max(upperTailLon, upperHeadLon)

		rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, da.Index(e))
	}

	log.Info("r-tree spatial index built")
}

// SnapToVertex finds the road segment nearest to the query point within
// radius km (perpendicular great-circle distance), then snaps to the
// closer of its endpoints. Returns false when nothing lies inside the
// search box.
func (rt *Rtree) SnapToVertex(qLat, qLon, radius float64) (da.Index, bool) {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	q := geo.NewCoordinate(qLat, qLon)

	bestEdge := da.INVALID_INDEX
	bestDist := 0.0
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, e da.Index) bool {
			edge := rt.g.GetOutEdge(e)
			tail := rt.g.GetVertex(edge.GetTail())
			head := rt.g.GetVertex(edge.GetHead())

			d := geo.PointLinePerpendicularDistance(
				geo.NewCoordinate(tail.GetLat(), tail.GetLon()),
				geo.NewCoordinate(head.GetLat(), head.GetLon()),
				q)
			if bestEdge == da.INVALID_INDEX || d < bestDist {
				bestEdge = e
				bestDist = d
			}
			return true
		})

	if bestEdge == da.INVALID_INDEX {
		return da.INVALID_INDEX, false
	}

	edge := rt.g.GetOutEdge(bestEdge)
	tail := rt.g.GetVertex(edge.GetTail())
	head := rt.g.GetVertex(edge.GetHead())

	tailDist := geo.CalculateHaversineDistance(qLat, qLon, tail.GetLat(), tail.GetLon())
	headDist := geo.CalculateHaversineDistance(qLat, qLon, head.GetLat(), head.GetLon())
	if tailDist <= headDist {
		return edge.GetTail(), true
	}
	return edge.GetHead(), true
}
