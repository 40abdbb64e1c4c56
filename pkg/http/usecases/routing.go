package usecases

import (
	"errors"

	"github.com/transportlab/citypath/pkg"
	"github.com/transportlab/citypath/pkg/analysis"
	da "github.com/transportlab/citypath/pkg/datastructure"
	"github.com/transportlab/citypath/pkg/engine/routing"
	"github.com/transportlab/citypath/pkg/geo"
	"github.com/transportlab/citypath/pkg/util"
	"go.uber.org/zap"
)

// Route is the presentation form of one path: node ids, total effective
// cost under the query metric, the raw length in km, and encoded geometry.
type Route struct {
	NodeIDs    []string
	Cost       float64
	DistanceKm float64
	Polyline   string
}

type RoutingService struct {
	log          *zap.Logger
	engine       RoutingEngine
	spatialIndex SpatialIndex
	analyzer     *analysis.Analyzer
	searchRadius float64
}

func NewRoutingService(log *zap.Logger, engine RoutingEngine, spatialIndex SpatialIndex,
	analyzer *analysis.Analyzer, searchRadius float64) *RoutingService {
	return &RoutingService{
		log:          log,
		engine:       engine,
		spatialIndex: spatialIndex,
		analyzer:     analyzer,
		searchRadius: searchRadius,
	}
}

func (rs *RoutingService) buildContext(timeOfDay, metric string) (da.RouteContext, error) {
	tod, err := pkg.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return da.RouteContext{}, util.WrapErrorf(err, util.ErrBadParamInput, "invalid time_of_day")
	}
	m, err := pkg.ParseMetric(metric)
	if err != nil {
		return da.RouteContext{}, util.WrapErrorf(err, util.ErrBadParamInput, "invalid metric")
	}
	return da.NewRouteContext(tod, m), nil
}

func (rs *RoutingService) snap(lat, lon float64, label string) (string, error) {
	v, ok := rs.spatialIndex.SnapToVertex(lat, lon, rs.searchRadius)
	if !ok {
		return "", util.WrapErrorf(nil, util.ErrBadParamInput,
			"no road segment within %.2f km of %s (%f,%f)", rs.searchRadius, label, lat, lon)
	}
	return rs.engine.GetGraph().GetVertex(v).GetExternalID(), nil
}

func (rs *RoutingService) mapEngineErr(err error) error {
	switch {
	case errors.Is(err, routing.ErrInvalidNode):
		return util.WrapErrorf(err, util.ErrBadParamInput, "%s", err.Error())
	case errors.Is(err, routing.ErrNoPath):
		return util.WrapErrorf(err, util.ErrNotFound, "%s", err.Error())
	}
	return util.WrapErrorf(err, util.ErrInternalServerError, util.MessageInternalServerError)
}

func (rs *RoutingService) present(p da.Path) Route {
	g := rs.engine.GetGraph()

	distance := 0.0
	for _, eid := range p.GetEdges() {
		distance += g.GetOutEdge(eid).GetDistance()
	}

	coords := make([]geo.Coordinate, 0, p.Len())
	for _, v := range p.GetVertices() {
		vert := g.GetVertex(v)
		if vert.HasCoordinate() {
			coords = append(coords, geo.NewCoordinate(vert.GetLat(), vert.GetLon()))
		}
	}

	return Route{
		NodeIDs:    p.ExternalIDs(g),
		Cost:       p.GetCost(),
		DistanceKm: distance,
		Polyline:   geo.PolylineFromCoords(coords),
	}
}

// ShortestPath snaps both coordinates to the network and runs the
// time-dependent dijkstra query.
func (rs *RoutingService) ShortestPath(origLat, origLon, dstLat, dstLon float64,
	timeOfDay, metric string) (Route, error) {

	ctx, err := rs.buildContext(timeOfDay, metric)
	if err != nil {
		return Route{}, err
	}

	sourceID, err := rs.snap(origLat, origLon, "origin")
	if err != nil {
		return Route{}, err
	}
	targetID, err := rs.snap(dstLat, dstLon, "destination")
	if err != nil {
		return Route{}, err
	}

	path, err := rs.engine.ShortestPath(sourceID, targetID, ctx)
	if err != nil {
		return Route{}, rs.mapEngineErr(err)
	}

	rs.log.Info("shortest path query",
		zap.String("source", sourceID), zap.String("target", targetID),
		zap.String("time_of_day", timeOfDay), zap.Float64("cost", path.GetCost()))

	return rs.present(path), nil
}

// AlternativeRoutes returns up to k loopless alternatives, best first.
func (rs *RoutingService) AlternativeRoutes(origLat, origLon, dstLat, dstLon float64,
	timeOfDay, metric string, k int) ([]Route, error) {

	if k <= 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "k must be positive, got %d", k)
	}

	ctx, err := rs.buildContext(timeOfDay, metric)
	if err != nil {
		return nil, err
	}

	sourceID, err := rs.snap(origLat, origLon, "origin")
	if err != nil {
		return nil, err
	}
	targetID, err := rs.snap(dstLat, dstLon, "destination")
	if err != nil {
		return nil, err
	}

	paths, err := rs.engine.KShortestPaths(sourceID, targetID, k, ctx)
	if err != nil {
		return nil, rs.mapEngineErr(err)
	}

	routes := make([]Route, 0, len(paths))
	for _, p := range paths {
		routes = append(routes, rs.present(p))
	}
	return routes, nil
}

// EmergencyRoute runs the priority-weighted A* query. priorityFactor > 1
// biases the search toward congested-but-short corridors.
func (rs *RoutingService) EmergencyRoute(origLat, origLon, dstLat, dstLon float64,
	timeOfDay, metric string, priorityFactor float64) (Route, error) {

	if priorityFactor <= 0 {
		return Route{}, util.WrapErrorf(nil, util.ErrBadParamInput,
			"priority factor must be positive, got %f", priorityFactor)
	}

	ctx, err := rs.buildContext(timeOfDay, metric)
	if err != nil {
		return Route{}, err
	}
	ctx = ctx.WithPriorityFactor(priorityFactor)

	sourceID, err := rs.snap(origLat, origLon, "origin")
	if err != nil {
		return Route{}, err
	}
	targetID, err := rs.snap(dstLat, dstLon, "destination")
	if err != nil {
		return Route{}, err
	}

	path, err := rs.engine.PriorityPath(sourceID, targetID, ctx)
	if err != nil {
		return Route{}, rs.mapEngineErr(err)
	}

	rs.log.Info("emergency route query",
		zap.String("source", sourceID), zap.String("target", targetID),
		zap.Float64("priority_factor", priorityFactor), zap.Float64("cost", path.GetCost()))

	return rs.present(path), nil
}

// Congestion reports per-edge V/C ratios and the bottlenecks above the
// threshold for one time-of-day bucket.
func (rs *RoutingService) Congestion(timeOfDay string, threshold float64) (
	[]analysis.EdgeCongestion, []analysis.EdgeCongestion, error) {

	tod, err := pkg.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid time_of_day")
	}
	if threshold <= 0 {
		return nil, nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"threshold must be positive, got %f", threshold)
	}

	levels := rs.analyzer.CongestionLevels(tod)
	bottlenecks := rs.analyzer.Bottlenecks(tod, threshold)
	return levels, bottlenecks, nil
}
