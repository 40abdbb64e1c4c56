package main

import (
	"context"
	"flag"

	"github.com/transportlab/citypath/pkg/analysis"
	"github.com/transportlab/citypath/pkg/engine/routing"
	"github.com/transportlab/citypath/pkg/http"
	"github.com/transportlab/citypath/pkg/http/usecases"
	"github.com/transportlab/citypath/pkg/loader"
	"github.com/transportlab/citypath/pkg/logger"
	"github.com/transportlab/citypath/pkg/spatialindex"
	"github.com/transportlab/citypath/pkg/util"
	"go.uber.org/zap"
)

var (
	roadNetworkFile       = flag.String("road_network", "./data/road_network.json", "city road network json file")
	facilitiesFile        = flag.String("facilities", "./data/facilities.json", "city facilities json file")
	trafficFile           = flag.String("traffic", "./data/traffic.json", "traffic observations json file")
	snapSearchRadius      = flag.Float64("snap_search_radius", 0.5, "snap-to-road search radius in km")
	leafBoundingBoxRadius = flag.Float64("leaf_bounding_box_radius", 0.05, "leaf node (r-tree) bounding box radius in km")
	useRateLimit          = flag.Bool("rate_limit", false, "enable per-client rate limiting")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		logger.Warn("config file not found, using defaults", zap.Error(err))
	}

	graph, traffic, err := loader.NewLoader(logger).LoadFiles(*roadNetworkFile, *facilitiesFile, *trafficFile)
	if err != nil {
		panic(err)
	}

	routingEngine := routing.NewRoutingEngine(graph, traffic)

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, *leafBoundingBoxRadius, logger)

	analyzer := analysis.NewAnalyzer(graph, traffic)

	api := http.NewServer(logger)

	routingService := usecases.NewRoutingService(logger, routingEngine, rtree, analyzer, *snapSearchRadius)
	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	api.Use(ctx, logger, *useRateLimit, routingService)

	signal := http.GracefulShutdown()

	logger.Info("CityPath Routing Engine Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
