package controllers

import (
	"github.com/transportlab/citypath/pkg/analysis"
	"github.com/transportlab/citypath/pkg/http/usecases"
)

type shortestPathRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
	TimeOfDay      string  `json:"time_of_day" validate:"required"`
	Metric         string  `json:"metric" validate:"omitempty,oneof=distance travel_time monetary"`
}

type alternativeRoutesRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
	TimeOfDay      string  `json:"time_of_day" validate:"required"`
	Metric         string  `json:"metric" validate:"omitempty,oneof=distance travel_time monetary"`
	K              int64   `json:"k" validate:"required,min=1,max=32"`
}

type emergencyRouteRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
	TimeOfDay      string  `json:"time_of_day" validate:"required"`
	Metric         string  `json:"metric" validate:"omitempty,oneof=distance travel_time monetary"`
	PriorityFactor float64 `json:"priority_factor" validate:"required,gt=0"`
}

type congestionRequest struct {
	TimeOfDay string  `json:"time_of_day" validate:"required"`
	Threshold float64 `json:"threshold" validate:"required,gt=0"`
}

type routeResponse struct {
	NodeIDs    []string `json:"node_ids"`
	Cost       float64  `json:"cost"`
	DistanceKm float64  `json:"distance_km"`
	Path       string   `json:"path"`
}

func NewRouteResponse(route usecases.Route) routeResponse {
	return routeResponse{
		NodeIDs:    route.NodeIDs,
		Cost:       route.Cost,
		DistanceKm: route.DistanceKm,
		Path:       route.Polyline,
	}
}

type alternativeRoutesResponse struct {
	Routes []routeResponse `json:"routes"`
}

func NewAlternativeRoutesResponse(routes []usecases.Route) alternativeRoutesResponse {
	resp := alternativeRoutesResponse{Routes: make([]routeResponse, 0, len(routes))}
	for _, route := range routes {
		resp.Routes = append(resp.Routes, NewRouteResponse(route))
	}
	return resp
}

type congestionResponse struct {
	Edges       []analysis.EdgeCongestion `json:"edges"`
	Bottlenecks []analysis.EdgeCongestion `json:"bottlenecks"`
}

func NewCongestionResponse(edges, bottlenecks []analysis.EdgeCongestion) congestionResponse {
	return congestionResponse{
		Edges:       edges,
		Bottlenecks: bottlenecks,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
