package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transportlab/citypath/pkg"
	da "github.com/transportlab/citypath/pkg/datastructure"
	"github.com/transportlab/citypath/pkg/logger"
)

const roadJSON = `{
	"nodes": [
		{"ID": 1, "Name": "Maadi", "Population": 250000, "X_coordinate": 31.25, "Y_coordinate": 29.96},
		{"ID": 2, "Name": "Nasr City", "Population": 500000, "X_coordinate": 31.34, "Y_coordinate": 30.06},
		{"ID": 3, "Name": "Downtown", "Population": 100000, "X_coordinate": 31.24, "Y_coordinate": 30.04}
	],
	"edges": [
		{"FromID": 1, "ToID": 2, "Distance_km": 15.0, "Current_Capacity_vehicles_hour": 3000, "Condition_1_10": 7},
		{"FromID": 2, "ToID": 3, "Distance_km": 8.2, "Current_Capacity_vehicles_hour": 3500, "Condition_1_10": 8},
		{"FromID": 1, "ToID": 3, "Distance_km": 9.5, "Estimated_Capacity_vehicles_hour": 4000,
		 "Condition_1_10": 0, "Construction_Cost_Million_EGP": 450, "status": "potential"},
		{"FromID": 1, "ToID": 99, "Distance_km": 1.0, "Current_Capacity_vehicles_hour": 100, "Condition_1_10": 5}
	]
}`

const facilityJSON = `{
	"neighborhoods": [],
	"facilities": [
		{"ID": "F1", "Name": "Cairo Airport", "Type": "Airport", "X_coordinate": 31.41, "Y_coordinate": 30.11}
	]
}`

const trafficJSON = `[
	{"RoadID_From": 1, "RoadID_To": 2, "Morning_Peak_veh_h": 2800,
	 "Afternoon_veh_h": 1500, "Evening_Peak_veh_h": 2600, "Night_veh_h": 500},
	{"RoadID_From": 7, "RoadID_To": 8, "Morning_Peak_veh_h": 100,
	 "Afternoon_veh_h": 100, "Evening_Peak_veh_h": 100, "Night_veh_h": 100}
]`

func loadTestData(t *testing.T) (*da.RoadGraph, *da.TrafficSnapshot) {
	t.Helper()
	log, err := logger.New()
	require.NoError(t, err)

	g, traffic, err := NewLoader(log).Load(
		strings.NewReader(roadJSON),
		strings.NewReader(facilityJSON),
		strings.NewReader(trafficJSON))
	require.NoError(t, err)
	return g, traffic
}

func TestLoadNodes(t *testing.T) {
	g, _ := loadTestData(t)

	v, ok := g.GetVertexByExternalID("1")
	require.True(t, ok)
	vert := g.GetVertex(v)
	assert.Equal(t, "Maadi", vert.GetName())
	// dataset stores x=lon, y=lat
	assert.InDelta(t, 29.96, vert.GetLat(), 1e-9)
	assert.InDelta(t, 31.25, vert.GetLon(), 1e-9)

	f, ok := g.GetVertexByExternalID("F1")
	require.True(t, ok)
	assert.Equal(t, "Airport", g.GetVertex(f).GetFacilityType())
}

func TestLoadEdges(t *testing.T) {
	g, _ := loadTestData(t)

	one, _ := g.GetVertexByExternalID("1")
	two, _ := g.GetVertexByExternalID("2")
	three, _ := g.GetVertexByExternalID("3")

	// each road row yields a directed edge per direction; the row pointing
	// at unknown node 99 is dropped; the airport gains one access road pair
	assert.Equal(t, 3*2+2, g.NumberOfEdges())

	fwd, ok := g.FindEdge(one, two)
	require.True(t, ok)
	assert.InDelta(t, 15.0, fwd.GetDistance(), 1e-9)
	assert.InDelta(t, 3000.0, fwd.GetCapacity(), 1e-9)

	bwd, ok := g.FindEdge(two, one)
	require.True(t, ok)
	assert.InDelta(t, 15.0, bwd.GetDistance(), 1e-9)

	// estimated capacity backs up a missing current capacity
	potential, ok := g.FindEdge(one, three)
	require.True(t, ok)
	assert.InDelta(t, 4000.0, potential.GetCapacity(), 1e-9)
	assert.True(t, potential.IsPotential())
	assert.InDelta(t, 450.0, potential.GetMonetaryCost(), 1e-9)
}

func TestLoadFacilityAccess(t *testing.T) {
	g, _ := loadTestData(t)

	f, _ := g.GetVertexByExternalID("F1")
	// node 2 (Nasr City) is the closest road node to the airport
	two, _ := g.GetVertexByExternalID("2")

	access, ok := g.FindEdge(f, two)
	require.True(t, ok, "facility must be connected to the road network")
	assert.InDelta(t, 2000.0, access.GetCapacity(), 1e-9)

	back, ok := g.FindEdge(two, f)
	require.True(t, ok)
	assert.Equal(t, access.GetDistance(), back.GetDistance())
}

func TestLoadTrafficJoin(t *testing.T) {
	g, traffic := loadTestData(t)

	one, _ := g.GetVertexByExternalID("1")
	two, _ := g.GetVertexByExternalID("2")
	e, ok := g.FindEdge(one, two)
	require.True(t, ok)

	assert.Equal(t, 2800.0, traffic.GetFlow(e.GetEdgeId(), pkg.MORNING_PEAK))
	assert.Equal(t, 1500.0, traffic.GetFlow(e.GetEdgeId(), pkg.AFTERNOON))
	assert.Equal(t, 2600.0, traffic.GetFlow(e.GetEdgeId(), pkg.EVENING_PEAK))
	assert.Equal(t, 500.0, traffic.GetFlow(e.GetEdgeId(), pkg.NIGHT))

	// unreferenced edges stay at free flow
	three, _ := g.GetVertexByExternalID("3")
	e2, ok := g.FindEdge(two, three)
	require.True(t, ok)
	assert.Equal(t, 0.0, traffic.GetFlow(e2.GetEdgeId(), pkg.MORNING_PEAK))
}

func TestLoadMalformedInput(t *testing.T) {
	log, err := logger.New()
	require.NoError(t, err)
	l := NewLoader(log)

	_, _, err = l.Load(strings.NewReader("{not json"),
		strings.NewReader(facilityJSON), strings.NewReader(trafficJSON))
	assert.Error(t, err)

	_, _, err = l.Load(strings.NewReader(roadJSON),
		strings.NewReader(facilityJSON), strings.NewReader(`{"wrong": "shape"}`))
	assert.Error(t, err)
}
