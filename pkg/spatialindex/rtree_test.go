package spatialindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transportlab/citypath/pkg"
	da "github.com/transportlab/citypath/pkg/datastructure"
	"github.com/transportlab/citypath/pkg/logger"
)

// two roads around central Cairo, roughly north-south and east-west
func buildIndexedNetwork(t *testing.T) (*Rtree, *da.RoadGraph) {
	t.Helper()
	gb := da.NewGraphBuilder()
	a := gb.AddVertex("A", "A", "")
	b := gb.AddVertex("B", "B", "")
	c := gb.AddVertex("C", "C", "")

	gb.SetVertexCoordinate(a, 30.00, 31.20)
	gb.SetVertexCoordinate(b, 30.05, 31.20)
	gb.SetVertexCoordinate(c, 30.00, 31.25)

	_, err := gb.AddEdge(a, b, 5.5, 1, 1000, 10, pkg.ROAD_EXISTING)
	require.NoError(t, err)
	_, err = gb.AddEdge(a, c, 4.8, 1, 1000, 10, pkg.ROAD_EXISTING)
	require.NoError(t, err)

	g := gb.Build()

	log, err := logger.New()
	require.NoError(t, err)

	rt := NewRtree()
	rt.Build(g, 0.05, log)
	return rt, g
}

func TestSnapToVertexNearEndpoint(t *testing.T) {
	rt, g := buildIndexedNetwork(t)

	// query right next to B
	v, ok := rt.SnapToVertex(30.0501, 31.2001, 0.5)
	require.True(t, ok)
	assert.Equal(t, "B", g.GetVertex(v).GetExternalID())
}

func TestSnapToVertexMidSegment(t *testing.T) {
	rt, g := buildIndexedNetwork(t)

	// a third of the way up the A-B road, slightly off to the side;
	// A is the closer endpoint
	v, ok := rt.SnapToVertex(30.015, 31.2005, 0.5)
	require.True(t, ok)
	assert.Equal(t, "A", g.GetVertex(v).GetExternalID())
}

func TestSnapToVertexOutOfRange(t *testing.T) {
	rt, _ := buildIndexedNetwork(t)

	// Alexandria is a couple hundred km away from every indexed segment
	_, ok := rt.SnapToVertex(31.20, 29.92, 0.5)
	assert.False(t, ok)
}

func TestSnapSkipsCoordinatelessEdges(t *testing.T) {
	gb := da.NewGraphBuilder()
	a := gb.AddVertex("A", "A", "")
	b := gb.AddVertex("B", "B", "")
	_, err := gb.AddEdge(a, b, 1, 1, 100, 10, pkg.ROAD_EXISTING)
	require.NoError(t, err)
	g := gb.Build()

	log, err := logger.New()
	require.NoError(t, err)

	rt := NewRtree()
	rt.Build(g, 0.05, log)

	_, ok := rt.SnapToVertex(30.0, 31.2, 1.0)
	assert.False(t, ok, "edges without coordinates must not be indexed")
}
