// Package loader materializes a RoadGraph and TrafficSnapshot from the city
// dataset (roads, facilities, traffic observations). It is the only place
// that touches files; the engines receive finished read-only structures.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/transportlab/citypath/pkg"
	da "github.com/transportlab/citypath/pkg/datastructure"
	"github.com/transportlab/citypath/pkg/geo"
	"go.uber.org/zap"
)

const (
	// access roads between a facility and its nearest neighborhood are
	// short high-capacity stubs
	facilityAccessCapacity  = 2000.0
	facilityAccessCondition = 10
)

// flexID accepts dataset node ids that appear both as JSON numbers ("ID": 4)
// and as strings ("ID": "F1").
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) String() string {
	return string(f)
}

type nodeRecord struct {
	ID         flexID   `json:"ID"`
	Name       string   `json:"Name"`
	Type       string   `json:"Type"`
	XCoord     *float64 `json:"X_coordinate"`
	YCoord     *float64 `json:"Y_coordinate"`
	Population int      `json:"Population"`
}

type edgeRecord struct {
	FromID            flexID   `json:"FromID"`
	ToID              flexID   `json:"ToID"`
	DistanceKm        float64  `json:"Distance_km"`
	CurrentCapacity   *float64 `json:"Current_Capacity_vehicles_hour"`
	EstimatedCapacity *float64 `json:"Estimated_Capacity_vehicles_hour"`
	Condition         int      `json:"Condition_1_10"`
	ConstructionCost  float64  `json:"Construction_Cost_Million_EGP"`
	Status            string   `json:"status"`
}

type roadFile struct {
	Nodes []nodeRecord `json:"nodes"`
	Edges []edgeRecord `json:"edges"`
}

type facilityFile struct {
	Neighborhoods []nodeRecord `json:"neighborhoods"`
	Facilities    []nodeRecord `json:"facilities"`
}

type trafficRecord struct {
	RoadIDFrom  flexID  `json:"RoadID_From"`
	RoadIDTo    flexID  `json:"RoadID_To"`
	MorningPeak float64 `json:"Morning_Peak_veh_h"`
	Afternoon   float64 `json:"Afternoon_veh_h"`
	EveningPeak float64 `json:"Evening_Peak_veh_h"`
	Night       float64 `json:"Night_veh_h"`
}

type edgeKey struct {
	from, to da.Index
}

type Loader struct {
	log *zap.Logger
}

func NewLoader(log *zap.Logger) *Loader {
	return &Loader{log: log}
}

// LoadFiles reads the three dataset files and builds the routing inputs.
func (l *Loader) LoadFiles(roadPath, facilitiesPath, trafficPath string) (*da.RoadGraph, *da.TrafficSnapshot, error) {
	roadF, err := os.Open(roadPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open road data: %w", err)
	}
	defer roadF.Close()

	facilityF, err := os.Open(facilitiesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open facilities data: %w", err)
	}
	defer facilityF.Close()

	trafficF, err := os.Open(trafficPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open traffic data: %w", err)
	}
	defer trafficF.Close()

	return l.Load(roadF, facilityF, trafficF)
}

// Load builds the graph and snapshot from the dataset streams. Directed
// internally: every symmetric road contributes one edge per direction.
func (l *Loader) Load(roads, facilities, traffic io.Reader) (*da.RoadGraph, *da.TrafficSnapshot, error) {
	var rf roadFile
	if err := json.NewDecoder(roads).Decode(&rf); err != nil {
		return nil, nil, fmt.Errorf("decode road data: %w", err)
	}

	var ff facilityFile
	if err := json.NewDecoder(facilities).Decode(&ff); err != nil {
		return nil, nil, fmt.Errorf("decode facilities data: %w", err)
	}

	var tf []trafficRecord
	if err := json.NewDecoder(traffic).Decode(&tf); err != nil {
		return nil, nil, fmt.Errorf("decode traffic data: %w", err)
	}

	gb := da.NewGraphBuilder()

	for _, n := range rf.Nodes {
		l.addNode(gb, n, "")
	}
	for _, n := range ff.Neighborhoods {
		l.addNode(gb, n, "")
	}
	for _, n := range ff.Facilities {
		l.addNode(gb, n, n.Type)
	}

	edgeIds := make(map[edgeKey]da.Index)

	for _, e := range rf.Edges {
		fromID, toID := e.FromID.String(), e.ToID.String()
		from, okFrom := gb.GetVertexIndex(fromID)
		to, okTo := gb.GetVertexIndex(toID)
		if !okFrom || !okTo {
			l.log.Warn("edge references unknown node, skipping",
				zap.String("from", fromID), zap.String("to", toID))
			continue
		}

		capacity := 0.0
		if e.CurrentCapacity != nil {
			capacity = *e.CurrentCapacity
		} else if e.EstimatedCapacity != nil {
			capacity = *e.EstimatedCapacity
		}
		status := pkg.GetRoadStatus(e.Status)

		// symmetric pair, modeled as two directed edges
		fwd, err := gb.AddEdge(from, to, e.DistanceKm, e.ConstructionCost, capacity, e.Condition, status)
		if err != nil {
			return nil, nil, err
		}
		bwd, err := gb.AddEdge(to, from, e.DistanceKm, e.ConstructionCost, capacity, e.Condition, status)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := edgeIds[edgeKey{from, to}]; !dup {
			edgeIds[edgeKey{from, to}] = fwd
		}
		if _, dup := edgeIds[edgeKey{to, from}]; !dup {
			edgeIds[edgeKey{to, from}] = bwd
		}
	}

	l.connectFacilities(gb, ff.Facilities, edgeIds)

	graph := gb.Build()

	snapshot := da.NewTrafficSnapshot(graph.NumberOfEdges())
	joined := 0
	for _, t := range tf {
		from, okFrom := graph.GetVertexByExternalID(t.RoadIDFrom.String())
		to, okTo := graph.GetVertexByExternalID(t.RoadIDTo.String())
		if !okFrom || !okTo {
			l.log.Warn("traffic row references unknown node, skipping",
				zap.String("from", t.RoadIDFrom.String()), zap.String("to", t.RoadIDTo.String()))
			continue
		}
		eid, ok := edgeIds[edgeKey{from, to}]
		if !ok {
			l.log.Warn("traffic row for non-existent edge, skipping",
				zap.String("from", t.RoadIDFrom.String()), zap.String("to", t.RoadIDTo.String()))
			continue
		}
		snapshot.SetFlow(eid, pkg.MORNING_PEAK, t.MorningPeak)
		snapshot.SetFlow(eid, pkg.AFTERNOON, t.Afternoon)
		snapshot.SetFlow(eid, pkg.EVENING_PEAK, t.EveningPeak)
		snapshot.SetFlow(eid, pkg.NIGHT, t.Night)
		joined++
	}

	l.log.Info("city dataset loaded",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()),
		zap.Int("traffic_rows", joined))

	return graph, snapshot, nil
}

func (l *Loader) addNode(gb *da.GraphBuilder, n nodeRecord, facilityType string) {
	id := n.ID.String()
	if id == "" || gb.HasVertex(id) {
		return
	}
	v := gb.AddVertex(id, n.Name, facilityType)
	if n.XCoord != nil && n.YCoord != nil {
		// dataset coordinates are (x=lon, y=lat)
		gb.SetVertexCoordinate(v, *n.YCoord, *n.XCoord)
	}
}

// connectFacilities links every facility to its nearest road node with a
// short access road in both directions.
func (l *Loader) connectFacilities(gb *da.GraphBuilder, facilities []nodeRecord,
	edgeIds map[edgeKey]da.Index) {

	for _, f := range facilities {
		fIdx, ok := gb.GetVertexIndex(f.ID.String())
		if !ok {
			continue
		}
		fv := gb.GetVertex(fIdx)
		if !fv.HasCoordinate() {
			continue
		}

		nearest, distKm := l.nearestRoadNode(gb, fIdx)
		if nearest == da.INVALID_INDEX {
			continue
		}

		a1, err := gb.AddEdge(fIdx, nearest, distKm, 0, facilityAccessCapacity, facilityAccessCondition, pkg.ROAD_EXISTING)
		if err != nil {
			continue
		}
		a2, err := gb.AddEdge(nearest, fIdx, distKm, 0, facilityAccessCapacity, facilityAccessCondition, pkg.ROAD_EXISTING)
		if err != nil {
			continue
		}
		edgeIds[edgeKey{fIdx, nearest}] = a1
		edgeIds[edgeKey{nearest, fIdx}] = a2
	}
}

func (l *Loader) nearestRoadNode(gb *da.GraphBuilder, facility da.Index) (da.Index, float64) {
	fv := gb.GetVertex(facility)
	fCoord := geo.NewCoordinate(fv.GetLat(), fv.GetLon())

	best := da.INVALID_INDEX
	bestDist := 0.0
	for v := 0; v < gb.NumberOfVertices(); v++ {
		cand := gb.GetVertex(da.Index(v))
		if da.Index(v) == facility || cand.GetFacilityType() != "" || !cand.HasCoordinate() {
			continue
		}
		d := geo.CalculateHaversineDistance(fCoord.GetLat(), fCoord.GetLon(), cand.GetLat(), cand.GetLon())
		if best == da.INVALID_INDEX || d < bestDist {
			best = da.Index(v)
			bestDist = d
		}
	}
	return best, bestDist
}
