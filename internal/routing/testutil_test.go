package routing

import (
	"optiroute/internal/model"
)

// lineNetwork is three nodes in a line N1-N2-N3 with 100 m segments in
// both directions.
func lineNetwork() *model.RoadNetwork {
	nodes := map[int64]model.Node{
		1: {ID: 1, Lat: 45.0, Lng: 4.0},
		2: {ID: 2, Lat: 45.001, Lng: 4.0},
		3: {ID: 3, Lat: 45.002, Lng: 4.0},
	}
	segs := []model.Segment{
		{Origin: 1, Destination: 2, LengthM: 100, Name: "Rue A"},
		{Origin: 2, Destination: 1, LengthM: 100, Name: "Rue A"},
		{Origin: 2, Destination: 3, LengthM: 100, Name: "Rue B"},
		{Origin: 3, Destination: 2, LengthM: 100, Name: "Rue B"},
	}
	return &model.RoadNetwork{Nodes: nodes, Segments: segs}
}

// graphFrom builds a StopGraph by hand from a pairwise distance
// function over stop indices, bypassing Dijkstra.
func graphFrom(stops []model.Stop, demands []model.Demand, dist func(i, j int) float64) *model.StopGraph {
	matrix := map[model.Stop]map[model.Stop]model.Leg{}
	for i, a := range stops {
		matrix[a] = map[model.Stop]model.Leg{}
		for j, b := range stops {
			if i == j {
				continue
			}
			d := dist(i, j)
			matrix[a][b] = model.Leg{DistanceM: d, DurationSec: d / CourierSpeedMps}
		}
	}
	dm := map[string]model.Demand{}
	for _, d := range demands {
		dm[d.ID] = d
	}
	var wh model.Stop
	for _, st := range stops {
		if st.Type == model.StopWarehouse {
			wh = st
		}
	}
	return &model.StopGraph{Warehouse: wh, Stops: stops, Matrix: matrix, Demands: dm}
}

// lineDist treats positions as points on a line.
func lineDist(pos []float64) func(i, j int) float64 {
	return func(i, j int) float64 {
		d := pos[i] - pos[j]
		if d < 0 {
			d = -d
		}
		return d
	}
}
