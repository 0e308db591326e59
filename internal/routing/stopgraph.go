package routing

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"optiroute/internal/model"
)

// Fixed fleet constants.
const (
	// CourierSpeedMps is the fixed courier speed, 15 km/h.
	CourierSpeedMps = 4.1667
	// DutyBudgetSec is the hard per-courier duty budget, 4 hours.
	DutyBudgetSec = 14400.0
	MinCouriers   = 1
	MaxCouriers   = 10
)

// StopsForPlanning derives the stop set for one calculation: the
// warehouse stop followed by each demand's pickup and delivery stops,
// in input order.
func StopsForPlanning(wh model.Warehouse, demands []model.Demand) []model.Stop {
	stops := make([]model.Stop, 0, 1+2*len(demands))
	stops = append(stops, wh.Stop())
	for _, d := range demands {
		stops = append(stops, d.PickupStop(), d.DeliveryStop())
	}
	return stops
}

// BuildStopGraph computes the complete directed graph over stops. Every
// ordered pair of distinct stops gets a leg with the shortest segment
// chain, its distance and its travel time at courier speed.
//
// The N·(N-1) path computations are independent and fan out across
// workers; they share this engine's cache, so symmetric demand sets and
// repeated calculations reuse prior work.
func (e *PathEngine) BuildStopGraph(ctx context.Context, net *model.RoadNetwork, stops []model.Stop, demands []model.Demand) (*model.StopGraph, error) {
	if net == nil {
		return nil, fmt.Errorf("%w: nil road network", ErrInvalidArgument)
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("%w: empty stop set", ErrInvalidArgument)
	}

	var warehouse model.Stop
	warehouses := 0
	for _, st := range stops {
		if st.Type == model.StopWarehouse {
			warehouse = st
			warehouses++
		}
	}
	if warehouses == 0 {
		return nil, fmt.Errorf("%w: no warehouse stop in stop set", ErrNotFound)
	}
	if warehouses > 1 {
		return nil, fmt.Errorf("%w: %d warehouse stops, want exactly one", ErrInvalidArgument, warehouses)
	}

	// Resolve every stop's node before spending any Dijkstra work.
	nodes := make([]model.Node, len(stops))
	for i, st := range stops {
		n, ok := net.Nodes[st.NodeID]
		if !ok {
			return nil, fmt.Errorf("%w: %s stop (demand %q) references unknown node %d", ErrNotFound, st.Type, st.DemandID, st.NodeID)
		}
		nodes[i] = n
	}

	type pair struct{ src, dst int }
	pairs := make([]pair, 0, len(stops)*(len(stops)-1))
	for i := range stops {
		for j := range stops {
			if i != j {
				pairs = append(pairs, pair{src: i, dst: j})
			}
		}
	}
	results := make([]*model.PathResult, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for pi := range pairs {
		pi := pi
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := pairs[pi]
			res, err := e.ShortestPath(net, nodes[p.src], nodes[p.dst])
			if err != nil {
				return err
			}
			if math.IsInf(res.DistanceM, 1) {
				return fmt.Errorf("%w: node %d to node %d (stops %v -> %v)",
					ErrInfeasiblePath, nodes[p.src].ID, nodes[p.dst].ID, stops[p.src], stops[p.dst])
			}
			results[pi] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matrix := make(map[model.Stop]map[model.Stop]model.Leg, len(stops))
	for _, st := range stops {
		matrix[st] = make(map[model.Stop]model.Leg, len(stops)-1)
	}
	for pi, p := range pairs {
		res := results[pi]
		matrix[stops[p.src]][stops[p.dst]] = model.Leg{
			Segments:    res.Segments,
			DistanceM:   res.DistanceM,
			DurationSec: res.DistanceM / CourierSpeedMps,
		}
	}

	demandMap := make(map[string]model.Demand, len(demands))
	for _, d := range demands {
		demandMap[d.ID] = d
	}

	return &model.StopGraph{
		Warehouse: warehouse,
		Stops:     append([]model.Stop(nil), stops...),
		Matrix:    matrix,
		Demands:   demandMap,
	}, nil
}
