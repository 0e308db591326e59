package routing

import (
	"fmt"
	"math"

	"optiroute/internal/model"
)

// BuildInitialRoute builds a warehouse-bounded tour over stops with a
// greedy nearest-neighbor walk. At each step the closest unvisited
// feasible stop is chosen: pickups are always feasible, a delivery only
// after its demand's pickup, and the warehouse is never re-chosen
// mid-route. Equidistant candidates tie-break to the first one
// encountered in the input stop list (strict < comparison), which keeps
// construction deterministic.
func BuildInitialRoute(g *model.StopGraph, warehouse model.Stop, stops []model.Stop, pickups map[string]model.Stop) ([]model.Stop, error) {
	if g == nil || g.Matrix == nil {
		return nil, fmt.Errorf("%w: nil stop graph", ErrInvalidArgument)
	}
	if warehouse.Type != model.StopWarehouse {
		return nil, fmt.Errorf("%w: start stop %v is not a warehouse", ErrInvalidArgument, warehouse)
	}
	if pickups == nil {
		return nil, fmt.Errorf("%w: nil pickups-by-demand map", ErrInvalidArgument)
	}

	toVisit := 0
	for _, st := range stops {
		if st.Type != model.StopWarehouse {
			toVisit++
		}
	}

	route := make([]model.Stop, 0, toVisit+2)
	route = append(route, warehouse)
	visited := make(map[model.Stop]bool, toVisit)
	current := warehouse

	for len(visited) < toVisit {
		best := model.Stop{}
		bestDist := math.Inf(1)
		found := false
		for _, cand := range stops {
			if cand.Type == model.StopWarehouse || visited[cand] {
				continue
			}
			if cand.Type == model.StopDelivery && !visited[pickups[cand.DemandID]] {
				continue
			}
			leg, ok := g.Matrix[current][cand]
			if !ok {
				continue
			}
			if leg.DistanceM < bestDist {
				bestDist = leg.DistanceM
				best = cand
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: no feasible next stop with %d stops unvisited from %v",
				ErrLogicInvariant, toVisit-len(visited), current)
		}
		visited[best] = true
		route = append(route, best)
		current = best
	}

	route = append(route, warehouse)
	return route, nil
}

// PickupsByDemand indexes the pickup stop of each demand present in stops.
func PickupsByDemand(stops []model.Stop) map[string]model.Stop {
	out := make(map[string]model.Stop)
	for _, st := range stops {
		if st.Type == model.StopPickup {
			out[st.DemandID] = st
		}
	}
	return out
}

// DeliveriesByDemand indexes the delivery stop of each demand present in stops.
func DeliveriesByDemand(stops []model.Stop) map[string]model.Stop {
	out := make(map[string]model.Stop)
	for _, st := range stops {
		if st.Type == model.StopDelivery {
			out[st.DemandID] = st
		}
	}
	return out
}
