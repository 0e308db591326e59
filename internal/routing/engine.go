package routing

import (
	"context"
	"fmt"

	"optiroute/internal/model"
)

// Engine composes the pipeline: greedy construction, 2-opt refinement,
// FIFO distribution. It holds no per-calculation state; the only state
// spanning calls is the shortest-path cache inside Paths.
type Engine struct {
	Paths *PathEngine
}

func NewEngine(paths *PathEngine) *Engine {
	if paths == nil {
		paths = NewPathEngine(nil)
	}
	return &Engine{Paths: paths}
}

// ExtractWarehouse returns the graph's warehouse stop.
func ExtractWarehouse(g *model.StopGraph) (model.Stop, error) {
	if g == nil {
		return model.Stop{}, fmt.Errorf("%w: nil stop graph", ErrInvalidArgument)
	}
	if g.Warehouse.Type == model.StopWarehouse {
		return g.Warehouse, nil
	}
	for _, st := range g.Stops {
		if st.Type == model.StopWarehouse {
			return st, nil
		}
	}
	return model.Stop{}, fmt.Errorf("%w: stop graph has no warehouse stop", ErrNotFound)
}

// NonWarehouseStops returns the pickup/delivery stops in graph order.
func NonWarehouseStops(g *model.StopGraph) []model.Stop {
	var out []model.Stop
	for _, st := range g.Stops {
		if st.Type != model.StopWarehouse {
			out = append(out, st)
		}
	}
	return out
}

// CalculateOptimalTours runs one batch calculation over an already built
// stop graph and returns per-courier tours plus unassigned demands.
func (e *Engine) CalculateOptimalTours(ctx context.Context, g *model.StopGraph, courierCount int) (*model.TourDistributionResult, error) {
	if g == nil || g.Matrix == nil {
		return nil, fmt.Errorf("%w: nil stop graph", ErrInvalidArgument)
	}
	if courierCount < MinCouriers || courierCount > MaxCouriers {
		return nil, fmt.Errorf("%w: courier count %d outside [%d,%d]", ErrInvalidArgument, courierCount, MinCouriers, MaxCouriers)
	}
	warehouse, err := ExtractWarehouse(g)
	if err != nil {
		return nil, err
	}
	stops := NonWarehouseStops(g)
	if len(stops) == 0 {
		return nil, fmt.Errorf("%w: stop graph holds only the warehouse", ErrNoDemands)
	}
	pickups := PickupsByDemand(stops)
	deliveries := DeliveriesByDemand(stops)

	route, err := BuildInitialRoute(g, warehouse, stops, pickups)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	optimized, err := Optimize(route, g, pickups, deliveries)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DistributeFIFO(optimized, g, courierCount, pickups, deliveries, g.Demands, warehouse)
}
