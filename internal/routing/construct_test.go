package routing

import (
	"errors"
	"testing"

	"optiroute/internal/model"
)

func TestBuildInitialRoutePrecedence(t *testing.T) {
	// Deliveries sit closer to the warehouse than their pickups; greedy
	// must still visit pickups first.
	wh := model.Stop{Type: model.StopWarehouse, NodeID: 0}
	dA := model.Demand{ID: "a", PickupNodeID: 10, DeliveryNodeID: 1}
	dB := model.Demand{ID: "b", PickupNodeID: 11, DeliveryNodeID: 2}
	stops := []model.Stop{wh, dA.PickupStop(), dA.DeliveryStop(), dB.PickupStop(), dB.DeliveryStop()}
	pos := []float64{0, 10, 1, 11, 2}
	g := graphFrom(stops, []model.Demand{dA, dB}, lineDist(pos))

	route, err := BuildInitialRoute(g, wh, stops[1:], PickupsByDemand(stops))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(route) != 6 || route[0] != wh || route[len(route)-1] != wh {
		t.Fatalf("route not warehouse-bounded: %v", route)
	}
	if !RespectsPrecedence(route, PickupsByDemand(stops), DeliveriesByDemand(stops)) {
		t.Fatalf("precedence violated: %v", route)
	}
}

func TestBuildInitialRouteEmptyStops(t *testing.T) {
	wh := model.Stop{Type: model.StopWarehouse, NodeID: 0}
	g := graphFrom([]model.Stop{wh}, nil, func(i, j int) float64 { return 0 })
	route, err := BuildInitialRoute(g, wh, []model.Stop{}, map[string]model.Stop{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(route) != 2 || route[0] != wh || route[1] != wh {
		t.Fatalf("empty stops: got %v, want [warehouse, warehouse]", route)
	}
}

func TestBuildInitialRouteTieBreak(t *testing.T) {
	// Two pickups at the same distance: the one listed first wins.
	wh := model.Stop{Type: model.StopWarehouse, NodeID: 0}
	dA := model.Demand{ID: "a", PickupNodeID: 1, DeliveryNodeID: 3}
	dB := model.Demand{ID: "b", PickupNodeID: 2, DeliveryNodeID: 4}
	stops := []model.Stop{wh, dA.PickupStop(), dA.DeliveryStop(), dB.PickupStop(), dB.DeliveryStop()}
	// pickup a and pickup b both 5 away from the warehouse.
	pos := []float64{0, 5, 6, -5, -6}
	g := graphFrom(stops, []model.Demand{dA, dB}, lineDist(pos))

	route, err := BuildInitialRoute(g, wh, stops[1:], PickupsByDemand(stops))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if route[1] != dA.PickupStop() {
		t.Fatalf("tie must keep first-encountered stop, got %v", route[1])
	}

	// Swapping the input order flips the winner.
	swapped := []model.Stop{dB.PickupStop(), dB.DeliveryStop(), dA.PickupStop(), dA.DeliveryStop()}
	route, err = BuildInitialRoute(g, wh, swapped, PickupsByDemand(stops))
	if err != nil {
		t.Fatalf("build swapped: %v", err)
	}
	if route[1] != dB.PickupStop() {
		t.Fatalf("tie must follow input order, got %v", route[1])
	}
}

func TestBuildInitialRouteInvalidArgs(t *testing.T) {
	wh := model.Stop{Type: model.StopWarehouse, NodeID: 0}
	g := graphFrom([]model.Stop{wh}, nil, func(i, j int) float64 { return 0 })
	if _, err := BuildInitialRoute(nil, wh, nil, map[string]model.Stop{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil graph: got %v", err)
	}
	if _, err := BuildInitialRoute(g, model.Stop{Type: model.StopPickup, NodeID: 1}, nil, map[string]model.Stop{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("non-warehouse start: got %v", err)
	}
	if _, err := BuildInitialRoute(g, wh, nil, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil pickups: got %v", err)
	}
}

func TestBuildInitialRouteStall(t *testing.T) {
	// A delivery with no pickup anywhere can never become feasible.
	wh := model.Stop{Type: model.StopWarehouse, NodeID: 0}
	orphan := model.Stop{Type: model.StopDelivery, NodeID: 1, DemandID: "ghost"}
	stops := []model.Stop{wh, orphan}
	g := graphFrom(stops, nil, lineDist([]float64{0, 1}))
	if _, err := BuildInitialRoute(g, wh, stops[1:], map[string]model.Stop{}); !errors.Is(err, ErrLogicInvariant) {
		t.Fatalf("want ErrLogicInvariant, got %v", err)
	}
}
