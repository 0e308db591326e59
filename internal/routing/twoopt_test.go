package routing

import (
	"errors"
	"testing"

	"optiroute/internal/model"
)

func TestTwoOptSwapReverses(t *testing.T) {
	route := []model.Stop{
		{NodeID: 0}, {NodeID: 1}, {NodeID: 2}, {NodeID: 3}, {NodeID: 4},
	}
	out, err := TwoOptSwap(route, 1, 3)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	want := []int64{0, 3, 2, 1, 4}
	for i, st := range out {
		if st.NodeID != want[i] {
			t.Fatalf("index %d: got %d, want %d (route %v)", i, st.NodeID, want[i], out)
		}
	}
	// Input untouched.
	if route[1].NodeID != 1 {
		t.Fatalf("input route mutated: %v", route)
	}
}

func TestTwoOptSwapRejectsBadIndices(t *testing.T) {
	route := []model.Stop{{NodeID: 0}, {NodeID: 1}, {NodeID: 2}}
	for _, tc := range []struct{ i, k int }{{2, 2}, {2, 1}, {-1, 1}, {0, 3}} {
		if _, err := TwoOptSwap(route, tc.i, tc.k); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("i=%d k=%d: got %v, want ErrInvalidArgument", tc.i, tc.k, err)
		}
	}
}

func TestRouteDistance(t *testing.T) {
	wh := model.Stop{Type: model.StopWarehouse, NodeID: 0}
	p := model.Stop{Type: model.StopPickup, NodeID: 1, DemandID: "a"}
	d := model.Stop{Type: model.StopDelivery, NodeID: 2, DemandID: "a"}
	stops := []model.Stop{wh, p, d}
	g := graphFrom(stops, nil, lineDist([]float64{0, 3, 5}))

	if got := RouteDistance(nil, g); got != 0 {
		t.Fatalf("empty route: %v", got)
	}
	if got := RouteDistance([]model.Stop{wh}, g); got != 0 {
		t.Fatalf("single stop: %v", got)
	}
	if got := RouteDistance([]model.Stop{wh, p, d, wh}, g); got != 3+2+5 {
		t.Fatalf("route distance: got %v, want 10", got)
	}
}

// crossedGraph returns a 4-stop graph where visiting b before c crosses
// the route: W-a=1, a-b=1, b-c=1, c-W=1 but a-c=5 and b-W=5.
func crossedGraph() (*model.StopGraph, []model.Stop) {
	wh := model.Stop{Type: model.StopWarehouse, NodeID: 0}
	a := model.Stop{Type: model.StopPickup, NodeID: 1, DemandID: "a"}
	b := model.Stop{Type: model.StopPickup, NodeID: 2, DemandID: "b"}
	c := model.Stop{Type: model.StopPickup, NodeID: 3, DemandID: "c"}
	stops := []model.Stop{wh, a, b, c}
	dists := map[[2]int]float64{
		{0, 1}: 1, {1, 2}: 1, {2, 3}: 1, {0, 3}: 1,
		{0, 2}: 5, {1, 3}: 5,
	}
	dist := func(i, j int) float64 {
		if i > j {
			i, j = j, i
		}
		return dists[[2]int{i, j}]
	}
	return graphFrom(stops, nil, dist), stops
}

func TestOptimizeImproves(t *testing.T) {
	g, stops := crossedGraph()
	wh := stops[0]
	initial := []model.Stop{wh, stops[1], stops[3], stops[2], wh} // 1 + 5 + 1 + 5 = 12
	pickups := PickupsByDemand(stops)
	deliveries := DeliveriesByDemand(stops)

	got, err := Optimize(initial, g, pickups, deliveries)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	before := RouteDistance(initial, g)
	after := RouteDistance(got, g)
	if after > before {
		t.Fatalf("optimized %v must not exceed initial %v", after, before)
	}
	if after != 4 {
		t.Fatalf("optimized distance: got %v, want 4 (route %v)", after, got)
	}
	if got[0] != wh || got[len(got)-1] != wh {
		t.Fatalf("warehouse endpoints must stay fixed: %v", got)
	}
}

func TestOptimizeKeepsPrecedence(t *testing.T) {
	// The only distance-improving move would put the delivery before its
	// pickup, so the route must stay as-is.
	wh := model.Stop{Type: model.StopWarehouse, NodeID: 0}
	d := model.Demand{ID: "a", PickupNodeID: 2, DeliveryNodeID: 1}
	stops := []model.Stop{wh, d.PickupStop(), d.DeliveryStop()}
	pos := []float64{0, 2, 1}
	g := graphFrom(stops, []model.Demand{d}, lineDist(pos))

	initial := []model.Stop{wh, d.PickupStop(), d.DeliveryStop(), wh} // 2+1+1 = 4
	got, err := Optimize(initial, g, PickupsByDemand(stops), DeliveriesByDemand(stops))
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if !RespectsPrecedence(got, PickupsByDemand(stops), DeliveriesByDemand(stops)) {
		t.Fatalf("precedence violated: %v", got)
	}
	if RouteDistance(got, g) != 4 {
		t.Fatalf("distance changed: %v", RouteDistance(got, g))
	}
}

func TestOptimizeShortRoutes(t *testing.T) {
	wh := model.Stop{Type: model.StopWarehouse, NodeID: 0}
	g := graphFrom([]model.Stop{wh}, nil, func(i, j int) float64 { return 0 })
	got, err := Optimize([]model.Stop{wh, wh}, g, map[string]model.Stop{}, map[string]model.Stop{})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("short route: %v", got)
	}
}

func TestOptimizeInvalidArgs(t *testing.T) {
	wh := model.Stop{Type: model.StopWarehouse, NodeID: 0}
	g := graphFrom([]model.Stop{wh}, nil, func(i, j int) float64 { return 0 })
	if _, err := Optimize(nil, nil, map[string]model.Stop{}, map[string]model.Stop{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil graph: got %v", err)
	}
	if _, err := Optimize(nil, g, nil, map[string]model.Stop{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil pickups: got %v", err)
	}
}

func TestRespectsPrecedence(t *testing.T) {
	d := model.Demand{ID: "a", PickupNodeID: 1, DeliveryNodeID: 2}
	p, del := d.PickupStop(), d.DeliveryStop()
	pickups := map[string]model.Stop{"a": p}
	deliveries := map[string]model.Stop{"a": del}
	if !RespectsPrecedence([]model.Stop{p, del}, pickups, deliveries) {
		t.Fatal("pickup-first order must pass")
	}
	if RespectsPrecedence([]model.Stop{del, p}, pickups, deliveries) {
		t.Fatal("delivery-first order must fail")
	}
}
