package routing

import (
	"errors"
	"math"
	"testing"

	"optiroute/internal/model"
)

func TestShortestPathLine(t *testing.T) {
	net := lineNetwork()
	e := NewPathEngine(nil)
	res, err := e.ShortestPath(net, net.Nodes[1], net.Nodes[3])
	if err != nil {
		t.Fatalf("shortest path: %v", err)
	}
	if res.DistanceM != 200 {
		t.Fatalf("distance: got %v, want 200", res.DistanceM)
	}
	// Chain connects start to end and lengths sum to the distance.
	if len(res.Segments) != 2 {
		t.Fatalf("segments: got %d, want 2", len(res.Segments))
	}
	sum := 0.0
	at := int64(1)
	for _, s := range res.Segments {
		if s.Origin != at {
			t.Fatalf("chain broken: segment origin %d, at %d", s.Origin, at)
		}
		at = s.Destination
		sum += s.LengthM
	}
	if at != 3 || sum != res.DistanceM {
		t.Fatalf("chain end=%d sum=%v, want end=3 sum=%v", at, sum, res.DistanceM)
	}
}

func TestShortestPathSameNode(t *testing.T) {
	net := lineNetwork()
	e := NewPathEngine(nil)
	res, err := e.ShortestPath(net, net.Nodes[2], net.Nodes[2])
	if err != nil {
		t.Fatalf("shortest path: %v", err)
	}
	if res.DistanceM != 0 || len(res.Segments) != 0 {
		t.Fatalf("self path: got dist=%v segs=%d", res.DistanceM, len(res.Segments))
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	net := lineNetwork()
	net.Nodes[4] = model.Node{ID: 4, Lat: 46, Lng: 5} // isolated
	e := NewPathEngine(nil)
	res, err := e.ShortestPath(net, net.Nodes[1], net.Nodes[4])
	if err != nil {
		t.Fatalf("unreachable must not be an error: %v", err)
	}
	if !math.IsInf(res.DistanceM, 1) || len(res.Segments) != 0 {
		t.Fatalf("unreachable: got dist=%v segs=%d", res.DistanceM, len(res.Segments))
	}
}

func TestShortestPathDirectionality(t *testing.T) {
	// One-way 1->2: the reverse pair is unreachable.
	net := &model.RoadNetwork{
		Nodes: map[int64]model.Node{
			1: {ID: 1}, 2: {ID: 2},
		},
		Segments: []model.Segment{{Origin: 1, Destination: 2, LengthM: 50}},
	}
	e := NewPathEngine(nil)
	fwd, _ := e.ShortestPath(net, net.Nodes[1], net.Nodes[2])
	back, _ := e.ShortestPath(net, net.Nodes[2], net.Nodes[1])
	if fwd.DistanceM != 50 {
		t.Fatalf("forward: got %v", fwd.DistanceM)
	}
	if !math.IsInf(back.DistanceM, 1) {
		t.Fatalf("backward must be unreachable, got %v", back.DistanceM)
	}
}

func TestShortestPathNilNetwork(t *testing.T) {
	e := NewPathEngine(nil)
	if _, err := e.ShortestPath(nil, model.Node{ID: 1}, model.Node{ID: 2}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}

func TestShortestPathCachedIdentity(t *testing.T) {
	net := lineNetwork()
	e := NewPathEngine(nil)
	first, err := e.ShortestPath(net, net.Nodes[1], net.Nodes[3])
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if got := e.Cache().Size(); got != 1 {
		t.Fatalf("cache size after first call: got %d, want 1", got)
	}
	second, err := e.ShortestPath(net, net.Nodes[1], net.Nodes[3])
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first != second {
		t.Fatal("second call must return the identical cached result object")
	}
	if got := e.Cache().Size(); got != 1 {
		t.Fatalf("cache size must not grow on a hit: got %d", got)
	}
	st := e.Cache().Stats()
	if st.Hits != 1 || st.Misses != 1 {
		t.Fatalf("stats: got hits=%d misses=%d, want 1/1", st.Hits, st.Misses)
	}
	// Reverse direction is a distinct key.
	if _, err := e.ShortestPath(net, net.Nodes[3], net.Nodes[1]); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if got := e.Cache().Size(); got != 2 {
		t.Fatalf("cache size after reverse pair: got %d, want 2", got)
	}
}
