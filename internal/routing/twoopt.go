package routing

import (
	"fmt"
	"math"

	"optiroute/internal/model"
)

// maxTwoOptMoves caps the number of accepted improving moves per
// optimization so a pathological matrix cannot spin forever.
const maxTwoOptMoves = 10000

// RouteDistance sums the matrix distance over consecutive stop pairs.
// Empty and single-stop routes have distance 0. A pair missing from the
// matrix yields +Inf, which keeps such routes from ever winning a
// comparison.
func RouteDistance(route []model.Stop, g *model.StopGraph) float64 {
	if g == nil || len(route) < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < len(route)-1; i++ {
		leg, ok := g.Matrix[route[i]][route[i+1]]
		if !ok {
			return math.Inf(1)
		}
		total += leg.DistanceM
	}
	return total
}

// TwoOptSwap returns a copy of route with the sub-sequence [i..k]
// reversed. Rejects i >= k, i < 0 and k >= len(route).
func TwoOptSwap(route []model.Stop, i, k int) ([]model.Stop, error) {
	if i < 0 || i >= k || k >= len(route) {
		return nil, fmt.Errorf("%w: two-opt swap indices i=%d k=%d on route of %d stops", ErrInvalidArgument, i, k, len(route))
	}
	out := make([]model.Stop, len(route))
	copy(out, route[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = route[j]
		pos++
	}
	copy(out[pos:], route[k+1:])
	return out, nil
}

// RespectsPrecedence reports whether every demand whose pickup and
// delivery both occur in route has the pickup first.
func RespectsPrecedence(route []model.Stop, pickups, deliveries map[string]model.Stop) bool {
	index := make(map[model.Stop]int, len(route))
	for i, st := range route {
		if _, seen := index[st]; !seen {
			index[st] = i
		}
	}
	for id, p := range pickups {
		d, ok := deliveries[id]
		if !ok {
			continue
		}
		pi, pOk := index[p]
		di, dOk := index[d]
		if pOk && dOk && pi >= di {
			return false
		}
	}
	return true
}

// Optimize refines route with 2-opt local search restricted to interior
// indices (the warehouse endpoints stay fixed). A candidate move is
// accepted only when it strictly reduces total distance and keeps every
// pickup before its delivery. Deterministic first-improvement scan:
// after each accepted move the scan restarts from the beginning; the
// search stops at a full pass with no accepted move or at the move cap.
// The result never measures longer than the input.
func Optimize(route []model.Stop, g *model.StopGraph, pickups, deliveries map[string]model.Stop) ([]model.Stop, error) {
	if g == nil || g.Matrix == nil {
		return nil, fmt.Errorf("%w: nil stop graph", ErrInvalidArgument)
	}
	if pickups == nil || deliveries == nil {
		return nil, fmt.Errorf("%w: nil precedence maps", ErrInvalidArgument)
	}

	best := append([]model.Stop(nil), route...)
	if len(best) < 4 {
		// Nothing between the warehouse endpoints to reorder.
		return best, nil
	}
	bestDist := RouteDistance(best, g)

	for moves := 0; moves < maxTwoOptMoves; {
		improved := false
	scan:
		for i := 1; i < len(best)-2; i++ {
			for k := i + 1; k < len(best)-1; k++ {
				cand, err := TwoOptSwap(best, i, k)
				if err != nil {
					return nil, err
				}
				d := RouteDistance(cand, g)
				if d >= bestDist {
					continue
				}
				if !RespectsPrecedence(cand, pickups, deliveries) {
					continue
				}
				best = cand
				bestDist = d
				moves++
				improved = true
				break scan
			}
		}
		if !improved {
			break
		}
	}
	return best, nil
}
