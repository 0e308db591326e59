package routing

import (
	"fmt"

	"optiroute/internal/model"
)

// DistributeFIFO splits the optimized global route into per-courier
// tours. Demands are walked in the order their pickups appear in the
// global route; each demand's pickup+delivery pair is appended to the
// current tour as an indivisible unit. When the pair (plus the closing
// return leg) would push the tour past the duty budget, the current
// tour is finalized and a new courier is opened, up to courierCount.
// A demand that fits no courier is reported as unassigned and the run
// continues; it never aborts the batch.
func DistributeFIFO(globalRoute []model.Stop, g *model.StopGraph, courierCount int, pickups, deliveries map[string]model.Stop, demands map[string]model.Demand, warehouse model.Stop) (*model.TourDistributionResult, error) {
	if g == nil || g.Matrix == nil {
		return nil, fmt.Errorf("%w: nil stop graph", ErrInvalidArgument)
	}
	if courierCount < MinCouriers || courierCount > MaxCouriers {
		return nil, fmt.Errorf("%w: courier count %d outside [%d,%d]", ErrInvalidArgument, courierCount, MinCouriers, MaxCouriers)
	}
	if pickups == nil || deliveries == nil || demands == nil {
		return nil, fmt.Errorf("%w: nil demand maps", ErrInvalidArgument)
	}
	if warehouse.Type != model.StopWarehouse {
		return nil, fmt.Errorf("%w: stop %v is not a warehouse", ErrInvalidArgument, warehouse)
	}

	// FIFO order: demand ids by first pickup appearance in the route.
	var order []string
	seen := map[string]bool{}
	for _, st := range globalRoute {
		if st.Type == model.StopPickup && !seen[st.DemandID] {
			seen[st.DemandID] = true
			order = append(order, st.DemandID)
		}
	}

	res := &model.TourDistributionResult{Tours: []model.Tour{}}
	cur := []model.Stop{warehouse}
	opened := 1

	for _, id := range order {
		pStop, pOk := pickups[id]
		dStop, dOk := deliveries[id]
		if _, ok := demands[id]; !ok || !pOk || !dOk {
			return nil, fmt.Errorf("%w: demand %q missing from stop graph maps", ErrLogicInvariant, id)
		}
		for {
			cand := append(append([]model.Stop{}, cur...), pStop, dStop)
			projected, err := projectedDurationSec(cand, g, demands, warehouse)
			if err != nil {
				return nil, err
			}
			if projected <= DutyBudgetSec {
				cur = cand
				break
			}
			if len(cur) == 1 {
				// Does not fit even an otherwise empty tour, so no courier
				// can ever take it. Skip without burning a courier slot.
				res.UnassignedDemandIDs = append(res.UnassignedDemandIDs, id)
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("demand %s unassignable: %.0fs alone exceeds the %.0fs duty budget", id, projected, DutyBudgetSec))
				break
			}
			if opened < courierCount {
				tour, m, err := finalizeTour(cur, g, demands, warehouse, len(res.Tours)+1)
				if err != nil {
					return nil, err
				}
				res.Tours = append(res.Tours, tour)
				res.PerCourierMetrics = append(res.PerCourierMetrics, m)
				opened++
				cur = []model.Stop{warehouse}
				continue
			}
			res.UnassignedDemandIDs = append(res.UnassignedDemandIDs, id)
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("demand %s does not fit courier %d and no courier slots remain", id, len(res.Tours)+1))
			break
		}
	}

	if len(cur) > 1 {
		tour, m, err := finalizeTour(cur, g, demands, warehouse, len(res.Tours)+1)
		if err != nil {
			return nil, err
		}
		res.Tours = append(res.Tours, tour)
		res.PerCourierMetrics = append(res.PerCourierMetrics, m)
	}

	res.HasUnassignedDemands = len(res.UnassignedDemandIDs) > 0
	for _, m := range res.PerCourierMetrics {
		if m.ExceedsBudget {
			res.HasTimeLimitExceeded = true
		}
	}
	return res, nil
}

// stopServiceSec is the stop's own service time from its demand.
func stopServiceSec(st model.Stop, demands map[string]model.Demand) float64 {
	d, ok := demands[st.DemandID]
	if !ok {
		return 0
	}
	switch st.Type {
	case model.StopPickup:
		return float64(d.PickupDurationSec)
	case model.StopDelivery:
		return float64(d.DeliveryDurationSec)
	}
	return 0
}

// projectedDurationSec closes stops with a return-to-warehouse leg and
// totals travel time at courier speed plus per-stop service time.
func projectedDurationSec(stops []model.Stop, g *model.StopGraph, demands map[string]model.Demand, warehouse model.Stop) (float64, error) {
	seq := append(append([]model.Stop{}, stops...), warehouse)
	total := 0.0
	for i := 0; i < len(seq)-1; i++ {
		leg, ok := g.Matrix[seq[i]][seq[i+1]]
		if !ok {
			return 0, fmt.Errorf("%w: missing leg %v -> %v", ErrLogicInvariant, seq[i], seq[i+1])
		}
		total += leg.DistanceM / CourierSpeedMps
	}
	for _, st := range seq {
		total += stopServiceSec(st, demands)
	}
	return total, nil
}

// finalizeTour closes the stop sequence with the return leg and freezes
// distance/duration metrics for the courier.
func finalizeTour(stops []model.Stop, g *model.StopGraph, demands map[string]model.Demand, warehouse model.Stop, courierID int) (model.Tour, model.CourierMetrics, error) {
	seq := append(append([]model.Stop{}, stops...), warehouse)
	legs := make([]model.Leg, 0, len(seq)-1)
	distance := 0.0
	for i := 0; i < len(seq)-1; i++ {
		leg, ok := g.Matrix[seq[i]][seq[i+1]]
		if !ok {
			return model.Tour{}, model.CourierMetrics{}, fmt.Errorf("%w: missing leg %v -> %v", ErrLogicInvariant, seq[i], seq[i+1])
		}
		legs = append(legs, leg)
		distance += leg.DistanceM
	}
	duration := distance / CourierSpeedMps
	demandCount := 0
	for _, st := range seq {
		duration += stopServiceSec(st, demands)
		if st.Type == model.StopPickup {
			demandCount++
		}
	}
	tour := model.Tour{
		CourierID:        courierID,
		Stops:            seq,
		Legs:             legs,
		TotalDistanceM:   distance,
		TotalDurationSec: duration,
	}
	m := model.CourierMetrics{
		CourierID:     courierID,
		DistanceM:     distance,
		DurationSec:   duration,
		StopCount:     len(seq) - 2,
		DemandCount:   demandCount,
		ExceedsBudget: duration > DutyBudgetSec,
	}
	return tour, m, nil
}
