// Package routing implements the pickup-and-delivery route optimization
// engine: shortest paths over the road network, the complete stop graph,
// greedy construction, 2-opt refinement and FIFO tour distribution.
package routing

import "errors"

// Failure taxonomy. Callers match with errors.Is; every wrapped message
// carries the offending identifier. Capacity exhaustion is not an error:
// it is reported through TourDistributionResult.UnassignedDemandIDs.
var (
	// ErrInvalidArgument marks nil/empty required inputs or out-of-range values.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a stop whose node is absent from the network,
	// or a stop set without a warehouse.
	ErrNotFound = errors.New("not found")
	// ErrInfeasiblePath marks a stop pair with no connecting route; the
	// stop graph cannot be completed, so the whole build fails.
	ErrInfeasiblePath = errors.New("no path between stops")
	// ErrNoDemands marks a calculation attempted before any demand was loaded.
	ErrNoDemands = errors.New("no demands")
	// ErrLogicInvariant marks an internal modeling bug, e.g. greedy
	// construction stalling with unvisited stops left. Always fatal.
	ErrLogicInvariant = errors.New("route invariant violated")
)
