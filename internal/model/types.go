package model

import "time"

// Core domain types for the routing service.

// Node is an intersection in the road network, identified by its id.
type Node struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// Segment is a directed road edge. A bidirectional street is two segments.
type Segment struct {
	Origin      int64   `json:"origin"`
	Destination int64   `json:"destination"`
	LengthM     float64 `json:"lengthM"`
	Name        string  `json:"name,omitempty"`
}

// RoadNetwork is a validated map: every segment endpoint resolves to a node.
type RoadNetwork struct {
	Nodes    map[int64]Node `json:"nodes"`
	Segments []Segment      `json:"segments"`
}

type StopType string

const (
	StopWarehouse StopType = "warehouse"
	StopPickup    StopType = "pickup"
	StopDelivery  StopType = "delivery"
)

// Stop is a visitable location. Comparable; equality is (type, nodeId, demandId).
// DemandID is empty for the warehouse.
type Stop struct {
	Type     StopType `json:"type"`
	NodeID   int64    `json:"nodeId"`
	DemandID string   `json:"demandId,omitempty"`
}

// Demand is one pickup+delivery request with per-stop service durations.
// CourierID is an optional input label; FIFO distribution does not honor it.
type Demand struct {
	ID                  string `json:"id"`
	PickupNodeID        int64  `json:"pickupNodeId"`
	DeliveryNodeID      int64  `json:"deliveryNodeId"`
	PickupDurationSec   int    `json:"pickupDurationSec"`
	DeliveryDurationSec int    `json:"deliveryDurationSec"`
	CourierID           int    `json:"courierId,omitempty"`
}

func (d Demand) PickupStop() Stop {
	return Stop{Type: StopPickup, NodeID: d.PickupNodeID, DemandID: d.ID}
}

func (d Demand) DeliveryStop() Stop {
	return Stop{Type: StopDelivery, NodeID: d.DeliveryNodeID, DemandID: d.ID}
}

type Warehouse struct {
	NodeID        int64  `json:"nodeId"`
	DepartureTime string `json:"departureTime,omitempty"`
}

func (w Warehouse) Stop() Stop { return Stop{Type: StopWarehouse, NodeID: w.NodeID} }

// PathResult is one shortest-path answer. DistanceM is +Inf when unreachable.
type PathResult struct {
	DistanceM float64   `json:"distanceM"`
	Segments  []Segment `json:"segments"`
}

// Leg is a precomputed directed path between two stops.
type Leg struct {
	Segments    []Segment `json:"segments,omitempty"`
	DistanceM   float64   `json:"distanceM"`
	DurationSec float64   `json:"durationSec,omitempty"`
}

// StopGraph is a complete directed graph over stops: for N stops the matrix
// holds N entries of N-1 legs each (no self-edges). Stops preserves input
// order so downstream heuristics stay deterministic.
type StopGraph struct {
	Warehouse Stop                  `json:"warehouse"`
	Stops     []Stop                `json:"stops"`
	Matrix    map[Stop]map[Stop]Leg `json:"-"`
	Demands   map[string]Demand     `json:"demands"`
}

// Tour is a warehouse-bounded stop sequence assigned to one courier.
// Legs runs parallel to Stops: len(Legs) == len(Stops)-1.
type Tour struct {
	CourierID        int     `json:"courierId"`
	Stops            []Stop  `json:"stops"`
	Legs             []Leg   `json:"legs"`
	TotalDistanceM   float64 `json:"totalDistanceM"`
	TotalDurationSec float64 `json:"totalDurationSec"`
}

type CourierMetrics struct {
	CourierID     int     `json:"courierId"`
	DistanceM     float64 `json:"distanceM"`
	DurationSec   float64 `json:"durationSec"`
	StopCount     int     `json:"stopCount"`
	DemandCount   int     `json:"demandCount"`
	ExceedsBudget bool    `json:"exceedsBudget"`
}

type TourDistributionResult struct {
	Tours                []Tour           `json:"tours"`
	UnassignedDemandIDs  []string         `json:"unassignedDemandIds,omitempty"`
	HasUnassignedDemands bool             `json:"hasUnassignedDemands"`
	HasTimeLimitExceeded bool             `json:"hasTimeLimitExceeded"`
	PerCourierMetrics    []CourierMetrics `json:"perCourierMetrics,omitempty"`
	Warnings             []string         `json:"warnings,omitempty"`
}

// Plan is one stored computation output.
type Plan struct {
	ID           string                 `json:"id"`
	CreatedAt    time.Time              `json:"createdAt"`
	CourierCount int                    `json:"courierCount"`
	Result       TourDistributionResult `json:"result"`
}

// Webhook subscription models.
type SubscriptionRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret"`
}

type Subscription struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret,omitempty"`
}
