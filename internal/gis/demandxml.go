package gis

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/google/uuid"

	"optiroute/internal/model"
	"optiroute/internal/routing"
)

type xmlPlanning struct {
	XMLName   xml.Name     `xml:"planningRequest"`
	Warehouse xmlWarehouse `xml:"warehouse"`
	Requests  []xmlRequest `xml:"request"`
}

type xmlWarehouse struct {
	NodeID        int64  `xml:"nodeId,attr"`
	DepartureTime string `xml:"departureTime,attr"`
}

type xmlRequest struct {
	ID                  string `xml:"id,attr"`
	PickupNode          int64  `xml:"pickupNode,attr"`
	DeliveryNode        int64  `xml:"deliveryNode,attr"`
	PickupDurationSec   int    `xml:"pickupDuration,attr"`
	DeliveryDurationSec int    `xml:"deliveryDuration,attr"`
	CourierID           int    `xml:"courier,attr"`
}

// ParsePlanning decodes a planning-request document against an already
// loaded network. Requests without an id are assigned one.
func ParsePlanning(r io.Reader, net *model.RoadNetwork) (model.Warehouse, []model.Demand, error) {
	if net == nil {
		return model.Warehouse{}, nil, fmt.Errorf("%w: no road network loaded", routing.ErrInvalidArgument)
	}
	var doc xmlPlanning
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return model.Warehouse{}, nil, fmt.Errorf("%w: malformed planning document: %v", routing.ErrInvalidArgument, err)
	}
	if _, ok := net.Nodes[doc.Warehouse.NodeID]; !ok {
		return model.Warehouse{}, nil, fmt.Errorf("%w: warehouse node %d not in network", routing.ErrNotFound, doc.Warehouse.NodeID)
	}
	wh := model.Warehouse{NodeID: doc.Warehouse.NodeID, DepartureTime: doc.Warehouse.DepartureTime}

	demands := make([]model.Demand, 0, len(doc.Requests))
	seen := map[string]bool{}
	for i, req := range doc.Requests {
		if _, ok := net.Nodes[req.PickupNode]; !ok {
			return model.Warehouse{}, nil, fmt.Errorf("%w: request %d pickup node %d not in network", routing.ErrNotFound, i, req.PickupNode)
		}
		if _, ok := net.Nodes[req.DeliveryNode]; !ok {
			return model.Warehouse{}, nil, fmt.Errorf("%w: request %d delivery node %d not in network", routing.ErrNotFound, i, req.DeliveryNode)
		}
		if req.PickupDurationSec < 0 || req.DeliveryDurationSec < 0 {
			return model.Warehouse{}, nil, fmt.Errorf("%w: request %d has negative duration", routing.ErrInvalidArgument, i)
		}
		id := req.ID
		if id == "" {
			id = uuid.NewString()
		}
		if seen[id] {
			return model.Warehouse{}, nil, fmt.Errorf("%w: duplicate request id %q", routing.ErrInvalidArgument, id)
		}
		seen[id] = true
		demands = append(demands, model.Demand{
			ID:                  id,
			PickupNodeID:        req.PickupNode,
			DeliveryNodeID:      req.DeliveryNode,
			PickupDurationSec:   req.PickupDurationSec,
			DeliveryDurationSec: req.DeliveryDurationSec,
			CourierID:           req.CourierID,
		})
	}
	return wh, demands, nil
}
