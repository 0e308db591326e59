// Package gis parses the XML map and planning-request documents and
// validates them into domain structures.
package gis

import (
	"encoding/xml"
	"fmt"
	"io"

	"optiroute/internal/model"
	"optiroute/internal/routing"
)

type xmlMap struct {
	XMLName  xml.Name     `xml:"map"`
	Nodes    []xmlNode    `xml:"node"`
	Segments []xmlSegment `xml:"segment"`
}

type xmlNode struct {
	ID  int64   `xml:"id,attr"`
	Lat float64 `xml:"latitude,attr"`
	Lng float64 `xml:"longitude,attr"`
}

type xmlSegment struct {
	Origin      int64   `xml:"origin,attr"`
	Destination int64   `xml:"destination,attr"`
	LengthM     float64 `xml:"length,attr"`
	Name        string  `xml:"name,attr"`
}

// ParseMap decodes a road-network document and checks that every
// segment endpoint resolves to a declared node and every length is
// positive.
func ParseMap(r io.Reader) (*model.RoadNetwork, error) {
	var doc xmlMap
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: malformed map document: %v", routing.ErrInvalidArgument, err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("%w: map declares no nodes", routing.ErrInvalidArgument)
	}
	nodes := make(map[int64]model.Node, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if _, dup := nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %d", routing.ErrInvalidArgument, n.ID)
		}
		nodes[n.ID] = model.Node{ID: n.ID, Lat: n.Lat, Lng: n.Lng}
	}
	segs := make([]model.Segment, 0, len(doc.Segments))
	for _, s := range doc.Segments {
		if _, ok := nodes[s.Origin]; !ok {
			return nil, fmt.Errorf("%w: segment %q references unknown origin node %d", routing.ErrNotFound, s.Name, s.Origin)
		}
		if _, ok := nodes[s.Destination]; !ok {
			return nil, fmt.Errorf("%w: segment %q references unknown destination node %d", routing.ErrNotFound, s.Name, s.Destination)
		}
		if s.LengthM <= 0 {
			return nil, fmt.Errorf("%w: segment %d->%d has non-positive length %v", routing.ErrInvalidArgument, s.Origin, s.Destination, s.LengthM)
		}
		segs = append(segs, model.Segment{Origin: s.Origin, Destination: s.Destination, LengthM: s.LengthM, Name: s.Name})
	}
	return &model.RoadNetwork{Nodes: nodes, Segments: segs}, nil
}
