package routing

import (
	"container/heap"
	"fmt"
	"math"

	"optiroute/internal/model"
)

// PathEngine computes shortest paths over a road network with Dijkstra,
// memoizing results in a shared PathCache.
type PathEngine struct {
	cache *PathCache
}

func NewPathEngine(cache *PathCache) *PathEngine {
	if cache == nil {
		cache = NewPathCache()
	}
	return &PathEngine{cache: cache}
}

func (e *PathEngine) Cache() *PathCache { return e.cache }

// ShortestPath returns the minimum-length segment chain from start to end.
// An unreachable end is not an error: the result carries DistanceM=+Inf
// and no segments. Results are cached per ordered (start, end) id pair;
// a second call with the same pair returns the prior result verbatim.
func (e *PathEngine) ShortestPath(net *model.RoadNetwork, start, end model.Node) (*model.PathResult, error) {
	if net == nil {
		return nil, fmt.Errorf("%w: nil road network", ErrInvalidArgument)
	}
	return e.cache.GetOrCompute(start.ID, end.ID, func() (*model.PathResult, error) {
		return dijkstra(net, start.ID, end.ID), nil
	})
}

// pqItem is one tentative-distance entry. Lazy decrease-key: stale
// duplicates are pushed and skipped via the visited set on pop.
type pqItem struct {
	nodeID int64
	dist   float64
	index  int
}

type pathQueue []*pqItem

func (pq pathQueue) Len() int            { return len(pq) }
func (pq pathQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq pathQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index = i; pq[j].index = j }
func (pq *pathQueue) Push(x any)         { it := x.(*pqItem); it.index = len(*pq); *pq = append(*pq, it) }
func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return it
}

func dijkstra(net *model.RoadNetwork, startID, endID int64) *model.PathResult {
	// Adjacency by origin node. Weight = segment length.
	adj := make(map[int64][]model.Segment, len(net.Nodes))
	for _, seg := range net.Segments {
		adj[seg.Origin] = append(adj[seg.Origin], seg)
	}

	dist := map[int64]float64{startID: 0}
	prevSeg := map[int64]model.Segment{}
	visited := map[int64]bool{}

	pq := pathQueue{}
	heap.Init(&pq)
	heap.Push(&pq, &pqItem{nodeID: startID, dist: 0})

	for pq.Len() > 0 {
		cur := heap.Pop(&pq).(*pqItem)
		if visited[cur.nodeID] {
			continue
		}
		visited[cur.nodeID] = true
		if cur.nodeID == endID {
			break
		}
		for _, seg := range adj[cur.nodeID] {
			next := seg.Destination
			cand := dist[cur.nodeID] + seg.LengthM
			if d, ok := dist[next]; !ok || cand < d {
				dist[next] = cand
				prevSeg[next] = seg
				heap.Push(&pq, &pqItem{nodeID: next, dist: cand})
			}
		}
	}

	total, ok := dist[endID]
	if !ok || !visited[endID] {
		return &model.PathResult{DistanceM: math.Inf(1)}
	}

	// Backtrack the segment chain from end to start.
	var chain []model.Segment
	for at := endID; at != startID; {
		seg := prevSeg[at]
		chain = append(chain, seg)
		at = seg.Origin
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return &model.PathResult{DistanceM: total, Segments: chain}
}
