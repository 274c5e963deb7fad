package graph

import (
	"container/heap"
	"fmt"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// ShortestPath finds the cheapest path between two nodes, where crossing an
// edge costs 1 - weight. Equal-cost candidates are settled in node discovery
// order. Nodes in different components yield Connected=false.
func (g *Graph) ShortestPath(start, target string) (domain.PathResult, error) {
	res := domain.PathResult{Start: start, Target: target}
	for _, id := range []string{start, target} {
		if !g.HasNode(id) {
			return res, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
	}
	if start == target {
		n, _ := g.Node(start)
		res.Connected = true
		res.Path = []string{start}
		res.Titles = []string{n.Title}
		return res, nil
	}

	dist := map[string]float64{start: 0}
	prev := make(map[string]string)
	settled := make(map[string]bool)

	pq := &queue{}
	heap.Push(pq, &entry{id: start, cost: 0, order: g.order[start]})

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*entry)
		if settled[cur.id] {
			continue
		}
		settled[cur.id] = true
		if cur.id == target {
			break
		}
		for _, next := range g.Neighbors(cur.id) {
			if settled[next] {
				continue
			}
			cost := cur.cost + (1 - g.adj[cur.id][next])
			if d, seen := dist[next]; !seen || cost < d {
				dist[next] = cost
				prev[next] = cur.id
				heap.Push(pq, &entry{id: next, cost: cost, order: g.order[next]})
			}
		}
	}

	if !settled[target] {
		return res, nil
	}

	var path []string
	for at := target; ; at = prev[at] {
		path = append(path, at)
		if at == start {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	res.Connected = true
	res.Path = path
	res.Cost = dist[target]
	res.Titles = make([]string, len(path))
	for i, id := range path {
		n, _ := g.Node(id)
		res.Titles[i] = n.Title
	}
	return res, nil
}

type entry struct {
	id    string
	cost  float64
	order int
}

// queue is a min-heap on (cost, discovery order).
type queue []*entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].order < q[j].order
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(*entry)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}
