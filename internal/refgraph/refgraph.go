// Package refgraph records which objects reference which. Unlike the object
// links themselves, the graph is keyed by fingerprint, so it can be walked
// in either direction and checked for cycles.
package refgraph

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

// Edge is one resolved reference: the object From holds a reference to To
// in attribute Label.
type Edge struct {
	From  core.Fingerprint
	To    core.Fingerprint
	Label string
}

// Graph is a directed reference graph. It is not safe for concurrent
// mutation; the linker builds it in one pass and hands it out read-only.
type Graph struct {
	nodes     map[core.Fingerprint]struct{}
	targets   map[core.Fingerprint][]Edge // referrer -> outgoing references
	referrers map[core.Fingerprint][]Edge // target -> incoming references
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[core.Fingerprint]struct{}),
		targets:   make(map[core.Fingerprint][]Edge),
		referrers: make(map[core.Fingerprint][]Edge),
	}
}

// AddNode adds fp to the graph.
func (g *Graph) AddNode(fp core.Fingerprint) {
	g.nodes[fp] = struct{}{}
}

// AddEdge records that from references to through label. Both nodes must
// exist. Self-references are allowed; they show up as cycles.
func (g *Graph) AddEdge(from, to core.Fingerprint, label string) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("referrer %s does not exist", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("target %s does not exist", to)
	}

	e := Edge{From: from, To: to, Label: label}
	// Vectors may reference the same target several times.
	for _, existing := range g.targets[from] {
		if existing == e {
			return nil
		}
	}
	g.targets[from] = append(g.targets[from], e)
	g.referrers[to] = append(g.referrers[to], e)
	return nil
}

// Has reports whether fp is a node.
func (g *Graph) Has(fp core.Fingerprint) bool {
	_, ok := g.nodes[fp]
	return ok
}

// Targets returns the references held by fp.
func (g *Graph) Targets(fp core.Fingerprint) []Edge {
	return sortEdges(g.targets[fp])
}

// Referrers returns the references pointing at fp.
func (g *Graph) Referrers(fp core.Fingerprint) []Edge {
	return sortEdges(g.referrers[fp])
}

// Nodes returns all nodes, sorted.
func (g *Graph) Nodes() []core.Fingerprint {
	out := make([]core.Fingerprint, 0, len(g.nodes))
	for fp := range g.nodes {
		out = append(out, fp)
	}
	sortFingerprints(out)
	return out
}

// Edges returns all edges, sorted by referrer, label and target.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, edges := range g.targets {
		out = append(out, edges...)
	}
	return sortEdges(out)
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, edges := range g.targets {
		count += len(edges)
	}
	return count
}

// HasCycle reports whether any chain of references leads back to its
// start, along with one such chain.
func (g *Graph) HasCycle() (bool, []core.Fingerprint) {
	visited := make(map[core.Fingerprint]bool)
	onStack := make(map[core.Fingerprint]bool)
	parent := make(map[core.Fingerprint]core.Fingerprint)

	var cycle []core.Fingerprint

	var dfs func(fp core.Fingerprint) bool
	dfs = func(fp core.Fingerprint) bool {
		visited[fp] = true
		onStack[fp] = true

		for _, e := range sortEdges(g.targets[fp]) {
			if !visited[e.To] {
				parent[e.To] = fp
				if dfs(e.To) {
					return true
				}
			} else if onStack[e.To] {
				cycle = []core.Fingerprint{e.To}
				for curr := fp; curr != e.To; curr = parent[curr] {
					cycle = append([]core.Fingerprint{curr}, cycle...)
				}
				cycle = append([]core.Fingerprint{e.To}, cycle...)
				return true
			}
		}

		onStack[fp] = false
		return false
	}

	for _, fp := range g.Nodes() {
		if !visited[fp] && dfs(fp) {
			return true, cycle
		}
	}
	return false, nil
}

// Reachable returns every object fp references, directly or through other
// objects, excluding fp itself.
func (g *Graph) Reachable(fp core.Fingerprint) []core.Fingerprint {
	return g.walk([]core.Fingerprint{fp}, g.targets, func(e Edge) core.Fingerprint { return e.To }, false)
}

// Affected returns the given objects plus every object that references one
// of them, directly or transitively.
func (g *Graph) Affected(fps []core.Fingerprint) []core.Fingerprint {
	return g.walk(fps, g.referrers, func(e Edge) core.Fingerprint { return e.From }, true)
}

func (g *Graph) walk(start []core.Fingerprint, adj map[core.Fingerprint][]Edge, next func(Edge) core.Fingerprint, includeStart bool) []core.Fingerprint {
	seen := make(map[core.Fingerprint]bool)
	var visit func(fp core.Fingerprint)
	visit = func(fp core.Fingerprint) {
		for _, e := range adj[fp] {
			n := next(e)
			if !seen[n] {
				seen[n] = true
				visit(n)
			}
		}
	}
	for _, fp := range start {
		if !g.Has(fp) {
			continue
		}
		if includeStart {
			seen[fp] = true
		}
		visit(fp)
	}
	if !includeStart {
		for _, fp := range start {
			delete(seen, fp)
		}
	}

	out := make([]core.Fingerprint, 0, len(seen))
	for fp := range seen {
		out = append(out, fp)
	}
	sortFingerprints(out)
	return out
}

// Orphans returns the objects nothing references.
func (g *Graph) Orphans() []core.Fingerprint {
	var out []core.Fingerprint
	for fp := range g.nodes {
		if len(g.referrers[fp]) == 0 {
			out = append(out, fp)
		}
	}
	sortFingerprints(out)
	return out
}

// Leaves returns the objects that reference nothing.
func (g *Graph) Leaves() []core.Fingerprint {
	var out []core.Fingerprint
	for fp := range g.nodes {
		if len(g.targets[fp]) == 0 {
			out = append(out, fp)
		}
	}
	sortFingerprints(out)
	return out
}

// Subgraph returns a new graph with only the given nodes and the edges
// between them.
func (g *Graph) Subgraph(fps []core.Fingerprint) *Graph {
	sub := New()
	for _, fp := range fps {
		if g.Has(fp) {
			sub.AddNode(fp)
		}
	}
	for _, fp := range fps {
		for _, e := range g.targets[fp] {
			if sub.Has(e.To) {
				_ = sub.AddEdge(e.From, e.To, e.Label)
			}
		}
	}
	return sub
}

func sortFingerprints(fps []core.Fingerprint) {
	sort.Slice(fps, func(i, j int) bool { return fps[i].Less(fps[j]) })
}

func sortEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.From != b.From {
			return a.From.Less(b.From)
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.To.Less(b.To)
	})
	return out
}
