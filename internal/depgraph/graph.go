package depgraph

import (
	"slices"

	"github.com/Iron-Ham/taskrank/internal/task"
)

// Graph is an immutable dependency graph built from one batch.
type Graph struct {
	// order holds node ids in first-seen order so traversals are deterministic.
	order []string
	// adj maps a task to the ids it depends on, in input order.
	adj map[string][]string
	// rev maps a task to the ids that depend on it.
	rev map[string][]string
}

// Build constructs the graph for a batch of validated tasks. Tasks without an
// id are skipped. When two tasks share an id the later one's dependency list
// replaces the earlier one's, keeping the node's original position.
func Build(tasks []task.Task) *Graph {
	g := &Graph{
		adj: make(map[string][]string),
		rev: make(map[string][]string),
	}

	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.HasID() {
			known[t.ID] = true
		}
	}

	for _, t := range tasks {
		if !t.HasID() {
			continue
		}
		if _, seen := g.adj[t.ID]; !seen {
			g.order = append(g.order, t.ID)
		}

		deps := make([]string, 0, len(t.Dependencies))
		for _, dep := range t.Dependencies {
			if known[dep] {
				deps = append(deps, dep)
			}
		}
		g.adj[t.ID] = deps
	}

	for _, id := range g.order {
		for _, dep := range g.adj[id] {
			g.rev[dep] = append(g.rev[dep], id)
		}
	}

	return g
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	if g == nil {
		return false
	}
	_, ok := g.adj[id]
	return ok
}

// IDs returns the node ids in first-seen order.
func (g *Graph) IDs() []string {
	if g == nil {
		return nil
	}
	return slices.Clone(g.order)
}

// Dependencies returns the in-batch ids that id depends on.
func (g *Graph) Dependencies(id string) []string {
	if g == nil {
		return nil
	}
	return slices.Clone(g.adj[id])
}

// Dependents returns the ids that directly depend on id.
func (g *Graph) Dependents(id string) []string {
	if g == nil {
		return nil
	}
	return slices.Clone(g.rev[id])
}

// DetectCycles runs a depth-first search from every unvisited node in input
// order and returns the first cycle found under each root. A cycle is listed
// from its entry node along the dependency edges, so A -> B -> A is reported
// as [A B]. A self-dependency is reported as a one-element cycle.
//
// The result is never nil.
func (g *Graph) DetectCycles() [][]string {
	cycles := make([][]string, 0)
	if g == nil {
		return cycles
	}

	visited := make(map[string]bool, len(g.order))
	onStack := make(map[string]bool)

	var dfs func(id string, path []string) []string
	dfs = func(id string, path []string) []string {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		for _, next := range g.adj[id] {
			if !visited[next] {
				if cycle := dfs(next, path); cycle != nil {
					return cycle
				}
			} else if onStack[next] {
				start := slices.Index(path, next)
				return slices.Clone(path[start:])
			}
		}

		onStack[id] = false
		return nil
	}

	for _, id := range g.order {
		if visited[id] {
			continue
		}
		if cycle := dfs(id, nil); cycle != nil {
			cycles = append(cycles, cycle)
		}
		// A found cycle leaves its path on the stack; reset before the next root.
		clear(onStack)
	}

	return cycles
}

// BlockingCount returns how many distinct tasks transitively depend on id.
// The traversal is breadth-first over the reverse edges. A task inside a
// cycle reaches itself and so counts itself.
func (g *Graph) BlockingCount(id string) int {
	if g == nil {
		return 0
	}

	blocked := make(map[string]bool)
	queue := slices.Clone(g.rev[id])
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if blocked[current] {
			continue
		}
		blocked[current] = true
		queue = append(queue, g.rev[current]...)
	}
	return len(blocked)
}

// HasUnmetDependencies reports whether id depends on any in-batch task that
// is not in completed. A nil completed set means nothing is done yet.
func (g *Graph) HasUnmetDependencies(id string, completed map[string]bool) bool {
	if g == nil {
		return false
	}
	for _, dep := range g.adj[id] {
		if !completed[dep] {
			return true
		}
	}
	return false
}
