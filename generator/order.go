package generator

import (
	"errors"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/nihei9/tlgen/model"
	"github.com/nihei9/tlgen/schema"
)

// sortTypes orders types by depth in the hierarchy and then by class name. The hierarchy is
// checked as a graph first, so the order also puts every type after its supertype.
func sortTypes(types []*model.TypeDefinition) ([]*model.TypeDefinition, error) {
	g := graph.New(func(t *model.TypeDefinition) string {
		return t.ClassName
	}, graph.Directed(), graph.PreventCycles())

	for _, t := range types {
		err := g.AddVertex(t)
		if err != nil {
			if errors.Is(err, graph.ErrVertexAlreadyExists) {
				return nil, schema.ErrDuplicateClassName.WithDetail("%v", t.ClassName)
			}
			return nil, err
		}
	}

	depth := map[string]int{}
	for _, t := range types {
		depth[t.ClassName] = t.Depth()
		if t.IsRoot() {
			continue
		}
		err := g.AddEdge(t.Supertype(), t.ClassName)
		if err != nil {
			switch {
			case errors.Is(err, graph.ErrVertexNotFound):
				return nil, schema.ErrUnknownSupertype.WithDetail("%v extends %v", t.ClassName, t.Supertype())
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				return nil, schema.ErrInheritanceCycle.WithDetail("%v extends %v", t.ClassName, t.Supertype())
			}
			return nil, err
		}
	}

	less := func(a, b string) bool {
		if depth[a] != depth[b] {
			return depth[a] < depth[b]
		}
		return a < b
	}
	names, err := graph.StableTopologicalSort(g, less)
	if err != nil {
		return nil, err
	}

	sorted := make([]*model.TypeDefinition, 0, len(names))
	for _, name := range names {
		t, err := g.Vertex(name)
		if err != nil {
			return nil, err
		}
		sorted = append(sorted, t)
	}
	// A subtype is always deeper than its supertype, so ordering by depth keeps the
	// topological order.
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i].ClassName, sorted[j].ClassName)
	})
	return sorted, nil
}
