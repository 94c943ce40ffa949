package scaffolder

import (
	"fmt"
	"slices"

	"github.com/oomph-ac/blueprint/dependency"
	"github.com/oomph-ac/blueprint/oerror"
	"github.com/oomph-ac/blueprint/scaffolding"
	"github.com/samber/lo"
)

// Strategy decides which air positions to turn into scaffolding so that an unsupported component can be
// placed.
type Strategy interface {
	// ScaffoldToSupport returns the dense indices of air positions that, once enabled, give the component an
	// outgoing edge towards the ground. It returns an error wrapping oerror.ErrUnsolvable if no set of
	// positions can.
	ScaffoldToSupport(o *scaffolding.Overlay, id scaffolding.ComponentID) ([]int, error)
}

// Run adds scaffolding to the target of the graph until every block can be placed, and returns the result.
// Unsupported sinks of the collapsed graph, components with no outgoing edges and no grounded member, are
// handed to the strategy one at a time, ordered by their lowest position index.
func Run(g *dependency.Graph, strategy Strategy) (*Output, error) {
	if invalid := g.Validate(); len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %d blocks have nothing to be placed against, first at %v", oerror.ErrUnsolvable, len(invalid), invalid[0])
	}
	o := scaffolding.New(g)
	out := newOutput(o)
	for {
		sinks := unsupportedSinks(o.CollapsedGraph())
		if len(sinks) == 0 {
			break
		}
		for _, lowest := range sinks {
			// Earlier scaffolding in this pass may have merged the sink into a supported component.
			id, ok := o.CollapsedGraph().ComponentAt(lowest)
			if !ok || !unsupported(o.CollapsedGraph(), id) {
				continue
			}
			positions, err := strategy.ScaffoldToSupport(o, id)
			if err != nil {
				return nil, err
			}
			if len(positions) == 0 {
				return nil, fmt.Errorf("%w: no scaffolding added for the component at %v", oerror.ErrUnsolvable, g.Bounds().Pos(lowest))
			}
			for _, index := range positions {
				o.EnableIndex(index)
				out.add(index)
			}
			out.resolve(lowest, len(positions))
		}
	}
	out.order = placementOrder(o)
	return out, nil
}

func unsupported(cg *scaffolding.CollapsedGraph, id scaffolding.ComponentID) bool {
	return cg.OutDegree(id) == 0 && !cg.Grounded(id)
}

// unsupportedSinks returns the lowest member index of every unsupported sink of the graph, in ascending order.
func unsupportedSinks(cg *scaffolding.CollapsedGraph) []int {
	sinks := lo.FilterMap(cg.Components(), func(id scaffolding.ComponentID, _ int) (int, bool) {
		if !unsupported(cg, id) {
			return 0, false
		}
		return int(slices.Min(cg.Members(id))), true
	})
	slices.Sort(sinks)
	return sinks
}

// supportedSet answers whether components of the collapsed graph reach a grounded component, memoising the
// answers.
type supportedSet struct {
	cg   *scaffolding.CollapsedGraph
	memo map[scaffolding.ComponentID]bool
}

type supportFrame struct {
	id   scaffolding.ComponentID
	next []scaffolding.ComponentID
}

func newSupportedSet(cg *scaffolding.CollapsedGraph) *supportedSet {
	return &supportedSet{cg: cg, memo: make(map[scaffolding.ComponentID]bool)}
}

func (s *supportedSet) supported(id scaffolding.ComponentID) bool {
	if v, ok := s.memo[id]; ok {
		return v
	}
	stack := []supportFrame{{id: id, next: s.cg.Outgoing(id)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if s.cg.Grounded(top.id) {
			s.memo[top.id] = true
		}
		if v, ok := s.memo[top.id]; ok {
			s.finish(&stack, v)
			continue
		}
		if len(top.next) == 0 {
			s.memo[top.id] = false
			s.finish(&stack, false)
			continue
		}
		child := top.next[0]
		top.next = top.next[1:]
		if v, ok := s.memo[child]; ok {
			if v {
				s.memo[top.id] = true
			}
			continue
		}
		stack = append(stack, supportFrame{id: child, next: s.cg.Outgoing(child)})
	}
	return s.memo[id]
}

// finish pops the top frame, propagating a positive answer to its parent.
func (s *supportedSet) finish(stack *[]supportFrame, v bool) {
	*stack = (*stack)[:len(*stack)-1]
	if v && len(*stack) > 0 {
		s.memo[(*stack)[len(*stack)-1].id] = true
	}
}
