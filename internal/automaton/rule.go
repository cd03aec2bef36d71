package automaton

import "fmt"

// Neighborhood holds the previous-generation states of a cell's four
// axis-adjacent neighbors, indexed by Dir (N, E, S, W).
type Neighborhood [4]State

// source returns the relation of the neighbor a flow would arrive from: the
// first Begin in N, E, S, W order, otherwise the first Flow.
func (n Neighborhood) source() (Dir, bool) {
	for r, s := range n {
		if s == Begin {
			return Dir(r), true
		}
	}
	for r, s := range n {
		if s.IsFlow() {
			return Dir(r), true
		}
	}
	return 0, false
}

// routeBack returns the first Route neighbor whose recorded source is the
// observing cell.
func (n Neighborhood) routeBack() (State, bool) {
	for r, s := range n {
		if s.IsRoute() && s.pointsAt(Dir(r)) {
			return s, true
		}
	}
	return 0, false
}

// Next is the transition rule. It depends only on the cell's own state and
// its neighborhood from the previous generation, and returns a value for
// every defined state.
func Next(cur State, n Neighborhood) State {
	switch cur {
	case Open:
		if d, ok := n.source(); ok {
			return Flow(d)
		}
		return cur
	case FlowN, FlowE, FlowS, FlowW:
		if _, ok := n.routeBack(); ok {
			return Route(cur.Dir())
		}
		return cur
	case End:
		if d, ok := n.source(); ok {
			return Route(d)
		}
		return cur
	case Begin:
		if s, ok := n.routeBack(); ok {
			return s
		}
		return cur
	case Wall, RouteN, RouteE, RouteS, RouteW:
		return cur
	default:
		panic(fmt.Sprintf("automaton: invalid state %d", uint8(cur)))
	}
}
