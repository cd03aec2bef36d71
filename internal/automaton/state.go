package automaton

import "fmt"

// State is the value of a single automaton cell.
type State uint8

// The twelve cell states. Flow and Route values carry a Dir in their low two
// bits naming the neighbor they came from.
const (
	Open State = iota
	Wall
	Begin
	End
	FlowN
	FlowE
	FlowS
	FlowW
	RouteN
	RouteE
	RouteS
	RouteW

	// NumStates counts the valid states.
	NumStates = int(RouteW) + 1
)

// Dir is a compass direction, also used as the neighbor relation index.
type Dir uint8

// Directions in neighborhood order; the order doubles as the tie-break.
const (
	North Dir = iota
	East
	South
	West
)

var dirDeltas = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Opposite returns the direction pointing the other way.
func (d Dir) Opposite() Dir { return (d + 2) % 4 }

// Delta returns the grid offset one step towards d.
func (d Dir) Delta() (dx, dy int) {
	v := dirDeltas[d%4]
	return v[0], v[1]
}

func (d Dir) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return fmt.Sprintf("Dir(%d)", uint8(d))
	}
}

// Flow returns the flow state that came from direction d.
func Flow(d Dir) State { return FlowN + State(d%4) }

// Route returns the route state pointing towards direction d.
func Route(d Dir) State { return RouteN + State(d%4) }

// Valid reports whether s is one of the twelve defined states.
func (s State) Valid() bool { return s <= RouteW }

// IsFlow reports whether s is a FLOW_* state.
func (s State) IsFlow() bool { return s >= FlowN && s <= FlowW }

// IsRoute reports whether s is a ROUTE_* state.
func (s State) IsRoute() bool { return s >= RouteN && s <= RouteW }

// Dir returns the direction encoded in a Flow or Route state. The result is
// meaningless for other states.
func (s State) Dir() Dir { return Dir(s % 4) }

// pointsAt reports whether s, observed at relation r from some cell, is a
// value whose recorded source is that cell.
func (s State) pointsAt(r Dir) bool { return s.Dir() == r.Opposite() }

var stateNames = [...]string{
	"OPEN", "WALL", "BEGIN", "END",
	"FLOW_N", "FLOW_E", "FLOW_S", "FLOW_W",
	"ROUTE_N", "ROUTE_E", "ROUTE_S", "ROUTE_W",
}

func (s State) String() string {
	if !s.Valid() {
		return fmt.Sprintf("State(%d)", uint8(s))
	}
	return stateNames[s]
}

var stateGlyphs = [...]byte{' ', '#', 'B', 'E', '.', '.', '.', '.', '^', '>', 'v', '<'}

// Glyph returns a single printable character for text rendering. Route
// glyphs point towards the neighbor the route continues to.
func (s State) Glyph() byte {
	if !s.Valid() {
		return '?'
	}
	return stateGlyphs[s]
}
