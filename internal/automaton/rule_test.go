package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func nb(n, e, s, w State) Neighborhood { return Neighborhood{n, e, s, w} }

func TestNext(t *testing.T) {
	tests := []struct {
		name string
		cur  State
		n    Neighborhood
		want State
	}{
		{"open stays without source", Open, nb(Open, Wall, Open, RouteE), Open},
		{"open flows from begin", Open, nb(Wall, Wall, Begin, Wall), FlowS},
		{"open flows from first flow", Open, nb(Wall, FlowS, FlowN, Open), FlowE},
		{"open prefers begin over earlier flow", Open, nb(FlowE, Wall, Wall, Begin), FlowW},
		{"open ignores route and end", Open, nb(RouteS, End, Wall, Wall), Open},
		{"flow routes when pointed at from south", FlowW, nb(Wall, Wall, RouteN, Wall), RouteW},
		{"flow routes when pointed at from east", FlowN, nb(Open, RouteW, Open, Open), RouteN},
		{"flow ignores route pointing elsewhere", FlowN, nb(RouteN, RouteE, RouteW, RouteS), FlowN},
		{"flow ignores flow pointing back", FlowE, nb(FlowS, Wall, Wall, Wall), FlowE},
		{"flow routes on later neighbor", FlowS, nb(RouteE, Wall, Wall, RouteE), RouteS},
		{"end waits for flow", End, nb(Open, Wall, Wall, Open), End},
		{"end routes to first flow", End, nb(FlowN, Wall, Wall, FlowE), RouteN},
		{"end routes to adjacent begin", End, nb(FlowS, Begin, Wall, Wall), RouteE},
		{"begin waits", Begin, nb(Wall, FlowW, FlowN, Wall), Begin},
		{"begin ignores stray route", Begin, nb(Wall, RouteN, Wall, Wall), Begin},
		{"begin adopts route pointing back", Begin, nb(Wall, RouteW, Wall, Wall), RouteW},
		{"begin adopts route from south", Begin, nb(Wall, Wall, RouteN, Wall), RouteN},
		{"wall is terminal", Wall, nb(Begin, FlowN, RouteN, End), Wall},
		{"route is terminal", RouteE, nb(Begin, FlowN, RouteN, End), RouteE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.cur, tt.n))
		})
	}
}

func TestNextTotalOverDefinedStates(t *testing.T) {
	for s := Open; s <= RouteW; s++ {
		for n := Open; n <= RouteW; n++ {
			assert.NotPanics(t, func() { Next(s, nb(n, n, n, n)) }, "state %s", s)
		}
	}
	assert.Panics(t, func() { Next(State(12), nb(Wall, Wall, Wall, Wall)) })
}

func TestStateEncoding(t *testing.T) {
	for d := North; d <= West; d++ {
		assert.True(t, Flow(d).IsFlow())
		assert.True(t, Route(d).IsRoute())
		assert.Equal(t, d, Flow(d).Dir())
		assert.Equal(t, d, Route(d).Dir())
		assert.Equal(t, d, d.Opposite().Opposite())
	}
	assert.Equal(t, State(4), FlowN)
	assert.Equal(t, State(11), RouteW)
	assert.Equal(t, "ROUTE_E", RouteE.String())
	assert.Equal(t, "State(40)", State(40).String())
	assert.Equal(t, South, North.Opposite())
	assert.Equal(t, West, East.Opposite())
	assert.False(t, Open.IsFlow())
	assert.False(t, End.IsRoute())
	assert.True(t, RouteW.pointsAt(East), "a route from the west seen on the east side points back")
}
