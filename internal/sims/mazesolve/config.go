package mazesolve

import (
	"strconv"

	"maze-ca/internal/automaton"
	"maze-ca/internal/maze"
	"maze-ca/internal/solver"
)

// Config controls maze generation and solving for the viewer.
type Config struct {
	Width  int
	Height int

	Seed int64

	Strategy maze.Strategy
	Policy   solver.Policy
	Backend  string
	Workers  int

	// StepsPerTick is how many generations a single Step advances.
	StepsPerTick int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:        81,
		Height:       61,
		Seed:         1,
		Strategy:     maze.Kruskal,
		Policy:       solver.EarlyExit,
		Backend:      automaton.SequentialName,
		StepsPerTick: 1,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Invalid values are ignored and keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["strategy"]; ok {
		if parsed, err := maze.ParseStrategy(v); err == nil {
			c.Strategy = parsed
		}
	}
	if v, ok := cfg["policy"]; ok {
		if parsed, err := solver.ParsePolicy(v); err == nil {
			c.Policy = parsed
		}
	}
	if v, ok := cfg["backend"]; ok {
		if _, err := automaton.NewBackend(v, 1); err == nil {
			c.Backend = v
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["steps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.StepsPerTick = parsed
		}
	}
	return c
}

func (c Config) normalized() Config {
	if c.Width <= 0 {
		c.Width = 1
	}
	if c.Height <= 0 {
		c.Height = 1
	}
	strategy, err := maze.ParseStrategy(string(c.Strategy))
	if err != nil {
		strategy = maze.Kruskal
	}
	c.Strategy = strategy
	if c.Workers < 0 {
		c.Workers = 0
	}
	if c.StepsPerTick <= 0 {
		c.StepsPerTick = 1
	}
	return c
}
