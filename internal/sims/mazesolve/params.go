package mazesolve

import "maze-ca/internal/core"

// Parameters reports the current configuration grouped for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Maze",
			Params: []core.Parameter{
				core.IntParam("w", "Width", w.w),
				core.IntParam("h", "Height", w.h),
				core.Int64Param("seed", "Seed", w.seed),
				core.StringParam("strategy", "Strategy", string(w.cfg.Strategy)),
			},
		},
		{
			Name: "Solver",
			Params: []core.Parameter{
				core.StringParam("policy", "Policy", w.cfg.Policy.String()),
				core.StringParam("backend", "Backend", w.solver.Backend().Name()),
				core.IntParam("workers", "Workers", w.cfg.Workers),
				core.IntParam("steps", "Generations per tick", w.cfg.StepsPerTick),
			},
		},
		{
			Name: "Run",
			Params: []core.Parameter{
				core.IntParam("generation", "Generation", w.solver.Generation()),
				core.BoolParam("done", "Done", w.solver.Done()),
				core.BoolParam("cancelled", "Cancelled", w.solver.Cancelled()),
			},
		},
	}}
}

// SetIntParameter updates a runtime-tunable integer. Only "steps" can change
// without rebuilding the world.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "steps":
		if value <= 0 {
			return false
		}
		w.cfg.StepsPerTick = value
		return true
	default:
		return false
	}
}

// ParameterControls lists the HUD-adjustable parameters.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "steps", Label: "Generations per tick", Step: 1, Min: 1, HasMin: true, Max: 256, HasMax: true},
	}
}
