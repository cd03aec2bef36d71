package core

import "strconv"

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeString denotes enumerated or free-form string parameters.
	ParamTypeString ParamType = "string"
	// ParamTypeBool denotes boolean parameters.
	ParamTypeBool ParamType = "bool"
)

// Parameter describes a single value exposed by a simulation.
type Parameter struct {
	Key   string
	Label string
	Type  ParamType
	Value string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot captures the current set of values exposed by a sim.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// Lookup returns the parameter stored under key, searching every group.
func (s ParameterSnapshot) Lookup(key string) (Parameter, bool) {
	for _, g := range s.Groups {
		for _, p := range g.Params {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Parameter{}, false
}

// ParameterProvider is implemented by sims that expose their configuration.
type ParameterProvider interface {
	Parameters() ParameterSnapshot
}

// IntParameterSetter allows HUD interactions to update integer parameters.
type IntParameterSetter interface {
	SetIntParameter(key string, value int) bool
}

// IntParam builds an integer Parameter.
func IntParam(key, label string, value int) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.Itoa(value)}
}

// Int64Param builds an integer Parameter from an int64.
func Int64Param(key, label string, value int64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

// StringParam builds a string Parameter.
func StringParam(key, label, value string) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeString, Value: value}
}

// BoolParam builds a boolean Parameter.
func BoolParam(key, label string, value bool) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeBool, Value: strconv.FormatBool(value)}
}

// ParameterControl describes an integer parameter the HUD can step with
// +/- buttons.
type ParameterControl struct {
	Key    string
	Label  string
	Step   int
	Min    int
	Max    int
	HasMin bool
	HasMax bool
}

// ParameterControlsProvider is implemented by sims that expose adjustable
// parameters to the HUD.
type ParameterControlsProvider interface {
	ParameterControls() []ParameterControl
}

// Clamp steps value by direction*Step and limits it to the control bounds.
func (c ParameterControl) Clamp(value, direction int) int {
	step := c.Step
	if step <= 0 {
		step = 1
	}
	target := value + direction*step
	if c.HasMin && target < c.Min {
		target = c.Min
	}
	if c.HasMax && target > c.Max {
		target = c.Max
	}
	return target
}
