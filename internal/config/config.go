// Package config resolves run settings from defaults, a YAML file, the
// environment and command-line flags, in that order.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"maze-ca/internal/automaton"
	"maze-ca/internal/logging"
	"maze-ca/internal/maze"
	"maze-ca/internal/solver"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment key, e.g. MAZECA_WIDTH.
const EnvPrefix = "MAZECA_"

var (
	// ErrInvalidConfig is returned by Validate and Resolve.
	ErrInvalidConfig = errors.New("config: invalid")
	// ErrUnknownKey is returned by Set for keys that do not exist.
	ErrUnknownKey = errors.New("config: unknown key")
)

// Config holds every tunable of the solver commands.
type Config struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Seed     int64  `yaml:"seed"`
	Strategy string `yaml:"strategy"`
	Policy   string `yaml:"policy"`
	Backend  string `yaml:"backend"`
	Workers  int    `yaml:"workers"`

	// MaxGenerations bounds a solve; 0 derives the bound from the grid size.
	MaxGenerations int `yaml:"max_generations"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Sim names the registry entry the viewer opens.
	Sim    string       `yaml:"sim"`
	Render RenderConfig `yaml:"render"`
}

// RenderConfig holds viewer and watch-mode settings.
type RenderConfig struct {
	Scale        int `yaml:"scale"`
	TPS          int `yaml:"tps"`
	StepsPerTick int `yaml:"steps_per_tick"`
	HUDWidth     int `yaml:"hud_width"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:     41,
		Height:    41,
		Seed:      1,
		Strategy:  string(maze.Kruskal),
		Policy:    solver.EarlyExit.String(),
		Backend:   automaton.SequentialName,
		LogLevel:  "info",
		LogFormat: logging.FormatText,
		Sim:       "maze",
		Render: RenderConfig{
			Scale:        8,
			TPS:          30,
			StepsPerTick: 1,
			HUDWidth:     260,
		},
	}
}

// Load reads a YAML file on top of the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LookupFunc reports the value of an environment key.
type LookupFunc func(key string) (string, bool)

// DotEnv reads a .env file into a LookupFunc without touching the process
// environment. A missing file yields an empty lookup.
func DotEnv(path string) (LookupFunc, error) {
	vars, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return func(string) (string, bool) { return "", false }, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}, nil
}

// Chain consults each lookup in turn and returns the first hit.
func Chain(lookups ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

// EnvKey returns the environment variable consulted for key.
func EnvKey(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// ApplyEnv overrides fields from MAZECA_* variables found through lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	for _, key := range Keys() {
		v, ok := lookup(EnvKey(key))
		if !ok {
			continue
		}
		if err := c.Set(key, v); err != nil {
			return fmt.Errorf("%s: %w", EnvKey(key), err)
		}
	}
	return nil
}

type field struct {
	usage string
	get   func(*Config) string
	set   func(*Config, string) error
}

func intField(usage string, ptr func(*Config) *int) field {
	return field{
		usage: usage,
		get:   func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return err
			}
			*ptr(c) = n
			return nil
		},
	}
}

func stringField(usage string, ptr func(*Config) *string) field {
	return field{
		usage: usage,
		get:   func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = strings.TrimSpace(v)
			return nil
		},
	}
}

var fields = map[string]field{
	"width":  intField("maze width in cells", func(c *Config) *int { return &c.Width }),
	"height": intField("maze height in cells", func(c *Config) *int { return &c.Height }),
	"seed": {
		usage: "random seed for maze generation",
		get:   func(c *Config) string { return strconv.FormatInt(c.Seed, 10) },
		set: func(c *Config, v string) error {
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return err
			}
			c.Seed = n
			return nil
		},
	},
	"strategy":        stringField("maze strategy: kruskal, dfs or prim", func(c *Config) *string { return &c.Strategy }),
	"policy":          stringField("termination policy: early-exit or exhaustive", func(c *Config) *string { return &c.Policy }),
	"backend":         stringField("sweep backend: sequential or parallel", func(c *Config) *string { return &c.Backend }),
	"workers":         intField("parallel backend workers (0 = GOMAXPROCS)", func(c *Config) *int { return &c.Workers }),
	"max-generations": intField("generation guard for a solve (0 = derived from size)", func(c *Config) *int { return &c.MaxGenerations }),
	"log-level":       stringField("log level", func(c *Config) *string { return &c.LogLevel }),
	"log-format":      stringField("log format: text or json", func(c *Config) *string { return &c.LogFormat }),
	"sim":             stringField("simulation to open in the viewer", func(c *Config) *string { return &c.Sim }),
	"scale":           intField("pixels per cell", func(c *Config) *int { return &c.Render.Scale }),
	"tps":             intField("ticks per second when watching", func(c *Config) *int { return &c.Render.TPS }),
	"steps":           intField("generations per tick when watching", func(c *Config) *int { return &c.Render.StepsPerTick }),
	"hud-width":       intField("viewer side panel width in pixels", func(c *Config) *int { return &c.Render.HUDWidth }),
}

// Keys lists every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns the field named key from its string form.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("%s=%q: %w", key, value, err)
	}
	return nil
}

// Get returns the string form of the field named key.
func (c *Config) Get(key string) (string, bool) {
	f, ok := fields[key]
	if !ok {
		return "", false
	}
	return f.get(c), true
}

type flagValue struct {
	cfg *Config
	key string
}

func (v flagValue) String() string {
	if v.cfg == nil {
		return ""
	}
	s, _ := v.cfg.Get(v.key)
	return s
}

func (v flagValue) Set(s string) error { return v.cfg.Set(v.key, s) }

// Bind registers one flag per key on fs. Flag values are parsed into a
// scratch copy of the defaults; Resolve replays only the flags that were set.
func Bind(fs *flag.FlagSet) {
	scratch := Default()
	for _, key := range Keys() {
		fs.Var(flagValue{cfg: &scratch, key: key}, key, fields[key].usage)
	}
}

// Resolve layers defaults, the YAML file at path (skipped when empty),
// lookup (skipped when nil) and the flags explicitly set on fs, then
// validates the result.
func Resolve(path string, lookup LookupFunc, fs *flag.FlagSet) (Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if lookup != nil {
		if err := cfg.ApplyEnv(lookup); err != nil {
			return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if fs != nil {
		var flagErr error
		fs.Visit(func(f *flag.Flag) {
			if _, ok := fields[f.Name]; !ok || flagErr != nil {
				return
			}
			flagErr = cfg.Set(f.Name, f.Value.String())
		})
		if flagErr != nil {
			return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, flagErr)
		}
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid field wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if c.Width <= 0 || c.Height <= 0 {
		return invalid("dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if _, err := maze.ParseStrategy(c.Strategy); err != nil {
		return invalid("%v", err)
	}
	if _, err := solver.ParsePolicy(c.Policy); err != nil {
		return invalid("%v", err)
	}
	if _, err := automaton.NewBackend(c.Backend, c.Workers); err != nil {
		return invalid("%v", err)
	}
	if c.Workers < 0 {
		return invalid("workers must not be negative, got %d", c.Workers)
	}
	if c.MaxGenerations < 0 {
		return invalid("max_generations must not be negative, got %d", c.MaxGenerations)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return invalid("%v", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return invalid("log_format %q: want text or json", c.LogFormat)
	}
	if c.Render.Scale <= 0 || c.Render.TPS <= 0 || c.Render.StepsPerTick <= 0 {
		return invalid("render scale, tps and steps_per_tick must be positive")
	}
	if c.Render.HUDWidth < 0 {
		return invalid("hud_width must not be negative, got %d", c.Render.HUDWidth)
	}
	return nil
}

// SimParams renders the maze settings as the string map sim factories take.
func (c Config) SimParams() map[string]string {
	return map[string]string{
		"w":        strconv.Itoa(c.Width),
		"h":        strconv.Itoa(c.Height),
		"seed":     strconv.FormatInt(c.Seed, 10),
		"strategy": c.Strategy,
		"policy":   c.Policy,
		"backend":  c.Backend,
		"workers":  strconv.Itoa(c.Workers),
		"steps":    strconv.Itoa(c.Render.StepsPerTick),
	}
}
