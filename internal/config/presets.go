package config

import "sort"

// Presets are partial overrides applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	// first script: R sweep, 10 V, h=0.001 over 3 s
	"classic": func(c *Config) {},
	// second script: animated replay, 20 V, h=0.01 over 10 s
	"animated": func(c *Config) {
		c.Source.High = 20
		c.Solver.H = 0.01
		c.Solver.TMax = 10
	},
	"dc": func(c *Config) {
		c.Source.Duty = 1
		c.Solver.TMax = 10
	},
	"off": func(c *Config) {
		c.Source.Duty = 0
	},
	// h = 0.5 against a stability limit of 2L/R = 0.2
	"unstable": func(c *Config) {
		c.Circuit.R = 10
		c.Circuit.L = 1
		c.Solver.H = 0.5
		c.Solver.TMax = 10
	},
	"slow": func(c *Config) {
		c.Circuit.R = 0.1
		c.Circuit.L = 5
		c.Solver.H = 0.01
		c.Solver.TMax = 20
	},
}

// GetPreset returns the default configuration with the named preset
// applied, or nil when the preset does not exist.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply overlays the named preset onto cfg. It reports false for an
// unknown name.
func Apply(name string, cfg *Config) bool {
	apply, ok := Presets[name]
	if ok {
		apply(cfg)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
