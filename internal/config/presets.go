package config

import "sort"

var Presets = map[string]*Config{
	"cinematic": {
		Rate: 1, RestoreOnStop: true, BoundaryEpsilon: DefaultEpsilon, Lookahead: DefaultLookahead, Dt: 1.0 / 24,
	},
	"preview": {
		Rate: 1, RewindOnPlay: true, RestoreOnStop: true, BoundaryEpsilon: DefaultEpsilon, Lookahead: 0, Dt: 1.0 / 30,
	},
	"loop": {
		Rate: 1, Loop: true, ResetInitialOnLoop: true, RestoreOnStop: true, BoundaryEpsilon: DefaultEpsilon,
		Lookahead: DefaultLookahead, Dt: DefaultDt, Loops: 3,
	},
	"scrub": {
		Rate: 1, AllowTriggersWhileJumping: true, BoundaryEpsilon: DefaultEpsilon, Lookahead: 0, Dt: 0.25,
	},
	"fast": {
		Rate: 4, RestoreOnStop: true, BoundaryEpsilon: DefaultEpsilon, Lookahead: DefaultLookahead, Dt: DefaultDt,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
