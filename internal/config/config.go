package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/seqsim/internal/sequencer"
)

const (
	DefaultRate      = 1.0
	DefaultDt        = 1.0 / 60
	DefaultEpsilon   = 0.1
	DefaultLookahead = 10.0
)

// Config holds playback and bake settings.
type Config struct {
	Rate                      float64 `yaml:"rate" mapstructure:"rate"`
	Loop                      bool    `yaml:"loop" mapstructure:"loop"`
	RewindOnPlay              bool    `yaml:"rewind_on_play" mapstructure:"rewind_on_play"`
	ResetInitialOnLoop        bool    `yaml:"reset_initial_on_loop" mapstructure:"reset_initial_on_loop"`
	AllowTriggersWhileJumping bool    `yaml:"allow_triggers_while_jumping" mapstructure:"allow_triggers_while_jumping"`
	RestoreOnStop             bool    `yaml:"restore_on_stop" mapstructure:"restore_on_stop"`
	BoundaryEpsilon           float64 `yaml:"boundary_epsilon" mapstructure:"boundary_epsilon"`
	Lookahead                 float64 `yaml:"lookahead" mapstructure:"lookahead"`
	Dt                        float64 `yaml:"dt" mapstructure:"dt"`
	// DurationOverride bakes for this long instead of the sequence length when positive.
	DurationOverride float64 `yaml:"duration_override" mapstructure:"duration_override"`
	Loops            int     `yaml:"loops" mapstructure:"loops"`
}

func DefaultConfig() *Config {
	return &Config{
		Rate:            DefaultRate,
		RestoreOnStop:   true,
		BoundaryEpsilon: DefaultEpsilon,
		Lookahead:       DefaultLookahead,
		Dt:              DefaultDt,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadLayered reads defaults, then the file at path when given, then
// SEQSIM_ environment overrides such as SEQSIM_RATE or SEQSIM_LOOP.
func LoadLayered(path string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("rate", def.Rate)
	v.SetDefault("loop", def.Loop)
	v.SetDefault("rewind_on_play", def.RewindOnPlay)
	v.SetDefault("reset_initial_on_loop", def.ResetInitialOnLoop)
	v.SetDefault("allow_triggers_while_jumping", def.AllowTriggersWhileJumping)
	v.SetDefault("restore_on_stop", def.RestoreOnStop)
	v.SetDefault("boundary_epsilon", def.BoundaryEpsilon)
	v.SetDefault("lookahead", def.Lookahead)
	v.SetDefault("dt", def.Dt)
	v.SetDefault("duration_override", def.DurationOverride)
	v.SetDefault("loops", def.Loops)

	v.SetEnvPrefix("SEQSIM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Playback converts the config into sequencer settings.
func (c *Config) Playback() sequencer.Settings {
	s := sequencer.DefaultSettings()
	s.Rate = c.Rate
	s.Loop = c.Loop
	s.RewindOnPlay = c.RewindOnPlay
	s.ResetInitialOnLoop = c.ResetInitialOnLoop
	s.AllowTriggersWhileJumping = c.AllowTriggersWhileJumping
	s.RestoreOnStop = c.RestoreOnStop
	if c.BoundaryEpsilon > 0 {
		s.BoundaryEpsilon = c.BoundaryEpsilon
	}
	if c.Lookahead >= 0 {
		s.Lookahead = c.Lookahead
	}
	return s
}

// BakeDuration is how long a bake of a sequence of the given length runs.
func (c *Config) BakeDuration(length float64) float64 {
	if c.DurationOverride > 0 {
		return c.DurationOverride
	}
	if c.Loop && c.Loops > 0 {
		return length * float64(c.Loops)
	}
	return length
}
