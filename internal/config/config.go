package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Character CharacterConfig `yaml:"character"`
	Camera    CameraConfig    `yaml:"camera"`
	Remote    RemoteConfig    `yaml:"remote"`
	Network   NetworkConfig   `yaml:"network"`
	Console   ConsoleConfig   `yaml:"console"`
	Logging   LoggingConfig   `yaml:"logging"`
	Record    RecordConfig    `yaml:"record"`
}

type ServerConfig struct {
	URL              string        `yaml:"url"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

type CharacterConfig struct {
	Spawn        [3]float64 `yaml:"spawn"`
	WalkSpeed    float64    `yaml:"walk_speed"`
	RunSpeed     float64    `yaml:"run_speed"`
	FadeDuration float64    `yaml:"fade_duration"`
	TurnRate     float64    `yaml:"turn_rate"`
	MaxTickDelta float64    `yaml:"max_tick_delta"`
	RunToggle    bool       `yaml:"run_toggle"`
	Clips        []string   `yaml:"clips"`
	ExcludeClips []string   `yaml:"exclude_clips"`
	InitialClip  string     `yaml:"initial_clip"`
}

type CameraConfig struct {
	Yaw         float64 `yaml:"yaw"`
	Pitch       float64 `yaml:"pitch"`
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
}

type RemoteConfig struct {
	// BlendFactor is applied once per position update, not per second.
	BlendFactor float64 `yaml:"blend_factor"`
}

type NetworkConfig struct {
	SendRate float64 `yaml:"send_rate"`
}

type ConsoleConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	MovePulse    time.Duration `yaml:"move_pulse"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

type RecordConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Prefix  string `yaml:"prefix"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:              "ws://localhost:1989/ws",
			HandshakeTimeout: 5 * time.Second,
		},
		Character: CharacterConfig{
			Spawn:        [3]float64{0, 0, -10},
			WalkSpeed:    2,
			RunSpeed:     5,
			FadeDuration: 0.2,
			TurnRate:     12,
			MaxTickDelta: 0.1,
			RunToggle:    true,
			Clips:        []string{"Idle", "Walk", "Run", "TPose"},
			ExcludeClips: []string{"TPose"},
			InitialClip:  "Idle",
		},
		Camera: CameraConfig{
			Pitch:       0.6,
			Distance:    7,
			MinDistance: 3,
			MaxDistance: 15,
		},
		Remote: RemoteConfig{
			BlendFactor: 0.3,
		},
		Network: NetworkConfig{
			SendRate: 20,
		},
		Console: ConsoleConfig{
			TickInterval: 16 * time.Millisecond,
			MovePulse:    180 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "atrium.log",
			Format: "console",
		},
		Record: RecordConfig{
			Dir:    "recordings",
			Prefix: "session",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	ch := c.Character
	switch {
	case c.Server.URL == "":
		return fmt.Errorf("%w: server.url is empty", ErrInvalid)
	case ch.WalkSpeed < 0 || ch.RunSpeed < 0:
		return fmt.Errorf("%w: character speeds must be >= 0", ErrInvalid)
	case ch.FadeDuration <= 0:
		return fmt.Errorf("%w: character.fade_duration must be > 0", ErrInvalid)
	case ch.TurnRate <= 0:
		return fmt.Errorf("%w: character.turn_rate must be > 0", ErrInvalid)
	case ch.MaxTickDelta <= 0:
		return fmt.Errorf("%w: character.max_tick_delta must be > 0", ErrInvalid)
	case len(ch.Clips) == 0:
		return fmt.Errorf("%w: character.clips is empty", ErrInvalid)
	case c.Remote.BlendFactor <= 0 || c.Remote.BlendFactor > 1:
		return fmt.Errorf("%w: remote.blend_factor must be in (0, 1]", ErrInvalid)
	case c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance:
		return fmt.Errorf("%w: camera distance limits", ErrInvalid)
	case c.Network.SendRate < 0:
		return fmt.Errorf("%w: network.send_rate must be >= 0", ErrInvalid)
	case c.Console.TickInterval <= 0:
		return fmt.Errorf("%w: console.tick_interval must be > 0", ErrInvalid)
	}
	return nil
}
