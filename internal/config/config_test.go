package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestLoad 使用表驱动测试覆盖配置加载的核心场景
func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		createFile bool
		content    string
		wantErr    bool
		validate   func(t *testing.T, cfg *Config, err error)
	}{
		{
			name:       "正常加载有效YAML",
			createFile: true,
			content: `server:
  url: "ws://gallery.example.com:1989/ws"
  handshake_timeout: 3s
character:
  spawn: [1, 0, -4]
  walk_speed: 1.5
  run_speed: 6
  run_toggle: false
remote:
  blend_factor: 0.5
console:
  tick_interval: 20ms
logging:
  level: "debug"
  file: "gallery.log"
`,
			wantErr: false,
			validate: func(t *testing.T, cfg *Config, err error) {
				if cfg.Server.URL != "ws://gallery.example.com:1989/ws" {
					t.Errorf("Server.URL = %q, 期望 %q", cfg.Server.URL, "ws://gallery.example.com:1989/ws")
				}
				if cfg.Server.HandshakeTimeout != 3*time.Second {
					t.Errorf("Server.HandshakeTimeout = %v, 期望 %v", cfg.Server.HandshakeTimeout, 3*time.Second)
				}
				if cfg.Character.Spawn != [3]float64{1, 0, -4} {
					t.Errorf("Character.Spawn = %v, 期望 %v", cfg.Character.Spawn, [3]float64{1, 0, -4})
				}
				if cfg.Character.WalkSpeed != 1.5 || cfg.Character.RunSpeed != 6 {
					t.Errorf("速度 = %v/%v, 期望 1.5/6", cfg.Character.WalkSpeed, cfg.Character.RunSpeed)
				}
				if cfg.Character.RunToggle {
					t.Errorf("Character.RunToggle = true, 期望 false")
				}
				if cfg.Remote.BlendFactor != 0.5 {
					t.Errorf("Remote.BlendFactor = %v, 期望 0.5", cfg.Remote.BlendFactor)
				}
				if cfg.Console.TickInterval != 20*time.Millisecond {
					t.Errorf("Console.TickInterval = %v, 期望 20ms", cfg.Console.TickInterval)
				}
				if cfg.Logging.Level != "debug" {
					t.Errorf("Logging.Level = %q, 期望 %q", cfg.Logging.Level, "debug")
				}
				if cfg.Logging.File != "gallery.log" {
					t.Errorf("Logging.File = %q, 期望 %q", cfg.Logging.File, "gallery.log")
				}
				// 未写入文件的字段保持默认值
				if cfg.Character.FadeDuration != 0.2 {
					t.Errorf("Character.FadeDuration = %v, 期望默认 0.2", cfg.Character.FadeDuration)
				}
			},
		},
		{
			name:       "文件不存在",
			createFile: false,
			wantErr:    true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if !os.IsNotExist(err) {
					t.Errorf("期望文件不存在错误，实际: %v", err)
				}
			},
		},
		{
			name:       "YAML格式错误",
			createFile: true,
			content: `server:
  url: "ws://localhost:1989/ws"
  handshake_timeout: [5s
`,
			wantErr: true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if err == nil || !strings.Contains(err.Error(), "yaml") {
					t.Errorf("期望返回YAML解析错误，实际: %v", err)
				}
			},
		},
		{
			name:       "空文件使用默认值",
			createFile: true,
			content:    "",
			wantErr:    false,
			validate: func(t *testing.T, cfg *Config, err error) {
				def := Default()
				if cfg.Server.URL != def.Server.URL {
					t.Errorf("Server.URL = %q, 期望默认 %q", cfg.Server.URL, def.Server.URL)
				}
				if cfg.Remote.BlendFactor != 0.3 {
					t.Errorf("Remote.BlendFactor = %v, 期望默认 0.3", cfg.Remote.BlendFactor)
				}
				if !cfg.Character.RunToggle {
					t.Errorf("Character.RunToggle 默认应为 true")
				}
			},
		},
		{
			name:       "混合系数越界",
			createFile: true,
			content: `remote:
  blend_factor: 1.5
`,
			wantErr: true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("期望 ErrInvalid，实际: %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			configPath := filepath.Join(tempDir, "config.yaml")

			if tt.createFile {
				if err := os.WriteFile(configPath, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("创建测试配置文件失败: %v", err)
				}
			}

			cfg, err := Load(configPath)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err == nil && cfg == nil {
				t.Fatalf("Load() 返回了 nil 配置")
			}

			if tt.validate != nil {
				tt.validate(t, cfg, err)
			}
		})
	}
}

// TestValidate 测试各字段的范围校验
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"空URL", func(c *Config) { c.Server.URL = "" }},
		{"负速度", func(c *Config) { c.Character.RunSpeed = -1 }},
		{"零淡入时长", func(c *Config) { c.Character.FadeDuration = 0 }},
		{"零转向速率", func(c *Config) { c.Character.TurnRate = 0 }},
		{"零最大帧间隔", func(c *Config) { c.Character.MaxTickDelta = 0 }},
		{"无动画片段", func(c *Config) { c.Character.Clips = nil }},
		{"零混合系数", func(c *Config) { c.Remote.BlendFactor = 0 }},
		{"相机距离颠倒", func(c *Config) { c.Camera.MaxDistance = 1 }},
		{"负发送频率", func(c *Config) { c.Network.SendRate = -1 }},
		{"零tick间隔", func(c *Config) { c.Console.TickInterval = 0 }},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, 期望 nil", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, 期望 ErrInvalid", err)
			}
		})
	}
}
