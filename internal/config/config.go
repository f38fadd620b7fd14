// Package config loads canvas settings from a TOML, YAML or JSON file.
package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/canvas"
	"github.com/aretw0/canvas/pkg/adapters/redis"
	"github.com/aretw0/canvas/pkg/clipboard"
	"github.com/aretw0/canvas/pkg/document"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/drag"
	"github.com/aretw0/canvas/pkg/gesture"
	"github.com/aretw0/canvas/pkg/viewport"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Settings holds canvas configuration.
type Settings struct {
	Zoom      ZoomSettings      `mapstructure:"zoom"`
	Gesture   GestureSettings   `mapstructure:"gesture"`
	Grid      drag.Grid         `mapstructure:"grid"`
	Resize    ResizeSettings    `mapstructure:"resize"`
	Clipboard ClipboardSettings `mapstructure:"clipboard"`
	Store     StoreSettings     `mapstructure:"store"`
	Redis     RedisSettings     `mapstructure:"redis"`
	HTTP      HTTPSettings      `mapstructure:"http"`
	Log       LogSettings       `mapstructure:"log"`
}

// ZoomSettings bounds the viewport zoom.
type ZoomSettings struct {
	Min  float64 `mapstructure:"min"`
	Max  float64 `mapstructure:"max"`
	Step float64 `mapstructure:"step"`
}

// GestureSettings tunes pointer classification.
type GestureSettings struct {
	MoveThreshold     float64       `mapstructure:"move_threshold"`
	DoubleTapInterval time.Duration `mapstructure:"double_tap_interval"`
	DoubleTapDistance float64       `mapstructure:"double_tap_distance"`
}

// ResizeSettings sets the resize floor.
type ResizeSettings struct {
	MinWidth  float64 `mapstructure:"min_width"`
	MinHeight float64 `mapstructure:"min_height"`
}

// ClipboardSettings controls pasting and the shared clipboard.
type ClipboardSettings struct {
	PasteOffset domain.Point  `mapstructure:"paste_offset"`
	Shared      bool          `mapstructure:"shared"` // Share clipboard text through redis
	Name        string        `mapstructure:"name"`
	TTL         time.Duration `mapstructure:"ttl"`
}

// StoreSettings selects where documents live.
type StoreSettings struct {
	Backend string `mapstructure:"backend"` // "memory", "file", "redis"
	Path    string `mapstructure:"path"`
	Format  string `mapstructure:"format"` // "json" or "yaml", file backend only

	// EncryptionKey is a base64 AES-256 key; when set, node configuration
	// is encrypted at rest. FallbackKeys still decrypt after a rotation.
	EncryptionKey string   `mapstructure:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys"`

	// Redact lists patterns of configuration keys masked before storage.
	Redact []string `mapstructure:"redact"`
}

// RedisSettings configures the redis backend.
type RedisSettings struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HTTPSettings configures the HTTP server.
type HTTPSettings struct {
	Port int `mapstructure:"port"`
}

// LogSettings configures the application logger.
type LogSettings struct {
	Level string `mapstructure:"level"`
}

// Default returns the default configuration.
func Default() *Settings {
	return &Settings{
		Zoom: ZoomSettings{Min: domain.MinZoom, Max: domain.MaxZoom, Step: viewport.DefaultZoomStep},
		Gesture: GestureSettings{
			MoveThreshold:     gesture.DefaultMoveThreshold,
			DoubleTapInterval: gesture.DefaultDoubleTapInterval,
			DoubleTapDistance: gesture.DefaultDoubleTapDistance,
		},
		Grid:   drag.Grid{Size: drag.DefaultGridSize},
		Resize: ResizeSettings{MinWidth: drag.DefaultMinSize.Width, MinHeight: drag.DefaultMinSize.Height},
		Clipboard: ClipboardSettings{
			PasteOffset: clipboard.DefaultPasteOffset,
			Name:        "default",
		},
		Store: StoreSettings{Backend: BackendMemory, Format: "json"},
		Redis: RedisSettings{Addr: "localhost:6379", Prefix: redis.DefaultPrefix},
		HTTP:  HTTPSettings{Port: 8080},
		Log:   LogSettings{Level: "info"},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults. The format follows the extension: .toml, .yaml/.yml or .json.
func Load(path string) (*Settings, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := Decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode applies a generic map (as parsed from any config format) onto cfg.
// Durations accept strings such as "300ms"; numbers are weakly typed.
func Decode(raw map[string]any, cfg *Settings) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate rejects settings the editor cannot run with.
func (s *Settings) Validate() error {
	if s.Zoom.Min <= 0 || s.Zoom.Max < s.Zoom.Min {
		return fmt.Errorf("invalid zoom range [%g, %g]", s.Zoom.Min, s.Zoom.Max)
	}
	if s.Zoom.Step <= 1 {
		return fmt.Errorf("zoom step must be greater than 1, got %g", s.Zoom.Step)
	}
	if s.Grid.Enabled && s.Grid.Size <= 0 {
		return fmt.Errorf("grid size must be positive when snapping is enabled")
	}
	switch s.Store.Backend {
	case BackendMemory, BackendRedis:
	case BackendFile:
		if s.Store.Format != "json" && s.Store.Format != "yaml" {
			return fmt.Errorf("unknown store format %q", s.Store.Format)
		}
	default:
		return fmt.Errorf("unknown store backend %q", s.Store.Backend)
	}
	if s.Store.EncryptionKey != "" {
		if _, err := s.EncryptionKeys(); err != nil {
			return err
		}
	}
	return nil
}

// EncryptionKeys decodes the active key and the fallback keys.
func (s *Settings) EncryptionKeys() ([][]byte, error) {
	encoded := append([]string{s.Store.EncryptionKey}, s.Store.FallbackKeys...)
	keys := make([][]byte, 0, len(encoded))
	for _, e := range encoded {
		k, err := base64.StdEncoding.DecodeString(e)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		if len(k) != 32 {
			return nil, fmt.Errorf("encryption keys must be 32 bytes, got %d", len(k))
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// EditorOptions maps the settings onto canvas.Editor options.
func (s *Settings) EditorOptions() []canvas.Option {
	return []canvas.Option{
		canvas.WithZoomLimits(s.Zoom.Min, s.Zoom.Max),
		canvas.WithZoomStep(s.Zoom.Step),
		canvas.WithMoveThreshold(s.Gesture.MoveThreshold),
		canvas.WithDoubleTap(s.Gesture.DoubleTapInterval, s.Gesture.DoubleTapDistance),
		canvas.WithGrid(s.Grid),
		canvas.WithMinNodeSize(domain.Size{Width: s.Resize.MinWidth, Height: s.Resize.MinHeight}),
		canvas.WithPasteOffset(s.Clipboard.PasteOffset),
	}
}

// DocumentOptions maps the settings onto document.Manager options.
func (s *Settings) DocumentOptions() []document.Option {
	return []document.Option{
		document.WithEditOptions(document.EditOptions{
			Grid:        s.Grid,
			PasteOffset: s.Clipboard.PasteOffset,
		}),
	}
}
