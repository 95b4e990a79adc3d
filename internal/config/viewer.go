// Package config loads viewer settings from JSON. Every field is optional;
// the Get* accessors supply defaults for anything left unset.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/trackview/internal/units"
	"github.com/paulmach/orb"
)

// DefaultConfigPath is the path to the canonical viewer defaults file.
const DefaultConfigPath = "config/viewer.defaults.json"

// RGB is a colour triple in 0..255.
type RGB [3]int

// ViewerConfig represents the root configuration for both tools.
type ViewerConfig struct {
	// Window
	WindowWidth  *int `json:"window_width,omitempty"`
	WindowHeight *int `json:"window_height,omitempty"`
	FPS          *int `json:"fps,omitempty"`

	// Playback speed
	SpeedIncrement *float64 `json:"speed_increment,omitempty"`
	MinSpeed       *float64 `json:"min_speed,omitempty"`
	MaxSpeed       *float64 `json:"max_speed,omitempty"`
	DefaultSpeed   *float64 `json:"default_speed,omitempty"`
	StepUnit       *string  `json:"step_unit,omitempty"`

	// Viewport
	MaxZoom   *float64 `json:"max_zoom,omitempty"`
	AutoZoom  *bool    `json:"auto_zoom,omitempty"`
	ShowTrail *bool    `json:"show_trail,omitempty"`
	// DefaultCenter is [lon, lat], used before any track position is visible.
	DefaultCenter *[2]float64 `json:"default_center,omitempty"`

	// GIF export
	GIFMaxFrames *int `json:"gif_max_frames,omitempty"`

	// Data
	DefaultCRS      *string `json:"default_crs,omitempty"`
	DisplayTimezone *string `json:"display_timezone,omitempty"`
	Interpolate     *bool   `json:"interpolate,omitempty"`

	// Plugin variant timer and background animation, duration strings like "100ms"
	TickInterval         *string `json:"tick_interval,omitempty"`
	BackgroundFrameDelay *string `json:"background_frame_delay,omitempty"`

	Palette []RGB `json:"palette,omitempty"`
}

// DefaultPalette is the per-track colour cycle.
var DefaultPalette = []RGB{
	{255, 0, 0},
	{0, 255, 0},
	{0, 0, 255},
	{255, 255, 0},
	{0, 255, 255},
	{255, 0, 255},
}

// EmptyViewerConfig returns a ViewerConfig with all fields unset.
func EmptyViewerConfig() *ViewerConfig {
	return &ViewerConfig{}
}

// LoadViewerConfig loads a ViewerConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
// Fields omitted from the JSON file fall back to defaults, so
// partial configs are safe.
func LoadViewerConfig(path string) (*ViewerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyViewerConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents. Panics if the file cannot
// be loaded; intended for test setup.
func MustLoadDefaultConfig() *ViewerConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadViewerConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *ViewerConfig) Validate() error {
	if c.WindowWidth != nil && *c.WindowWidth <= 0 {
		return fmt.Errorf("window_width must be positive, got %d", *c.WindowWidth)
	}
	if c.WindowHeight != nil && *c.WindowHeight <= 0 {
		return fmt.Errorf("window_height must be positive, got %d", *c.WindowHeight)
	}
	if c.FPS != nil && *c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", *c.FPS)
	}

	if c.SpeedIncrement != nil && *c.SpeedIncrement <= 0 {
		return fmt.Errorf("speed_increment must be positive, got %f", *c.SpeedIncrement)
	}
	minSpeed, maxSpeed := c.GetMinSpeed(), c.GetMaxSpeed()
	if minSpeed <= 0 || minSpeed > maxSpeed {
		return fmt.Errorf("speed range [%f, %f] is invalid", minSpeed, maxSpeed)
	}
	if d := c.GetDefaultSpeed(); d < minSpeed || d > maxSpeed {
		return fmt.Errorf("default_speed %f outside [%f, %f]", d, minSpeed, maxSpeed)
	}
	if c.StepUnit != nil && !units.IsValid(*c.StepUnit) {
		return fmt.Errorf("step_unit must be one of %s, got %q", units.GetValidUnitsString(), *c.StepUnit)
	}

	if c.MaxZoom != nil && *c.MaxZoom < 1 {
		return fmt.Errorf("max_zoom must be at least 1, got %f", *c.MaxZoom)
	}
	if c.DefaultCenter != nil {
		lon, lat := c.DefaultCenter[0], c.DefaultCenter[1]
		if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
			return fmt.Errorf("default_center [%f, %f] is not a lon/lat pair", lon, lat)
		}
	}
	if c.GIFMaxFrames != nil && *c.GIFMaxFrames <= 0 {
		return fmt.Errorf("gif_max_frames must be positive, got %d", *c.GIFMaxFrames)
	}

	if c.DisplayTimezone != nil && *c.DisplayTimezone != "" && !units.IsTimezoneValid(*c.DisplayTimezone) {
		return fmt.Errorf("invalid display_timezone %q", *c.DisplayTimezone)
	}

	if c.TickInterval != nil && *c.TickInterval != "" {
		if d, err := time.ParseDuration(*c.TickInterval); err != nil || d <= 0 {
			return fmt.Errorf("invalid tick_interval '%s'", *c.TickInterval)
		}
	}
	if c.BackgroundFrameDelay != nil && *c.BackgroundFrameDelay != "" {
		if d, err := time.ParseDuration(*c.BackgroundFrameDelay); err != nil || d <= 0 {
			return fmt.Errorf("invalid background_frame_delay '%s'", *c.BackgroundFrameDelay)
		}
	}

	for i, col := range c.Palette {
		for _, v := range col {
			if v < 0 || v > 255 {
				return fmt.Errorf("palette[%d] component %d out of range 0..255", i, v)
			}
		}
	}

	return nil
}

// GetWindowWidth returns the window_width value or the default.
func (c *ViewerConfig) GetWindowWidth() int {
	if c.WindowWidth == nil {
		return 1280
	}
	return *c.WindowWidth
}

// GetWindowHeight returns the window_height value or the default.
func (c *ViewerConfig) GetWindowHeight() int {
	if c.WindowHeight == nil {
		return 720
	}
	return *c.WindowHeight
}

// GetFPS returns the fps value or the default.
func (c *ViewerConfig) GetFPS() int {
	if c.FPS == nil {
		return 60
	}
	return *c.FPS
}

// GetSpeedIncrement returns the speed_increment value or the default.
func (c *ViewerConfig) GetSpeedIncrement() float64 {
	if c.SpeedIncrement == nil {
		return 0.1
	}
	return *c.SpeedIncrement
}

// GetMinSpeed returns the min_speed value or the default.
func (c *ViewerConfig) GetMinSpeed() float64 {
	if c.MinSpeed == nil {
		return 0.1
	}
	return *c.MinSpeed
}

// GetMaxSpeed returns the max_speed value or the default.
func (c *ViewerConfig) GetMaxSpeed() float64 {
	if c.MaxSpeed == nil {
		return 5.0
	}
	return *c.MaxSpeed
}

// GetDefaultSpeed returns the default_speed value or the default.
func (c *ViewerConfig) GetDefaultSpeed() float64 {
	if c.DefaultSpeed == nil {
		return 1.0
	}
	return *c.DefaultSpeed
}

// GetStepUnit returns the initial playback step unit.
func (c *ViewerConfig) GetStepUnit() units.StepUnit {
	if c.StepUnit == nil {
		return units.Hour
	}
	u, err := units.Parse(*c.StepUnit)
	if err != nil {
		return units.Hour
	}
	return u
}

// GetMaxZoom returns the max_zoom value or the default.
func (c *ViewerConfig) GetMaxZoom() float64 {
	if c.MaxZoom == nil {
		return 20
	}
	return *c.MaxZoom
}

// GetAutoZoom returns the auto_zoom value or the default.
func (c *ViewerConfig) GetAutoZoom() bool {
	if c.AutoZoom == nil {
		return true
	}
	return *c.AutoZoom
}

// GetShowTrail returns the show_trail value or the default.
func (c *ViewerConfig) GetShowTrail() bool {
	if c.ShowTrail == nil {
		return true
	}
	return *c.ShowTrail
}

// GetDefaultCenter returns the configured fallback centre or 0,0.
func (c *ViewerConfig) GetDefaultCenter() orb.Point {
	if c.DefaultCenter == nil {
		return orb.Point{}
	}
	return orb.Point{c.DefaultCenter[0], c.DefaultCenter[1]}
}

// GetGIFMaxFrames returns the most frames held for a GIF export.
func (c *ViewerConfig) GetGIFMaxFrames() int {
	if c.GIFMaxFrames == nil {
		return 600
	}
	return *c.GIFMaxFrames
}

// GetDefaultCRS returns the CRS offered in the input prompt.
func (c *ViewerConfig) GetDefaultCRS() string {
	if c.DefaultCRS == nil || *c.DefaultCRS == "" {
		return "EPSG:4326"
	}
	return *c.DefaultCRS
}

// GetDisplayTimezone returns the timezone used for on-screen timestamps.
func (c *ViewerConfig) GetDisplayTimezone() string {
	if c.DisplayTimezone == nil || *c.DisplayTimezone == "" {
		return "UTC"
	}
	return *c.DisplayTimezone
}

// GetInterpolate reports whether the standalone viewer plays densified paths.
func (c *ViewerConfig) GetInterpolate() bool {
	if c.Interpolate == nil {
		return false
	}
	return *c.Interpolate
}

// GetTickInterval parses and returns the plugin timer interval.
func (c *ViewerConfig) GetTickInterval() time.Duration {
	return parseDurationOr(c.TickInterval, 100*time.Millisecond)
}

// GetBackgroundFrameDelay parses and returns the animated background frame delay.
func (c *ViewerConfig) GetBackgroundFrameDelay() time.Duration {
	return parseDurationOr(c.BackgroundFrameDelay, 100*time.Millisecond)
}

// GetPalette returns the configured track palette or DefaultPalette.
func (c *ViewerConfig) GetPalette() []RGB {
	if len(c.Palette) == 0 {
		return DefaultPalette
	}
	return c.Palette
}

func parseDurationOr(s *string, def time.Duration) time.Duration {
	if s == nil || *s == "" {
		return def
	}
	d, err := time.ParseDuration(*s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
