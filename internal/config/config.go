package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/pstuifzand/tracediff/internal/diff"
	"github.com/pstuifzand/tracediff/internal/geometry"
	"github.com/pstuifzand/tracediff/internal/render"
	"github.com/pstuifzand/tracediff/internal/svgdoc"
	"github.com/pstuifzand/tracediff/internal/trace"
)

// ErrUnknownKey is returned by Set and Get for keys outside the schema.
var ErrUnknownKey = errors.New("unknown config key")

// Geometry controls footprint extraction.
type Geometry struct {
	StrokeWidth      float64 `toml:"stroke_width"`
	QuadrantSegments int     `toml:"quadrant_segments"`
	CurveSamples     int     `toml:"curve_samples"`
	ArcPolicy        string  `toml:"arc_policy"`
}

// Classify controls pair classification.
type Classify struct {
	TouchingFactor    float64 `toml:"touching_factor"`
	EqualityTolerance float64 `toml:"equality_tolerance"`
	Workers           int     `toml:"workers"`
}

// Document describes the input layer and the overlay canvas.
type Document struct {
	Layer   string `toml:"layer"`
	Width   string `toml:"width"`
	Height  string `toml:"height"`
	ViewBox string `toml:"view_box"`
}

// Styles holds overlay fill colours.
type Styles struct {
	New      string `toml:"new"`
	Conflict string `toml:"conflict"`
	Overlap  string `toml:"overlap"`
	Neutral  string `toml:"neutral"`
	Outline  string `toml:"outline"`
}

// Config holds application configuration
type Config struct {
	Geometry Geometry `toml:"geometry"`
	Classify Classify `toml:"classify"`
	Document Document `toml:"document"`
	Styles   Styles   `toml:"styles"`
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file. Keys missing from the
// file keep their default values.
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}

	return config, nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	canvas := render.DefaultCanvas()
	return &Config{
		Geometry: Geometry{
			StrokeWidth:      trace.DefaultStrokeWidth,
			QuadrantSegments: geometry.DefaultQuadrantSegments,
			CurveSamples:     trace.DefaultCurveSamples,
			ArcPolicy:        trace.ArcAbort.String(),
		},
		Classify: Classify{
			TouchingFactor: diff.DefaultTouchingFactor,
			Workers:        1,
		},
		Document: Document{
			Layer:   svgdoc.DefaultLayer,
			Width:   canvas.Width,
			Height:  canvas.Height,
			ViewBox: canvas.ViewBox,
		},
		Styles: Styles{
			New:      "#008800",
			Conflict: "#ff0000",
			Overlap:  "#ff8800",
			Neutral:  "#aaaaaa",
			Outline:  "#000000",
		},
	}
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(home, ".config", "tracediff")
	return configDir, nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	return os.MkdirAll(configDir, 0755)
}

// Validate checks value ranges and colour syntax.
func (c *Config) Validate() error {
	if c.Geometry.StrokeWidth <= 0 {
		return fmt.Errorf("geometry.stroke_width must be positive, got %g", c.Geometry.StrokeWidth)
	}
	if c.Geometry.QuadrantSegments < 1 {
		return fmt.Errorf("geometry.quadrant_segments must be at least 1, got %d", c.Geometry.QuadrantSegments)
	}
	if c.Geometry.CurveSamples < 1 {
		return fmt.Errorf("geometry.curve_samples must be at least 1, got %d", c.Geometry.CurveSamples)
	}
	if _, err := trace.ParseArcPolicy(c.Geometry.ArcPolicy); err != nil {
		return fmt.Errorf("geometry.arc_policy: %w", err)
	}
	if c.Classify.TouchingFactor < 0 {
		return fmt.Errorf("classify.touching_factor must not be negative, got %g", c.Classify.TouchingFactor)
	}
	if c.Classify.EqualityTolerance < 0 {
		return fmt.Errorf("classify.equality_tolerance must not be negative, got %g", c.Classify.EqualityTolerance)
	}
	if c.Classify.Workers < 1 {
		return fmt.Errorf("classify.workers must be at least 1, got %d", c.Classify.Workers)
	}
	if c.Document.Layer == "" {
		return fmt.Errorf("document.layer must not be empty")
	}
	if _, err := c.Palette(); err != nil {
		return fmt.Errorf("styles: %w", err)
	}
	return nil
}

// TraceOptions returns the extraction settings.
func (c *Config) TraceOptions() trace.Options {
	policy, _ := trace.ParseArcPolicy(c.Geometry.ArcPolicy)
	return trace.Options{
		StrokeWidth:      c.Geometry.StrokeWidth,
		QuadrantSegments: c.Geometry.QuadrantSegments,
		CurveSamples:     c.Geometry.CurveSamples,
		ArcPolicy:        policy,
	}
}

// DiffOptions returns the classification settings.
func (c *Config) DiffOptions() diff.Options {
	return diff.Options{
		StrokeWidth:       c.Geometry.StrokeWidth,
		TouchingFactor:    c.Classify.TouchingFactor,
		EqualityTolerance: c.Classify.EqualityTolerance,
		Workers:           c.Classify.Workers,
	}
}

// Palette parses the configured fill colours.
func (c *Config) Palette() (render.Palette, error) {
	s := c.Styles
	return render.NewPalette(s.New, s.Conflict, s.Overlap, s.Neutral, s.Outline)
}

// Canvas returns the overlay page geometry.
func (c *Config) Canvas() render.Canvas {
	return render.Canvas{Width: c.Document.Width, Height: c.Document.Height, ViewBox: c.Document.ViewBox}
}

type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(p func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, v string) error { *p(c) = v; return nil },
	}
}

func floatField(p func(c *Config) *float64) field {
	return field{
		get: func(c *Config) string { return strconv.FormatFloat(*p(c), 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			*p(c) = f
			return nil
		},
	}
}

func intField(p func(c *Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*p(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*p(c) = n
			return nil
		},
	}
}

var fields = map[string]field{
	"geometry.stroke_width":       floatField(func(c *Config) *float64 { return &c.Geometry.StrokeWidth }),
	"geometry.quadrant_segments":  intField(func(c *Config) *int { return &c.Geometry.QuadrantSegments }),
	"geometry.curve_samples":      intField(func(c *Config) *int { return &c.Geometry.CurveSamples }),
	"geometry.arc_policy":         stringField(func(c *Config) *string { return &c.Geometry.ArcPolicy }),
	"classify.touching_factor":    floatField(func(c *Config) *float64 { return &c.Classify.TouchingFactor }),
	"classify.equality_tolerance": floatField(func(c *Config) *float64 { return &c.Classify.EqualityTolerance }),
	"classify.workers":            intField(func(c *Config) *int { return &c.Classify.Workers }),
	"document.layer":              stringField(func(c *Config) *string { return &c.Document.Layer }),
	"document.width":              stringField(func(c *Config) *string { return &c.Document.Width }),
	"document.height":             stringField(func(c *Config) *string { return &c.Document.Height }),
	"document.view_box":           stringField(func(c *Config) *string { return &c.Document.ViewBox }),
	"styles.new":                  stringField(func(c *Config) *string { return &c.Styles.New }),
	"styles.conflict":             stringField(func(c *Config) *string { return &c.Styles.Conflict }),
	"styles.overlap":              stringField(func(c *Config) *string { return &c.Styles.Overlap }),
	"styles.neutral":              stringField(func(c *Config) *string { return &c.Styles.Neutral }),
	"styles.outline":              stringField(func(c *Config) *string { return &c.Styles.Outline }),
}

// Set overrides one value by its dotted key, e.g. "classify.workers".
// Callers run Validate after applying overrides.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// Get returns one value by its dotted key.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// GetAll returns every value keyed by its dotted key.
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string, len(fields))
	for k, f := range fields {
		result[k] = f.get(c)
	}
	return result
}

// Keys returns the dotted keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save persists the configuration to the TOML file
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure the config directory exists
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return c.SaveToFile(configPath)
}

// SaveToFile writes the configuration to filePath.
func (c *Config) SaveToFile(filePath string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	// Write to file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
