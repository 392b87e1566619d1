// Package config loads the renderer's config.yaml and watches it for edits.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/spf13/afero"
	"github.com/warpdl/warphud/common"
	"github.com/warpdl/warphud/internal/overlay"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the config directory.
const FileName = "config.yaml"

const (
	SurfaceAuto     = "auto"
	SurfaceTerminal = "terminal"
	SurfaceLog      = "log"
)

var (
	ErrInvalidColor    = errors.New("invalid color")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidPadding  = errors.New("padding must be between 0 and 8")
	ErrInvalidSurface  = errors.New("invalid surface")
)

type Style struct {
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
	Delimiter  string `yaml:"delimiter"`
	Padding    int    `yaml:"padding"`
	Position   string `yaml:"position"`
}

type Config struct {
	Style Style `yaml:"style"`
	// RequireTTY holds the terminal surface back until stdout is a terminal.
	RequireTTY bool   `yaml:"require_tty"`
	Surface    string `yaml:"surface"`
}

var hexColor = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// Default returns the built-in configuration.
func Default() *Config {
	s := overlay.DefaultStyle()
	return &Config{
		Style: Style{
			Foreground: s.Foreground,
			Background: s.Background,
			Delimiter:  s.Delimiter,
			Padding:    s.Padding,
			Position:   s.Position,
		},
		RequireTTY: true,
		Surface:    SurfaceAuto,
	}
}

// Dir returns $WARPHUD_CONFIG_DIR, or warphud under the user config dir.
func Dir() (string, error) {
	if dir := os.Getenv(common.ConfigDirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(base, "warphud"), nil
}

// Path returns the config file path within dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads dir/config.yaml from fs. A missing file yields Default. Keys
// absent from the file keep their default values.
func Load(fs afero.Fs, dir string) (*Config, error) {
	cfg := Default()
	data, err := afero.ReadFile(fs, Path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", Path(dir), err)
	}
	return cfg, nil
}

// Save writes cfg to dir/config.yaml, creating dir if needed.
func Save(fs afero.Fs, dir string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return afero.WriteFile(fs, Path(dir), data, 0600)
}

func (c *Config) Validate() error {
	if !validColor(c.Style.Foreground) {
		return fmt.Errorf("%w: foreground %q", ErrInvalidColor, c.Style.Foreground)
	}
	if !validColor(c.Style.Background) {
		return fmt.Errorf("%w: background %q", ErrInvalidColor, c.Style.Background)
	}
	switch c.Style.Position {
	case overlay.PositionTopLeft, overlay.PositionTopRight,
		overlay.PositionBottomLeft, overlay.PositionBottomRight:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPosition, c.Style.Position)
	}
	if c.Style.Padding < 0 || c.Style.Padding > 8 {
		return fmt.Errorf("%w: %d", ErrInvalidPadding, c.Style.Padding)
	}
	switch c.Surface {
	case SurfaceAuto, SurfaceTerminal, SurfaceLog:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSurface, c.Surface)
	}
	return nil
}

// OverlayStyle converts the file representation to the renderer's.
func (c *Config) OverlayStyle() overlay.Style {
	return overlay.Style{
		Foreground: c.Style.Foreground,
		Background: c.Style.Background,
		Delimiter:  c.Style.Delimiter,
		Padding:    c.Style.Padding,
		Position:   c.Style.Position,
	}
}

// validColor accepts hex colors and ANSI 256 palette indexes.
func validColor(s string) bool {
	if hexColor.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}
