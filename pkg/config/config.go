// Package config loads StrTools settings from YAML.
package config

import (
	"fmt"
	"os"

	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/psx"
	"github.com/hansbonini/strtools/pkg/sector"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"gopkg.in/yaml.v3"
)

// ImageConfig selects the sectors to traverse
type ImageConfig struct {
	SectorSize  int `yaml:"sector_size"`  // 0 detects from the image size
	StartSector int `yaml:"start_sector"` // first sector, inclusive
	EndSector   int `yaml:"end_sector"`   // last sector, exclusive; 0 means end of image
}

// FF8Config sets the size of FF8 frames, whose headers carry none
type FF8Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the complete configuration file
type Config struct {
	Image    ImageConfig `yaml:"image"`
	Formats  []string    `yaml:"formats"` // enabled sector formats, empty for all
	FF8      FF8Config   `yaml:"ff8"`
	Decode   bool        `yaml:"decode"` // decode frames, not just demux them
	LogLevel string      `yaml:"log_level"`
}

// Default returns the configuration used without a file
func Default() *Config {
	return &Config{
		FF8:      FF8Config{Width: 320, Height: 224},
		Decode:   true,
		LogLevel: "info",
	}
}

// Load reads a YAML file on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToLoadConfig, nazaerrors.Wrap(err))
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	common.LogInfo(common.InfoConfigLoaded, path)
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, common.FormatError(common.ErrFailedToParseYAML, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and names
func (c *Config) Validate() error {
	switch c.Image.SectorSize {
	case 0, psx.CD_SECTOR_SIZE, psx.CD_DATA_SIZE:
	default:
		return fmt.Errorf("%s: sector_size %d", common.ErrFailedToLoadConfig, c.Image.SectorSize)
	}
	if c.Image.StartSector < 0 || c.Image.EndSector < 0 ||
		(c.Image.EndSector != 0 && c.Image.EndSector <= c.Image.StartSector) {
		return fmt.Errorf("%s: %d..%d", common.ErrInvalidSectorRange, c.Image.StartSector, c.Image.EndSector)
	}
	if c.FF8.Width < 1 || c.FF8.Height < 1 {
		return fmt.Errorf("%s: ff8 frame size %dx%d", common.ErrFailedToLoadConfig, c.FF8.Width, c.FF8.Height)
	}
	if _, err := c.Kinds(); err != nil {
		return err
	}
	switch c.LogLevel {
	case "", "info", "debug":
	default:
		return fmt.Errorf("%s: log_level %q", common.ErrFailedToLoadConfig, c.LogLevel)
	}
	return nil
}

// Kinds returns the enabled sector formats
func (c *Config) Kinds() ([]sector.Kind, error) {
	kinds := make([]sector.Kind, 0, len(c.Formats))
	for _, name := range c.Formats {
		k, err := sector.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", common.ErrUnknownSectorFormat, err)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Verbose reports whether debug logging is requested
func (c *Config) Verbose() bool {
	return c.LogLevel == "debug"
}
