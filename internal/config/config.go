package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Route RouteConfig `yaml:"route"`
	Grid  GridConfig  `yaml:"grid"`
	Store StoreConfig `yaml:"store"`
	Web   WebConfig   `yaml:"web"`
}

type RouteConfig struct {
	// GranularityM is the default length filter in metres.
	GranularityM float64 `yaml:"granularity_m"`
	// Format is "auto", "nmea" or "gpx".
	Format string `yaml:"format"`
}

type GridConfig struct {
	CentreLatDeg    float64 `yaml:"centre_lat_deg"`
	CentreLonDeg    float64 `yaml:"centre_lon_deg"`
	CentreEleM      float64 `yaml:"centre_ele_m"`
	HorizontalUnitM float64 `yaml:"horizontal_unit_m"`
	VerticalUnitM   float64 `yaml:"vertical_unit_m"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type WebConfig struct {
	Listen       string `yaml:"listen"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	var cfg Config
	// The zero Config always validates.
	_ = cfg.applyDefaults()
	return cfg
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if !finiteNonNegative(cfg.Route.GranularityM) {
		return fmt.Errorf("route.granularity_m must be >= 0")
	}
	cfg.Route.Format = strings.ToLower(strings.TrimSpace(cfg.Route.Format))
	switch cfg.Route.Format {
	case "":
		cfg.Route.Format = "auto"
	case "auto", "nmea", "gpx":
	default:
		return fmt.Errorf("route.format must be one of auto, nmea, gpx")
	}

	if !finiteNonNegative(cfg.Grid.HorizontalUnitM) || !finiteNonNegative(cfg.Grid.VerticalUnitM) {
		return fmt.Errorf("grid units must be > 0")
	}
	if cfg.Grid.HorizontalUnitM == 0 {
		cfg.Grid.HorizontalUnitM = 10000
	}
	if cfg.Grid.VerticalUnitM == 0 {
		cfg.Grid.VerticalUnitM = 10000
	}
	if lat := cfg.Grid.CentreLatDeg; math.IsNaN(lat) || lat <= -90 || lat >= 90 {
		return fmt.Errorf("grid.centre_lat_deg must be within (-90, 90)")
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = "gpsroute.sqlite"
	}

	if cfg.Web.Listen == "" {
		cfg.Web.Listen = ":8080"
	}
	if cfg.Web.MaxBodyBytes < 0 {
		return fmt.Errorf("web.max_body_bytes must be >= 0")
	}
	if cfg.Web.MaxBodyBytes == 0 {
		cfg.Web.MaxBodyBytes = 8 << 20
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
