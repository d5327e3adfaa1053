package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "route: {}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg=%+v want defaults %+v", cfg, Default())
	}
	if cfg.Route.GranularityM != 0 || cfg.Route.Format != "auto" {
		t.Fatalf("route=%+v", cfg.Route)
	}
	if cfg.Grid.HorizontalUnitM != 10000 || cfg.Grid.VerticalUnitM != 10000 {
		t.Fatalf("grid=%+v", cfg.Grid)
	}
	if cfg.Store.Path != "gpsroute.sqlite" || cfg.Web.Listen != ":8080" || cfg.Web.MaxBodyBytes != 8<<20 {
		t.Fatalf("store=%+v web=%+v", cfg.Store, cfg.Web)
	}
}

func TestLoad_Values(t *testing.T) {
	path := writeTempConfig(t, `
route:
  granularity_m: 25.5
  format: NMEA
grid:
  centre_lat_deg: 53.381
  centre_lon_deg: -1.4701
  horizontal_unit_m: 500
store:
  path: /var/lib/gpsroute/routes.sqlite
web:
  listen: 127.0.0.1:9090
  max_body_bytes: 1024
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Route.GranularityM != 25.5 || cfg.Route.Format != "nmea" {
		t.Fatalf("route=%+v", cfg.Route)
	}
	if cfg.Grid.CentreLatDeg != 53.381 || cfg.Grid.HorizontalUnitM != 500 || cfg.Grid.VerticalUnitM != 10000 {
		t.Fatalf("grid=%+v", cfg.Grid)
	}
	if cfg.Store.Path != "/var/lib/gpsroute/routes.sqlite" {
		t.Fatalf("store=%+v", cfg.Store)
	}
	if cfg.Web.Listen != "127.0.0.1:9090" || cfg.Web.MaxBodyBytes != 1024 {
		t.Fatalf("web=%+v", cfg.Web)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		want     string
	}{
		{"NegativeGranularity", "route:\n  granularity_m: -1\n", "route.granularity_m must be >= 0"},
		{"NaNGranularity", "route:\n  granularity_m: .nan\n", "route.granularity_m must be >= 0"},
		{"InfGranularity", "route:\n  granularity_m: .inf\n", "route.granularity_m must be >= 0"},
		{"UnknownFormat", "route:\n  format: kml\n", "route.format must be one of auto, nmea, gpx"},
		{"NegativeGridUnit", "grid:\n  vertical_unit_m: -5\n", "grid units must be > 0"},
		{"NaNGridUnit", "grid:\n  horizontal_unit_m: .nan\n", "grid units must be > 0"},
		{"NaNCentre", "grid:\n  centre_lat_deg: .nan\n", "grid.centre_lat_deg must be within (-90, 90)"},
		{"PoleCentre", "grid:\n  centre_lat_deg: 90\n", "grid.centre_lat_deg must be within (-90, 90)"},
		{"NegativeBody", "web:\n  max_body_bytes: -1\n", "web.max_body_bytes must be >= 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.contents))
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(writeTempConfig(t, "route: [unterminated\n")); err == nil {
		t.Fatalf("expected error for invalid yaml")
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "gpsroute.example.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := Default()
	want.Store.Path = "./gpsroute.sqlite"
	if cfg != want {
		t.Fatalf("cfg=%+v want %+v", cfg, want)
	}
}
