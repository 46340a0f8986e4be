package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"

	"bitlife/src/universe"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, `{"width": 32, "max_steps": 0, "batch": {"jobs": 2}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Width != 32 || cfg.Height != def.Height {
		t.Fatalf("size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MaxSteps != 0 {
		t.Fatalf("max steps %d, expected 0", cfg.MaxSteps)
	}
	if cfg.Batch.Jobs != 2 || cfg.Batch.Generations != def.Batch.Generations {
		t.Fatalf("batch %+v", cfg.Batch)
	}
}

func TestLoadInterval(t *testing.T) {
	cases := map[string]time.Duration{
		`{"interval": "150ms"}`: 150 * time.Millisecond,
		`{"interval": "2s"}`:    2 * time.Second,
		`{"interval": 5000000}`: 5 * time.Millisecond,
		`{"width": 10}`:         DefaultConfig().Interval,
	}
	for content, want := range cases {
		cfg, err := Load(writeFile(t, content))
		if err != nil {
			t.Fatalf("%s: %v", content, err)
		}
		if cfg.Interval != want {
			t.Fatalf("%s: interval %v, expected %v", content, cfg.Interval, want)
		}
	}

	for _, content := range []string{`{"interval": "soon"}`, `{"interval": true}`} {
		if _, err := Load(writeFile(t, content)); err == nil {
			t.Fatalf("%s must fail", content)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file must fail")
	}
	if _, err := Load(writeFile(t, `{"width": `)); err == nil {
		t.Fatal("broken json must fail")
	}
	_, err := Load(writeFile(t, `{"height": 0}`))
	if !errors.Is(err, universe.ErrZeroDimension) {
		t.Fatalf("zero height: err %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"interval":   func(c *Config) { c.Interval = -time.Second },
		"maxSteps":   func(c *Config) { c.MaxSteps = -1 },
		"stagnation": func(c *Config) { c.StagnationThreshold = -1 },
		"scale":      func(c *Config) { c.Scale = 0 },
		"batch":      func(c *Config) { c.Batch.Parallel = -2 },
		"width":      func(c *Config) { c.Width = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}
}

func TestBindFlags(t *testing.T) {
	cfg := DefaultConfig()
	p := flaggy.NewParser("bitlife")
	cfg.Bind(p)
	err := p.ParseArgs([]string{"-x", "20", "--height", "10", "-i", "5ms", "-r", "--seed", "9", "-p", "pulsar"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 20 || cfg.Height != 10 || cfg.Interval != 5*time.Millisecond {
		t.Fatalf("parsed %+v", cfg)
	}
	if !cfg.Random || cfg.Seed != 9 || cfg.Template != "pulsar" {
		t.Fatalf("parsed %+v", cfg)
	}
	if cfg.MaxSteps != DefaultConfig().MaxSteps {
		t.Fatal("unset flags must keep their defaults")
	}
}

func TestSimulationOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 12, 7
	if o := cfg.SimulationOptions(); o.Width != 12 || o.Height != 7 || o.Random != nil {
		t.Fatalf("options %+v", o)
	}
	cfg.Seed = 5
	if o := cfg.SimulationOptions(); o.Random == nil {
		t.Fatal("a seed must produce a seeded source")
	}
}
