package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"

	"bitlife/src/simulation"
	"bitlife/src/universe"
)

// Config holds the configuration for the simulation and its front ends
type Config struct {
	Width               int           `json:"width"`
	Height              int           `json:"height"`
	Interval            time.Duration `json:"interval"` // "150ms" or a nanosecond count
	MaxSteps            int           `json:"max_steps"`
	StagnationThreshold int           `json:"stagnation_threshold"`
	Seed                int64         `json:"seed"` // 0 picks a random seed
	Template            string        `json:"template"`
	Random              bool          `json:"random"`
	Interactive         bool          `json:"interactive"`
	Window              bool          `json:"window"`
	Scale               int           `json:"scale"`
	LogFile             string        `json:"log_file"`
	Batch               Batch         `json:"batch"`
}

// Batch configures the headless batch runner
type Batch struct {
	Jobs        int `json:"jobs"`
	Generations int `json:"generations"`
	Parallel    int `json:"parallel"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               universe.DefWidth,
		Height:              universe.DefHeight,
		Interval:            simulation.DefSimulationInterval,
		MaxSteps:            simulation.DefMaxSteps,
		StagnationThreshold: simulation.DefStagnationThreshold,
		Template:            "sample",
		Scale:               8,
		Batch: Batch{
			Jobs:        8,
			Generations: 500,
			Parallel:    4,
		},
	}
}

// Load loads configuration from JSON file over the defaults
func Load(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[config.Load] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[config.Load] failed to unmarshal data from file: %+v", filename)
	}

	return config, config.Validate()
}

// UnmarshalJSON reads the interval in the flag format ("150ms"), a bare number
// is still taken as nanoseconds. Fields missing from data keep their values.
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	aux := struct {
		*plain
		Interval json.RawMessage `json:"interval"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Interval) == 0 {
		return nil
	}

	var text string
	if err := json.Unmarshal(aux.Interval, &text); err == nil {
		d, err := time.ParseDuration(text)
		if err != nil {
			return errors.Wrapf(err, "[config.UnmarshalJSON] bad interval %q", text)
		}
		c.Interval = d
		return nil
	}
	var ns int64
	if err := json.Unmarshal(aux.Interval, &ns); err != nil {
		return errors.Wrapf(err, "[config.UnmarshalJSON] interval %s is neither a duration nor a number", aux.Interval)
	}
	c.Interval = time.Duration(ns)
	return nil
}

// Bind registers the command line flags on p, current values become defaults
func (c *Config) Bind(p *flaggy.Parser) {
	p.Int(&c.Width, "x", "width", "Width of a simulation field")
	p.Int(&c.Height, "y", "height", "Height of a simulation field")
	p.Duration(&c.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	p.Int(&c.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 for no limit")
	p.Int(&c.StagnationThreshold, "t", "stagnation", "Finish after this many stagnant steps, 0 disables")
	p.Int64(&c.Seed, "d", "seed", "Random seed, 0 for a random one")
	p.String(&c.Template, "p", "template", "Template to settle at the center of the field")
	p.Bool(&c.Random, "r", "random", "Settle with random data")
	p.Bool(&c.Interactive, "n", "interactive", "Start interactive mode")
	p.Bool(&c.Window, "w", "window", "Open a window (requires the ebiten build tag)")
	p.Int(&c.Scale, "", "scale", "Pixel scale of the window")
	p.String(&c.LogFile, "l", "log", "Write logs to this file")
}

// BindBatch registers the batch runner flags on the batch subcommand
func (c *Config) BindBatch(sc *flaggy.Subcommand) {
	sc.Int(&c.Batch.Jobs, "k", "jobs", "Number of independent universes")
	sc.Int(&c.Batch.Generations, "g", "generations", "Generations per universe")
	sc.Int(&c.Batch.Parallel, "j", "parallel", "Universes advanced at the same time")
}

// Validate checks the values the simulation cannot run with
func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return errors.Wrapf(universe.ErrZeroDimension, "[config.Validate] field %dx%d", c.Width, c.Height)
	case c.Interval < 0:
		return errors.Errorf("[config.Validate] negative interval %v", c.Interval)
	case c.MaxSteps < 0:
		return errors.Errorf("[config.Validate] negative maxSteps %d", c.MaxSteps)
	case c.StagnationThreshold < 0:
		return errors.Errorf("[config.Validate] negative stagnation threshold %d", c.StagnationThreshold)
	case c.Scale < 1:
		return errors.Errorf("[config.Validate] scale %d must be positive", c.Scale)
	case c.Batch.Jobs < 0 || c.Batch.Generations < 0 || c.Batch.Parallel < 0:
		return errors.Errorf("[config.Validate] negative batch settings %+v", c.Batch)
	}
	return nil
}

// RandomSource returns the seeded source, or nil for an unseeded one
func (c Config) RandomSource() universe.RandomSource {
	if c.Seed == 0 {
		return nil
	}
	return universe.NewRandom(uint64(c.Seed))
}

// SimulationOptions converts the config into simulation options
func (c Config) SimulationOptions() *simulation.Options {
	return &simulation.Options{
		Width:               c.Width,
		Height:              c.Height,
		Interval:            c.Interval,
		MaxSteps:            c.MaxSteps,
		StagnationThreshold: c.StagnationThreshold,
		Random:              c.RandomSource(),
	}
}
