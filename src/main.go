package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"

	"bitlife/src/batch"
	"bitlife/src/config"
	"bitlife/src/diag"
	"bitlife/src/simulation"
	"bitlife/src/view"
)

const version = "0.1.0"

type cli struct {
	cfg        config.Config
	configFile string
	batch      *flaggy.Subcommand
}

func main() {
	c, err := initOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	logOut, closeLog, err := openLog(c.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	diag.Install(logOut)

	if c.batch.Used {
		err = runBatch(c.cfg)
	} else {
		err = runSimulation(c.cfg)
	}
	if err != nil {
		diag.Logger().Error("bitlife failed", "err", fmt.Sprintf("%+v", err))
		fmt.Fprintf(os.Stderr, "%v\n", err)
		closeLog()
		os.Exit(1)
	}
}

//initOptions parses the command line twice, the second pass lets flags override the config file
func initOptions(args []string) (*cli, error) {
	c := &cli{cfg: config.DefaultConfig()}
	if _, err := parse(c, args); err != nil {
		return nil, err
	}
	if c.configFile == "" {
		return c, c.cfg.Validate()
	}

	fileCfg, err := config.Load(c.configFile)
	if err != nil {
		return nil, err
	}
	final := &cli{cfg: fileCfg, configFile: c.configFile}
	if _, err := parse(final, args); err != nil {
		return nil, err
	}
	return final, final.cfg.Validate()
}

func parse(c *cli, args []string) (*flaggy.Parser, error) {
	p := flaggy.NewParser("bitlife")
	p.Description = "Conway's Game of Life on a toroidal field"
	p.Version = version
	p.ShowHelpOnUnexpected = true
	p.String(&c.configFile, "c", "config", "JSON configuration file, flags override its values")
	c.cfg.Bind(p)

	c.batch = flaggy.NewSubcommand("batch")
	c.batch.Description = "Advance many random universes concurrently and print their results"
	c.cfg.BindBatch(c.batch)
	p.AttachSubcommand(c.batch, 1)

	if err := p.ParseArgs(args); err != nil {
		return nil, errors.Wrap(err, "[main] failed to parse arguments")
	}
	return p, nil
}

//openLog picks the log destination, interactive front ends own the terminal
func openLog(cfg config.Config) (io.Writer, func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "[main] failed to open log file: %v", cfg.LogFile)
		}
		return f, func() { _ = f.Close() }, nil
	}
	if cfg.Interactive || cfg.Window {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}

func runSimulation(cfg config.Config) error {
	var stateCh chan simulation.Status
	if !cfg.Interactive && !cfg.Window {
		stateCh = make(chan simulation.Status, 10) //the buffered channel to getting the simulation status
	}

	s, err := simulation.New(cfg.SimulationOptions(), stateCh)
	if err != nil {
		return err
	}
	defer s.Close()

	if cfg.Random {
		s.Reset()
	} else {
		s.Clear()
		s.SettleTemplate(cfg.Template, cfg.Height/2, cfg.Width/2)
	}

	switch {
	case cfg.Window:
		w, err := view.NewWindow(cfg.Scale)
		if err != nil {
			return err
		}
		s.RegisterViewer(w)
		return w.Start()
	case cfg.Interactive:
		v, err := view.NewViewTerminal(cfg.Template)
		if err != nil {
			return errors.Wrap(err, "[main] failed to start the terminal UI")
		}
		s.RegisterViewer(v)
		return v.Start()
	}

	out := view.NewConsoleOut(os.Stdout, true)
	s.RegisterViewer(out)
	if err := out.Start(); err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	s.Run()
	for {
		select {
		case st := <-stateCh:
			if st.Err != nil {
				return st.Err
			}
			if st.RunningMode == simulation.RunningStateFinished {
				return nil
			}
		case <-interrupt:
			s.Stop()
			return nil
		}
	}
}

func runBatch(cfg config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	seed := uint64(cfg.Seed)
	if seed == 0 {
		seed = 1
	}
	jobs := batch.Jobs(cfg.Batch.Jobs, cfg.Width, cfg.Height, cfg.Batch.Generations, seed)
	fmt.Printf("Running %d universes of %d x %d for %d generations, %d at a time\n",
		len(jobs), cfg.Width, cfg.Height, cfg.Batch.Generations, cfg.Batch.Parallel)

	results, err := batch.Run(ctx, jobs, cfg.Batch.Parallel)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Printf("  %v\n", r)
	}
	return nil
}
