package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"golang.org/x/sync/errgroup"

	"lifetorus/src/config"
	"lifetorus/src/simulation"
	"lifetorus/src/universe"
	"lifetorus/src/view"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("lifetorus: ")

	cfg, err := initOptions(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		log.Fatalf("%v", err)
	}
}

//initOptions parses the command line, a config file given with -c is applied on top of the flags
func initOptions(args []string) (config.Config, error) {
	cfg := config.Default()
	interval := time.Duration(cfg.Interval)
	var configPath string

	p := flaggy.NewParser("lifetorus")
	p.Description = "Conway's Game of Life on a toroidal field"
	p.ShowHelpOnUnexpected = true
	p.Int(&cfg.Width, "x", "width", "Width of a simulation field")
	p.Int(&cfg.Height, "y", "height", "Height of a simulation field")
	p.Duration(&interval, "i", "interval", "Simulation speed (interval between the generations) in format the number with 'ms' suffix, for example 150ms")
	p.Int(&cfg.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps generations, 0 for no limit")
	p.Bool(&cfg.Interactive, "n", "interactive", "Start interactive mode")
	p.String(&cfg.Pattern, "p", "pattern", "Seeding pattern ["+strings.Join(append(universe.PatternNames(), config.RandomPattern), "|")+"]")
	p.Float64(&cfg.Density, "d", "density", "Share of alive cells for the random pattern")
	p.Int64(&cfg.Seed, "", "seed", "Seed of the random pattern")
	p.String(&configPath, "c", "config", "JSON config file, overrides the flags")

	if err := p.ParseArgs(args); err != nil {
		return cfg, err
	}
	cfg.Interval = config.Duration(interval)

	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath, cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

//newUniverse creates the universe and seeds it as configured
func newUniverse(cfg config.Config) (*universe.Universe, error) {
	u, err := universe.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	if cfg.Pattern == config.RandomPattern {
		u.Randomize(cfg.Seed, cfg.Density)
		return u, nil
	}
	p, err := universe.LookupPattern(cfg.Pattern)
	if err != nil {
		return nil, err
	}
	u.Settle(p, cfg.Height/2-1, cfg.Width/2-1)
	return u, nil
}

//newSeeding tells the interactive view what the configured pattern is
func newSeeding(cfg config.Config) (view.Seeding, error) {
	seeding := view.Seeding{Seed: cfg.Seed, Density: cfg.Density}
	if cfg.Pattern == config.RandomPattern {
		seeding.Random = true
		return seeding, nil
	}
	p, err := universe.LookupPattern(cfg.Pattern)
	if err != nil {
		return seeding, err
	}
	seeding.Pattern = p
	return seeding, nil
}

func simulationOptions(cfg config.Config) *simulation.Options {
	return &simulation.Options{
		Interval:        time.Duration(cfg.Interval),
		MaxSteps:        cfg.MaxSteps,
		MaxSkippedTicks: cfg.MaxSkippedTicks,
	}
}

func run(ctx context.Context, cfg config.Config) error {
	u, err := newUniverse(cfg)
	if err != nil {
		return err
	}

	if cfg.Interactive {
		s := simulation.New(u, simulationOptions(cfg), nil)
		defer s.Close()
		seeding, err := newSeeding(cfg)
		if err != nil {
			return err
		}
		return runInteractive(ctx, s, seeding)
	}

	stateCh := make(chan simulation.Status, 10) //the buffered channel to getting the simulation status
	s := simulation.New(u, simulationOptions(cfg), stateCh)
	defer s.Close()
	_, err = runHeadless(ctx, s, os.Stdout, true)
	return err
}

func runInteractive(ctx context.Context, s *simulation.Simulation, seeding view.Seeding) error {
	ui, err := view.NewViewTerminal(seeding)
	if err != nil {
		return err
	}
	if err := s.RegisterViewer(ui); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	uiDone := make(chan struct{})
	g.Go(func() error {
		defer close(uiDone)
		return ui.Start()
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			ui.Quit()
		case <-uiDone:
		}
		return nil
	})
	return g.Wait()
}

//runHeadless runs the simulation until it finishes or ctx is cancelled and returns the last status
func runHeadless(ctx context.Context, s *simulation.Simulation, out io.Writer, colors bool) (simulation.Status, error) {
	c := view.NewConsoleOut(out, colors, 10)
	if err := s.RegisterViewer(c); err != nil {
		return simulation.Status{}, err
	}
	c.Start()
	if err := s.Run(); err != nil {
		return simulation.Status{}, err
	}

	var last simulation.Status
	g, ctx := errgroup.WithContext(ctx)
	finished := make(chan struct{})
	g.Go(func() error {
		for {
			select {
			case st := <-s.StateCh():
				last = st
				if st.RunningMode == simulation.RunningStateFinished {
					close(finished)
					return nil
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			//the caller closes the simulation, which releases a loop blocked on the status channel
			log.Printf("interrupted at generation %d", s.Status().Generation)
			return nil
		case <-finished:
			return nil
		}
	})
	err := g.Wait()
	return last, err
}
