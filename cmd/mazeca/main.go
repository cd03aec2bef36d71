package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"maze-ca/internal/automaton"
	"maze-ca/internal/config"
	"maze-ca/internal/core"
	"maze-ca/internal/logging"
	"maze-ca/internal/maze"
	"maze-ca/internal/render"
	"maze-ca/internal/sims/mazesolve"
	"maze-ca/internal/solver"
	prng "maze-ca/pkg/core"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/bmp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "mazeca:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	envFile    string
	watch      bool
	quiet      bool
	imagePath  string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("mazeca", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.envFile, "env-file", ".env", "dotenv file consulted after the process environment")
	fs.BoolVar(&opts.watch, "watch", false, "print every tick at -tps until the solve finishes")
	fs.BoolVar(&opts.quiet, "quiet", false, "do not print the final grid")
	fs.StringVar(&opts.imagePath, "image", "", "write the final grid to a .png or .bmp file")
	config.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	dotenv, err := config.DotEnv(opts.envFile)
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(opts.configPath, config.Chain(os.LookupEnv, dotenv), fs)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return err
	}
	log := logger.WithField("run", uuid.NewString())

	// Validate has already accepted these names.
	strategy, _ := maze.ParseStrategy(cfg.Strategy)
	policy, _ := solver.ParsePolicy(cfg.Policy)
	backend, _ := automaton.NewBackend(cfg.Backend, cfg.Workers)

	start := time.Now()
	m, err := maze.Generate(cfg.Width, cfg.Height, strategy, prng.NewRNG(cfg.Seed))
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"width":    cfg.Width,
		"height":   cfg.Height,
		"seed":     cfg.Seed,
		"strategy": strategy,
		"cells":    m.CellCount(),
	}).Debug("maze generated")

	s, err := solver.New(cfg.Width, cfg.Height,
		solver.WithPolicy(policy),
		solver.WithBackend(backend),
		solver.WithLogger(log),
		solver.WithMaxGenerations(cfg.MaxGenerations),
	)
	if err != nil {
		return err
	}

	var res solver.Result
	if opts.watch {
		res, err = watch(ctx, s, m, cfg.Render, stdout)
	} else {
		res, err = s.Solve(ctx, m.Cells)
	}
	if err != nil {
		log.WithError(err).WithField("generations", s.Generation()).Error("solve failed")
		return err
	}

	if !opts.quiet && !opts.watch {
		fmt.Fprint(stdout, s.String())
	}
	if opts.imagePath != "" {
		if err := writeImage(opts.imagePath, s, cfg.Render.Scale); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{
		"policy":      res.Policy.String(),
		"backend":     backend.Name(),
		"generations": res.Generations,
		"path_len":    res.Steps(),
		"elapsed":     time.Since(start).Round(time.Microsecond).String(),
	}).Info("solved")
	return nil
}

// watch steps the solver at a fixed tick rate, redrawing the grid each tick.
func watch(ctx context.Context, s *solver.Solver, m *maze.Maze, rc config.RenderConfig, out io.Writer) (solver.Result, error) {
	if err := s.Reset(m.Cells); err != nil {
		return solver.Result{}, err
	}
	pace := core.NewFixedStep(rc.TPS)
	for !s.Done() {
		if pace.ShouldStep() {
			s.Step(rc.StepsPerTick)
			fmt.Fprintf(out, "\x1b[H\x1b[2J%sgeneration %d\n", s.String(), s.Generation())
			continue
		}
		select {
		case <-ctx.Done():
			s.Cancel()
			return solver.Result{Generations: s.Generation(), Policy: s.Policy()}, fmt.Errorf("%w: %w", solver.ErrCancelled, ctx.Err())
		case <-time.After(pace.Interval() / 4):
		}
	}

	res := solver.Result{Generations: s.Generation(), Policy: s.Policy()}
	path, err := s.Path()
	if err != nil {
		return res, err
	}
	res.Path = path
	return res, nil
}

func writeImage(path string, s *solver.Solver, scale int) error {
	size := s.Size()
	img := render.Image(size.W, size.H, mazesolve.Frame(s.Snapshot()), mazesolve.StatePalette(), scale)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeImage(f, filepath.Ext(path), img); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func encodeImage(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".bmp":
		return bmp.Encode(w, img)
	case ".png", "":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}
