package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"maze-ca/internal/automaton"
	"maze-ca/internal/logging"
	"maze-ca/internal/maze"
	"maze-ca/internal/solver"
	prng "maze-ca/pkg/core"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type scenario struct {
	strategy maze.Strategy
	w, h     int
	seed     int64
}

func (s scenario) String() string {
	return fmt.Sprintf("%s %dx%d seed=%d", s.strategy, s.w, s.h, s.seed)
}

type scenarioResult struct {
	scenario        scenario
	pathLen         int
	earlyGens       int
	exhaustiveGens  int
	parallelMatches bool
	elapsed         time.Duration
	err             error
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "sweep:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	seeds := fs.Int("seeds", 8, "seeds per strategy and size")
	sizes := fs.String("sizes", "21x21,41x31,81x81", "comma separated WxH grid sizes")
	workers := fs.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	top := fs.Int("top", 10, "rows to print")
	logLevel := fs.String("log-level", "info", "log level")
	logFormat := fs.String("log-format", logging.FormatText, "log format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *workers <= 0 {
		*workers = 1
	}

	logger, err := logging.New(*logLevel, *logFormat, stderr)
	if err != nil {
		return err
	}
	log := logger.WithField("run", uuid.NewString())

	dims, err := parseSizes(*sizes)
	if err != nil {
		return err
	}

	var sets []scenario
	for _, strategy := range maze.Strategies() {
		for _, d := range dims {
			for seed := 1; seed <= *seeds; seed++ {
				sets = append(sets, scenario{strategy: strategy, w: d[0], h: d[1], seed: int64(seed)})
			}
		}
	}

	log.WithFields(logrus.Fields{"scenarios": len(sets), "workers": *workers}).Info("sweep started")

	jobs := make(chan scenario)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(sc)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range sets {
			jobs <- sc
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	failures := 0
	for res := range results {
		if res.err != nil || !res.parallelMatches {
			failures++
			log.WithError(res.err).WithFields(logrus.Fields{
				"scenario":         res.scenario.String(),
				"parallel_matches": res.parallelMatches,
			}).Error("scenario failed")
			continue
		}
		all = append(all, res)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].exhaustiveGens != all[j].exhaustiveGens {
			return all[i].exhaustiveGens > all[j].exhaustiveGens
		}
		return all[i].scenario.String() < all[j].scenario.String()
	})

	fmt.Fprintf(stdout, "%-28s %8s %8s %8s %7s %10s\n", "scenario", "path", "early", "full", "saved", "elapsed")
	for i := 0; i < len(all) && i < *top; i++ {
		res := all[i]
		saved := 0.0
		if res.exhaustiveGens > 0 {
			saved = 100 * float64(res.exhaustiveGens-res.earlyGens) / float64(res.exhaustiveGens)
		}
		fmt.Fprintf(stdout, "%-28s %8d %8d %8d %6.1f%% %10s\n",
			res.scenario, res.pathLen, res.earlyGens, res.exhaustiveGens, saved, res.elapsed.Round(time.Microsecond))
	}

	log.WithFields(logrus.Fields{
		"passed":  len(all),
		"failed":  failures,
		"elapsed": time.Since(start).Round(time.Millisecond).String(),
	}).Info("sweep finished")
	if failures > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failures, len(sets))
	}
	return nil
}

// runScenario solves one maze under both policies on both backends and
// checks that every combination agrees on the path.
func runScenario(sc scenario) (res scenarioResult) {
	res.scenario = sc
	start := time.Now()
	defer func() { res.elapsed = time.Since(start) }()

	m, err := maze.Generate(sc.w, sc.h, sc.strategy, prng.NewRNG(sc.seed))
	if err != nil {
		res.err = err
		return res
	}

	solve := func(policy solver.Policy, backend automaton.Backend) (solver.Result, []automaton.State, error) {
		s, err := solver.New(sc.w, sc.h, solver.WithPolicy(policy), solver.WithBackend(backend))
		if err != nil {
			return solver.Result{}, nil, err
		}
		r, err := s.Solve(context.Background(), m.Cells)
		return r, s.Snapshot(), err
	}

	early, earlySnap, err := solve(solver.EarlyExit, automaton.Sequential{})
	if err != nil {
		res.err = fmt.Errorf("early exit: %w", err)
		return res
	}
	full, fullSnap, err := solve(solver.Exhaustive, automaton.Sequential{})
	if err != nil {
		res.err = fmt.Errorf("exhaustive: %w", err)
		return res
	}
	parEarly, parEarlySnap, err := solve(solver.EarlyExit, automaton.Parallel{Workers: 4})
	if err != nil {
		res.err = fmt.Errorf("parallel early exit: %w", err)
		return res
	}
	parFull, parFullSnap, err := solve(solver.Exhaustive, automaton.Parallel{Workers: 4})
	if err != nil {
		res.err = fmt.Errorf("parallel exhaustive: %w", err)
		return res
	}

	res.pathLen = early.Steps()
	res.earlyGens = early.Generations
	res.exhaustiveGens = full.Generations
	res.parallelMatches = slices.Equal(earlySnap, parEarlySnap) && slices.Equal(fullSnap, parFullSnap) &&
		parEarly.Generations == early.Generations && parFull.Generations == full.Generations
	if !slices.Equal(early.Path, full.Path) {
		res.err = fmt.Errorf("early exit and exhaustive paths differ (%d vs %d steps)", early.Steps(), full.Steps())
	}
	return res
}

func parseSizes(list string) ([][2]int, error) {
	var dims [][2]int
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ws, hs, ok := strings.Cut(strings.ToLower(part), "x")
		if !ok {
			return nil, fmt.Errorf("size %q: want WxH", part)
		}
		w, err := strconv.Atoi(ws)
		if err != nil {
			return nil, fmt.Errorf("size %q: %w", part, err)
		}
		h, err := strconv.Atoi(hs)
		if err != nil {
			return nil, fmt.Errorf("size %q: %w", part, err)
		}
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("size %q: %w", part, maze.ErrInvalidDimensions)
		}
		dims = append(dims, [2]int{w, h})
	}
	if len(dims) == 0 {
		return nil, errors.New("no sizes given")
	}
	return dims, nil
}
