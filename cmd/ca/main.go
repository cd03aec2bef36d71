//go:build ebiten

package main

import (
	"errors"
	"flag"
	"os"

	"maze-ca/internal/app"
	"maze-ca/internal/config"
	"maze-ca/internal/core"
	"maze-ca/internal/logging"
	_ "maze-ca/internal/sims/mazesolve"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	fs := flag.NewFlagSet("ca", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	envFile := fs.String("env-file", ".env", "dotenv file consulted after the process environment")
	config.Bind(fs)
	_ = fs.Parse(os.Args[1:])

	dotenv, err := config.DotEnv(*envFile)
	if err != nil {
		logrus.Fatal(err)
	}
	cfg, err := config.Resolve(*configPath, config.Chain(os.LookupEnv, dotenv), fs)
	if err != nil {
		logrus.Fatal(err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		logrus.Fatal(err)
	}
	log := logger.WithField("run", uuid.NewString())

	factory, err := core.Lookup(cfg.Sim)
	if err != nil {
		log.Fatal(err)
	}
	sim := factory(cfg.SimParams())
	size := sim.Size()
	log.WithFields(logrus.Fields{"sim": sim.Name(), "width": size.W, "height": size.H}).Info("viewer started")

	game := app.New(sim, cfg.Render.Scale, cfg.Render.HUDWidth, cfg.Seed, log)

	ebiten.SetWindowTitle("maze-ca: " + sim.Name())
	ebiten.SetTPS(cfg.Render.TPS)
	ebiten.SetWindowSize(size.W*cfg.Render.Scale+cfg.Render.HUDWidth, size.H*cfg.Render.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
