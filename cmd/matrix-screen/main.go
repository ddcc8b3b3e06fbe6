package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime/debug"

	"github.com/averykhoo/matrix-screen/config"
	"github.com/averykhoo/matrix-screen/content"
	"github.com/averykhoo/matrix-screen/engine"
	"github.com/averykhoo/matrix-screen/render"
	"github.com/averykhoo/matrix-screen/stream"
	"github.com/averykhoo/matrix-screen/terminal"
)

var (
	configFlag  = flag.String("config", "", "path to TOML config file")
	dirFlag     = flag.String("dir", "", "directory to source stream text from")
	fpsFlag     = flag.Int("fps", 0, "frame rate ceiling")
	streamsFlag = flag.Int("streams", 0, "number of concurrent streams")
	lengthFlag  = flag.Int("length", 0, "maximum visible stream length")
	seedFlag    = flag.Uint64("seed", 0, "random seed (0 draws from entropy)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "matrix-screen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *dirFlag != "" {
		cfg.AssetDir = *dirFlag
	}
	if *fpsFlag > 0 {
		cfg.FPSMax = *fpsFlag
	}
	if *streamsFlag > 0 {
		cfg.Streams = *streamsFlag
	}
	if *lengthFlag > 0 {
		cfg.MaxStreamLength = *lengthFlag
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Corpus loads before the terminal goes raw so log output stays
	// readable and an empty corpus fails fast.
	library, err := content.Load(cfg.AssetDir, cfg.Extensions)
	if err != nil {
		return err
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	screen, err := terminal.New()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	// Restore the terminal on every exit path. The recover branch resets
	// it before the stack trace prints, so the trace stays readable.
	defer screen.Fini()
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "matrix-screen crashed: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	grid := render.NewGrid(screen)
	dir := stream.Direction{DX: cfg.DirX, DY: cfg.DirY}
	actors := make([]*stream.Actor, cfg.Streams)
	for i := range actors {
		actors[i] = stream.New(i, dir, cfg.MaxStreamLength, library, rng)
	}

	sched, err := engine.New(engine.SystemClock{}, grid, actors, engine.Options{
		FPSMax:            cfg.FPSMax,
		MinCharsPerSecond: cfg.MinCharsPerSecond,
		MaxCharsPerSecond: cfg.MaxCharsPerSecond,
		WarmUp:            cfg.WarmUp.Duration,
		Rng:               rng,
	})
	if err != nil {
		return err
	}

	return sched.Run(screen)
}
