package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/Garik-/humanize/pkg/velocity"
	"go.uber.org/zap"
)

var (
	databaseFlag = flag.String("d", "", "The path to the database json file")
	inFlag       = flag.String("i", "", "Input midi file")
	outFlag      = flag.String("o", "", "Output midi file")
	minFlag      = flag.Int("min", 0, "Min velocity")
	maxFlag      = flag.Int("max", 127, "Max velocity")
	seedFlag     = flag.Int64("seed", 0, "Random seed, 0 for time based")
	configFlag   = flag.String("c", "", "Optional TOML config file")
	verboseFlag  = flag.Bool("v", false, "Debug logging")
)

func run(cfg config, log *zap.Logger) error {
	db, err := velocity.Import(cfg.database)
	if err != nil {
		return fmt.Errorf("import database: %w", err)
	}

	in, err := os.Open(cfg.input)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(cfg.output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}

	changed, err := humanize(in, out, db, rand.New(rand.NewSource(seed)), cfg.min, cfg.max)
	if err != nil {
		out.Close()
		return err
	}

	log.Info("humanized",
		zap.String("input", cfg.input),
		zap.String("output", cfg.output),
		zap.Int("changed", changed),
		zap.Int64("seed", seed))

	return out.Close()
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s \n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := defaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = loadConfig(*configFlag, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	cfg = applyFlags(flag.CommandLine, cfg)

	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	log, err := newLogger(cfg.debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("humanize", zap.Error(err))
	}
}
