package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Garik-/humanize/pkg/velocity"
	"go.uber.org/zap"
)

const (
	maxGoroutines = 10
)

var (
	listFlag    = flag.String("l", "", "The path to the list of midi files,\nfind . -type f -name \"*.mid\" > midi_list.txt")
	maxFlag     = flag.Int("p", maxGoroutines, "Number of files processed in parallel, must be > 0")
	outFlag     = flag.String("o", "-", "Output velocity database json file, - for stdout")
	configFlag  = flag.String("c", "", "Optional TOML config file")
	verboseFlag = flag.Bool("v", false, "Debug logging")
)

func readList(r io.Reader) <-chan string {
	out := make(chan string)

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)

	go func() {
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				out <- line
			}
		}
		close(out)
	}()

	return out
}

func writeDatabase(cfg config, m velocity.Database) error {
	if cfg.output == "-" {
		return m.Encode(os.Stdout)
	}

	f, err := os.Create(cfg.output)
	if err != nil {
		return err
	}

	if err := m.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
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

	if cfg.list == "" || cfg.parallel <= 0 {
		flag.Usage()
		return
	}

	log, err := newLogger(cfg.debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	f, err := os.Open(cfg.list)
	if err != nil {
		log.Fatal("open list", zap.Error(err))
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := readList(f)
	m, err := newVelocityMap(ctx, paths, cfg.parallel)
	if err != nil {
		log.Fatal("scan", zap.Error(err))
	}

	log.Info("scan finished", zap.Int("notes", len(m)), zap.String("output", cfg.output))

	if err := writeDatabase(cfg, m); err != nil {
		log.Fatal("write database", zap.Error(err))
	}
}
