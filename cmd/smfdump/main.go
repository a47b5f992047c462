package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Garik-/humanize/pkg/midi"
	"go.uber.org/zap"
)

var (
	inFlag      = flag.String("i", "", "Input midi file")
	configFlag  = flag.String("c", "", "Optional TOML config file")
	verboseFlag = flag.Bool("v", false, "Debug logging")
)

// smfdump config.toml keys.
type fileConfig struct {
	Input string `toml:"input"`
	Debug bool   `toml:"debug"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("load smfdump config: %w", err)
	}
	cfg.Input = strings.TrimSpace(cfg.Input)
	return cfg, nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s \n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	var cfg fileConfig
	if *configFlag != "" {
		var err error
		if cfg, err = loadConfig(*configFlag); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *inFlag != "" {
		cfg.Input = *inFlag
	}
	if *verboseFlag {
		cfg.Debug = true
	}

	if cfg.Input == "" {
		flag.Usage()
		return
	}

	log := zap.NewNop()
	if cfg.Debug {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		midi.EnableDebugLogging(log)
	}
	defer log.Sync()

	f, err := os.Open(cfg.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	if err := midi.Read(f, &dumper{w: w}); err != nil {
		w.Flush()
		log.Error("decode", zap.String("input", cfg.Input), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
