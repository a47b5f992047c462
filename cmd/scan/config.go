package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// scan config.toml keys.
type fileConfig struct {
	List     string `toml:"list"`
	Parallel int    `toml:"parallel"`
	Output   string `toml:"output"`
	Debug    bool   `toml:"debug"`
}

type config struct {
	list     string
	parallel int
	output   string
	debug    bool
}

func defaultConfig() config {
	return config{parallel: maxGoroutines, output: "-"}
}

// loadConfig overlays the keys defined in the TOML file at path on cfg.
func loadConfig(path string, cfg config) (config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load scan config: %w", err)
	}

	if meta.IsDefined("list") {
		cfg.list = strings.TrimSpace(raw.List)
	}
	if meta.IsDefined("parallel") {
		cfg.parallel = raw.Parallel
	}
	if meta.IsDefined("output") {
		cfg.output = strings.TrimSpace(raw.Output)
	}
	if meta.IsDefined("debug") {
		cfg.debug = raw.Debug
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load scan config: unknown key %q", undecoded[0].String())
	}

	return cfg, nil
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(fs *flag.FlagSet, cfg config) config {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "l":
			cfg.list = *listFlag
		case "p":
			cfg.parallel = *maxFlag
		case "o":
			cfg.output = *outFlag
		case "v":
			cfg.debug = *verboseFlag
		}
	})
	return cfg
}
