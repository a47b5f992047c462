package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// humanize config.toml keys.
type fileConfig struct {
	Database string `toml:"database"`
	Input    string `toml:"input"`
	Output   string `toml:"output"`
	Min      int    `toml:"min"`
	Max      int    `toml:"max"`
	Seed     int64  `toml:"seed"`
	Debug    bool   `toml:"debug"`
}

type config struct {
	database string
	input    string
	output   string
	min      int
	max      int
	seed     int64
	debug    bool
}

func defaultConfig() config {
	return config{min: 0, max: 127}
}

// loadConfig overlays the keys defined in the TOML file at path on cfg.
func loadConfig(path string, cfg config) (config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load humanize config: %w", err)
	}

	if meta.IsDefined("database") {
		cfg.database = strings.TrimSpace(raw.Database)
	}
	if meta.IsDefined("input") {
		cfg.input = strings.TrimSpace(raw.Input)
	}
	if meta.IsDefined("output") {
		cfg.output = strings.TrimSpace(raw.Output)
	}
	if meta.IsDefined("min") {
		cfg.min = raw.Min
	}
	if meta.IsDefined("max") {
		cfg.max = raw.Max
	}
	if meta.IsDefined("seed") {
		cfg.seed = raw.Seed
	}
	if meta.IsDefined("debug") {
		cfg.debug = raw.Debug
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load humanize config: unknown key %q", undecoded[0].String())
	}

	return cfg, nil
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(fs *flag.FlagSet, cfg config) config {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "d":
			cfg.database = *databaseFlag
		case "i":
			cfg.input = *inFlag
		case "o":
			cfg.output = *outFlag
		case "min":
			cfg.min = *minFlag
		case "max":
			cfg.max = *maxFlag
		case "seed":
			cfg.seed = *seedFlag
		case "v":
			cfg.debug = *verboseFlag
		}
	})
	return cfg
}

func (c config) validate() error {
	switch {
	case c.database == "":
		return fmt.Errorf("database is required")
	case c.input == "" || c.output == "":
		return fmt.Errorf("input and output files are required")
	case c.input == c.output:
		return fmt.Errorf("input and output must differ")
	case c.min >= c.max:
		return fmt.Errorf("min velocity %d must be below max %d", c.min, c.max)
	}
	return nil
}
