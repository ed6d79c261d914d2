// Command swarm renders a swarm of noise-driven trail lines.
//
// Without -headless it opens an OpenGL window and simulates on the GPU.
// With -headless it runs the same controller on the software device and
// prints a summary.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"swarm/internal/logger"
	"swarm/internal/settings"
	"swarm/internal/swarm"
)

// SeedEnv overrides the configured random seed when set.
const SeedEnv = "SWARM_SEED"

type options struct {
	configPath string
	headless   bool
	frames     int
	preview    bool
}

func main() {
	var (
		opts     options
		logLevel string
		devLog   bool
	)
	flag.StringVar(&opts.configPath, "config", "", "settings file (TOML); watched for changes")
	flag.BoolVar(&opts.headless, "headless", false, "simulate on the CPU without a window")
	flag.IntVar(&opts.frames, "frames", 600, "frames to simulate with -headless")
	flag.BoolVar(&opts.preview, "preview", false, "re-run the warm-up every frame instead of playing")
	flag.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flag.BoolVar(&devLog, "dev", false, "human readable log output")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: logLevel, Development: devLog})
	if err != nil {
		fmt.Fprintf(os.Stderr, "swarm: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	s, err := loadSettings(opts.configPath, log)
	if err != nil {
		log.Fatal("load settings", zap.Error(err))
	}

	if opts.headless {
		err = runHeadless(s, opts, log, os.Stdout)
	} else {
		err = runDesktop(s, opts, log)
	}
	if err != nil {
		log.Fatal("swarm", zap.Error(err))
	}
}

func loadSettings(path string, log *zap.Logger) (settings.Settings, error) {
	if path == "" {
		return settings.Default(), nil
	}
	s, err := settings.Load(path)
	if err != nil {
		return s, err
	}
	log.Info("settings loaded", zap.String("path", path))
	return s, nil
}

// swarmConfig returns the simulation config of s with the seed override
// from the environment applied.
func swarmConfig(s settings.Settings, log *zap.Logger) swarm.Config {
	cfg := s.SwarmConfig()
	if v := os.Getenv(SeedEnv); v != "" {
		seed, err := strconv.Atoi(v)
		if err != nil {
			log.Warn("ignoring malformed seed", zap.String("env", SeedEnv), zap.String("value", v))
			return cfg
		}
		cfg.RandomSeed = seed
	}
	return cfg
}

func mode(preview bool) swarm.Mode {
	if preview {
		return swarm.ModePreview
	}
	return swarm.ModePlaying
}
