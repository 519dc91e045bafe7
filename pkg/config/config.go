// Package config loads resampling engine settings from an optional .env
// file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var ErrInvalidValue = errors.New("invalid configuration value")

// Environment variables read by Load.
const (
	EnvWorkers      = "RESAMPLE_WORKERS"
	EnvParallelMin  = "RESAMPLE_PARALLEL_MIN"
	EnvDebug        = "RESAMPLE_DEBUG"
	EnvInterpolator = "RESAMPLE_INTERPOLATOR"
)

// DefaultParallelMin is the destination pixel count below which transforms
// run on the calling goroutine.
const DefaultParallelMin = 16384

type Config struct {
	// Workers caps concurrent row bands. 0 means GOMAXPROCS, 1 disables
	// parallelism.
	Workers int
	// ParallelMinPixels is the smallest destination (height*width) that
	// is split across workers.
	ParallelMinPixels int
	Debug             bool
	// Interpolator is the default interpolator name for callers that do
	// not pick one ("bilinear" or "triangular").
	Interpolator string
}

func Default() Config {
	return Config{
		ParallelMinPixels: DefaultParallelMin,
		Interpolator:      "bilinear",
	}
}

// Load reads the given .env files (".env" when none are given), ignoring
// missing files, then applies the environment on top of Default. Values
// already set in the environment take precedence over .env entries.
func Load(paths ...string) (Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read %s: %w", p, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Default()
	if v, ok := lookup(EnvWorkers); ok {
		n, err := parseNonNegative(EnvWorkers, v)
		if err != nil {
			return Config{}, err
		}
		cfg.Workers = n
	}
	if v, ok := lookup(EnvParallelMin); ok {
		n, err := parseNonNegative(EnvParallelMin, v)
		if err != nil {
			return Config{}, err
		}
		cfg.ParallelMinPixels = n
	}
	if v, ok := lookup(EnvDebug); ok {
		b, err := parseBoolLike(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidValue, EnvDebug, err)
		}
		cfg.Debug = b
	}
	if v, ok := lookup(EnvInterpolator); ok {
		switch name := strings.ToLower(v); name {
		case "bilinear", "triangular":
			cfg.Interpolator = name
		default:
			return Config{}, fmt.Errorf("%w: %s=%q (want bilinear or triangular)", ErrInvalidValue, EnvInterpolator, v)
		}
	}
	return cfg, nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func parseNonNegative(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q (want a non-negative integer)", ErrInvalidValue, key, v)
	}
	return n, nil
}

// parseBoolLike accepts common truthy/falsy forms.
func parseBoolLike(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean: %q", s)
}
