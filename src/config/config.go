package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"lifetorus/src/universe"
)

// RandomPattern seeds the universe with random data instead of a named pattern
const RandomPattern = "random"

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration for the game
type Config struct {
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Interval        Duration `json:"interval"`
	MaxSteps        int      `json:"max_steps"`
	MaxSkippedTicks int      `json:"max_skipped_ticks"`
	Pattern         string   `json:"pattern"`
	Density         float64  `json:"density"`
	Seed            int64    `json:"seed"`
	Interactive     bool     `json:"interactive"`
}

// Default returns the defaults: a 32x32 field refreshed every 100ms
func Default() Config {
	return Config{
		Width:           32,
		Height:          32,
		Interval:        Duration(100 * time.Millisecond),
		MaxSteps:        1000,
		MaxSkippedTicks: 5,
		Pattern:         "glider",
		Density:         0.25,
		Seed:            1,
		Interactive:     false,
	}
}

// Load reads the JSON file at filename on top of base, keys missing from the file keep their base value
func Load(filename string, base Config) (Config, error) {
	config := base

	data, err := os.ReadFile(filename)
	if err != nil {
		return base, errors.Wrapf(err, "[Load] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return base, errors.Wrapf(err, "[Load] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Validate checks the values the simulation depends on
func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return errors.Wrapf(ErrInvalidConfig, "field size %dx%d", c.Width, c.Height)
	case c.Interval < 0:
		return errors.Wrapf(ErrInvalidConfig, "negative interval %v", c.Interval)
	case c.MaxSteps < 0:
		return errors.Wrapf(ErrInvalidConfig, "negative max steps %d", c.MaxSteps)
	case c.MaxSkippedTicks < 0:
		return errors.Wrapf(ErrInvalidConfig, "negative max skipped ticks %d", c.MaxSkippedTicks)
	case c.Density < 0 || c.Density > 1:
		return errors.Wrapf(ErrInvalidConfig, "density %v outside [0,1]", c.Density)
	}
	if c.Pattern != RandomPattern {
		if _, err := universe.LookupPattern(c.Pattern); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Duration is a time.Duration written in JSON as a string like "150ms"
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		// plain numbers are nanoseconds, as encoding/json writes time.Duration
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrapf(err, "interval %q", value)
		}
		*d = Duration(parsed)
	default:
		return errors.Errorf("invalid duration %s", string(b))
	}
	return nil
}
