package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"lifetorus/src/universe"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverlaysBase(t *testing.T) {
	base := Default()
	base.Seed = 99
	name := writeFile(t, `{"width": 64, "interval": "250ms", "pattern": "random"}`)

	c, err := Load(name, base)
	if err != nil {
		t.Fatal(err)
	}
	if c.Width != 64 || c.Height != base.Height {
		t.Fatalf("size %dx%d", c.Width, c.Height)
	}
	if time.Duration(c.Interval) != 250*time.Millisecond {
		t.Fatalf("interval %v", time.Duration(c.Interval))
	}
	if c.Pattern != RandomPattern || c.Seed != 99 {
		t.Fatalf("pattern %q seed %d", c.Pattern, c.Seed)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadNumericInterval(t *testing.T) {
	name := writeFile(t, `{"interval": 150000000}`)
	c, err := Load(name, Default())
	if err != nil {
		t.Fatal(err)
	}
	if time.Duration(c.Interval) != 150*time.Millisecond {
		t.Fatalf("interval %v", time.Duration(c.Interval))
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json"), Default()); !os.IsNotExist(errors.Cause(err)) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	for _, content := range []string{`{"width": `, `{"interval": "fast"}`, `{"interval": true}`} {
		base := Default()
		c, err := Load(writeFile(t, content), base)
		if err == nil {
			t.Fatalf("%s: expected an error", content)
		}
		if c != base {
			t.Fatalf("%s: failed load must return the base config", content)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	for name, mutate := range map[string]func(c *Config){
		"zero width":        func(c *Config) { c.Width = 0 },
		"zero height":       func(c *Config) { c.Height = 0 },
		"negative steps":    func(c *Config) { c.MaxSteps = -1 },
		"negative skipped":  func(c *Config) { c.MaxSkippedTicks = -1 },
		"negative interval": func(c *Config) { c.Interval = Duration(-time.Second) },
		"density":           func(c *Config) { c.Density = 1.5 },
		"unknown pattern":   func(c *Config) { c.Pattern = "spaceship-9000" },
	} {
		c := Default()
		mutate(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestValidateKeepsPatternError(t *testing.T) {
	c := Default()
	c.Pattern = "spaceship-9000"
	err := c.Validate()
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, universe.ErrUnknownPattern) {
		t.Fatalf("expected ErrInvalidConfig and ErrUnknownPattern, got %v", err)
	}
}
