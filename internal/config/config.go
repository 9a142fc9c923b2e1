package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pixil98/go-errors"
)

const (
	UIConsole = "console"
	UITUI     = "tui"
)

// Config holds the application configuration.
type Config struct {
	// WorldPath is a world description file, or builtin:<name> for one of
	// the embedded worlds.
	WorldPath string
	UI        string

	LogLevel string
	LogFile  string

	WrapWidth int
	WarpUnit  time.Duration
	FoldCase  bool
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		UI:        UIConsole,
		LogLevel:  "WARN",
		WrapWidth: 80,
		WarpUnit:  time.Second,
	}
}

// LoadConfig builds the configuration from a .env file, the environment and
// args, later sources winning.
func LoadConfig(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	fset := flag.NewFlagSet("adventure", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	fset.StringVar(&cfg.WorldPath, "world", cfg.WorldPath, "world description to play (file path or builtin:<name>)")
	fset.StringVar(&cfg.UI, "ui", cfg.UI, "presentation: console or tui")
	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	el := errors.NewErrorList()

	if v := getenv("ADVENTURE_WORLD"); v != "" {
		c.WorldPath = v
	}
	if v := getenv("ADVENTURE_UI"); v != "" {
		c.UI = v
	}
	if v := getenv("ADVENTURE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("ADVENTURE_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := getenv("ADVENTURE_WRAP_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			el.Add(fmt.Errorf("ADVENTURE_WRAP_WIDTH: %w", err))
		} else {
			c.WrapWidth = n
		}
	}
	if v := getenv("ADVENTURE_WARP_UNIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			el.Add(fmt.Errorf("ADVENTURE_WARP_UNIT: %w", err))
		} else {
			c.WarpUnit = d
		}
	}
	if v := getenv("ADVENTURE_FOLD_CASE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			el.Add(fmt.Errorf("ADVENTURE_FOLD_CASE: %w", err))
		} else {
			c.FoldCase = b
		}
	}

	return el.Err()
}

// Validate reports every problem with the configuration.
func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.WorldPath == "" {
		el.Add(fmt.Errorf("-world is required"))
	}
	if c.UI != UIConsole && c.UI != UITUI {
		el.Add(fmt.Errorf("ui must be %q or %q, got %q", UIConsole, UITUI, c.UI))
	}
	if c.WrapWidth < 20 {
		el.Add(fmt.Errorf("wrap width must be at least 20"))
	}
	if c.WarpUnit < 0 {
		el.Add(fmt.Errorf("warp unit must not be negative"))
	}

	return el.Err()
}
