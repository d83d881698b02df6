package config

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/vernier/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel     = "info"
	DefaultMin          = 0.0
	DefaultMax          = 100.0
	DefaultBarWidth     = 1000.0
	DefaultMajorTicks   = 10
	DefaultMinorTicks   = 100
	DefaultMajorHeight  = 0.6
	DefaultMinorHeight  = 0.3
	DefaultRenderHeight = 48
	DefaultOverscroll   = 24.0
	DefaultBatchSize    = 16
	DefaultBatchTimeout = 5

	envPrefix  = "VERNIER"
	configName = "vernier"
)

type Config struct {
	Min        float64 `mapstructure:"min"`
	Max        float64 `mapstructure:"max"`
	Initial    float64 `mapstructure:"initial"`
	HasInitial bool    `mapstructure:"-"`

	Layout LayoutConfig `mapstructure:"layout"`

	// Theme maps colour resource names (background, major_tick, ...) to hex
	// values. Missing names fall back to the built-in palette.
	Theme map[string]string `mapstructure:"theme"`

	Precision string `mapstructure:"precision"`
	Format    string `mapstructure:"format"`

	Overscroll float64 `mapstructure:"overscroll"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	Journal JournalConfig `mapstructure:"journal"`

	Render       string `mapstructure:"render"`
	RenderHeight int    `mapstructure:"height"`
	History      int    `mapstructure:"history"`
}

type LayoutConfig struct {
	BarWidth    float64 `mapstructure:"bar_width"`
	MajorTicks  int     `mapstructure:"major_ticks"`
	MinorTicks  int     `mapstructure:"minor_ticks"`
	MajorHeight float64 `mapstructure:"major_height"`
	MinorHeight float64 `mapstructure:"minor_height"`
}

type JournalConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Path         string `mapstructure:"path"`
	BatchSize    int    `mapstructure:"batch_size"`
	BatchTimeout int    `mapstructure:"batch_timeout"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"min":          "min",
	"max":          "max",
	"bar-width":    "layout.bar_width",
	"major-ticks":  "layout.major_ticks",
	"minor-ticks":  "layout.minor_ticks",
	"major-height": "layout.major_height",
	"minor-height": "layout.minor_height",
	"precision":    "precision",
	"format":       "format",
	"overscroll":   "overscroll",
	"log-level":    "log_level",
	"log-file":     "log_file",
	"journal":      "journal.enabled",
	"journal-db":   "journal.path",
	"render":       "render",
	"height":       "height",
	"history":      "history",
}

func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: envPrefix}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}
	if !o.argsSet {
		o.args = os.Args[1:]
	}

	v := viper.New()
	setDefaults(v)

	// Define flags
	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	configFlag := fs.String("config", "", "Path to configuration file")
	fs.Float64("min", DefaultMin, "Minimum value")
	fs.Float64("max", DefaultMax, "Maximum value")
	fs.Float64("initial", DefaultMin, "Initial value (defaults to the minimum)")
	fs.Float64("bar-width", DefaultBarWidth, "Tick bar width in units")
	fs.Int("major-ticks", DefaultMajorTicks, "Number of major divisions")
	fs.Int("minor-ticks", DefaultMinorTicks, "Number of minor divisions")
	fs.Float64("major-height", DefaultMajorHeight, "Major tick height as a fraction of the bar height")
	fs.Float64("minor-height", DefaultMinorHeight, "Minor tick height as a fraction of the bar height")
	fs.String("precision", "default", "Preview precision: default, disabled or custom")
	fs.String("format", "", "printf-style preview format for custom precision, e.g. \"%.2f dB\"")
	fs.Float64("overscroll", DefaultOverscroll, "Elastic overscroll margin in bar units")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warning or error")
	fs.String("log-file", "", "Write logs to this file instead of stderr")
	fs.Bool("journal", false, "Record accepted value changes to the journal database")
	fs.String("journal-db", defaultJournalPath(), "Journal database path")
	fs.String("render", "", "Render the tick bar to this PNG file and exit")
	fs.Int("height", DefaultRenderHeight, "Tick bar height for --render")
	fs.Int("history", 0, "Print the last N journal entries and exit")

	// Parse flags
	if err := fs.Parse(o.args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load configuration from file
	path := o.configPath
	if *configFlag != "" {
		path = *configFlag
	}
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}
	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	config := &Config{}

	// Unmarshal the configuration
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	// an unchanged --initial flag must not override "start at minimum"
	if f := fs.Lookup("initial"); f.Changed {
		config.Initial, _ = fs.GetFloat64("initial")
		config.HasInitial = true
	} else if v.InConfig("initial") || os.Getenv(o.envPrefix+"_INITIAL") != "" {
		config.Initial = v.GetFloat64("initial")
		config.HasInitial = true
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("min", DefaultMin)
	v.SetDefault("max", DefaultMax)
	v.SetDefault("layout.bar_width", DefaultBarWidth)
	v.SetDefault("layout.major_ticks", DefaultMajorTicks)
	v.SetDefault("layout.minor_ticks", DefaultMinorTicks)
	v.SetDefault("layout.major_height", DefaultMajorHeight)
	v.SetDefault("layout.minor_height", DefaultMinorHeight)
	v.SetDefault("precision", "default")
	v.SetDefault("overscroll", DefaultOverscroll)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", defaultJournalPath())
	v.SetDefault("journal.batch_size", DefaultBatchSize)
	v.SetDefault("journal.batch_timeout", DefaultBatchTimeout)
	v.SetDefault("height", DefaultRenderHeight)
}

func readConfigFile(v *viper.Viper, path string) error {
	errFactory := errors.New()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
		return nil
	}

	v.SetConfigName(configName)
	v.SetConfigType("toml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, configName))
	}
	v.AddConfigPath("/etc")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}

func defaultJournalPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, configName, "journal.db")
	}
	return filepath.Join(os.TempDir(), configName, "journal.db")
}

// Validate checks field ranges the rest of the program relies on.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	invalid := func(field string, value interface{}, reason string) error {
		return errFactory.WithData(errors.ErrInvalidConfig, ValidationError{
			Field:  field,
			Value:  value,
			Reason: reason,
		})
	}

	switch {
	case c.Min >= c.Max:
		return invalid("min", c.Min, "must be below max")
	case c.Layout.BarWidth <= 0:
		return invalid("layout.bar_width", c.Layout.BarWidth, "must be positive")
	case c.Layout.MajorTicks <= 0:
		return invalid("layout.major_ticks", c.Layout.MajorTicks, "must be positive")
	case c.Layout.MinorTicks <= 0:
		return invalid("layout.minor_ticks", c.Layout.MinorTicks, "must be positive")
	case c.Layout.MajorHeight <= 0 || c.Layout.MajorHeight > 1:
		return invalid("layout.major_height", c.Layout.MajorHeight, "must be in (0, 1]")
	case c.Layout.MinorHeight <= 0 || c.Layout.MinorHeight > 1:
		return invalid("layout.minor_height", c.Layout.MinorHeight, "must be in (0, 1]")
	case c.Overscroll < 0:
		return invalid("overscroll", c.Overscroll, "must not be negative")
	case c.RenderHeight <= 0:
		return invalid("height", c.RenderHeight, "must be positive")
	case c.History < 0:
		return invalid("history", c.History, "must not be negative")
	case c.Journal.Enabled && c.Journal.Path == "":
		return invalid("journal.path", c.Journal.Path, "required when the journal is enabled")
	}

	return nil
}
