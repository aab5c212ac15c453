package depot

import (
	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config holds the tunables of a World.
type Config struct {
	// MaxArchetypes caps the number of archetypes; never above 65535.
	MaxArchetypes int `config:"DEPOT_MAX_ARCHETYPES"`
	// ColumnCapacity is the initial capacity of every new column.
	ColumnCapacity int    `config:"DEPOT_COLUMN_CAPACITY"`
	LogLevel       string `config:"DEPOT_LOG_LEVEL"`
}

func DefaultConfig() Config {
	return Config{
		MaxArchetypes:  MaxArchetypes,
		ColumnCapacity: 0,
		LogLevel:       zerolog.InfoLevel.String(),
	}
}

// LoadConfig reads the DEPOT_* environment variables over the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "failed to read depot config from environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxArchetypes < 1 || c.MaxArchetypes > MaxArchetypes {
		return eris.Errorf("max archetypes must be within 1..%d, got %d", MaxArchetypes, c.MaxArchetypes)
	}
	if c.ColumnCapacity < 0 {
		return eris.Errorf("column capacity must not be negative, got %d", c.ColumnCapacity)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return eris.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	return nil
}
