package lang

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// configFile mirrors the shape of a grammar's TOML configuration file, such
// as the one accepted by `oak parse --lang-config FILE`. The indirection
// between this and Config keeps the TOML field names stable as Config's own
// field names evolve with the core.
type configFile struct {
	MaxDeadlockRetries      int `toml:"max_deadlock_retries"`
	IncrementalCursorBudget int `toml:"incremental_cursor_budget"`
}

// LoadConfig reads a language Config from a TOML file, grounded on
// internal/tqw's pattern of unmarshaling a whole-file configuration blob
// with BurntSushi/toml. Fields left unset in the file fall back to
// Config.WithDefaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("lang: reading config %q: %w", path, err)
	}

	var cf configFile
	if err := toml.Unmarshal(data, &cf); err != nil {
		return Config{}, fmt.Errorf("lang: parsing config %q: %w", path, err)
	}

	cfg := Config{
		MaxDeadlockRetries:      cf.MaxDeadlockRetries,
		IncrementalCursorBudget: cf.IncrementalCursorBudget,
	}
	return cfg.WithDefaults(), nil
}
