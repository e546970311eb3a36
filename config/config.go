// Package config loads the application configuration from a YAML or
// JSON file. Every field has a default so an empty file is valid.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Ledger   LedgerConfig   `json:"ledger" yaml:"ledger"`
	Feeds    FeedsConfig    `json:"feeds" yaml:"feeds"`
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
	AdminIDs []int64        `json:"admin_ids" yaml:"admin_ids"`
}

type LedgerConfig struct {
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
	FundCap         float64 `json:"fund_cap" yaml:"fund_cap"`
}

type FeedsConfig struct {
	CacheTTL       Duration `json:"cache_ttl" yaml:"cache_ttl"`
	PumpFunURL     string   `json:"pumpfun_url" yaml:"pumpfun_url"`
	DexScreenerURL string   `json:"dexscreener_url" yaml:"dexscreener_url"`
	JupiterURL     string   `json:"jupiter_url" yaml:"jupiter_url"`
	BirdeyeURL     string   `json:"birdeye_url" yaml:"birdeye_url"`
}

// Duration decodes from a Go duration string ("10s", "1m30s") or a
// bare number of seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		return d.parse(s)
	}
	var secs float64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parse duration: %w", err)
		}
		return d.parse(s)
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

func (d *Duration) parse(s string) error {
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

type SnapshotConfig struct {
	Path string `json:"path" yaml:"path"`
}

type JournalConfig struct {
	// Type is "sqlite" or "none".
	Type   string `json:"type" yaml:"type"`
	DBPath string `json:"db_path" yaml:"db_path"`
}

type LogConfig struct {
	Level      string `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"` // "json" or "console"
	OutputFile string `json:"output_file" yaml:"output_file"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Ledger: LedgerConfig{
			StartingBalance: 20.0,
			FundCap:         20.0,
		},
		Feeds: FeedsConfig{
			CacheTTL: Duration(10 * time.Second),
		},
		Snapshot: SnapshotConfig{
			Path: "paper_trading_data.json",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "paper_trading_journal.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile reads a config file, YAML by default, JSON for .json
// extensions. Missing fields keep their defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse json config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml config: %w", err)
		}
	}

	return cfg, nil
}
