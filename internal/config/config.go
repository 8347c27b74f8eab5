// Package config loads legcomp settings from a TOML file with an
// environment overlay.
//
// Precedence, lowest to highest: Default, the TOML file, LEGCOMP_*
// environment variables, then command-line flags (applied by the CLI).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/arbowl/ma-legislature-stipends/internal/engine"
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "legcomp.toml"

// EnvPrefix prefixes every environment variable the overlay reads.
const EnvPrefix = "LEGCOMP_"

// Ensure Config implements the interface.
var _ engine.AdjustmentSource = (*Config)(nil)

// Config is the full legcomp configuration.
type Config struct {
	// DataRoot holds one directory of JSON files per session.
	DataRoot string `toml:"data_root" env:"DATA_ROOT"`

	// DB is the SQLite session store path.
	DB string `toml:"db" env:"DB"`

	// CatalogDir is a directory of CUE catalog files. Empty selects the
	// built-in catalog.
	CatalogDir string `toml:"catalog_dir" env:"CATALOG_DIR"`

	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`
	Workers  int    `toml:"workers" env:"WORKERS"`

	BaseSalary BaseSalaryConfig `toml:"base_salary"`
	Travel     TravelConfig     `toml:"travel"`

	// Sessions maps a session id such as "2025-2026" to its adjustments.
	Sessions map[string]SessionAdjustments `toml:"sessions"`
}

// BaseSalaryConfig configures the Article CXVIII base salary.
type BaseSalaryConfig struct {
	Amount   int64  `toml:"amount"`
	SourceID string `toml:"source_id"`
}

// TravelConfig configures the §9C travel schedule.
type TravelConfig struct {
	ThresholdMiles   float64 `toml:"threshold_miles"`
	NearAmount       int64   `toml:"near_amount"`
	FarAmount        int64   `toml:"far_amount"`
	SourceID         string  `toml:"source_id"`
	AdjustmentPolicy string  `toml:"adjustment_policy" env:"TRAVEL_POLICY"`
}

// SessionAdjustments are one session's economic multipliers. A nil factor
// means exactly one.
type SessionAdjustments struct {
	StipendFactor *float64 `toml:"stipend_factor"`
	BaseFactor    *float64 `toml:"base_factor"`
	TravelFactor  *float64 `toml:"travel_factor"`

	// Source overrides the citation attached to adjusted amounts. Each must
	// name a source in the catalog.
	StipendSource string `toml:"stipend_source"`
	BaseSource    string `toml:"base_source"`
	TravelSource  string `toml:"travel_source"`

	Note string `toml:"note"`
}

// Default returns the statutory defaults with no adjustments.
func Default() *Config {
	schedule := engine.DefaultTravelSchedule()
	return &Config{
		DataRoot: "data",
		DB:       "legcomp.db",
		LogLevel: "info",
		Workers:  runtime.GOMAXPROCS(0),
		BaseSalary: BaseSalaryConfig{
			Amount:   engine.DefaultBaseSalary,
			SourceID: engine.DefaultBaseSalarySource,
		},
		Travel: TravelConfig{
			ThresholdMiles:   schedule.ThresholdMiles,
			NearAmount:       schedule.NearAmount,
			FarAmount:        schedule.FarAmount,
			SourceID:         schedule.SourceID,
			AdjustmentPolicy: string(schedule.Policy),
		},
		Sessions: map[string]SessionAdjustments{},
	}
}

// Load reads path over the defaults, applies the environment overlay and
// validates the result. An empty path reads DefaultPath if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		slog.Debug("config file loaded", "path", path, "sessions", len(cfg.Sessions))
	case optional && errors.Is(err, os.ErrNotExist):
		// No config file yet - defaults apply
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates, without reading the
// environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return err
	}
	if c.Sessions == nil {
		c.Sessions = map[string]SessionAdjustments{}
	}
	return nil
}

// ApplyEnv overlays LEGCOMP_* environment variables. Unset variables leave
// the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks every adjustment factor and the travel schedule. Factor
// and policy problems are MALFORMED_ADJUSTMENT_CONFIG errors.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.BaseSalary.Amount < 0 {
		return fmt.Errorf("base salary amount %d is negative", c.BaseSalary.Amount)
	}
	if _, err := engine.ParseAdjustmentPolicy(c.Travel.AdjustmentPolicy); err != nil {
		return err
	}
	if c.Travel.NearAmount < 0 || c.Travel.FarAmount < 0 {
		return fmt.Errorf("travel amounts must not be negative")
	}

	for _, id := range c.SessionIDs() {
		if _, err := ir.ParseSessionID(id); err != nil {
			return fmt.Errorf("sessions: %w", err)
		}
		s := c.Sessions[id]
		for _, f := range []struct {
			kind ir.AdjustmentKind
			v    *float64
		}{
			{ir.AdjustStipend, s.StipendFactor},
			{ir.AdjustBaseSalary, s.BaseFactor},
			{ir.AdjustTravel, s.TravelFactor},
		} {
			if f.v == nil {
				continue
			}
			if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) || *f.v <= 0 {
				return engine.NewMalformedAdjustmentError(id, string(f.kind),
					fmt.Sprintf("%s factor %v must be a positive finite number", f.kind, *f.v))
			}
		}
	}
	return nil
}

// SessionIDs returns the configured session ids in ascending order.
func (c *Config) SessionIDs() []string {
	ids := make([]string, 0, len(c.Sessions))
	for id := range c.Sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Adjustment implements engine.AdjustmentSource.
func (c *Config) Adjustment(sessionID string, kind ir.AdjustmentKind) (ir.Adjustment, bool) {
	s, ok := c.Sessions[sessionID]
	if !ok {
		return ir.Adjustment{}, false
	}

	var v *float64
	var source string
	switch kind {
	case ir.AdjustStipend:
		v, source = s.StipendFactor, s.StipendSource
	case ir.AdjustBaseSalary:
		v, source = s.BaseFactor, s.BaseSource
	case ir.AdjustTravel:
		v, source = s.TravelFactor, s.TravelSource
	}
	if v == nil {
		return ir.Adjustment{}, false
	}

	// An unusable value is still reported so the engine fails with
	// MALFORMED_ADJUSTMENT_CONFIG instead of pricing at one.
	f, err := ir.FactorFromFloat(*v)
	if err != nil {
		return ir.Adjustment{
			Kind:      kind,
			SessionID: sessionID,
			SourceID:  source,
			Note:      err.Error(),
		}, true
	}
	return ir.Adjustment{
		Kind:      kind,
		SessionID: sessionID,
		Factor:    f,
		SourceID:  source,
		Note:      s.Note,
	}, true
}

// TravelSchedule converts the travel settings for the engine.
func (c *Config) TravelSchedule() engine.TravelSchedule {
	return engine.TravelSchedule{
		ThresholdMiles: c.Travel.ThresholdMiles,
		NearAmount:     c.Travel.NearAmount,
		FarAmount:      c.Travel.FarAmount,
		SourceID:       c.Travel.SourceID,
		Policy:         engine.AdjustmentPolicy(c.Travel.AdjustmentPolicy),
	}
}

// EngineOptions wires the configured adjustments, base salary and travel
// schedule into engine options for catalog c.
func (c *Config) EngineOptions(cat engine.Catalog) ([]engine.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	travel, err := engine.NewTravelRule(cat, c, c.TravelSchedule())
	if err != nil {
		return nil, err
	}
	return []engine.Option{
		engine.WithAdjustments(c),
		engine.WithBaseSalary(engine.NewStatutoryBaseSalary(cat, c, c.BaseSalary.Amount, c.BaseSalary.SourceID)),
		engine.WithTravel(travel),
	}, nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
