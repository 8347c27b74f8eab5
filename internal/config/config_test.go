package config

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbowl/ma-legislature-stipends/internal/engine"
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

const sampleTOML = `
data_root = "/srv/legcomp/data"
log_level = "debug"
workers = 3

[base_salary]
amount = 66589

[travel]
adjustment_policy = "always"

[sessions."2025-2026"]
stipend_factor = 1.0646
base_factor = 1.0646
note = "BEA wage series, 2023-2024 biennium"

[sessions."2023-2024"]
travel_factor = 0.97
travel_source = "MGL_3_9C"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legcomp.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(62548), cfg.BaseSalary.Amount)
	assert.Equal(t, "MGL_ART_CXVIII", cfg.BaseSalary.SourceID)
	assert.Equal(t, 50.0, cfg.Travel.ThresholdMiles)
	assert.Equal(t, "upward_only", cfg.Travel.AdjustmentPolicy)
	assert.Empty(t, cfg.Sessions)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, "/srv/legcomp/data", cfg.DataRoot)
	assert.Equal(t, "legcomp.db", cfg.DB, "unset keys keep defaults")
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, int64(66589), cfg.BaseSalary.Amount)
	assert.Equal(t, "MGL_ART_CXVIII", cfg.BaseSalary.SourceID)
	assert.Equal(t, engine.PolicyAlways, cfg.TravelSchedule().Policy)
	assert.Equal(t, []string{"2023-2024", "2025-2026"}, cfg.SessionIDs())

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestAdjustment(t *testing.T) {
	cfg, err := Parse([]byte(sampleTOML))
	require.NoError(t, err)

	adj, ok := cfg.Adjustment("2025-2026", ir.AdjustStipend)
	require.True(t, ok)
	assert.Equal(t, "1.0646", adj.Factor.String())
	assert.Equal(t, "2025-2026", adj.SessionID)
	assert.Equal(t, "", adj.SourceID)
	assert.Equal(t, "BEA wage series, 2023-2024 biennium", adj.Note)

	_, ok = cfg.Adjustment("2025-2026", ir.AdjustTravel)
	assert.False(t, ok, "absent factor means one")

	adj, ok = cfg.Adjustment("2023-2024", ir.AdjustTravel)
	require.True(t, ok)
	assert.Equal(t, "0.97", adj.Factor.String())
	assert.Equal(t, "MGL_3_9C", adj.SourceID)

	_, ok = cfg.Adjustment("2019-2020", ir.AdjustStipend)
	assert.False(t, ok)
}

func TestAdjustmentNonFiniteFactor(t *testing.T) {
	cfg := Default()
	nan := math.NaN()
	cfg.Sessions["2025-2026"] = SessionAdjustments{BaseFactor: &nan}

	adj, ok := cfg.Adjustment("2025-2026", ir.AdjustBaseSalary)
	require.True(t, ok, "an unusable factor is reported, not read as one")
	assert.False(t, adj.Factor.IsSet())
	assert.Contains(t, adj.Note, "NaN")

	e := engine.New(sourcesOnly{}, engine.WithAdjustments(cfg))
	_, err := e.Aggregate(ir.Member{MemberID: "M1", Chamber: ir.ChamberHouse, DistanceMiles: new(float64)}, "2025-2026")
	require.Error(t, err)
	assert.True(t, engine.IsMalformedAdjustment(err))
}

func TestEngineOptionsValidates(t *testing.T) {
	cfg := Default()
	zero := 0.0
	cfg.Sessions["2025-2026"] = SessionAdjustments{TravelFactor: &zero}

	_, err := cfg.EngineOptions(sourcesOnly{})
	require.Error(t, err)
	assert.True(t, engine.IsMalformedAdjustment(err))
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name      string
		toml      string
		malformed bool
	}{
		{"zero factor", "[sessions.\"2025-2026\"]\nstipend_factor = 0.0\n", true},
		{"negative factor", "[sessions.\"2025-2026\"]\nbase_factor = -1.02\n", true},
		{"infinite factor", "[sessions.\"2025-2026\"]\ntravel_factor = inf\n", true},
		{"nan factor", "[sessions.\"2025-2026\"]\nstipend_factor = nan\n", true},
		{"unknown policy", "[travel]\nadjustment_policy = \"sometimes\"\n", true},
		{"bad session id", "[sessions.\"next\"]\nstipend_factor = 1.02\n", false},
		{"unknown key", "colour = \"blue\"\n", false},
		{"zero workers", "workers = 0\n", false},
		{"bad log level", "log_level = \"chatty\"\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			require.Error(t, err)
			assert.Equal(t, tt.malformed, engine.IsMalformedAdjustment(err), err.Error())
		})
	}
}

func TestLoadEnvOverlay(t *testing.T) {
	path := writeConfig(t, sampleTOML)
	t.Setenv("LEGCOMP_DATA_ROOT", "/tmp/other")
	t.Setenv("LEGCOMP_WORKERS", "8")
	t.Setenv("LEGCOMP_TRAVEL_POLICY", "upward_only")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other", cfg.DataRoot)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "upward_only", cfg.Travel.AdjustmentPolicy)
	assert.Equal(t, "debug", cfg.LogLevel, "file value survives when env is unset")
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("LEGCOMP_WORKERS", "many")

	_, err := Load(writeConfig(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadDefaultPathOptional(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().DB, cfg.DB)
}

type sourcesOnly map[string]ir.SourceRef

func (s sourcesOnly) Role(code string) (ir.RoleDefinition, error) { return ir.RoleDefinition{}, nil }
func (s sourcesOnly) Tier(id string) (ir.AmountWithProvenance, error) {
	return ir.AmountWithProvenance{}, nil
}
func (s sourcesOnly) Source(id string) (ir.SourceRef, error) { return s[id], nil }
func (s sourcesOnly) ChamberRules(ir.Chamber) ir.ChamberRules { return ir.ChamberRules{} }

func TestEngineOptions(t *testing.T) {
	cfg, err := Parse([]byte(sampleTOML))
	require.NoError(t, err)

	cat := sourcesOnly{
		"MGL_ART_CXVIII":         {ID: "MGL_ART_CXVIII", Kind: ir.SourceStatute},
		"BASE_SALARY_ADJUSTMENT": {ID: "BASE_SALARY_ADJUSTMENT", Kind: ir.SourceCalculation},
		"MGL_3_9C":               {ID: "MGL_3_9C", Kind: ir.SourceStatute},
	}
	opts, err := cfg.EngineOptions(cat)
	require.NoError(t, err)

	e := engine.New(cat, opts...)
	res, err := e.Aggregate(ir.Member{MemberID: "M1", Chamber: ir.ChamberHouse, DistanceMiles: new(float64)}, "2025-2026")
	require.NoError(t, err)

	base, ok := res.Component(ir.LabelBaseSalary)
	require.True(t, ok)
	// 66589 configured, then scaled by 1.0646
	assert.Equal(t, int64(70891), base.Amount.Value)
}
