package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/arbowl/ma-legislature-stipends/internal/config"
	"github.com/arbowl/ma-legislature-stipends/internal/engine"
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
	"github.com/arbowl/ma-legislature-stipends/internal/report"
	"github.com/arbowl/ma-legislature-stipends/internal/testutil"
)

const partialSessionMembers = `{
  "session_id": "2025-2026",
  "members": [
    {"member_id": "H010", "name": "Alex Quinn", "chamber": "house", "party": "D", "distance_miles_from_state_house": 10},
    {"member_id": "H011", "name": "Sam Lee", "chamber": "house", "party": "R"}
  ]
}`

const partialSessionRoles = `{"session_id": "2025-2026", "roles": []}`

func computeOpts(format string) *ComputeOptions {
	opts := &ComputeOptions{
		RootOptions: testRoot(format),
		RunIDs:      testutil.NewFixedRunIDGenerator("run-test"),
	}
	opts.DataRoot = testDataRoot
	return opts
}

func TestComputeJSON(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := computeOpts("json")
	opts.Workers = 2
	cmd, out := testCommand()
	require.NoError(t, runCompute(opts, testSession, cmd))

	var resp struct {
		Status string         `json:"status"`
		RunID  string         `json:"run_id"`
		Data   report.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-test", resp.RunID)
	assert.Equal(t, "run-test", resp.Data.RunID)

	s := resp.Data
	require.Len(t, s.Members, 3)
	got := map[string]report.MemberTotal{}
	for _, m := range s.Members {
		got[m.MemberID] = m
	}
	assert.Equal(t, report.MemberTotal{
		MemberID: "H001", Name: "Jordan Avery", Chamber: ir.ChamberHouse, Party: ir.PartyRepublican,
		BaseSalary: 62548, Stipends: 0, Travel: 20000, Total: 82548,
	}, got["H001"])
	assert.Equal(t, int64(35000), got["H002"].Stipends)
	assert.Equal(t, int64(15000), got["H002"].Travel)
	assert.Equal(t, int64(112548), got["H002"].Total)
	assert.Equal(t, int64(145000), got["S001"].Stipends)
	assert.Equal(t, int64(222548), got["S001"].Total)

	assert.Equal(t, int64(417644), s.Overall.Total)
	assert.Equal(t, 2, s.ByChamber[ir.ChamberHouse].Count)
	assert.Equal(t, 1, s.ByChamber[ir.ChamberSenate].Count)
	assert.Equal(t, 2, s.WithStipend)
	assert.Equal(t, 1, s.WithoutStipend)
	assert.InDelta(t, 0.5370, s.StipendGini, 0.0001)
	assert.Equal(t, "S001", s.TopEarners[0].MemberID)
}

func TestComputeText(t *testing.T) {
	defer goleak.VerifyNone(t)

	cmd, out := testCommand()
	require.NoError(t, runCompute(computeOpts("text"), testSession, cmd))

	text := out.String()
	assert.Contains(t, text, "Session 2025-2026 (run run-test)")
	assert.Contains(t, text, "Jordan Avery")
	assert.Contains(t, text, "$222,548")
	assert.Contains(t, text, "total=$417,644")
	assert.Contains(t, text, "Members with a stipend: 2, without: 1")
	assert.Contains(t, text, "Gini coefficient for stipends: 0.5370")
	assert.NotContains(t, text, "Skipped")
}

func TestComputeOrderIndependentOfWorkers(t *testing.T) {
	var outputs []string
	for _, workers := range []int{1, 3, 8} {
		opts := computeOpts("json")
		opts.Workers = workers
		cmd, out := testCommand()
		require.NoError(t, runCompute(opts, testSession, cmd))
		outputs = append(outputs, out.String())
	}
	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, outputs[0], outputs[2])
}

func TestComputeMissingDistanceFails(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := computeOpts("text")
	opts.DataRoot = writeSession(t, partialSessionMembers, partialSessionRoles)
	cmd, _ := testCommand()

	err := runCompute(opts, testSession, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "member H011")

	var engErr *engine.Error
	require.True(t, errors.As(err, &engErr))
	assert.Equal(t, engine.ErrCodeMissingDistance, engErr.Code)
}

func TestComputeKeepGoing(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := computeOpts("text")
	opts.DataRoot = writeSession(t, partialSessionMembers, partialSessionRoles)
	opts.KeepGoing = true
	cmd, out := testCommand()

	require.NoError(t, runCompute(opts, testSession, cmd))
	assert.Contains(t, out.String(), "H010")
	assert.NotContains(t, out.String(), "H011")
	assert.Contains(t, out.String(), "Skipped 1 member(s) that could not be priced")
}

func TestComputeSessionNotFound(t *testing.T) {
	opts := computeOpts("text")
	cmd, _ := testCommand()

	err := runCompute(opts, "2023-2024", cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeSession, loadErr.Code)
}

func TestComputeAdjustedSession(t *testing.T) {
	opts := computeOpts("json")
	factor := 1.1
	opts.Config.Sessions[testSession] = config.SessionAdjustments{
		StipendFactor: &factor,
		StipendSource: "STIPEND_AMOUNT_ADJUSTMENT",
	}
	cmd, out := testCommand()
	require.NoError(t, runCompute(opts, testSession, cmd))

	var resp struct {
		Data report.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Len(t, resp.Data.Members, 3)
	h002 := resp.Data.Members[1]
	require.Equal(t, "H002", h002.MemberID)
	assert.Equal(t, int64(38500), h002.Stipends)
	assert.Equal(t, int64(62548), h002.BaseSalary)
}

func TestComputeThroughRoot(t *testing.T) {
	out, err := execute(t, "compute", testSession, "--data-root", testDataRoot, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.RunID)
}

func TestGini(t *testing.T) {
	opts := computeOpts("text")
	cmd, out := testCommand()
	require.NoError(t, runGini(opts, testSession, cmd))

	assert.Contains(t, out.String(), "Session 2025-2026: 3 members, 2 with a stipend, 1 without")
	assert.Contains(t, out.String(), "Gini coefficient for stipends: 0.5370")
}

func TestGiniJSON(t *testing.T) {
	opts := computeOpts("json")
	cmd, out := testCommand()
	require.NoError(t, runGini(opts, testSession, cmd))

	var resp struct {
		RunID string     `json:"run_id"`
		Data  GiniResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "run-test", resp.RunID)
	assert.Equal(t, 3, resp.Data.Members)
	assert.Equal(t, 2, resp.Data.WithStipend)
	assert.InDelta(t, 0.5370, resp.Data.StipendGini, 0.0001)
}
