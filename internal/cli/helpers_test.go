package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/arbowl/ma-legislature-stipends/internal/config"
)

const (
	testSession  = "2025-2026"
	testDataRoot = "testdata/data"
)

// execute runs the full root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// testRoot returns root options with default config, bypassing config
// file and environment loading.
func testRoot(format string) *RootOptions {
	return &RootOptions{Format: format, Config: config.Default()}
}

// testCommand returns a bare command whose output goes to the returned
// buffer.
func testCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())
	return cmd, out
}

// writeSession writes members.json and roles.json for testSession under a
// fresh data root and returns the root.
func writeSession(t *testing.T, members, roles string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, testSession)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "members.json"), []byte(members), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roles.json"), []byte(roles), 0644))
	return root
}
