package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDescription(t *testing.T) {
	got, err := resolveDescription("Build Go services.", "ignored.txt")
	require.NoError(t, err)
	assert.Equal(t, "Build Go services.", got)

	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("Own the payments backend."), 0o644))
	got, err = resolveDescription("  ", path)
	require.NoError(t, err)
	assert.Equal(t, "Own the payments backend.", got)

	_, err = resolveDescription("", "")
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o644))
	_, err = resolveDescription("", empty)
	assert.Error(t, err)
}

func TestPDFFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rubric.PDF"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))

	paths, err := pdfFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "rubric.PDF")}, paths)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute(context.Background()))
	assert.Equal(t, "screen version: unknown\n", out.String())
}

func TestExecutePassesContextToCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen context.Context
	ctxCmd := &cobra.Command{
		Use: "ctx-check",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seen = cmd.Context()
			return nil
		},
	}
	rootCmd.AddCommand(ctxCmd)
	rootCmd.SetArgs([]string{"ctx-check"})
	t.Cleanup(func() {
		rootCmd.RemoveCommand(ctxCmd)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute(ctx))
	require.NotNil(t, seen)
	assert.ErrorIs(t, seen.Err(), context.Canceled)
}
