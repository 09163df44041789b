package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(ctx, append([]string{"tsxreview"}, args...))
	return out.String(), err
}

func TestInterruptContextCancelsOnSignal(t *testing.T) {
	ctx, stop := interruptContext()
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}

func TestCheckFailOn(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "flags.ts"), []byte("const visible = true;\n"), 0644))

	out, err := runApp(t, context.Background(), "check", "--format", "text")
	require.NoError(t, err, "a warning is below the default error threshold")
	require.Contains(t, out, "flags.ts:1:7: warning [naming.boolean-prefix]")

	_, err = runApp(t, context.Background(), "check", "--fail-on", "warning")
	require.ErrorIs(t, err, errFindings)

	_, err = runApp(t, context.Background(), "check", "--fail-on", "loud")
	require.ErrorContains(t, err, "--fail-on")
}

func TestRulesJSON(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := runApp(t, context.Background(), "rules", "--format", "json", "--compact")
	require.NoError(t, err)

	var infos []struct {
		ID      string `json:"id"`
		Enabled bool   `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.NotEmpty(t, infos)
	require.Equal(t, "naming.boolean-prefix", infos[0].ID)
	require.True(t, infos[0].Enabled)
}
