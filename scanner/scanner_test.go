package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/Components/Button/Button.tsx":        "export const Button = () => <button />;",
		"src/Components/Button/Button.module.css": ".root {}",
		"src/Components/Button/types.ts":          "export interface ButtonProps {}",
		"src/env.d.ts":                            "declare const x: string;",
		"node_modules/lib/index.ts":               "export {}",
		"README.md":                               "# app",
	})

	res, err := New(Config{Root: root}).Collect(context.Background())
	require.NoError(t, err)

	var inputs []string
	for _, in := range res.Inputs {
		inputs = append(inputs, in.Path)
	}
	require.Equal(t, []string{
		"src/Components/Button/Button.tsx",
		"src/Components/Button/types.ts",
	}, inputs)
	require.Equal(t, "export const Button = () => <button />;", string(res.Inputs[0].Text))

	require.Contains(t, res.Files, "src/Components/Button/Button.module.css")
	require.Contains(t, res.Files, "README.md")
	require.NotContains(t, res.Files, "node_modules/lib/index.ts")
}

func TestCollectMaxBytes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"small.ts": "let a = 1;",
		"large.ts": "let b = 1; // padding padding padding",
	})

	res, err := New(Config{Root: root, MaxBytes: 16}).Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Inputs, 1)
	require.Equal(t, "small.ts", res.Inputs[0].Path)
	require.Len(t, res.Files, 2, "oversized files still belong to the project")
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Card/Card.tsx":        "export const Card = () => <div />;",
		"Card/Card.module.css": ".card {}",
	})
	t.Chdir(root)

	res, err := New(Config{}).CollectFiles(context.Background(), "Card/Card.tsx")
	require.NoError(t, err)
	require.Len(t, res.Inputs, 1)
	require.Equal(t, "Card/Card.tsx", res.Inputs[0].Path)
	require.ElementsMatch(t, []string{"Card/Card.tsx", "Card/Card.module.css"}, res.Files)

	_, err = New(Config{}).CollectFiles(context.Background(), "Card/Card.module.css")
	require.Error(t, err)
}

func TestCollectCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.ts": "let a = 1;"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{Root: root}).Collect(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
