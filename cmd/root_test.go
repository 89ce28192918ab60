package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/drengskapur/fbundle/pkg/logging"
	"github.com/drengskapur/fbundle/pkg/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		logging.Logger = zap.NewNop()
		zap.ReplaceGlobals(zap.NewNop())
	})

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandBundlesFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.log"), []byte("x"), 0o644))

	out, err := execute(t, "-s", src, "-o", dst, "-f", "---", "-g", "*.txt")
	require.NoError(t, err)

	bundlePath := filepath.Join(dst, "file_bundle.txt")
	assert.Contains(t, out, "Bundle created at: ")
	assert.Contains(t, out, bundlePath)

	data, err := os.ReadFile(bundlePath)
	require.NoError(t, err)
	assert.Equal(t, "--- a.txt\nhello\n", string(data))
}

func TestRootCommandBraceGlobIsNotSplit(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.js"), []byte("js"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.ts"), []byte("ts"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "c.go"), []byte("go"), 0o644))

	_, err := execute(t, "-s", src, "-o", dst, "-n", "web", "-e", ".bundle",
		"-f", "==", "-g", "*.{js,ts}", "--sequential")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dst, "web.bundle"))
	require.NoError(t, err)
	assert.Equal(t, "== a.js\njs\n== b.ts\nts\n", string(data))
}

func TestRootCommandRequiresSeparator(t *testing.T) {
	_, err := execute(t, "-s", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file-sep")
}

func TestRootCommandRejectsPositionalArgs(t *testing.T) {
	_, err := execute(t, "-f", "---", "extra")
	require.Error(t, err)
}

func TestRootCommandInvalidGlob(t *testing.T) {
	_, err := execute(t, "-s", t.TempDir(), "-o", t.TempDir(), "-f", "---", "-g", "[abc")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Get().String()+"\n", out)

	out, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Get().Version+"\n", out)
}
