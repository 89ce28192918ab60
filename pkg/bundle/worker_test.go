package bundle

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestProcessFilesSingleWorkerPreservesOrder(t *testing.T) {
	root := t.TempDir()
	var files []SelectedFile
	var want strings.Builder
	for i := 9; i >= 0; i-- {
		rel := fmt.Sprintf("f%d.txt", i)
		files = append(files, selectedFile(t, root, rel, []byte(rel)))
		fmt.Fprintf(&want, "-- %s\n%s\n", rel, rel)
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, "--", nil)
	n, err := ProcessFiles(slices.Values(files), w, 1, nil)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, 10, n)
	assert.Equal(t, want.String(), buf.String())
}

func TestProcessFilesParallelWritesEveryRecord(t *testing.T) {
	root := t.TempDir()
	var files []SelectedFile
	for i := 0; i < 100; i++ {
		rel := fmt.Sprintf("dir%d/f%d.txt", i%7, i)
		files = append(files, selectedFile(t, root, rel, []byte(rel)))
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, "--", nil)
	n, err := ProcessFiles(slices.Values(files), w, 0, nil)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, 100, n)
	for _, f := range files {
		assert.Contains(t, buf.String(), fmt.Sprintf("-- %s\n%s\n", f.RelativePath, f.RelativePath))
	}
}

func TestProcessFilesSkipsUnreadableFiles(t *testing.T) {
	root := t.TempDir()
	good := selectedFile(t, root, "good.txt", []byte("good"))
	missing := SelectedFile{AbsolutePath: filepath.Join(root, "missing.txt"), RelativePath: "missing.txt"}

	core, logs := observer.New(zapcore.WarnLevel)
	var buf bytes.Buffer
	w := NewWriter(&buf, "--", nil)
	n, err := ProcessFiles(slices.Values([]SelectedFile{missing, good}), w, 2, zap.New(core))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, 1, n)
	assert.Equal(t, "-- good.txt\ngood\n", buf.String())
	assert.Equal(t, 1, logs.FilterMessage("Skipping file").Len())
}

func TestProcessFilesReturnsOutputError(t *testing.T) {
	root := t.TempDir()
	var files []SelectedFile
	for i := 0; i < 5; i++ {
		// Each record is larger than the bufio buffer, so writes hit the stream.
		files = append(files, selectedFile(t, root, fmt.Sprintf("f%d.txt", i), bytes.Repeat([]byte("x"), 8192)))
	}

	w := NewWriter(&failingWriter{}, "--", nil)
	_, err := ProcessFiles(slices.Values(files), w, 2, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
