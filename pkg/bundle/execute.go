// File: pkg/bundle/execute.go
package bundle

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/drengskapur/fbundle/pkg/pattern"
	"github.com/drengskapur/fbundle/pkg/walker"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrInvalidSourceDir is returned when the source directory is missing or
// is not a directory.
var ErrInvalidSourceDir = errors.New("invalid source directory")

// Run bundles the files selected by args into a single output file. Setup
// failures (bad patterns, bad source directory, output that cannot be
// created or locked) are returned before any file is read.
func Run(args *Arguments, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()
	args.Normalize()

	srcDir, err := filepath.Abs(args.SrcDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", args.SrcDir, err)
	}
	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSourceDir, srcDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w %q: not a directory", ErrInvalidSourceDir, srcDir)
	}

	patterns, err := pattern.Compile(args.Globs,
		pattern.WithLogger(logger),
		pattern.WithSkipInvalid(args.SkipInvalidGlobs))
	if err != nil {
		return nil, fmt.Errorf("failed to compile glob patterns: %w", err)
	}
	logger.Debug("Glob patterns", zap.Strings("globs", args.Globs))

	separator := UnescapeSeparator(args.Separator)
	outputPath, err := filepath.Abs(args.OutputPath())
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for output: %w", err)
	}

	if err := ensureDirectory(filepath.Dir(outputPath), logger); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	lock, err := acquireOutputLock(outputPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.release(); err != nil {
			logger.Warn("Failed to release output lock", zap.Error(err))
		}
	}()

	outFile, err := os.Create(outputPath)
	if err != nil {
		logger.Error("Failed to create output file", zap.String("file", outputPath), zap.Error(err))
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	logger.Info("Starting bundle",
		zap.String("srcDir", srcDir),
		zap.String("output", outputPath),
		zap.Int("patterns", patterns.Len()))

	var writerOpts []WriterOption
	if args.MaxFileSizeKB > 0 {
		writerOpts = append(writerOpts, WithMaxFileSize(int64(args.MaxFileSizeKB)*1024))
	}
	writer := NewWriter(outFile, separator, logger, writerOpts...)

	entries := walker.Walk(srcDir,
		walker.WithLogger(logger),
		walker.WithRespectIgnoreFiles(args.RespectIgnoreFiles),
		walker.WithSkipHidden(args.SkipHidden))
	selected := Select(entries, patterns, srcDir,
		WithSelectLogger(logger),
		WithSkipPath(outputPath),
		WithSkipPath(lock.path))

	if args.Verbose {
		selected = logSelected(selected, logger)
	}

	files, runErr := ProcessFiles(selected, writer, args.Jobs, logger)
	// Flush reports the same sticky error ProcessFiles returned, if any.
	flushErr := writer.Flush()
	if runErr == nil {
		runErr = flushErr
	}
	if err := outFile.Close(); err != nil {
		runErr = multierr.Append(runErr, fmt.Errorf("failed to close output file: %w", err))
	}
	if runErr != nil {
		logger.Error("Failed to write bundle", zap.String("file", outputPath), zap.Error(runErr))
		return nil, fmt.Errorf("failed to write bundle %s: %w", outputPath, runErr)
	}

	result := &Result{
		OutputPath: outputPath,
		Files:      files,
		Elapsed:    time.Since(startTime),
	}
	logger.Info("Bundle completed",
		zap.String("outputFile", outputPath),
		zap.Int("totalFiles", files),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// logSelected logs each selected file at info level as it passes through.
func logSelected(files iter.Seq[SelectedFile], logger *zap.Logger) iter.Seq[SelectedFile] {
	return func(yield func(SelectedFile) bool) {
		for f := range files {
			logger.Info("Processing file", zap.String("file", f.RelativePath))
			if !yield(f) {
				return
			}
		}
	}
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}
