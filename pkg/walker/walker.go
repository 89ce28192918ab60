// Package walker enumerates the regular files under a directory tree.
package walker

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"github.com/drengskapur/fbundle/pkg/ignore"

	"go.uber.org/zap"
)

// Entry is a filesystem entry produced by Walk.
type Entry struct {
	Path string      // Absolute path.
	Type fs.FileMode // Type bits of the entry; always regular for yielded entries.
}

// Options configures Walk.
type Options struct {
	Logger             *zap.Logger
	RespectIgnoreFiles bool
	SkipHidden         bool
}

// Option is a functional option for configuring Walk.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Logger: zap.NewNop(),
	}
}

// WithLogger sets the logger traversal errors are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithRespectIgnoreFiles enables .gitignore honoring and skips .git directories.
func WithRespectIgnoreFiles(enabled bool) Option {
	return func(o *Options) {
		o.RespectIgnoreFiles = enabled
	}
}

// WithSkipHidden drops entries whose name starts with a dot.
func WithSkipHidden(enabled bool) Option {
	return func(o *Options) {
		o.SkipHidden = enabled
	}
}

// Walk returns a lazy sequence of the regular files under root. Symlinks are
// not followed and, like directories and special files, are never yielded.
// Errors on individual entries are logged and the entry is skipped. Every
// range over the sequence performs a fresh traversal.
func Walk(root string, opts ...Option) iter.Seq[Entry] {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	logger := options.Logger

	return func(yield func(Entry) bool) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			logger.Warn("Failed to resolve root directory", zap.String("root", root), zap.Error(err))
			return
		}

		var gi *ignore.Matcher
		if options.RespectIgnoreFiles {
			gi, err = ignore.New(absRoot, logger)
			if err != nil {
				logger.Warn("Failed to load ignore files, continuing without them", zap.String("root", absRoot), zap.Error(err))
				gi = nil
			}
		}

		logger.Debug("Starting directory traversal",
			zap.String("root", absRoot),
			zap.Bool("respectIgnoreFiles", options.RespectIgnoreFiles),
			zap.Bool("skipHidden", options.SkipHidden))

		_ = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
				return nil
			}
			if path == absRoot {
				return nil
			}

			relPath, relErr := filepath.Rel(absRoot, path)
			if relErr != nil {
				relPath = path
			}

			if options.SkipHidden && strings.HasPrefix(d.Name(), ".") {
				logger.Debug("Skipping hidden entry", zap.String("path", relPath))
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if gi.MatchesPath(relPath, d.IsDir()) {
				logger.Debug("Skipping ignored entry", zap.String("path", relPath))
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(Entry{Path: path, Type: d.Type()}) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
