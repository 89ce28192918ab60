// File: pkg/bundle/selector.go
package bundle

import (
	"iter"
	"path/filepath"

	"github.com/drengskapur/fbundle/pkg/pattern"
	"github.com/drengskapur/fbundle/pkg/walker"

	"go.uber.org/zap"
)

type selectOptions struct {
	logger    *zap.Logger
	skipPaths map[string]struct{}
}

// SelectOption configures Select.
type SelectOption func(*selectOptions)

// WithSelectLogger sets the logger used for per-file decisions.
func WithSelectLogger(logger *zap.Logger) SelectOption {
	return func(o *selectOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSkipPath excludes an absolute path regardless of the patterns. The
// bundle's own output file is passed here.
func WithSkipPath(path string) SelectOption {
	return func(o *selectOptions) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		o.skipPaths[path] = struct{}{}
	}
}

// Select yields the entries whose path relative to root is included by
// list, in the order the entries arrive.
func Select(entries iter.Seq[walker.Entry], list *pattern.List, root string, opts ...SelectOption) iter.Seq[SelectedFile] {
	options := selectOptions{
		logger:    zap.NewNop(),
		skipPaths: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(&options)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	return func(yield func(SelectedFile) bool) {
		for entry := range entries {
			if _, skip := options.skipPaths[entry.Path]; skip {
				options.logger.Debug("Skipping output file", zap.String("path", entry.Path))
				continue
			}

			relPath, relErr := filepath.Rel(absRoot, entry.Path)
			if relErr != nil {
				options.logger.Warn("Unable to determine relative path, using absolute path",
					zap.String("path", entry.Path),
					zap.String("root", absRoot),
					zap.Error(relErr))
				relPath = entry.Path
			}
			relPath = filepath.ToSlash(relPath)

			if list.Decide(relPath) != pattern.Include {
				options.logger.Debug("File not selected", zap.String("path", relPath))
				continue
			}

			if !yield(SelectedFile{AbsolutePath: entry.Path, RelativePath: relPath}) {
				return
			}
		}
	}
}
