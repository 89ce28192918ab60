// Package ignore decides whether paths are excluded by the repository's
// .gitignore files. It is only consulted when a bundle run asks for ignore
// files to be honored.
package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"go.uber.org/zap"
)

// gitDir is always ignored when ignore files are honored.
const gitDir = ".git"

// Matcher matches paths relative to a root against the .gitignore files
// found under that root.
type Matcher struct {
	root   string
	repo   gitignore.GitIgnore
	logger *zap.Logger
}

// New loads the .gitignore rules for root.
func New(root string, logger *zap.Logger) (*Matcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", root, err)
	}

	// Missing .gitignore files are not an error. NewRepository only fails
	// when root is not a readable directory or $GIT_DIR/info/exclude cannot
	// be read, and then returns no repository.
	repo, err := gitignore.NewRepository(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore files under %s: %w", absRoot, err)
	}

	logger.Debug("Loaded ignore rules", zap.String("root", absRoot))
	return &Matcher{root: absRoot, repo: repo, logger: logger}, nil
}

// Root returns the absolute root the matcher was built for.
func (m *Matcher) Root() string {
	return m.root
}

// MatchesPath reports whether rel is ignored. A nil Matcher ignores nothing.
func (m *Matcher) MatchesPath(rel string, isDir bool) bool {
	if m == nil {
		return false
	}
	rel = filepath.Clean(rel)
	if rel == "." || rel == "" {
		return false
	}

	if inGitDir(rel, isDir) {
		return true
	}

	match := m.repo.Relative(rel, isDir)
	if match == nil {
		return false
	}
	if match.Ignore() {
		m.logger.Debug("Path matches ignore rule",
			zap.String("path", rel),
			zap.String("rule", match.String()))
		return true
	}
	return false
}

// inGitDir reports whether rel is a .git directory or lies inside one.
func inGitDir(rel string, isDir bool) bool {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i, part := range parts {
		if part == gitDir && (isDir || i < len(parts)-1) {
			return true
		}
	}
	return false
}
