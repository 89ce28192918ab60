// Package pattern implements the ordered include/exclude glob list used to
// select files for a bundle.
//
// Patterns are evaluated as an override list: the last pattern in list order
// that matches a path decides whether it is included, and a path matched by
// no pattern is excluded.
package pattern

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ErrEmptyPattern is returned for patterns without a glob body, such as "" or "!".
var ErrEmptyPattern = errors.New("empty pattern")

// Decision is the outcome of evaluating a path against a List.
type Decision int

const (
	Exclude Decision = iota
	Include
)

func (d Decision) String() string {
	if d == Include {
		return "include"
	}
	return "exclude"
}

// Pattern is a single compiled include or exclude glob.
type Pattern struct {
	Raw     string // Pattern as given by the user.
	Body    string // Glob body without the '!' marker.
	Exclude bool   // True when the pattern started with '!'.

	anchored bool // Matched against the full relative path instead of the base name.
	dirOnly  bool // Only matches directories (trailing '/').
	globs    []glob.Glob
}

// Error reports a pattern that could not be compiled.
type Error struct {
	Pattern string // Raw pattern.
	Index   int    // Position in the pattern list (0-based).
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid glob pattern %q at position %d: %v", e.Pattern, e.Index, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parse compiles a single pattern.
func Parse(raw string) (*Pattern, error) {
	p := &Pattern{Raw: raw}

	body := strings.TrimSpace(raw)
	if strings.HasPrefix(body, "!") {
		p.Exclude = true
		body = body[1:]
	}
	body = filepath.ToSlash(body)
	p.Body = body

	if strings.HasSuffix(body, "/") {
		p.dirOnly = true
		body = strings.TrimRight(body, "/")
	}
	if strings.HasPrefix(body, "/") {
		p.anchored = true
		body = strings.TrimLeft(body, "/")
	}
	if body == "" {
		return nil, ErrEmptyPattern
	}
	if strings.Contains(body, "/") {
		p.anchored = true
	}

	for _, expr := range expandBody(body) {
		g, err := glob.Compile(strings.ToLower(expr), separator)
		if err != nil {
			return nil, err
		}
		p.globs = append(p.globs, g)
	}
	return p, nil
}

// Matches reports whether the pattern matches rel, a path relative to the
// source root. An exclude pattern that matches one of the path's parent
// directories matches the path as well; an include pattern only ever matches
// the path itself.
func (p *Pattern) Matches(rel string) bool {
	rel = normalizePath(rel)
	if rel == "" {
		return false
	}

	if !p.dirOnly && p.matchOne(rel) {
		return true
	}
	if !p.Exclude {
		return false
	}
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if p.matchOne(dir) {
			return true
		}
	}
	return false
}

func (p *Pattern) matchOne(candidate string) bool {
	if !p.anchored {
		candidate = path.Base(candidate)
	}
	for _, g := range p.globs {
		if g.Match(candidate) {
			return true
		}
	}
	return false
}

func (p *Pattern) String() string {
	return p.Raw
}

// normalizePath lower-cases rel and converts it to the slash-separated form
// the globs are compiled against.
func normalizePath(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, "./")
	rel = strings.TrimLeft(rel, "/")
	return strings.ToLower(rel)
}
