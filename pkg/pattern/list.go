package pattern

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// List is an ordered, immutable sequence of patterns. It is safe for
// concurrent use.
type List struct {
	patterns []*Pattern
	logger   *zap.Logger
}

type compileOptions struct {
	logger      *zap.Logger
	skipInvalid bool
}

// Option configures Compile.
type Option func(*compileOptions)

// WithLogger sets the logger used for debug output and skipped-pattern warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(o *compileOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSkipInvalid makes Compile drop malformed patterns with a warning
// instead of failing.
func WithSkipInvalid(skip bool) Option {
	return func(o *compileOptions) {
		o.skipInvalid = skip
	}
}

// Compile parses raws in order. Every malformed pattern is reported as an
// *Error; unless WithSkipInvalid is set, any such error fails the whole list.
func Compile(raws []string, opts ...Option) (*List, error) {
	options := compileOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&options)
	}

	l := &List{logger: options.logger}
	var errs error
	for i, raw := range raws {
		p, err := Parse(raw)
		if err != nil {
			perr := &Error{Pattern: raw, Index: i, Err: err}
			if options.skipInvalid {
				options.logger.Warn("Skipping invalid glob pattern", zap.String("pattern", raw), zap.Error(err))
				continue
			}
			errs = multierr.Append(errs, perr)
			continue
		}
		l.patterns = append(l.patterns, p)
		options.logger.Debug("Compiled glob pattern",
			zap.Int("index", i),
			zap.String("pattern", raw),
			zap.Bool("exclude", p.Exclude))
	}
	if errs != nil {
		return nil, errs
	}
	return l, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(raws ...string) *List {
	l, err := Compile(raws)
	if err != nil {
		panic(err)
	}
	return l
}

// Match evaluates rel against the list and returns the decision together
// with the deciding pattern. The last matching pattern wins; when nothing
// matches the decision is Exclude and the pattern is nil.
func (l *List) Match(rel string) (Decision, *Pattern) {
	for i := len(l.patterns) - 1; i >= 0; i-- {
		p := l.patterns[i]
		if !p.Matches(rel) {
			continue
		}
		l.logger.Debug("Path matches pattern",
			zap.String("path", rel),
			zap.String("pattern", p.Raw),
			zap.Bool("exclude", p.Exclude))
		if p.Exclude {
			return Exclude, p
		}
		return Include, p
	}
	return Exclude, nil
}

// Decide is Match without the deciding pattern.
func (l *List) Decide(rel string) Decision {
	d, _ := l.Match(rel)
	return d
}

// Len returns the number of compiled patterns.
func (l *List) Len() int {
	return len(l.patterns)
}

// Patterns returns a copy of the compiled patterns in list order.
func (l *List) Patterns() []*Pattern {
	out := make([]*Pattern, len(l.patterns))
	copy(out, l.patterns)
	return out
}
