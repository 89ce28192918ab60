package pattern

import (
	"strings"
)

// separator is the path separator the globs are compiled with: '*' and '?'
// stop at it, '**' crosses it.
const separator = '/'

const (
	doubleStarLeading = "**/"
	doubleStarMiddle  = "/**/"
)

// expandBody returns the glob expressions a pattern body compiles to.
// A leading "**/" and an inner "/**/" also match zero directories.
func expandBody(body string) []string {
	body = strings.ReplaceAll(body, doubleStarMiddle, "{/,/**/}")

	exprs := []string{body}
	rest := body
	for strings.HasPrefix(rest, doubleStarLeading) {
		rest = strings.TrimPrefix(rest, doubleStarLeading)
	}
	if rest != body && rest != "" {
		exprs = append(exprs, rest)
	}
	return exprs
}
