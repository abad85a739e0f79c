// Package interpolate expands "{name}" placeholders in strings and maps
// against a flat string context, the way original_source/src/utils.rs's
// replace_with_conf and the Interpol modes used throughout domain.rs do.
package interpolate

import (
	"regexp"
	"strings"
)

// Mode selects how many placeholder occurrences a call replaces.
type Mode int

const (
	// Simple replaces exactly one placeholder occurrence; used for URLs
	// and path segments, matching the original's Interpol::SimpleInterpol.
	Simple Mode = iota
	// Multi replaces every placeholder occurrence in one pass over the
	// context's key set; used for bodies, headers, query values.
	Multi
)

var placeholderPattern = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// Interpolate substitutes "{name}" occurrences in s with ctx[name]. Missing
// keys leave the placeholder literal. In Simple mode only the first
// occurrence of each distinct placeholder is substituted per pass, and the
// function performs a single pass; in Multi mode every occurrence of every
// known key is replaced.
func Interpolate(s string, ctx map[string]string, mode Mode) string {
	if len(ctx) == 0 || !strings.Contains(s, "{") {
		return s
	}
	switch mode {
	case Simple:
		return interpolateSimple(s, ctx)
	default:
		return interpolateMulti(s, ctx)
	}
}

func interpolateSimple(s string, ctx map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := match[1 : len(match)-1]
		if v, ok := ctx[key]; ok {
			return v
		}
		return match
	})
}

// interpolateMulti repeatedly substitutes known keys until a pass makes no
// change, so a value that itself contains another known placeholder still
// resolves (bounded by len(ctx) passes to guarantee termination on cycles).
func interpolateMulti(s string, ctx map[string]string) string {
	out := s
	for i := 0; i <= len(ctx); i++ {
		next := placeholderPattern.ReplaceAllStringFunc(out, func(match string) string {
			key := match[1 : len(match)-1]
			if v, ok := ctx[key]; ok {
				return v
			}
			return match
		})
		if next == out {
			return next
		}
		out = next
	}
	return out
}

// MapInterpolate applies Interpolate to every value of m, returning a new
// map with the same keys.
func MapInterpolate(m map[string]string, ctx map[string]string, mode Mode) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = Interpolate(v, ctx, mode)
	}
	return out
}

// ContainsInterpolation reports whether s still has an unresolved
// "{placeholder}" after interpolation would have been attempted in mode.
func ContainsInterpolation(s string, mode Mode) bool {
	return placeholderPattern.MatchString(s)
}

// MapContainsInterpolation reports whether any value in m still has an
// unresolved placeholder.
func MapContainsInterpolation(m map[string]string, mode Mode) bool {
	for _, v := range m {
		if ContainsInterpolation(v, mode) {
			return true
		}
	}
	return false
}
