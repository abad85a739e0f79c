// Package extractor applies a {jsonpath → variable name} map to an HTTP
// response body, mutating a shared context. It is a thin adapter over
// pkg/jsonpath, grounded directly on
// pkg/core/tools/shared/extraction.go (ExtractTool.extractFromJSONPath)
// and cross-checked against
// original_source/src/http.rs::extract_pattern, per spec.md §4.8.
package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blackcoderx/talon/pkg/jsonpath"
)

// Spec is one {pattern → optional name} extraction entry. A nil Name means
// the pattern is evaluated (e.g. to validate shape) but nothing is bound.
type Spec struct {
	Pattern string
	Name    *string
}

// Apply evaluates each spec's pattern against response in declared order,
// writing non-empty results into ctx under their Name. It returns the
// names that were actually bound, in the order they were bound, so the
// caller can tell whether *any* extraction occurred (gating context
// persistence per spec.md §4.5).
func Apply(response string, specs []Spec, ctx map[string]string) []string {
	var bound []string
	for _, spec := range specs {
		literal, ok := extractOne(response, spec.Pattern)
		if !ok || literal == "" {
			continue
		}
		if spec.Name == nil || *spec.Name == "" {
			continue
		}
		ctx[*spec.Name] = literal
		bound = append(bound, *spec.Name)
	}
	return bound
}

// extractOne evaluates one JSONPath pattern against response, pretty-prints
// the result, and strips surrounding JSON quotes from string values — the
// same normalization original_source/src/http.rs::extract_pattern performs
// before binding a context variable.
func extractOne(response, pattern string) (string, bool) {
	value, found, err := jsonpath.Evaluate(response, pattern)
	if err != nil || !found {
		return "", false
	}
	return stringify(value), true
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(b))
	}
}
