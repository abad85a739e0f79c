// Package testcheck evaluates a DomainAction's expectation map against the
// last fetch of its task set. Grounded on
// original_source/src/commands/run/_test_checker.rs.
package testcheck

import "strconv"

// StatusCodeKey is the reserved expectation key meaning "compare the last
// fetch's HTTP status code, as a decimal string, to the expected literal."
const StatusCodeKey = "STATUS_CODE"

// UnaryResult is the outcome of checking one expectation entry.
type UnaryResult struct {
	Key      string
	Expected string
	Got      string
	Success  bool
}

// Outcome is the aggregate of every expectation entry for one step.
type Outcome struct {
	Results []UnaryResult
	Success bool
}

// Check compares expect against the last fetch's status and the context
// snapshot at completion of that fetch. Comparison is exact string
// equality with no coercion; a missing context key compares against an
// empty string, so a non-empty expectation against a missing key fails.
func Check(lastStatus int, ctx map[string]string, expect map[string]string) Outcome {
	results := make([]UnaryResult, 0, len(expect))
	success := true
	for key, expected := range expect {
		var got string
		if key == StatusCodeKey {
			got = strconv.Itoa(lastStatus)
		} else {
			got = ctx[key]
		}
		ok := got == expected
		if !ok {
			success = false
		}
		results = append(results, UnaryResult{Key: key, Expected: expected, Got: got, Success: ok})
	}
	return Outcome{Results: results, Success: success}
}
