// Package domain defines the DomainAction value type and the pure parts of
// its execution protocol (merge, interpolation, the runnability gate).
// The stateful orchestration (dispatch, extraction, persistence, chain
// sequencing) lives in pkg/engine, which consumes this package. Grounded on
// original_source/src/domain.rs (DomainAction, merge_with, can_be_run).
package domain

import (
	"github.com/blackcoderx/talon/pkg/extractor"
	"github.com/blackcoderx/talon/pkg/httpclient"
	"github.com/blackcoderx/talon/pkg/interpolate"
)

// AnonymousAction names an unsaved, ad-hoc action run directly from the
// CLI with no --name flag, matching ANONYMOUS_ACTION in
// original_source/src/commands/run/_run_helper.rs.
const AnonymousAction = "UNKNOWN"

// SupportedVerbs enumerates the HTTP methods spec.md's data model allows.
var SupportedVerbs = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true, "PATCH": true,
}

// DomainAction is one executable chain step.
type DomainAction struct {
	Verb        string
	URL         string
	Headers     map[string]string
	PathParams  []map[string]string
	QueryParams []map[string]string
	Body        *httpclient.Body
	ExtractPath []extractor.Spec
	Expect      map[string]string
	PreScript   *string
	PostScript  *string
	Insecure    bool
	Timeout     int
}

// DefaultTimeoutSeconds is the fallback request timeout when one isn't set.
const DefaultTimeoutSeconds = 10

// MergeWith overlays override onto d: any field override sets explicitly
// (non-zero string, non-nil map/slice/pointer) wins; everything else is
// kept from d. Used when a CLI invocation's flags override a stored
// Action's chain step before running it.
func (d DomainAction) MergeWith(override DomainAction) DomainAction {
	merged := d

	if override.Verb != "" {
		merged.Verb = override.Verb
	}
	if override.URL != "" {
		merged.URL = override.URL
	}
	if override.Headers != nil {
		merged.Headers = override.Headers
	}
	if override.PathParams != nil {
		merged.PathParams = override.PathParams
	}
	if override.QueryParams != nil {
		merged.QueryParams = override.QueryParams
	}
	if override.Body != nil {
		merged.Body = override.Body
	}
	if override.ExtractPath != nil {
		merged.ExtractPath = override.ExtractPath
	}
	if override.Expect != nil {
		merged.Expect = override.Expect
	}
	if override.PreScript != nil {
		merged.PreScript = override.PreScript
	}
	if override.PostScript != nil {
		merged.PostScript = override.PostScript
	}
	if override.Insecure {
		merged.Insecure = true
	}
	if override.Timeout != 0 {
		merged.Timeout = override.Timeout
	}
	return merged
}

// Prepared holds a DomainAction's fields after interpolation against a
// context, ready for the runnability gate and for URL/query expansion.
type Prepared struct {
	Verb        string
	URL         string
	Headers     map[string]string
	PathParams  []map[string]string
	QueryParams []map[string]string
	Body        *httpclient.Body
}

// Prepare interpolates every interpolatable field of d against ctx: multi
// mode everywhere except the URL itself, which is interpolated with the
// simple mode later, per computed URL, once path-param groups are known.
func (d DomainAction) Prepare(ctx map[string]string) Prepared {
	p := Prepared{
		Verb:        d.Verb,
		URL:         d.URL,
		Headers:     interpolate.MapInterpolate(d.Headers, ctx, interpolate.Multi),
		PathParams:  d.PathParams,
		QueryParams: interpolateGroups(d.QueryParams, ctx),
		Body:        d.Body,
	}
	if d.Body != nil {
		body := *d.Body
		body.Content = interpolate.Interpolate(body.Content, ctx, interpolate.Multi)
		p.Body = &body
	}
	return p
}

func interpolateGroups(groups []map[string]string, ctx map[string]string) []map[string]string {
	if groups == nil {
		return nil
	}
	out := make([]map[string]string, len(groups))
	for i, g := range groups {
		out[i] = interpolate.MapInterpolate(g, ctx, interpolate.Multi)
	}
	return out
}

// CanBeRun implements the runnability gate of spec.md §4.5: it rejects a
// prepared action when any computed URL still has an unresolved simple
// placeholder, the body has an unresolved multi placeholder, any header
// value is unresolved, or any query-param group value is unresolved.
func CanBeRun(computedURLs []string, p Prepared) bool {
	for _, u := range computedURLs {
		if interpolate.ContainsInterpolation(u, interpolate.Simple) {
			return false
		}
	}
	if p.Body != nil && interpolate.ContainsInterpolation(p.Body.Content, interpolate.Multi) {
		return false
	}
	if interpolate.MapContainsInterpolation(p.Headers, interpolate.Multi) {
		return false
	}
	for _, g := range p.QueryParams {
		if interpolate.MapContainsInterpolation(g, interpolate.Multi) {
			return false
		}
	}
	return true
}
