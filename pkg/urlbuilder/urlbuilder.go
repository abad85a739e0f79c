// Package urlbuilder assembles the final URL for a DomainAction: scheme
// normalization, project/action join, and cartesian expansion of path
// parameter groups. Grounded on
// original_source/src/commands/run/_run_helper.rs (complete_url,
// get_full_url, get_computed_urls).
package urlbuilder

import (
	"strings"

	"github.com/blackcoderx/talon/pkg/interpolate"
)

// CompleteURL normalizes a possibly-partial URL: "http..." is left as-is,
// a leading ":" (port-only shorthand) gets "http://localhost" prepended,
// anything else is assumed to need an "https://" scheme. Idempotent:
// CompleteURL(CompleteURL(x)) == CompleteURL(x).
func CompleteURL(u string) string {
	switch {
	case strings.HasPrefix(u, "http"):
		return u
	case strings.HasPrefix(u, ":"):
		return "http://localhost" + u
	default:
		return "https://" + u
	}
}

// FullURL joins a project's main URL with an action's URL. An empty main
// URL means the action URL stands alone (still run through CompleteURL);
// otherwise the two are completed independently and joined with "/".
func FullURL(mainURL, actionURL string) string {
	if mainURL == "" {
		return CompleteURL(actionURL)
	}
	return strings.TrimSuffix(CompleteURL(mainURL), "/") + "/" + strings.TrimPrefix(actionURL, "/")
}

// ComputedURLs expands fullURL against each path-param group (already
// cartesian-expanded by confparse.ParseGrouped) using simple interpolation,
// and de-duplicates the result. An empty fullURL yields no URLs at all
// (nothing to request); no groups yields the single unmodified URL.
func ComputedURLs(pathParamGroups []map[string]string, fullURL string, ctx map[string]string) []string {
	if fullURL == "" {
		return nil
	}
	if len(pathParamGroups) == 0 {
		return []string{fullURL}
	}

	seen := make(map[string]struct{}, len(pathParamGroups))
	var out []string
	for _, group := range pathParamGroups {
		merged := make(map[string]string, len(ctx)+len(group))
		for k, v := range ctx {
			merged[k] = v
		}
		for k, v := range group {
			merged[k] = interpolate.Interpolate(v, ctx, interpolate.Simple)
		}
		u := interpolate.Interpolate(fullURL, merged, interpolate.Simple)
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
