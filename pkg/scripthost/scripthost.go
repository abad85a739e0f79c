// Package scripthost defines the pre/post script capability spec.md's
// External Interfaces section names but leaves to an external collaborator.
// Grounded on original_source/src/domain.rs::run_hook for the hook shape
// (takes a mutable request, returns the possibly-mutated request plus any
// captured output). No teacher package implements an equivalent capability
// — falcon's "tools" are LLM function calls, not user scripts — so this
// interface and its default implementation are new, shaped after that one
// Rust call site rather than any Go file in the pack.
package scripthost

import (
	"context"

	"github.com/blackcoderx/talon/pkg/httpclient"
)

// Host runs pre/post scripts against a request or a fetch result.
type Host interface {
	// RunPre may mutate any field of req and returns the (possibly
	// mutated) request plus any output the script printed.
	RunPre(ctx context.Context, script string, req httpclient.Request) (httpclient.Request, string, error)
	// RunPost inspects a completed fetch and returns any output the
	// script printed; it cannot mutate the result.
	RunPost(ctx context.Context, script string, result httpclient.FetchResult) (string, error)
}

// NoopHost is the default Host: no embedded scripting runtime ships with
// talon (the original's pyo3-embedded Python has no equivalent import in
// the teacher or pack), so an action with no configured script runs
// through unchanged. This intentionally differs from the original, which
// defaults pre_script to a sample Python snippet — see DESIGN.md.
type NoopHost struct{}

// RunPre returns req unchanged, and no output, regardless of script —
// NoopHost never actually executes script text; callers only invoke it
// when a DomainAction has no PreScript configured.
func (NoopHost) RunPre(_ context.Context, _ string, req httpclient.Request) (httpclient.Request, string, error) {
	return req, "", nil
}

// RunPost returns no output.
func (NoopHost) RunPost(_ context.Context, _ string, _ httpclient.FetchResult) (string, error) {
	return "", nil
}
