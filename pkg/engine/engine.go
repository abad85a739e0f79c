// Package engine drives the DomainAction execution protocol of spec.md
// §4.5: Prepared → Expanded → Dispatched(k) → Examined → Extracted →
// Checked → Done, and the sequential chain loop above it. Grounded on
// original_source/src/domain.rs (run, run_with_tests) for the algorithm,
// and on pkg/core/tools/shared/extraction.go / assert.go for the Go
// result-struct idiom used to report outcomes.
package engine

import (
	"context"
	"time"

	"github.com/blackcoderx/talon/pkg/confparse"
	"github.com/blackcoderx/talon/pkg/domain"
	"github.com/blackcoderx/talon/pkg/extractor"
	"github.com/blackcoderx/talon/pkg/httpclient"
	"github.com/blackcoderx/talon/pkg/present"
	"github.com/blackcoderx/talon/pkg/scripthost"
	"github.com/blackcoderx/talon/pkg/store"
	"github.com/blackcoderx/talon/pkg/talonerr"
	"github.com/blackcoderx/talon/pkg/testcheck"
	"github.com/blackcoderx/talon/pkg/urlbuilder"
)

// Record is one per-URL result (R in spec.md §3).
type Record struct {
	URL          string
	Result       httpclient.FetchResult
	Err          error
	ScriptOutput string
	Ctx          map[string]string
}

// StepResult is the outcome of running one DomainAction: its per-URL
// records and, if it carried an expectation, the per-URL check outcomes.
type StepResult struct {
	Records []Record
	Checks  []testcheck.Outcome
}

// Engine ties together URL building, dispatch, extraction, checking, and
// persistence for one chain run.
type Engine struct {
	Store      store.Store
	ScriptHost scripthost.Host
	Printer    present.Printer
	Progress   present.ProgressReporter
	MaxConc    int
}

// New builds an Engine with a NoopHost and NoopPrinter/NoopProgress,
// suitable for programmatic or test-suite use.
func New(s store.Store) *Engine {
	return &Engine{
		Store:      s,
		ScriptHost: scripthost.NoopHost{},
		Printer:    present.NoopPrinter{},
		Progress:   present.NoopProgress{},
		MaxConc:    8,
	}
}

// RunChain executes each DomainAction in chain sequentially, threading ctx
// forward. owningAction, if non-nil, has its BodyExample/ResponseExample
// updated on the first successful fetch of each step and is persisted via
// Store.UpsertAction. force bypasses the "already extracted" skip-guard
// (flow and test-suite runs always force; ad-hoc `action` runs do not).
func (e *Engine) RunChain(ctx context.Context, chain []domain.DomainAction, runtimeCtx map[string]string, owningAction *store.Action, force bool) ([]StepResult, error) {
	results := make([]StepResult, 0, len(chain))
	for _, step := range chain {
		stepResult, err := e.RunStep(ctx, step, runtimeCtx, owningAction, force)
		results = append(results, stepResult)
		if err != nil {
			return results, err
		}
		if len(stepResult.Checks) > 0 {
			for _, check := range stepResult.Checks {
				if !check.Success {
					return results, talonerr.Newf(talonerr.ExpectationFailed, "engine: expectation failed for step %s", step.URL)
				}
			}
		}
	}
	return results, nil
}

// RunStep runs the full protocol for one DomainAction.
func (e *Engine) RunStep(ctx context.Context, action domain.DomainAction, runtimeCtx map[string]string, owningAction *store.Action, force bool) (StepResult, error) {
	prepared := action.Prepare(runtimeCtx)

	fullURL := urlbuilder.FullURL(e.projectMainURL(owningAction), prepared.URL)

	pathGroups := prepared.PathParams
	computedURLs := urlbuilder.ComputedURLs(pathGroups, fullURL, runtimeCtx)

	if !domain.CanBeRun(computedURLs, prepared) {
		return StepResult{}, talonerr.Newf(talonerr.InterpolationIncomplete, "engine: action cannot be run due to missing information")
	}

	queries := prepared.QueryParams
	if len(queries) == 0 {
		queries = []map[string]string{nil}
	}

	var tasks []httpclient.Task
	for _, u := range computedURLs {
		for _, q := range queries {
			tasks = append(tasks, httpclient.Task{
				Label: u,
				Request: httpclient.Request{
					Verb:     action.Verb,
					URL:      u,
					Headers:  prepared.Headers,
					Query:    q,
					Body:     prepared.Body,
					Insecure: action.Insecure,
					TimeoutS: timeoutOrDefault(action.Timeout),
				},
			})
		}
	}

	e.Progress.Start(len(tasks))
	defer e.Progress.Finish()

	records := e.dispatch(ctx, action, tasks, runtimeCtx, owningAction, actionName(owningAction))

	boundAny := false
	for i := range records {
		if records[i].Err != nil || !records[i].Result.IsSuccess() {
			continue
		}
		specs := action.ExtractPath
		if !force {
			specs = skipAlreadyBound(specs, runtimeCtx)
		}
		bound := extractor.Apply(records[i].Result.Response, specs, records[i].Ctx)
		if len(bound) > 0 {
			boundAny = true
			for k, v := range records[i].Ctx {
				runtimeCtx[k] = v
			}
		}
	}

	if boundAny && e.Store != nil {
		if err := e.Store.InsertConf(runtimeCtx); err != nil {
			e.Printer.Warn("failed to persist context: " + err.Error())
		}
	}

	var checks []testcheck.Outcome
	if len(action.Expect) > 0 && len(records) > 0 {
		last := records[len(records)-1]
		status := 0
		if last.Err == nil {
			status = last.Result.Status
		}
		checks = []testcheck.Outcome{testcheck.Check(status, last.Ctx, action.Expect)}
	}

	return StepResult{Records: records, Checks: checks}, nil
}

func (e *Engine) dispatch(ctx context.Context, action domain.DomainAction, tasks []httpclient.Task, runtimeCtx map[string]string, owningAction *store.Action, name string) []Record {
	dispatcher := httpclient.NewDispatcher(e.MaxConc)

	runAt := make([]map[string]string, len(tasks))
	scriptOutputs := make([]string, len(tasks))

	for i, t := range tasks {
		req := t.Request
		if action.PreScript != nil {
			mutated, output, err := e.ScriptHost.RunPre(ctx, *action.PreScript, req)
			if err == nil {
				req = mutated
			}
			scriptOutputs[i] = output
			tasks[i].Request = req
		}
		snapshot := make(map[string]string, len(runtimeCtx))
		for k, v := range runtimeCtx {
			snapshot[k] = v
		}
		runAt[i] = snapshot
	}

	taskResults := dispatcher.RunAll(ctx, tasks)

	byLabel := make(map[string]int, len(tasks))
	for i, t := range tasks {
		byLabel[t.Label] = i
	}

	records := make([]Record, 0, len(taskResults))
	for _, tr := range taskResults {
		idx := byLabel[tr.Label]
		e.Progress.Advance(tr.Label)

		record := Record{URL: tr.Label, Result: tr.Result, Err: tr.Err, Ctx: runAt[idx]}

		if tr.Err == nil {
			if err := e.persistHistory(action, tr, name); err != nil {
				e.Printer.Warn("history insert failed: " + err.Error())
			}
			if owningAction != nil && tr.Result.IsSuccess() {
				e.updateExamples(owningAction, action, tr)
			}
			if action.PostScript != nil {
				output, _ := e.ScriptHost.RunPost(ctx, *action.PostScript, tr.Result)
				scriptOutputs[idx] += output
			}
		} else {
			e.Printer.Error("request failed: " + tr.Err.Error())
		}
		record.ScriptOutput = scriptOutputs[idx]
		records = append(records, record)
	}
	return records
}

func (e *Engine) persistHistory(action domain.DomainAction, tr httpclient.TaskResult, name string) error {
	if e.Store == nil {
		return nil
	}
	body := ""
	if action.Body != nil {
		body = action.Body.Content
	}
	return e.Store.InsertHistory(store.HistoryEntry{
		ActionName: name,
		URL:        tr.Label,
		Body:       body,
		Headers:    action.Headers,
		Response:   tr.Result.Response,
		StatusCode: tr.Result.Status,
		DurationMs: tr.Result.Duration.Milliseconds(),
		CreatedAt:  time.Now(),
	})
}

func (e *Engine) updateExamples(owningAction *store.Action, action domain.DomainAction, tr httpclient.TaskResult) {
	owningAction.ResponseExample = tr.Result.Response
	if action.Body != nil {
		owningAction.BodyExample = action.Body.Content
	}
	if e.Store != nil {
		_ = e.Store.UpsertAction(*owningAction)
	}
}

// actionName returns owningAction's saved name, or domain.AnonymousAction
// for a truly ad-hoc run with no backing Action at all.
func actionName(owningAction *store.Action) string {
	if owningAction == nil || owningAction.Name == "" {
		return domain.AnonymousAction
	}
	return owningAction.Name
}

// projectMainURL looks up owningAction's project and returns its MainURL,
// or "" if owningAction is nil or the lookup fails (an unsaved action has
// no project to join against).
func (e *Engine) projectMainURL(owningAction *store.Action) string {
	if owningAction == nil || owningAction.ProjectName == "" || e.Store == nil {
		return ""
	}
	p, err := e.Store.GetProject(owningAction.ProjectName)
	if err != nil {
		return ""
	}
	return p.MainURL
}

func timeoutOrDefault(t int) int {
	if t <= 0 {
		return domain.DefaultTimeoutSeconds
	}
	return t
}

// skipAlreadyBound drops extraction specs whose target name is already
// present in ctx, matching the CLI-only skip-guard in
// original_source/src/commands/run/_run_helper.rs::get_xtracted_path; flow
// and test-suite runs pass force=true to bypass this entirely.
func skipAlreadyBound(specs []extractor.Spec, ctx map[string]string) []extractor.Spec {
	out := make([]extractor.Spec, 0, len(specs))
	for _, s := range specs {
		if s.Name != nil {
			if _, exists := ctx[*s.Name]; exists {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// ParseExtractSpecs converts the CLI/config option-map form
// ("$.id:ID,$.name:") into extractor.Spec values, preserving declared
// order per spec.md §4.5 so two patterns extracting into the same context
// variable still apply deterministically.
func ParseExtractSpecs(raw string) []extractor.Spec {
	pairs := confparse.ParseOptionPairs(raw)
	specs := make([]extractor.Spec, 0, len(pairs))
	for _, p := range pairs {
		specs = append(specs, extractor.Spec{Pattern: p.Key, Name: p.Value})
	}
	return specs
}
