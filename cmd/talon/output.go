package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blackcoderx/talon/pkg/engine"
)

// printResults renders a chain run's per-step records and expectation
// outcomes through the package-level printer.
func printResults(results []engine.StepResult) {
	for i, step := range results {
		for _, record := range step.Records {
			if record.Err != nil {
				printer.Error(fmt.Sprintf("step %d: %s: %s", i+1, record.URL, record.Err))
				continue
			}
			printer.Result(fmt.Sprintf("step %d: %s -> %d", i+1, record.URL, record.Result.Status), prettyBody(record.Result.Response))
		}
		for _, check := range step.Checks {
			if check.Success {
				printer.Info(fmt.Sprintf("step %d: expectations passed", i+1))
				continue
			}
			printer.Warn(fmt.Sprintf("step %d: expectations failed", i+1))
			for _, r := range check.Results {
				if !r.Success {
					printer.Warn(fmt.Sprintf("  %s: want %q, got %q", r.Key, r.Expected, r.Got))
				}
			}
		}
	}
}

func prettyBody(body string) string {
	var asJSON any
	if err := json.Unmarshal([]byte(body), &asJSON); err != nil {
		return strings.TrimSpace(body)
	}
	b, err := json.MarshalIndent(asJSON, "", "  ")
	if err != nil {
		return strings.TrimSpace(body)
	}
	return string(b)
}
