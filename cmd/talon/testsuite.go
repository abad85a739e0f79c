package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackcoderx/talon/pkg/talonerr"
)

// testSuiteCmd runs every instance of a saved test suite against a fresh,
// per-instance context and reports pass/fail. Grounded on
// original_source/src/commands/run/test_suite.rs: each instance starts from
// an empty context, its chain runs straight through, and the suite stops
// reporting success the moment one instance's expectations fail.
var testSuiteCmd = &cobra.Command{
	Use:   "test-suite <name>",
	Short: "Run a saved test suite's instances and report pass/fail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTestSuite(args[0])
	},
}

func runTestSuite(name string) error {
	s, e, err := bootstrap()
	if err != nil {
		return err
	}

	suite, err := s.GetTestSuite(name)
	if err != nil {
		return talonerr.Wrap(talonerr.StoreError, err)
	}

	printer.Info(fmt.Sprintf("running test suite %s (%d instance(s))", suite.Name, len(suite.Instances)))

	printer.Start(len(suite.Instances))
	anyFailed := false
	for _, instance := range suite.Instances {
		results, runErr := e.RunChain(context.Background(), instance.Chain, map[string]string{}, nil, true)
		printer.Advance(instance.Name)
		printResults(results)

		if runErr != nil {
			anyFailed = true
			printer.Warn(fmt.Sprintf("instance %s failed: %s", instance.Name, runErr))
			if talonerr.KindOf(runErr) != talonerr.ExpectationFailed {
				printer.Finish()
				return runErr
			}
		}
	}
	printer.Finish()

	if anyFailed {
		return talonerr.Newf(talonerr.ExpectationFailed, "test suite %s: one or more instances failed", suite.Name)
	}
	printer.Info("all instances passed")
	return nil
}
