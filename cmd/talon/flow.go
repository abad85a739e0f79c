package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/blackcoderx/talon/pkg/talonerr"
)

// flowCmd reruns a saved Action's chain unconditionally, ignoring the
// already-extracted skip-guard and overwriting whatever context it left
// behind last time. Grounded on original_source/src/commands/run/flow.rs's
// "force rerun flow even if it's already in history" behavior.
var flowCmd = &cobra.Command{
	Use:   "flow <name>",
	Short: "Rerun a saved action's chain with force=true",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(args[0])
	},
}

func runFlow(name string) error {
	s, e, err := bootstrap()
	if err != nil {
		return err
	}

	project := projectOrDefault()
	saved, err := s.GetAction(name, project)
	if err != nil {
		return talonerr.Wrap(talonerr.StoreError, err)
	}

	printer.Info("running flow " + saved.Name)

	ctx, err := s.GetConf()
	if err != nil {
		ctx = map[string]string{}
	}

	results, runErr := e.RunChain(context.Background(), saved.Chain, ctx, &saved, true)
	printResults(results)
	return runErr
}
