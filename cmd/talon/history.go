package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/blackcoderx/talon/pkg/talonerr"
)

var historyLimit int

// historyCmd groups the append-only dispatch history's store-facing
// utilities: listing recent entries and copying a response body to the
// system clipboard for pasting elsewhere.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and reuse past request/response history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := bootstrap()
		if err != nil {
			return err
		}
		entries, err := s.GetHistory(historyLimit)
		if err != nil {
			return talonerr.Wrap(talonerr.StoreError, err)
		}
		for i, h := range entries {
			printer.Info(fmt.Sprintf("%d. [%s] %s %s -> %d (%dms)", i+1, h.CreatedAt.Format("2006-01-02 15:04:05"), h.ActionName, h.URL, h.StatusCode, h.DurationMs))
		}
		return nil
	},
}

var historyCopyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the most recent history entry's response body to the clipboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := bootstrap()
		if err != nil {
			return err
		}
		entries, err := s.GetHistory(1)
		if err != nil {
			return talonerr.Wrap(talonerr.StoreError, err)
		}
		if len(entries) == 0 {
			return talonerr.Newf(talonerr.StoreError, "history is empty")
		}
		if err := clipboard.WriteAll(entries[0].Response); err != nil {
			return talonerr.Wrap(talonerr.StoreError, err)
		}
		printer.Info("copied response body to clipboard")
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum entries to show")
	historyCmd.AddCommand(historyListCmd, historyCopyCmd)
}
