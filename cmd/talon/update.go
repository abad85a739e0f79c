package main

import (
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
)

// updateCmd self-updates the talon binary from its GitHub releases.
// Grounded on blackcoderx-zap/cmd/zap/update.go.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update talon to the latest release",
	Run: func(cmd *cobra.Command, args []string) {
		if version == "dev" {
			printer.Info("running a development build, update is not supported")
			return
		}

		latest, found, err := selfupdate.DetectLatest("blackcoderx/talon")
		if err != nil {
			printer.Error("detecting latest version: " + err.Error())
			return
		}

		v, err := semver.Parse(version)
		if err != nil {
			printer.Error(fmt.Sprintf("parsing current version %q: %s", version, err))
			return
		}

		if !found || latest.Version.LTE(v) {
			printer.Info("current version is the latest")
			return
		}

		fmt.Printf("Update to %s? (y/n): ", latest.Version)
		var input string
		fmt.Scanln(&input)
		if input != "y" {
			return
		}

		exe, err := os.Executable()
		if err != nil {
			printer.Error("could not locate executable path")
			return
		}
		if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
			printer.Error("updating binary: " + err.Error())
			return
		}
		printer.Info("updated to version " + latest.Version.String())
	},
}
