// Command talon is the HTTP API workbench's CLI/TUI surface binary.
// Grounded on cmd/falcon/main.go's root-command shape: .env loading via
// joho/godotenv, a viper-backed config file, a first-run folder bootstrap,
// and a bare invocation that drops into the TUI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackcoderx/talon/pkg/engine"
	"github.com/blackcoderx/talon/pkg/present"
	"github.com/blackcoderx/talon/pkg/store"
	"github.com/blackcoderx/talon/pkg/store/filestore"
	"github.com/blackcoderx/talon/pkg/talonerr"
	"github.com/blackcoderx/talon/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	cfgFile    string
	talonDir   string
	defProject string

	printer present.Printer = present.NewTerminal()
)

const defaultTalonDir = ".talon"

var rootCmd = &cobra.Command{
	Use:   "talon",
	Short: "Talon is a reusable HTTP action workbench for your terminal",
	Long: `Talon stores reusable, parameterized HTTP actions, composes them into
chains with variable propagation, extracts values from responses with a
JSONPath-like dialect, and verifies outcomes with test suites — all driven
from the CLI or an interactive TUI.`,
	Run: func(cmd *cobra.Command, args []string) {
		s, e, err := bootstrap()
		if err != nil {
			printer.Error(err.Error())
			os.Exit(talonerr.ExitCode(err))
		}
		project := defProject
		if project == "" {
			project = "default"
		}
		if err := tui.Run(s, e, project); err != nil {
			printer.Error(err.Error())
			os.Exit(3)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .talon/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&talonDir, "talon-dir", defaultTalonDir, "store root directory")
	rootCmd.PersistentFlags().StringVarP(&defProject, "project", "p", "", "project to operate on (default \"default\")")

	rootCmd.AddCommand(versionCmd, actionCmd, flowCmd, testSuiteCmd, projectCmd, historyCmd, importCmd, updateCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("talon %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env file: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(defaultTalonDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}
	viper.SetEnvPrefix("TALON")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// bootstrap opens (creating on first run) the filestore rooted at
// talon-dir and wires it into a ready-to-use engine.
func bootstrap() (store.Store, *engine.Engine, error) {
	root := talonDir
	if root == "" {
		root = defaultTalonDir
	}
	s, err := filestore.New(root)
	if err != nil {
		return nil, nil, err
	}
	e := engine.New(s)
	e.Printer = printer
	e.Progress = printer.(*present.Terminal)
	maxConc := viper.GetInt("concurrency.max")
	if maxConc > 0 {
		e.MaxConc = maxConc
	}
	return s, e, nil
}

func projectOrDefault() string {
	if defProject != "" {
		return defProject
	}
	return "default"
}

func main() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(talonerr.ExitCode(err))
	}
}
