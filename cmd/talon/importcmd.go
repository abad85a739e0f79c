package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackcoderx/talon/pkg/importer"
	"github.com/blackcoderx/talon/pkg/talonerr"
)

var importProject string

// importCmd ingests an OpenAPI or Postman collection file, creating or
// merging one Action per endpoint into the target project.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an OpenAPI or Postman collection as saved actions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := bootstrap()
		if err != nil {
			return err
		}
		content, err := os.ReadFile(args[0])
		if err != nil {
			return talonerr.Wrap(talonerr.ParseError, err)
		}
		project := importProject
		if project == "" {
			project = projectOrDefault()
		}
		count, err := importer.Import(content, project, s)
		if err != nil {
			return err
		}
		printer.Info(fmt.Sprintf("imported %d action(s) into project %s", count, project))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importProject, "project", "", "project to import into (default \"default\")")
}
