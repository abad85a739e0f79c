package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackcoderx/talon/pkg/confparse"
	"github.com/blackcoderx/talon/pkg/domain"
	"github.com/blackcoderx/talon/pkg/httpclient"
	"github.com/blackcoderx/talon/pkg/store"
	"github.com/blackcoderx/talon/pkg/talonerr"
)

// projectCmd groups the store-facing project utilities. Grounded on
// original_source/src/commands/project/{create,list,info,add_action,rm_action}.rs.
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create and inspect projects and their saved actions",
}

var (
	projectNewConf    []string
	projectMainURL    string
	addActionURL      string
	addActionVerb     string
	addActionBody     string
	addActionHeaders  []string
	addActionFormData bool
	addActionURLEnc   bool
)

var projectNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create or update a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := bootstrap()
		if err != nil {
			return err
		}
		p := store.Project{
			Name:    args[0],
			MainURL: projectMainURL,
			Conf:    confparse.ParseMap(strings.Join(projectNewConf, ",")),
		}
		if err := s.UpsertProject(p); err != nil {
			return talonerr.Wrap(talonerr.StoreError, err)
		}
		printer.Info("project " + p.Name + " saved")
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known project",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := bootstrap()
		if err != nil {
			return err
		}
		projects, err := s.GetProjects()
		if err != nil {
			return talonerr.Wrap(talonerr.StoreError, err)
		}
		for i, p := range projects {
			printer.Info(fmt.Sprintf("%d - %s (%s)", i+1, p.Name, p.MainURL))
		}
		return nil
	},
}

var projectInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show a project's details and saved actions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := bootstrap()
		if err != nil {
			return err
		}
		p, err := s.GetProject(args[0])
		if err != nil {
			return talonerr.Wrap(talonerr.StoreError, err)
		}
		printer.Info(fmt.Sprintf("%s — %s", p.Name, p.MainURL))

		actions, err := s.GetActions(p.Name)
		if err != nil {
			return talonerr.Wrap(talonerr.StoreError, err)
		}
		printer.Info("actions:")
		for i, a := range actions {
			printer.Info(fmt.Sprintf("  %d. %s (%d step(s))", i+1, a.Name, len(a.Chain)))
		}
		return nil
	},
}

var projectAddActionCmd = &cobra.Command{
	Use:   "add-action <project-name> <action-name>",
	Short: "Save a single-step action into a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := bootstrap()
		if err != nil {
			return err
		}
		projectName, actionName := args[0], args[1]

		step := domain.DomainAction{
			Verb:    strings.ToUpper(addActionVerb),
			URL:     addActionURL,
			Headers: confparse.ParseMap(strings.Join(addActionHeaders, ",")),
		}
		if addActionBody != "" {
			step.Body = &httpclient.Body{Content: addActionBody, FormData: addActionFormData, URLEncoded: addActionURLEnc}
		}

		a := store.Action{Name: actionName, ProjectName: projectName, Chain: []domain.DomainAction{step}}
		if err := s.UpsertAction(a); err != nil {
			return talonerr.Wrap(talonerr.StoreError, err)
		}
		printer.Info(fmt.Sprintf("action %s added to project %s", actionName, projectName))
		return nil
	},
}

var projectRmActionCmd = &cobra.Command{
	Use:   "rm-action <project-name> <action-name>",
	Short: "Remove a saved action from a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := bootstrap()
		if err != nil {
			return err
		}
		if err := s.RemoveAction(args[1], args[0]); err != nil {
			return talonerr.Wrap(talonerr.StoreError, err)
		}
		printer.Info(fmt.Sprintf("action %s removed from project %s", args[1], args[0]))
		return nil
	},
}

func init() {
	projectNewCmd.Flags().StringVarP(&projectMainURL, "main-url", "u", "", "default base URL for this project's actions")
	projectNewCmd.Flags().StringArrayVarP(&projectNewConf, "conf", "c", nil, "key:value context seed entries (repeatable)")

	projectAddActionCmd.Flags().StringVarP(&addActionURL, "url", "u", "", "action URL")
	projectAddActionCmd.Flags().StringVarP(&addActionVerb, "verb", "v", "GET", "HTTP verb")
	projectAddActionCmd.Flags().StringVarP(&addActionBody, "static-body", "b", "", "static request body")
	projectAddActionCmd.Flags().StringArrayVar(&addActionHeaders, "header", nil, "key:value header (repeatable)")
	projectAddActionCmd.Flags().BoolVar(&addActionFormData, "form-data", false, "encode body as multipart/form-data")
	projectAddActionCmd.Flags().BoolVar(&addActionURLEnc, "url-encoded", false, "encode body as application/x-www-form-urlencoded")

	projectCmd.AddCommand(projectNewCmd, projectListCmd, projectInfoCmd, projectAddActionCmd, projectRmActionCmd)
}
