package cmd

import (
	"github.com/spf13/cobra"
)

const analyzeLongDescription = `List the functions, methods and classes testsmith extracts from each project.

` + pathArgsHelp

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [dirs...]",
		Short: "Show the extracted symbol table",
		Long:  analyzeLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			return a.workflow.Analyze(commandContext(cmd), parsePaths(args))
		},
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
