package cmd

import (
	"github.com/spf13/cobra"
)

// showCmd represents the show command.
var showCmd = newShowCmd()

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show the stored result of a run",
		Long:  `Print the final response of an earlier generate run from the report store.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, appOptions{withStore: true})
			if err != nil {
				return err
			}
			defer a.Close()

			return a.workflow.Show(commandContext(cmd), args[0])
		},
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
