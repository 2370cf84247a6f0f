package cmd

import (
	"github.com/spf13/cobra"
)

// doctorCmd represents the doctor command.
var doctorCmd = newDoctorCmd()

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the C++ toolchain is available",
		Long: `Report whether cmake, the C++ compiler and gcov can be found. Exits non-zero
when a required tool for the configured toolchain (build.toolchain) is missing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			return a.workflow.Doctor(commandContext(cmd))
		},
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
