// Package cli holds the notifyctl operator commands.
package cli

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "notifyctl",
		Short:         "Operator tooling for the bill notifier",
		Long:          "notifyctl classifies tracking numbers, seeds provider tokens, issues local sessions, runs database migrations and inspects the delivery queues.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newCourierCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newSessionCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newQueueCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
