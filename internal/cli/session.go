package cli

import (
	"fmt"
	"time"

	"github.com/kursadbilgin/bill-notifier/internal/auth"
	"github.com/kursadbilgin/bill-notifier/internal/config"
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Work with API session tokens",
	}
	cmd.AddCommand(newSessionIssueCmd())
	return cmd
}

func newSessionIssueCmd() *cobra.Command {
	var (
		organisationID uint
		userID         string
		secret         string
		ttl            time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Print a signed session token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCLI()
			if err != nil {
				return err
			}
			if secret == "" {
				secret = cfg.SessionSecret
			}

			sessions, err := auth.NewSessionManager(secret, ttl)
			if err != nil {
				return err
			}
			token, err := sessions.Issue(organisationID, userID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().UintVar(&organisationID, "org", 0, "organisation id")
	cmd.Flags().StringVar(&userID, "user", "", "user id recorded in the session")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret, defaults to SESSION_SECRET")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultSessionTTL, "session lifetime")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}
