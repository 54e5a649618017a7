package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/bill-notifier/internal/config"
	infraredis "github.com/kursadbilgin/bill-notifier/internal/infra/redis"
	"github.com/kursadbilgin/bill-notifier/internal/provider"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage WhatsApp provider tokens",
	}
	cmd.AddCommand(newTokenSetCmd())
	return cmd
}

func newTokenSetCmd() *cobra.Command {
	var (
		organisationID uint
		token          string
		ttl            time.Duration
		redisURL       string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the provider token for an organisation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCLI()
			if err != nil {
				return err
			}
			if redisURL == "" {
				redisURL = cfg.RedisURL
			}
			if strings.TrimSpace(redisURL) == "" {
				return fmt.Errorf("redis url is required (--redis-url or REDIS_URL)")
			}

			rdb, err := infraredis.NewRedis(cmd.Context(), redisURL)
			if err != nil {
				return err
			}
			defer rdb.Close()

			store, err := provider.NewRedisTokenStore(rdb)
			if err != nil {
				return err
			}
			if err := store.SetToken(cmd.Context(), organisationID, token, ttl); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "stored token for organisation %d at %s\n", organisationID, provider.TokenKey(organisationID))
			return nil
		},
	}

	cmd.Flags().UintVar(&organisationID, "org", 0, "organisation id")
	cmd.Flags().StringVar(&token, "token", "", "provider bearer token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, 0 keeps it until overwritten")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "redis url, defaults to REDIS_URL")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
