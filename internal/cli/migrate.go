package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kursadbilgin/bill-notifier/internal/config"
	"github.com/kursadbilgin/bill-notifier/internal/infra/postgresql"
	"github.com/kursadbilgin/bill-notifier/internal/infra/postgresql/migrations"
	"github.com/kursadbilgin/bill-notifier/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	var (
		dsn      string
		rollback bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCLI()
			if err != nil {
				return err
			}
			if dsn == "" {
				dsn = cfg.DatabaseDSN
			}
			if strings.TrimSpace(dsn) == "" {
				return fmt.Errorf("database dsn is required (--dsn or DATABASE_DSN)")
			}

			logger, err := observability.NewLogger(cfg.LogLevel, "notifyctl")
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			db, err := postgresql.NewPostgres(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("failed to get underlying sql.DB: %w", err)
			}
			defer sqlDB.Close()

			if rollback {
				if err := migrations.RollbackLast(db); err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				logger.Info("rolled back last migration")
				fmt.Fprintln(cmd.OutOrStdout(), "rolled back last migration")
				return nil
			}

			if err := migrations.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("migrations applied", zap.String("dsnHost", dsnHost(dsn)))
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "postgres dsn, defaults to DATABASE_DSN")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "undo the most recent migration instead")
	return cmd
}

// dsnHost pulls the host out of a key=value or URL style dsn for logging
// without leaking credentials.
func dsnHost(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Host != "" {
		return u.Hostname()
	}
	for _, field := range strings.Fields(dsn) {
		if key, value, ok := strings.Cut(field, "="); ok && key == "host" {
			return value
		}
	}
	return ""
}
