package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kursadbilgin/bill-notifier/internal/config"
	"github.com/kursadbilgin/bill-notifier/internal/queue"
	"github.com/spf13/cobra"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the RabbitMQ delivery queues",
	}
	cmd.AddCommand(newQueueStatsCmd())
	return cmd
}

func newQueueStatsCmd() *cobra.Command {
	var (
		rabbitURL  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show message and consumer counts for work and dead-letter queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCLI()
			if err != nil {
				return err
			}
			if rabbitURL == "" {
				rabbitURL = cfg.RabbitMQURL
			}
			if strings.TrimSpace(rabbitURL) == "" {
				return fmt.Errorf("rabbitmq url is required (--rabbitmq-url or RABBITMQ_URL)")
			}

			mq, err := queue.NewRabbitMQ(cmd.Context(), rabbitURL)
			if err != nil {
				return err
			}
			defer mq.Close()

			stats, err := mq.Stats(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}
			return writeQueueStats(cmd.OutOrStdout(), stats)
		},
	}

	cmd.Flags().StringVar(&rabbitURL, "rabbitmq-url", "", "broker url, defaults to RABBITMQ_URL")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	return cmd
}

var (
	statsHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statsCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	statsCountStyle  = statsCellStyle.Align(lipgloss.Right)
)

func writeQueueStats(w io.Writer, stats []queue.QueueStat) error {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{s.Name, strconv.Itoa(s.Messages), strconv.Itoa(s.Consumers)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("QUEUE", "MESSAGES", "CONSUMERS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return statsHeaderStyle
			case col > 0:
				return statsCountStyle
			default:
				return statsCellStyle
			}
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
