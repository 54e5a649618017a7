package cli

import (
	"encoding/json"
	"fmt"

	"github.com/kursadbilgin/bill-notifier/internal/courier"
	"github.com/spf13/cobra"
)

type courierResult struct {
	TrackingNumber string `json:"trackingNumber"`
	Courier        string `json:"courier"`
	TrackingURL    string `json:"trackingUrl"`
}

func newCourierCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "courier <tracking-number>",
		Short: "Show the courier and tracking page for a tracking number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, url := courier.Lookup(args[0])
			result := courierResult{TrackingNumber: args[0], Courier: name, TrackingURL: url}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "courier: %s\nurl:     %s\n", result.Courier, result.TrackingURL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	return cmd
}
