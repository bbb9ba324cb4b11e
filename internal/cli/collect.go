package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var (
	collectPropertyID string
	collectCustomerID string
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch both sources once and print the combined record",
	RunE: func(cmd *cobra.Command, args []string) error {
		record := getApp().Collect(cmd.Context(), collectPropertyID, collectCustomerID)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	},
}

func init() {
	collectCmd.Flags().StringVar(&collectPropertyID, "property-id", "", "GA4 property ID (defaults to GOOGLE_ANALYTICS_PROPERTY)")
	collectCmd.Flags().StringVar(&collectCustomerID, "customer-id", "", "Google Ads customer ID (defaults to GOOGLE_ADS_CUSTOMER_ID)")
}
