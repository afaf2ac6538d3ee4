package cmd

import (
	"github.com/spf13/cobra"

	"retail_backoffice/bundlefx/productfx"
	"retail_backoffice/bundlefx/storefrontfx"
)

func init() {
	storefrontCmd.Flags().IntP("port", "p", 8082, "Port for storefront service")
}

var storefrontCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Start public storefront service",
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		startStorefrontService(port)
	},
}

func startStorefrontService(port int) {
	newApp("storefront", port,
		productfx.Repository,
		storefrontfx.Module,
	).Run()
}
