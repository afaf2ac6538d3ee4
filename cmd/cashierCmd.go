package cmd

import (
	"github.com/spf13/cobra"

	"retail_backoffice/bundlefx/inventoryfx"
	"retail_backoffice/bundlefx/notifyfx"
	"retail_backoffice/bundlefx/productfx"
	"retail_backoffice/bundlefx/salesfx"
)

func init() {
	cashierCmd.Flags().IntP("port", "p", 8081, "Port for cashier service")
}

var cashierCmd = &cobra.Command{
	Use:   "cashier",
	Short: "Start cashier point-of-sale service",
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		startCashierService(port)
	},
}

func startCashierService(port int) {
	newApp("cashier", port,
		productfx.Repository,
		salesfx.Module,
		salesfx.CashierRoutes,
		inventoryfx.Module,
		inventoryfx.CashierRoutes,
		notifyfx.Module,
	).Run()
}
