package cmd

import (
	"github.com/spf13/cobra"

	"retail_backoffice/bundlefx/importfx"
	"retail_backoffice/bundlefx/inventoryfx"
	"retail_backoffice/bundlefx/memberfx"
	"retail_backoffice/bundlefx/notifyfx"
	"retail_backoffice/bundlefx/productfx"
	"retail_backoffice/bundlefx/salesfx"
)

func init() {
	adminCmd.Flags().IntP("port", "p", 8080, "Port for admin service")
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Start admin backoffice service",
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		startAdminService(port)
	},
}

func startAdminService(port int) {
	newApp("admin", port,
		productfx.Module,
		importfx.Module,
		salesfx.Module,
		salesfx.AdminRoutes,
		memberfx.Module,
		inventoryfx.Module,
		inventoryfx.AdminRoutes,
		notifyfx.Module,
	).Run()
}
