package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"retail_backoffice/bundlefx/inventoryfx"
	"retail_backoffice/bundlefx/notifyfx"
	"retail_backoffice/bundlefx/productfx"
)

func init() {
	syncCmd.Flags().IntP("port", "p", 8083, "Port for sync worker health and notify routes")
	syncCmd.Flags().Bool("resync", false, "Rebuild the barcode lookup cache before consuming the queue")
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Start inventory sync worker and notify service",
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		resync, _ := cmd.Flags().GetBool("resync")
		startSyncService(port, resync)
	},
}

func startSyncService(port int, resync bool) {
	newApp("sync", port,
		fx.Supply(inventoryfx.WorkerOptions{ResyncOnStart: resync}),
		productfx.Repository,
		inventoryfx.Module,
		inventoryfx.Worker,
		notifyfx.Module,
		notifyfx.Routes,
	).Run()
}
