package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "main",
	Short: "Retail backoffice services",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(cashierCmd)
	rootCmd.AddCommand(storefrontCmd)
	rootCmd.AddCommand(syncCmd)
}
