package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yeisme/mediavault/pkg/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the catalog HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.NewApp(configPath)
		defer func() { _ = a.Close() }()

		return a.Run()
	},
}

func registerServeCommands() {
	rootCmd.AddCommand(serveCmd)
}
