package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yeisme/archivault/pkg/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	a := app.NewApp(configPath)

	return a.Run()
}

// registerServeCommand 注册 serve 子命令.
func registerServeCommand() {
	rootCmd.AddCommand(serveCmd)
}
