// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// 全局标志.
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "archivault",
		Short: "A document archival service with location tracking and an audit ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 不带子命令时直接启动服务
			return runServe()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./", "config file or directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	registerServeCommand()
	registerConfigsCommands()
	registerDBCommands()
	registerKVCommands()
	registerMQCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
