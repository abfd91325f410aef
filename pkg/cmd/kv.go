package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/archivault/pkg/internal/storage/kv"
)

var (
	kvCmd = &cobra.Command{
		Use:   "kv",
		Short: "KV store related commands",
	}

	kvListCmd = &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "list all registered kv types",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered kv types:")
			for _, kvType := range kv.GetRegisteredKVTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), " - "+kvType)
			}
		},
	}
)

// registerKVCommands 注册 KV 相关命令.
func registerKVCommands() {
	rootCmd.AddCommand(kvCmd)

	kvCmd.AddCommand(kvListCmd)
}
