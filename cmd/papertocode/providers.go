package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kowshik24/papertocode/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported providers and their credential env vars",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range provider.Names {
			envVar := credentialEnvVars[name]
			if envVar == "" {
				envVar = "(no credential required)"
			}
			fmt.Fprintf(os.Stdout, "%-14s %s\n", name, envVar)
		}
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
