package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvmirror/kvmirror/cmd/kv"
	"github.com/kvmirror/kvmirror/lib/config"
)

const (
	Version = "1.2.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "kvmirror",
		Short: "dual-backend key-value record store",
		Long: fmt.Sprintf(`kvmirror (v%s)

A key-value record store that transparently operates against either a
local filesystem mirror or the hosted record service, so jobs persist
and retrieve named artifacts without branching on where they run.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kvmirror",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kvmirror v%s\n", Version)
		},
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(config.Load())
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(config.Init)

	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(configCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
