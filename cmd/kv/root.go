package kv

import (
	"github.com/spf13/cobra"

	"github.com/kvmirror/kvmirror/cmd/util"
	"github.com/kvmirror/kvmirror/lib/config"
	"github.com/kvmirror/kvmirror/lib/store"
	"github.com/kvmirror/kvmirror/lib/store/resolver"
)

var (
	storeResolver *resolver.Resolver
	targetStore   store.Store

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value record store operations",
		PersistentPreRunE: setupStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(config.Init)

	// Add common store selection flags to the KV command
	util.SetupStoreFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(deleteCmd)
	KeyValueCommands.AddCommand(keysCmd)
	KeyValueCommands.AddCommand(urlCmd)
	KeyValueCommands.AddCommand(inputCmd)
	KeyValueCommands.AddCommand(dropCmd)
	KeyValueCommands.AddCommand(deleteStoreCmd)
}

// setupStore resolves the target store from flags and environment
func setupStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	storeResolver, err = util.GetResolver()
	if err != nil {
		return err
	}

	targetStore, err = storeResolver.Open(util.GetTargetStoreID(), util.GetOpenOptions())
	return err
}
