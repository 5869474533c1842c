package kv

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvmirror/kvmirror/lib/store"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := targetStore.GetValue(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printRecord(record)
		},
	}

	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Long:  "Sets the value for a key. Without --content-type the value is parsed as JSON; with --content-type it is stored verbatim.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, raw := args[0], args[1]
			contentType, _ := cmd.Flags().GetString("content-type")

			var value any
			var opts *store.SetOptions
			if contentType != "" {
				value = raw
				opts = &store.SetOptions{ContentType: contentType}
			} else {
				if err := json.Unmarshal([]byte(raw), &value); err != nil {
					return fmt.Errorf("value is not valid JSON (pass --content-type to store it verbatim): %w", err)
				}
			}

			if err := targetStore.SetValue(cmd.Context(), key, value, opts); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}

	deleteCmd = &cobra.Command{
		Use:   "delete [key]",
		Short: "Deletes the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := targetStore.SetValue(cmd.Context(), args[0], nil, nil); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}

	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startKey, _ := cmd.Flags().GetString("exclusive-start-key")
			return targetStore.ForEachKey(cmd.Context(), func(key string, index int, info store.KeyInfo) error {
				fmt.Printf("%4d  %-40s %8d bytes\n", index, key, info.Size)
				return nil
			}, &store.IterateOptions{ExclusiveStartKey: startKey})
		},
	}

	urlCmd = &cobra.Command{
		Use:   "url [key]",
		Short: "Prints the public URL of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := targetStore.PublicURL(args[0])
			if err != nil {
				return err
			}
			fmt.Println(u)
			return nil
		},
	}

	inputCmd = &cobra.Command{
		Use:   "input",
		Short: "Reads the job input record from the default store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := storeResolver.GetInput(cmd.Context())
			if err != nil {
				return err
			}
			return printRecord(record)
		},
	}

	dropCmd = &cobra.Command{
		Use:   "drop",
		Short: "Removes the entire store with all its records",
		Args:  cobra.NoArgs,
		RunE:  runDrop,
	}

	// deleteStoreCmd is the historical alias for drop, kept at the CLI
	// boundary only.
	deleteStoreCmd = &cobra.Command{
		Use:        "delete-store",
		Short:      "Removes the entire store with all its records",
		Args:       cobra.NoArgs,
		Deprecated: `use "drop" instead`,
		RunE:       runDrop,
	}
)

func init() {
	setCmd.Flags().String("content-type", "", "MIME type of the value (empty means JSON)")
	keysCmd.Flags().String("exclusive-start-key", "", "List only keys sorting strictly after this key")
}

func runDrop(cmd *cobra.Command, _ []string) error {
	if err := targetStore.Drop(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("store dropped")
	return nil
}

// printRecord writes a record's value to stdout: raw bytes and strings
// verbatim, structures as indented JSON.
func printRecord(record *store.Record) error {
	if record == nil {
		fmt.Println("(no value)")
		return nil
	}
	switch v := record.Value.(type) {
	case []byte:
		_, err := os.Stdout.Write(v)
		return err
	case string:
		fmt.Println(v)
		return nil
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
}
