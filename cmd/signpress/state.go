package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"signpress/catalog"
	"signpress/store"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and edit the per-product state store",
}

var stateGetCmd = &cobra.Command{
	Use:   "get <product-id>",
	Short: "Show a product's stored entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		entry, err := st.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		raw, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return nil
	},
}

var stateSetCmd = &cobra.Command{
	Use:   "set <product-id> <price> [name]",
	Short: "Write a product's entry by hand",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := catalog.ParseMoney(args[1])
		if err != nil {
			return err
		}
		entry := store.StateEntry{
			ProductID: args[0],
			LastPrice: price,
			UpdatedAt: time.Now().UTC(),
		}
		if len(args) == 3 {
			entry.LastSeenName = args[2]
		}
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		return st.Put(cmd.Context(), entry)
	},
}

var stateDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Drop a product's entry so its next appearance prints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		return st.Delete(cmd.Context(), args[0])
	},
}

func init() {
	stateCmd.AddCommand(stateGetCmd, stateSetCmd, stateDeleteCmd)
}
