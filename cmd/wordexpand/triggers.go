package main

import (
	"fmt"
	"strconv"

	"github.com/bastiangx/wordexpand/pkg/expand"
	"github.com/spf13/cobra"
)

func newTriggersCmd() *cobra.Command {
	triggersCmd := &cobra.Command{
		Use:   "triggers",
		Short: "Manage the trigger file",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all triggers with their position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			list := e.store.Snapshot()
			if len(list) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No triggers found.")
				return nil
			}
			for i, t := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", i, t.Key, t.Expansion)
			}
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <key> <expansion>",
		Short: "Append a trigger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if err := e.store.Add(expand.Trigger{Key: args[0], Expansion: args[1]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%d triggers)\n", args[0], e.store.Len())
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <position>",
		Short: "Remove the trigger at a position shown by list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid position %q: %w", args[0], err)
			}
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if err := e.store.Remove(i); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d (%d triggers)\n", i, e.store.Len())
			return nil
		},
	}

	triggersCmd.AddCommand(listCmd, addCmd, rmCmd)
	return triggersCmd
}
