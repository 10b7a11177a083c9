package main

import (
	"github.com/bastiangx/wordexpand/internal/cli"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// CLI would be mainly used for testing and dbg purposes.
// Any new features or changes should be tested in CLI mode first.
func newCliCmd() *cobra.Command {
	cliCmd := &cobra.Command{
		Use:   "cli",
		Short: "Interactive candidate lookup for testing and debugging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			show := e.cfg.CLI.ShowStrategies
			if cmd.Flags().Changed("strategies") {
				show, _ = cmd.Flags().GetBool("strategies")
			}
			log.Debug("Input info:", "triggers", e.store.Len(), "strategies", show)

			h := cli.NewInputHandler(e.store.Index(), show, cmd.InOrStdin(), cmd.OutOrStdout())
			return h.Start()
		},
	}
	cliCmd.Flags().Bool("strategies", true, "Show which strategies matched (default from config)")
	return cliCmd
}
