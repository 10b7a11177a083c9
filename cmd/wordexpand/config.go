package main

import (
	"fmt"
	"strconv"

	"github.com/bastiangx/wordexpand/internal/utils"
	"github.com/bastiangx/wordexpand/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the config file",
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config dir and the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pathResolver, err := utils.NewPathResolver()
			if err != nil {
				return err
			}
			configFlag, _ := cmd.Flags().GetString("config")
			_, cfgPath := config.LoadConfigWithPriority(configFlag, pathResolver)

			fmt.Fprintf(cmd.OutOrStdout(), "dir\t%s\n", pathResolver.GetConfigDir())
			fmt.Fprintf(cmd.OutOrStdout(), "file\t%s\n", cfgPath)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:       "set <max_text|max_candidates> <value>",
		Short:     "Change a server limit and save it",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"max_text", "max_candidates"},
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}

			var maxText, maxCandidates *int
			switch args[0] {
			case "max_text":
				maxText = &n
			case "max_candidates":
				maxCandidates = &n
			default:
				return fmt.Errorf("unknown setting %q", args[0])
			}

			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if e.cfgPath == "" {
				return fmt.Errorf("no config file to save to")
			}
			if err := e.cfg.Update(e.cfgPath, maxText, maxCandidates); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %d in %s\n", args[0], n, e.cfgPath)
			return nil
		},
	}

	configCmd.AddCommand(pathCmd, setCmd)
	return configCmd
}
