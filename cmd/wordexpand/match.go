package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	matchCmd := &cobra.Command{
		Use:   "match <text>",
		Short: "Print the candidates for a text",
		Long:  `Prints one candidate per line as key, expansion and the strategies that matched, separated by tabs.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			text := args[0]
			// out of range cursors are clamped by the engine
			cursor := utf8.RuneCountInString(text)
			if cmd.Flags().Changed("cursor") {
				cursor, _ = cmd.Flags().GetInt("cursor")
			}

			out := cmd.OutOrStdout()
			matches := e.store.Index().Explain(text, cursor)
			if len(matches) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No candidates found.")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(out, "%s\t%s\t%s\n", m.Trigger.Key, m.Trigger.Expansion, strings.Join(m.Strategies.Names(), ","))
			}
			return nil
		},
	}
	matchCmd.Flags().Int("cursor", 0, "Cursor position in runes (default: end of text)")
	return matchCmd
}
