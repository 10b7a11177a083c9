package main

import (
	"os"

	"github.com/bastiangx/wordexpand/internal/logger"
	"github.com/bastiangx/wordexpand/internal/utils"
	"github.com/bastiangx/wordexpand/pkg/config"
	"github.com/bastiangx/wordexpand/pkg/expand"
	"github.com/bastiangx/wordexpand/pkg/triggers"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const defaultTriggersFile = "triggers.toml"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: "WordExpand expands short triggers into longer text",
		Long: `WordExpand offers trigger candidates for the text in front of a cursor and
applies the chosen expansion. Run "serve" for editor integrations or "cli" to try it out.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			format, _ := cmd.Flags().GetString("log-format")
			logger.Setup(os.Stderr, debug, format)
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the TOML config file")
	rootCmd.PersistentFlags().String("triggers", "", "Path to the trigger file (.toml, .yaml or .json)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Toggle debug mode")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text, json or logfmt")

	rootCmd.AddCommand(
		newServeCmd(),
		newCliCmd(),
		newMatchCmd(),
		newTriggersCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// env is what every command needs: the config and the trigger store.
type env struct {
	cfg     *config.Config
	cfgPath string
	store   *triggers.Store
}

// loadEnv resolves the config and trigger file the same way for every command:
// flags first, then the user config dir, then defaults.
func loadEnv(cmd *cobra.Command) (*env, error) {
	configFlag, _ := cmd.Flags().GetString("config")
	triggersFlag, _ := cmd.Flags().GetString("triggers")

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
		pathResolver = nil
	}

	cfg, cfgPath := config.LoadConfigWithPriority(configFlag, pathResolver)
	log.Debugf("Using config file: (%s)", cfgPath)

	path := triggersFlag
	if path == "" {
		path = cfg.Triggers.Path
	}
	if pathResolver != nil {
		if path, err = pathResolver.ResolveFile(path, defaultTriggersFile); err != nil {
			return nil, err
		}
	}

	store, err := triggers.Open(path, expand.New(cfg.EngineOptions()...))
	if err != nil {
		return nil, err
	}
	log.Debugf("Using trigger file: (%s)", store.Path())
	return &env{cfg: cfg, cfgPath: cfgPath, store: store}, nil
}
