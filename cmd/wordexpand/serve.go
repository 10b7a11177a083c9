package main

import (
	"context"
	"os"

	"github.com/bastiangx/wordexpand/internal/metrics"
	"github.com/bastiangx/wordexpand/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the msgpack IPC server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			watch := e.cfg.Triggers.Watch
			if cmd.Flags().Changed("watch") {
				watch, _ = cmd.Flags().GetBool("watch")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			m := metrics.New()
			if addr := e.cfg.Metrics.Addr; addr != "" {
				go func() {
					if err := m.Serve(ctx, addr); err != nil {
						log.Errorf("Metrics server: %v", err)
					}
				}()
			}
			if watch {
				go func() {
					if err := e.store.Watch(ctx, e.cfg.Debounce()); err != nil {
						log.Errorf("Trigger watcher: %v", err)
					}
				}()
			}

			srv := server.NewServer(e.store, e.cfg, e.cfgPath, server.WithMetrics(m))
			showStartupInfo(e, watch)
			return srv.Start(ctx)
		},
	}
	serveCmd.Flags().Bool("watch", false, "Reload the trigger file when it changes (default from config)")
	return serveCmd
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(e *env, watch bool) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("triggers: ( %s ) [ %d loaded ]", e.store.Path(), e.store.Len())
	log.Info("watch", "enabled", watch)
	if e.cfg.Metrics.Addr != "" {
		log.Infof("metrics: http://%s/metrics", e.cfg.Metrics.Addr)
	}
	log.Info("status: ready")
}
