package main

import (
	"context"
	"fmt"

	"github.com/richinsley/goshaderplay/config"
	"github.com/richinsley/goshaderplay/store"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "shaderplay",
	Short: "Live GLSL fragment shader playground",
	Long: `shaderplay opens a window that renders a WebGL2 fragment shader and an
editor to change it. Edits are compiled after a short pause, errors are shown
next to the offending line, and the source is kept between runs.`,
	SilenceUsage: true,
	RunE:         runPlayground,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	addRunFlags(rootCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// openBackend returns the configured storage: SQLite on disk, or memory when
// ephemeral.
func openBackend(cfg *config.Config) (store.Backend, error) {
	if cfg.Ephemeral {
		return store.NewMemoryBackend(), nil
	}
	path, err := cfg.ResolveStoragePath()
	if err != nil {
		return nil, fmt.Errorf("resolving storage path: %w", err)
	}
	return store.OpenSQLite(path)
}

// openStore opens the namespace's store for the catalogue commands.
func openStore(cfg *config.Config) (*store.Store, error) {
	namespace, err := cfg.ResolveNamespace()
	if err != nil {
		return nil, err
	}
	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	return store.New(backend, namespace), nil
}

// withStore loads the configuration and opens the store around f.
func withStore(f func(ctx context.Context, cfg *config.Config, s *store.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyRunFlags(cmd, cfg)
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()
		return f(cmd.Context(), cfg, s, args)
	}
}
