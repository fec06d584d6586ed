package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/richinsley/goshaderplay/config"
	"github.com/richinsley/goshaderplay/store"
	"github.com/spf13/cobra"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved shaders",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the saved shaders of the namespace",
	Args:  cobra.NoArgs,
	RunE: withStore(func(ctx context.Context, _ *config.Config, s *store.Store, _ []string) error {
		list, err := s.SavedShaders(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No saved shaders.")
			return nil
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "UUID\tNAME\tUPDATED")
		for _, rec := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.UUID, rec.Name, rec.UpdatedAt.Format(time.DateTime))
		}
		return tw.Flush()
	}),
}

var savedDeleteCmd = &cobra.Command{
	Use:   "delete <uuid>...",
	Short: "Delete saved shaders and their sources",
	Args:  cobra.MinimumNArgs(1),
	RunE: withStore(func(ctx context.Context, _ *config.Config, s *store.Store, args []string) error {
		for _, id := range args {
			if err := s.DeleteSavedShader(ctx, id); err != nil {
				return fmt.Errorf("deleting %s: %w", id, err)
			}
			fmt.Printf("Deleted %s\n", id)
		}
		return nil
	}),
}

var savedSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the live source, or --file, as a named shader",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(ctx context.Context, cfg *config.Config, s *store.Store, args []string) error {
		var source string
		if savedFile != "" {
			data, err := os.ReadFile(savedFile)
			if err != nil {
				return fmt.Errorf("reading shader: %w", err)
			}
			source = string(data)
		} else {
			live, err := s.GetShaderSource(ctx, cfg.ShaderID)
			if err != nil {
				return err
			}
			source = live
		}
		rec, err := s.SaveShader(ctx, args[0], source)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %q as %s\n", rec.Name, rec.UUID)
		return nil
	}),
}

var savedLoadCmd = &cobra.Command{
	Use:   "load <uuid>",
	Short: "Make a saved shader the live source of the next run",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(ctx context.Context, cfg *config.Config, s *store.Store, args []string) error {
		source, err := s.GetShaderSource(ctx, args[0])
		if err != nil {
			return err
		}
		if err := s.PutShaderSource(ctx, cfg.ShaderID, source); err != nil {
			return err
		}
		fmt.Printf("Loaded %s into %q\n", args[0], cfg.ShaderID)
		return nil
	}),
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove stored sources that are neither saved nor kept",
	Args:  cobra.NoArgs,
	RunE: withStore(func(ctx context.Context, cfg *config.Config, s *store.Store, _ []string) error {
		keep := append([]string{cfg.ShaderID}, cfg.Keep...)
		removed, err := s.Cleanup(ctx, keep)
		fmt.Printf("Removed %d stored source(s)\n", len(removed))
		return err
	}),
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the live source so the next run starts from the shader file",
	Args:  cobra.NoArgs,
	RunE: withStore(func(ctx context.Context, cfg *config.Config, s *store.Store, _ []string) error {
		if err := s.DeleteShaderSource(ctx, cfg.ShaderID); err != nil {
			return err
		}
		fmt.Printf("Cleared %q in %s\n", cfg.ShaderID, s.Namespace())
		return nil
	}),
}

var savedFile string

func init() {
	for _, c := range []*cobra.Command{savedListCmd, savedDeleteCmd, savedSaveCmd, savedLoadCmd, cleanupCmd, resetCmd} {
		c.Flags().String("namespace", "", "storage namespace (default: working directory)")
		c.Flags().String("storage", "", "SQLite database path")
		c.Flags().String("id", "", "name the live source is stored under")
	}
	savedSaveCmd.Flags().StringVar(&savedFile, "file", "", "shader file to save instead of the live source")
	savedCmd.AddCommand(savedListCmd, savedDeleteCmd, savedSaveCmd, savedLoadCmd)
	rootCmd.AddCommand(savedCmd, cleanupCmd, resetCmd)
}
