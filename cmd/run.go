package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/richinsley/goshaderplay/config"
	"github.com/richinsley/goshaderplay/editor"
	"github.com/richinsley/goshaderplay/frameloop"
	"github.com/richinsley/goshaderplay/glfwcontext"
	"github.com/richinsley/goshaderplay/overlay"
	"github.com/richinsley/goshaderplay/playground"
	"github.com/richinsley/goshaderplay/renderer"
	"github.com/richinsley/goshaderplay/translator"
	"github.com/richinsley/goshaderplay/watch"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the playground window (default)",
	RunE:  runPlayground,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("shader", "", "fragment shader file to start from")
	f.Int("width", 0, "window width")
	f.Int("height", 0, "window height")
	f.Float64("resolution", 0, "render resolution, 0.5 or 1")
	f.Bool("edit", false, "show the editor on start")
	f.Int("delay", 0, "milliseconds to wait after an edit before compiling")
	f.Bool("watch", false, "reload the shader file when it changes on disk")
	f.String("namespace", "", "storage namespace (default: working directory)")
	f.String("storage", "", "SQLite database path")
	f.Bool("ephemeral", false, "keep sources in memory only")
	f.String("id", "", "name the live source is stored under")
	f.String("load", "", "open the saved shader with this UUID")
}

// applyRunFlags overrides cfg with the flags given on the command line.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	changed := func(name string) bool {
		return f.Lookup(name) != nil && f.Changed(name)
	}
	if changed("shader") {
		cfg.ShaderFile, _ = f.GetString("shader")
	}
	if changed("width") {
		cfg.Width, _ = f.GetInt("width")
	}
	if changed("height") {
		cfg.Height, _ = f.GetInt("height")
	}
	if changed("resolution") {
		cfg.Resolution, _ = f.GetFloat64("resolution")
	}
	if changed("edit") {
		cfg.EditMode, _ = f.GetBool("edit")
	}
	if changed("delay") {
		cfg.RenderDelayMs, _ = f.GetInt("delay")
	}
	if changed("watch") {
		cfg.Watch, _ = f.GetBool("watch")
	}
	if changed("namespace") {
		cfg.Namespace, _ = f.GetString("namespace")
	}
	if changed("storage") {
		cfg.StoragePath, _ = f.GetString("storage")
	}
	if changed("ephemeral") {
		cfg.Ephemeral, _ = f.GetBool("ephemeral")
	}
	if changed("id") {
		cfg.ShaderID, _ = f.GetString("id")
	}
}

func runPlayground(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var source string
	if cfg.ShaderFile != "" {
		data, err := os.ReadFile(cfg.ShaderFile)
		if err != nil {
			return fmt.Errorf("reading shader: %w", err)
		}
		source = string(data)
	}

	tr, err := translator.New()
	if err != nil {
		return err
	}
	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		backend.Close()
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	title := "shaderplay"
	if cfg.ShaderFile != "" {
		title += " - " + filepath.Base(cfg.ShaderFile)
	}
	win, err := glfwcontext.New(cfg.Width, cfg.Height, title, true)
	if err != nil {
		backend.Close()
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Shutdown()

	loop := frameloop.New(time.Now())
	ctl := playground.New(cfg, playground.Deps{
		Window:     win,
		Translator: tr,
		Backend:    backend,
		Loop:       loop,
		NewCompositor: func(dev renderer.Device, m *editor.FaceMetrics) (playground.Compositor, error) {
			o, err := overlay.New(dev, m)
			if err != nil {
				return nil, err
			}
			return o, nil
		},
		Source: source,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ctl.Initialize(ctx); err != nil {
		backend.Close()
		return err
	}
	defer func() {
		if err := ctl.Dispose(); err != nil {
			log.Printf("Warning: %v", err)
		}
	}()

	if id, _ := cmd.Flags().GetString("load"); id != "" {
		if err := ctl.Load(ctx, id); err != nil {
			return err
		}
	}

	if cfg.Watch {
		w, err := watch.New(cfg.ShaderFile, loop, ctl.ExternalEdit)
		if err != nil {
			return err
		}
		go w.Run(ctx)
		log.Printf("Watching %s", w.Path())
	}

	log.Println("Starting interactive render loop...")
	if err := loop.Run(ctx, win); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
