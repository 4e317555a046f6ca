package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vireo-tui/vireo/config"
	"github.com/vireo-tui/vireo/engine"
	"github.com/vireo-tui/vireo/store"
	"github.com/vireo-tui/vireo/term"
)

var (
	demoDebug   bool
	demoVerbose bool
	demoMode    string
	demoNoColor bool
	demoBudget  time.Duration
)

// rootCmd is vireo-demo's single command: load config, mount the counter-
// and-list tree, and run it through bubbletea's input loop until the user
// quits or sends an interrupt.
var rootCmd = &cobra.Command{
	Use:   "vireo-demo",
	Short: "Run the vireo counter-and-list demo",
	Long:  "Run a small counter-and-list application through the full vireo reactive -> layout -> frame -> render pipeline.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("mode") {
			cfg.RenderMode = demoMode
		}
		if cmd.Flags().Changed("no-color") {
			cfg.NoColor = demoNoColor
		}
		if cmd.Flags().Changed("fps-budget") {
			cfg.FPSBudget = demoBudget
		}
		if demoDebug {
			cfg.LogLevel = "debug"
		}
		cfg.Apply()

		if demoVerbose {
			fmt.Fprintf(os.Stderr, "%s render mode=%v budget=%v\n", color.YellowString("Info:"), cfg.Mode(), cfg.Budget())
		}

		screen := term.NewStdoutScreen()
		profile := term.DetectColorProfile()
		if cfg.NoColor {
			profile = term.ProfileAscii
		}

		width, height := 80, 24

		st := store.New()
		eng := engine.Mount(st, buildDemoRoot, engine.Options{
			Mode:          cfg.Mode(),
			Profile:       profile,
			Sink:          screen,
			InitialWidth:  width,
			InitialHeight: height,
			FrameBudget:   cfg.Budget(),
		})
		defer engine.Unmount(eng)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			if demoDebug {
				fmt.Fprintf(os.Stderr, "%s received interrupt, shutting down\n", color.YellowString("Info:"))
			}
			cancel()
		}()

		// Resizes arrive as tea.WindowSizeMsg through Update -> eng.Dispatch,
		// which already routes them to Resize; no separate SIGWINCH watcher
		// is needed while bubbletea owns the input loop.
		program := tea.NewProgram(
			model{eng: eng},
			tea.WithMouseCellMotion(),
			tea.WithContext(ctx),
			tea.WithoutRenderer(),
		)

		if _, err := program.Run(); err != nil {
			return fmt.Errorf("run demo: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&demoDebug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&demoVerbose, "verbose", "v", false, "enable verbose startup info")
	rootCmd.Flags().StringVar(&demoMode, "mode", "fullscreen", "render mode: fullscreen, inline, or append")
	rootCmd.Flags().BoolVar(&demoNoColor, "no-color", false, "force ASCII-only output, ignoring terminal color detection")
	rootCmd.Flags().DurationVar(&demoBudget, "fps-budget", 2*time.Millisecond, "per-frame time budget before a slow-frame warning is logged")
}
