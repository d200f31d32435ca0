package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/popsh-dev/popsh/internal/app"
	"github.com/popsh-dev/popsh/internal/config"
	"github.com/popsh-dev/popsh/internal/overlay"
	popshversion "github.com/popsh-dev/popsh/internal/version"
)

var (
	flagShell   string
	flagConfig  string
	flagLogFile string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "popsh",
		Short: "Popsh - Floating shell overlay for your terminal",
		Long: `Popsh wraps your shell in a pseudo-terminal and lets you summon a
second, floating shell on top of it with the Home key. Drag it by its
body, resize it by its corners, and dismiss it by clicking outside.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}
	rootCmd.Flags().StringVar(&flagShell, "shell", "", "shell to run (default $SHELL)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "config file (default ~/.popsh/config.yaml)")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "write logs to this file (default discard)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the popsh version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(popshversion.Format(popshversion.String()))
		},
	})
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	paths, err := config.EnsureDirs()
	if err != nil {
		return err
	}

	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = paths.Config
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if flagShell != "" {
		cfg.Shell = flagShell
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}

	closeLogs, err := setupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLogs()

	a, err := app.New(app.Options{
		Shell:     cfg.Shell,
		ShellArgs: cfg.ShellArgs,
		Geometry: overlay.Rect{
			X:      cfg.Overlay.X,
			Y:      cfg.Overlay.Y,
			Width:  cfg.Overlay.Width,
			Height: cfg.Overlay.Height,
		},
	})
	if err != nil {
		return err
	}
	return a.Run()
}

// setupLogging points the stdlib logger away from the terminal, which
// belongs to the UI for the whole run. Without a target, logs are
// discarded.
func setupLogging(target string) (func(), error) {
	if target == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(config.ExpandPath(target), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return func() { _ = f.Close() }, nil
}
