package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/app"
	"github.com/existflow/lifelist/internal/config"
	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/tui"
)

var (
	logLevel   string
	logFile    string
	logConsole bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lifelist",
	Short: "lifelist - your bucket list in the terminal",
	Long: `lifelist tracks life goals: organize them by category, break them into
tasks and milestones, log how you feel along the way, and celebrate them
when they are done.

Run 'lifelist' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		var err error
		cfg, err = config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		if err := logger.Init(app.LoggerConfig(cfg)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("lifelist started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(false)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("lifelist exiting", logger.F("command", cmd.Name()))
		_ = logger.Close()
	},
}

// runTUI launches the interactive UI, optionally straight into a guest session
func runTUI(guest bool) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		closeApp(a)
		logger.Info("Storage closed")
	}()

	if !guest {
		if _, err := restoreContext(a); err != nil {
			logger.Warn("Failed to restore context", logger.F("error", err))
		}
	} else {
		a.Store.StartGuest("")
	}

	logger.Info("Launching TUI")
	m := tui.NewModel(a.Store, tui.Options{
		SessionTimeout: cfg.SessionTimeout,
		ConfirmDelete:  cfg.ConfirmDelete,
		OnSelect: func(profileID string) {
			if err := SetContext(profileID); err != nil {
				logger.Warn("Failed to save context", logger.F("error", err))
			}
		},
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", logger.F("error", err))
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	logger.Info("TUI exited normally")
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(milestoneCmd)
	rootCmd.AddCommand(recurCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
}
