package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/app"
	"github.com/existflow/lifelist/internal/config"
	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/session"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show or clear the remembered profile",
	Long: `Show which profile commands act on, or forget it.

The active profile is remembered between invocations until the session
times out (see session_timeout in ~/.lifelist/config.yaml).

Examples:
  lifelist context          # Show the active profile
  lifelist context clear    # Forget it`,
	RunE: runContextShow,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the active profile",
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextClearCmd)
}

// Context file path
func contextFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "context"), nil
}

// GetCurrentContext returns the remembered profile id (empty when none)
func GetCurrentContext() string {
	path, err := contextFilePath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetContext remembers profileID for later invocations
func SetContext(profileID string) error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(profileID), 0644)
}

// ClearContext removes the context file
func ClearContext() error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// restoreContext selects the remembered profile when its session is still
// alive. An expired or dangling context is cleared.
func restoreContext(a *app.App) (bool, error) {
	id := GetCurrentContext()
	if id == "" {
		return false, nil
	}

	p, err := a.Store.Profile(id)
	if err != nil {
		logger.Warn("Context points at a missing profile", logger.F("profile", id))
		return false, ClearContext()
	}
	if !session.Alive(p.LastActive, time.Now(), a.Config.SessionTimeout) {
		fmt.Printf("⏱  Session for %s expired, select a profile again with 'lifelist profile use'\n", p.Name)
		logger.Info("Session expired", logger.F("profile", id))
		return false, ClearContext()
	}

	if _, err := a.Store.SelectProfile(id); err != nil {
		return false, err
	}
	return true, nil
}

func runContextShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp(a)

	ok, err := restoreContext(a)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("👤 No active profile. Use 'lifelist profile use <name>' or 'lifelist profile guest'")
		return nil
	}

	p, _ := a.Store.CurrentProfile()
	st := a.Store.Stats()
	fmt.Printf("👤 Current profile: %s (%d/%d goals completed)\n", p.Name, st.Completed, st.Total)
	return nil
}

func runContextClear(cmd *cobra.Command, args []string) error {
	if err := ClearContext(); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Println("👋 Context cleared")
	return nil
}
