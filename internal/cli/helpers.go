package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/existflow/lifelist/internal/app"
	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/store"
)

// openApp opens the store described by the loaded config
func openApp() (*app.App, error) {
	a, err := app.Open(cfg, logger.Default())
	if err != nil {
		logger.Error("Failed to open store", logger.F("error", err))
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		logger.Warn("Failed to close storage", logger.F("error", err))
	}
}

// openWithProfile opens the store and restores the remembered profile
func openWithProfile() (*app.App, error) {
	a, err := openApp()
	if err != nil {
		return nil, err
	}
	ok, err := restoreContext(a)
	if err != nil {
		closeApp(a)
		return nil, err
	}
	if !ok {
		closeApp(a)
		return nil, fmt.Errorf("%w: run 'lifelist profile use <name>' first", store.ErrNoActiveProfile)
	}
	return a, nil
}

// resolveGoal accepts a 1-based list position or an id prefix
func resolveGoal(st *store.Store, ref string) (model.Goal, error) {
	goals, err := st.Goals()
	if err != nil {
		return model.Goal{}, err
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(goals) {
		return goals[n-1], nil
	}

	var match *model.Goal
	for i := range goals {
		if strings.HasPrefix(goals[i].ID, ref) {
			if match != nil {
				return model.Goal{}, fmt.Errorf("ambiguous goal id %q", ref)
			}
			match = &goals[i]
		}
	}
	if match == nil {
		return model.Goal{}, fmt.Errorf("%w: %s", store.ErrGoalNotFound, ref)
	}
	return *match, nil
}

// resolveTask accepts a 1-based position within the goal or an id prefix
func resolveTask(g model.Goal, ref string) (model.Task, error) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(g.Tasks) {
		return g.Tasks[n-1], nil
	}
	var match *model.Task
	for i := range g.Tasks {
		if strings.HasPrefix(g.Tasks[i].ID, ref) {
			if match != nil {
				return model.Task{}, fmt.Errorf("ambiguous task id %q", ref)
			}
			match = &g.Tasks[i]
		}
	}
	if match == nil {
		return model.Task{}, fmt.Errorf("%w: %s", store.ErrTaskNotFound, ref)
	}
	return *match, nil
}

// findProfile matches a profile by id prefix or case-insensitive name
func findProfile(st *store.Store, ref string) (model.Profile, error) {
	var found []model.Profile
	for _, p := range st.Profiles() {
		if p.ID == ref || strings.EqualFold(p.Name, ref) {
			return p, nil
		}
		if strings.HasPrefix(p.ID, ref) {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return model.Profile{}, fmt.Errorf("%w: %s", store.ErrProfileNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return model.Profile{}, fmt.Errorf("ambiguous profile %q", ref)
	}
}

// confirm asks a y/N question on stdin
func confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	var response string
	_, _ = fmt.Scanln(&response)
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

// readPassphrase prompts without echo on a terminal and reads a plain line otherwise
func readPassphrase(prompt string, twice bool) (string, error) {
	read := func(p string) (string, error) {
		fmt.Fprint(os.Stderr, p)
		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(os.Stderr)
			return string(b), err
		}
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	pass, err := read(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	if pass == "" {
		return "", errors.New("passphrase must not be empty")
	}
	if twice {
		again, err := read("Repeat passphrase: ")
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		if again != pass {
			return "", errors.New("passphrases do not match")
		}
	}
	return pass, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// resolveMilestone accepts a 1-based position within the goal or an id prefix
func resolveMilestone(g model.Goal, ref string) (model.Milestone, error) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(g.Milestones) {
		return g.Milestones[n-1], nil
	}
	for _, m := range g.Milestones {
		if strings.HasPrefix(m.ID, ref) {
			return m, nil
		}
	}
	return model.Milestone{}, fmt.Errorf("%w: %s", store.ErrMilestoneNotFound, ref)
}
