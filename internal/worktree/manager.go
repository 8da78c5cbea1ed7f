// Package worktree gives each started task its own git branch and
// checkout. The branch name is what gets recorded on the task, which moves
// it to IN_PROGRESS.
package worktree

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/aristath/taskblaster/internal/board"
)

// BranchPrefix starts every task branch.
const BranchPrefix = "task/"

// taskIDPattern keeps display IDs usable as path and ref components.
var taskIDPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}-[1-9][0-9]*$`)

// Manager creates and removes task worktrees.
type Manager struct {
	config Config
	mu     sync.Mutex // Serializes git operations on the main repo
}

// NewManager creates a new worktree manager.
func NewManager(cfg Config) *Manager {
	if cfg.WorktreeDir == "" {
		cfg.WorktreeDir = ".worktrees"
	}
	return &Manager{config: cfg}
}

// BranchFor returns the branch name of a task.
func BranchFor(displayID string) string {
	return BranchPrefix + displayID
}

func (m *Manager) git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("git %s: %w (output: %s)", args[0], err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// Create makes a worktree on a fresh task/<displayID> branch.
func (m *Manager) Create(ctx context.Context, displayID string) (*Info, error) {
	if !taskIDPattern.MatchString(displayID) {
		return nil, fmt.Errorf("%w: malformed task id %q", board.ErrValidation, displayID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	branch := BranchFor(displayID)
	wtPath, err := filepath.Abs(filepath.Join(m.config.RepoPath, m.config.WorktreeDir, displayID))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve worktree path: %w", err)
	}

	args := []string{"worktree", "add", "-b", branch, wtPath}
	if m.config.BaseBranch != "" {
		args = append(args, m.config.BaseBranch)
	}
	if _, err := m.git(ctx, m.config.RepoPath, args...); err != nil {
		return nil, fmt.Errorf("failed to create worktree for %s: %w", displayID, err)
	}

	head, err := m.git(ctx, wtPath, "rev-parse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD commit: %w", err)
	}

	return &Info{
		Path:   wtPath,
		Branch: branch,
		TaskID: displayID,
		Head:   strings.TrimSpace(head),
	}, nil
}

// Lookup finds the worktree of a task.
func (m *Manager) Lookup(ctx context.Context, displayID string) (*Info, bool, error) {
	worktrees, err := m.List(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range worktrees {
		if worktrees[i].TaskID == displayID {
			return &worktrees[i], true, nil
		}
	}
	return nil, false, nil
}

// CurrentBranch reports the branch checked out in dir. A detached HEAD
// yields an empty name.
func (m *Manager) CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := m.git(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to read current branch: %w", err)
	}
	branch := strings.TrimSpace(out)
	if branch == "HEAD" {
		return "", nil
	}
	return branch, nil
}

// Remove deletes the worktree and its branch. Without force, a dirty
// worktree or an unmerged branch is an error.
func (m *Manager) Remove(ctx context.Context, info *Info, force bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []string

	removeArgs := []string{"worktree", "remove", info.Path}
	branchArgs := []string{"branch", "-d", info.Branch}
	if force {
		removeArgs = []string{"worktree", "remove", "--force", info.Path}
		branchArgs = []string{"branch", "-D", info.Branch}
	}

	if _, err := m.git(ctx, m.config.RepoPath, removeArgs...); err != nil {
		errs = append(errs, fmt.Sprintf("worktree remove failed: %v", err))
	}
	if _, err := m.git(ctx, m.config.RepoPath, branchArgs...); err != nil {
		errs = append(errs, fmt.Sprintf("branch delete failed: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// List returns all worktrees in the repository
func (m *Manager) List(ctx context.Context) ([]Info, error) {
	output, err := m.git(ctx, m.config.RepoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}
	return parsePorcelain(output), nil
}

func parsePorcelain(output string) []Info {
	var worktrees []Info
	var current Info

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			// Empty line signals end of a worktree entry
			if current.Path != "" {
				worktrees = append(worktrees, current)
				current = Info{}
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
			if id, ok := strings.CutPrefix(current.Branch, BranchPrefix); ok {
				current.TaskID = id
			}
		}
	}

	if current.Path != "" {
		worktrees = append(worktrees, current)
	}
	return worktrees
}

// Prune cleans up stale worktree metadata
func (m *Manager) Prune(ctx context.Context) error {
	if _, err := m.git(ctx, m.config.RepoPath, "worktree", "prune"); err != nil {
		return fmt.Errorf("failed to prune worktrees: %w", err)
	}
	return nil
}
