package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/orchestrator"
	"github.com/aristath/taskblaster/internal/worktree"
)

func newStartCmd(a *app) *cobra.Command {
	var (
		repo       string
		base       string
		noWorktree bool
	)
	cmd := &cobra.Command{
		Use:   "start <CODE-N>",
		Short: "Create a task branch and worktree and record it on the task",
		Long: `Start work on a task: create a task/<CODE-N> branch in its own git
worktree and record the branch on the task. A TODO task moves to IN_PROGRESS.

With --no-worktree the branch currently checked out in --repo is recorded
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			displayID := strings.ToUpper(args[0])
			code, _, err := board.ParseDisplayID(displayID)
			if err != nil {
				return err
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			mover := a.newMover(store, nil)

			if _, err := mover.GetTask(ctx, code, displayID); err != nil {
				return err
			}

			manager := worktree.NewManager(worktree.Config{RepoPath: repo, BaseBranch: base})
			var branch, path string
			if noWorktree {
				if branch, err = manager.CurrentBranch(ctx, repo); err != nil {
					return err
				}
				if branch == "" {
					return fmt.Errorf("%s has a detached HEAD, no branch to record", repo)
				}
			} else {
				info, found, err := manager.Lookup(ctx, displayID)
				if err != nil {
					return err
				}
				if !found {
					if info, err = manager.Create(ctx, displayID); err != nil {
						return err
					}
				}
				branch, path = info.Branch, info.Path
			}

			task, err := mover.UpdateTask(ctx, code, displayID, orchestrator.TaskPatch{GitFeatureBranch: &branch})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s on %s\n", task.DisplayID, task.Status, branch)
			if path != "" {
				fmt.Fprintf(out, "worktree: %s\n", path)
			}
			return nil
		},
	}
	cwd, _ := os.Getwd()
	cmd.Flags().StringVar(&repo, "repo", cwd, "git repository")
	cmd.Flags().StringVar(&base, "base", "", "branch to start from (default HEAD)")
	cmd.Flags().BoolVar(&noWorktree, "no-worktree", false, "record the current branch instead of creating a worktree")
	return cmd
}
