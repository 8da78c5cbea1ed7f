package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/worktree"
)

func newFinishCmd(a *app) *cobra.Command {
	var (
		repo  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "finish <CODE-N>",
		Short: "Remove a task's worktree and move the task to DONE",
		Long: `Finish a task started with "start": remove its task/<CODE-N> worktree and
branch, prune stale worktree metadata, and move the task to DONE.

A dirty worktree or an unmerged branch is kept unless --force is given.`,
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

			out := cmd.OutOrStdout()
			manager := worktree.NewManager(worktree.Config{RepoPath: repo})
			info, found, err := manager.Lookup(ctx, displayID)
			if err != nil {
				return err
			}
			if found {
				if err := manager.Remove(ctx, info, force); err != nil {
					return err
				}
				fmt.Fprintf(out, "removed worktree: %s\n", info.Path)
			}
			if err := manager.Prune(ctx); err != nil {
				return err
			}

			task, err := mover.ChangeStatus(ctx, code, displayID, board.StatusDone)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", task.DisplayID, task.Status)
			return nil
		},
	}
	cwd, _ := os.Getwd()
	cmd.Flags().StringVar(&repo, "repo", cwd, "git repository")
	cmd.Flags().BoolVar(&force, "force", false, "remove a dirty worktree and an unmerged branch")
	return cmd
}
