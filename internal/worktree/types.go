package worktree

// Info describes a task worktree.
type Info struct {
	Path   string // Absolute path to the worktree directory
	Branch string // Branch name, e.g. "task/WEBRED-7"
	TaskID string // Display ID of the task, empty for non-task worktrees
	Head   string // Current HEAD commit hash
}

// Config configures a Manager.
type Config struct {
	RepoPath    string // Path to the git repository
	BaseBranch  string // Branch new task branches start from; empty means HEAD
	WorktreeDir string // Directory under the repo for worktrees (default ".worktrees")
}
