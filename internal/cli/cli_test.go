package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aristath/taskblaster/internal/config"
)

const fixture = `
projects:
  - code: WEB
    title: Website
    tasks:
      - key: schema
        title: Design schema
      - title: Build API
        after: [schema]
`

// env isolates a test from the user's config and returns a scratch dir.
func env(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	base := []string{
		"--config", filepath.Join(dir, "config.json"),
		"--db", filepath.Join(dir, "board.db"),
	}
	root.SetArgs(append(args, base...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInitWritesConfig(t *testing.T) {
	dir := env(t)

	out, err := run(t, dir, "init")
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	if !strings.Contains(out, "config.json") {
		t.Errorf("output = %q", out)
	}

	cfg, err := config.Load("", filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Server.Addr != config.DefaultConfig().Server.Addr {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	if _, err := run(t, dir, "init"); err == nil {
		t.Error("expected init to refuse overwriting")
	}
	if _, err := run(t, dir, "init", "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	dir := env(t)

	out, err := run(t, dir, "migrate")
	if err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	if !strings.Contains(out, "schema version") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "board.db")); err != nil {
		t.Errorf("database not created: %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	dir := env(t)
	path := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, dir, "seed", "--file", path)
	if err != nil {
		t.Fatalf("seed error = %v", err)
	}
	if !strings.Contains(out, "1 projects, 2 tasks") {
		t.Errorf("first seed output = %q", out)
	}

	out, err = run(t, dir, "seed", "--file", path)
	if err != nil {
		t.Fatalf("second seed error = %v", err)
	}
	if !strings.Contains(out, "0 tasks") || !strings.Contains(out, "1 existing projects skipped") {
		t.Errorf("second seed output = %q", out)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	dir := env(t)
	if _, err := run(t, dir, "migrate", "--log-level", "loud"); err == nil {
		t.Error("expected error for unknown log level")
	}
}

// seededRepo seeds the fixture and creates a git repository in dir/repo
// with one commit on branch.
func seededRepo(t *testing.T, dir, branch string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	path := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, dir, "seed", "--file", path); err != nil {
		t.Fatal(err)
	}

	repo := filepath.Join(dir, "repo")
	if err := os.MkdirAll(repo, 0755); err != nil {
		t.Fatal(err)
	}
	for _, args := range [][]string{
		{"init"},
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
		{"checkout", "-b", branch},
		{"commit", "--allow-empty", "-m", "initial commit"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = repo
		if output, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v (output: %s)", args, err, output)
		}
	}
	return repo
}

func TestStartRecordsCurrentBranch(t *testing.T) {
	dir := env(t)
	repo := seededRepo(t, dir, "feature/schema")

	out, err := run(t, dir, "start", "web-1", "--repo", repo, "--no-worktree")
	if err != nil {
		t.Fatalf("start error = %v", err)
	}
	if !strings.Contains(out, "WEB-1 IN_PROGRESS on feature/schema") {
		t.Errorf("output = %q", out)
	}
}

func TestStartThenFinish(t *testing.T) {
	dir := env(t)
	repo := seededRepo(t, dir, "main")

	out, err := run(t, dir, "start", "web-2", "--repo", repo)
	if err != nil {
		t.Fatalf("start error = %v", err)
	}
	if !strings.Contains(out, "WEB-2 IN_PROGRESS on task/WEB-2") {
		t.Errorf("start output = %q", out)
	}
	wt := filepath.Join(repo, ".worktrees", "WEB-2")
	if _, err := os.Stat(wt); err != nil {
		t.Fatalf("worktree not created: %v", err)
	}

	out, err = run(t, dir, "finish", "web-2", "--repo", repo)
	if err != nil {
		t.Fatalf("finish error = %v", err)
	}
	if !strings.Contains(out, "removed worktree") || !strings.Contains(out, "WEB-2 DONE") {
		t.Errorf("finish output = %q", out)
	}
	if _, err := os.Stat(wt); !os.IsNotExist(err) {
		t.Errorf("worktree still on disk after finish")
	}
	branches, err := exec.Command("git", "-C", repo, "branch", "--list", "task/WEB-2").CombinedOutput()
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(branches)) != "" {
		t.Errorf("task branch survived finish: %s", branches)
	}

	// Nothing left to remove; the task is already DONE.
	out, err = run(t, dir, "finish", "web-2", "--repo", repo)
	if err != nil {
		t.Fatalf("second finish error = %v", err)
	}
	if strings.Contains(out, "removed worktree") || !strings.Contains(out, "WEB-2 DONE") {
		t.Errorf("second finish output = %q", out)
	}
}

func TestFinishUnknownTask(t *testing.T) {
	dir := env(t)
	repo := seededRepo(t, dir, "main")

	if _, err := run(t, dir, "finish", "web-9", "--repo", repo); err == nil {
		t.Error("expected an error for an unknown task")
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hello", "n", 1)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not JSON: %q", buf.String())
	}
	if line["msg"] != "hello" {
		t.Errorf("msg = %v", line["msg"])
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	dir := env(t)
	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "board.db")
	a := &app{cfg: cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("healthz status = %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
