// Package source produces file changes for the pipeline from a diff
// provider: a local git repository, a GitHub pull request, or raw diff text
// piped in by the caller.
package source

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/chipkajb/mr-bot/internal/diff"
	"github.com/chipkajb/mr-bot/internal/model"
)

// GitDiff runs `git diff` with the given arguments and returns the raw output.
func GitDiff(repoDir string, args ...string) (string, error) {
	cmdArgs := append([]string{"diff"}, args...)
	cmd := exec.Command("git", cmdArgs...)
	cmd.Dir = repoDir
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}

	return string(out), nil
}

// RepoRoot returns the top-level directory of the git repository containing
// the working directory.
func RepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// FromGit diffs sourceBranch against targetBranch in a local repository and
// returns the per-file changes plus request metadata built from the branch
// head commit.
func FromGit(repoDir, sourceBranch, targetBranch string, contextLines int) ([]model.FileChange, model.ReviewRequest, error) {
	spec := fmt.Sprintf("%s...%s", targetBranch, sourceBranch)
	raw, err := GitDiff(repoDir, fmt.Sprintf("-U%d", contextLines), spec)
	if err != nil {
		return nil, model.ReviewRequest{}, err
	}

	changes, err := diff.Split(raw)
	if err != nil {
		return nil, model.ReviewRequest{}, err
	}

	req := model.ReviewRequest{
		ID:           "local_" + sourceBranch,
		Title:        headSubject(repoDir, sourceBranch),
		Author:       headAuthor(repoDir, sourceBranch),
		SourceBranch: sourceBranch,
		TargetBranch: targetBranch,
		Description:  fmt.Sprintf("Local diff from %s to %s", sourceBranch, targetBranch),
	}
	if req.Title == "" {
		req.Title = fmt.Sprintf("Diff: %s -> %s", sourceBranch, targetBranch)
	}

	return changes, req, nil
}

// FromRaw splits an already-obtained unified diff (e.g. piped via stdin)
// into per-file changes.
func FromRaw(raw, label string) ([]model.FileChange, model.ReviewRequest, error) {
	changes, err := diff.Split(raw)
	if err != nil {
		return nil, model.ReviewRequest{}, err
	}
	req := model.ReviewRequest{
		ID:    label,
		Title: "Piped diff",
	}
	return changes, req, nil
}

func headSubject(repoDir, ref string) string {
	return gitShow(repoDir, ref, "%s")
}

func headAuthor(repoDir, ref string) string {
	if a := gitShow(repoDir, ref, "%an"); a != "" {
		return a
	}
	return "Unknown"
}

func gitShow(repoDir, ref, format string) string {
	cmd := exec.Command("git", "show", "-s", "--format="+format, ref)
	cmd.Dir = repoDir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
