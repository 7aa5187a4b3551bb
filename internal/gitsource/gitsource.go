// Package gitsource keeps local clones of remote card repositories.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// Sync clones a git repository if it doesn't exist at the given path,
// or pulls the latest changes if it does.
func Sync(ctx context.Context, logger *zap.Logger, url, localPath string) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("url", url), zap.String("path", localPath))

	_, err := os.Stat(localPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info("cloning repository")
		if _, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{URL: url}); err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", url, err)
		}
		log.Info("clone complete")

	case err == nil:
		log.Info("pulling latest changes")
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}

		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}

		err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			log.Debug("already up to date")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
		log.Info("pull complete")

	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}

	return nil
}

// LocalPath maps a repository URL to a directory under baseDir. Both
// https://host/owner/repo.git and git@host:owner/repo.git forms map to
// baseDir/host/owner/repo.
func LocalPath(baseDir, repoURL string) (string, error) {
	u, err := url.Parse(repoURL)
	if err == nil && (u.Scheme == "https" || u.Scheme == "http") && u.Host != "" {
		p := strings.Trim(strings.TrimSuffix(u.Path, ".git"), "/")
		if p == "" {
			return "", fmt.Errorf("git URL has no repository path: %s", repoURL)
		}
		return filepath.Join(baseDir, u.Host, filepath.FromSlash(p)), nil
	}

	// scp-like syntax: user@host:path
	userHost, repoPath, ok := strings.Cut(repoURL, ":")
	if ok && strings.Contains(userHost, "@") {
		_, host, _ := strings.Cut(userHost, "@")
		repoPath = strings.Trim(strings.TrimSuffix(repoPath, ".git"), "/")
		if host != "" && repoPath != "" {
			return filepath.Join(baseDir, host, filepath.FromSlash(repoPath)), nil
		}
	}

	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}
