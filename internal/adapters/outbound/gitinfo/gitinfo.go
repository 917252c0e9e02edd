package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/invoicer/invoicer/internal/domain"
)

// GitInfoAdapter implements domain.VersionInfo using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

// open finds the repository containing path, walking up parent directories
// the way git itself does.
func open(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

// CommitHash returns the full HEAD hash of the repository containing path.
func (g *GitInfoAdapter) CommitHash(path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", fmt.Errorf("no git repository at %s: %w", path, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD of %s: %w", path, err)
	}

	return head.Hash().String(), nil
}

var _ domain.VersionInfo = (*GitInfoAdapter)(nil)
