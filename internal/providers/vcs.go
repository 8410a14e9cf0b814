package providers

import (
	"github.com/thomas-vilte/repograde/internal/config"
	"github.com/thomas-vilte/repograde/internal/vcs"
	"github.com/thomas-vilte/repograde/internal/vcs/github"
)

// NewContentHost creates the repository host client. An empty token means anonymous access.
func NewContentHost(cfg *config.Config) vcs.ContentHost {
	return github.NewGitHubClient(cfg.GitHub.Token)
}
