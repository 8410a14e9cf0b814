package vcs

import (
	"fmt"
	"net/url"
	"strings"

	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/models"
	"github.com/thomas-vilte/repograde/internal/regex"
)

const DefaultHost = "github.com"

// ParseRepositoryURL resolves a repository URL of the host/owner/name shape into a reference.
// The scheme is optional, a trailing ".git" and any path after the name are ignored.
func ParseRepositoryURL(raw, host string) (models.RepositoryRef, error) {
	if host == "" {
		host = DefaultHost
	}
	host = strings.ToLower(host)

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.RepositoryRef{}, invalidReference(raw, "empty URL")
	}

	if m := regex.SSHRepo.FindStringSubmatch(trimmed); m != nil {
		return buildRef(raw, host, m[1], "/"+m[2]+"/"+m[3])
	}

	if !regex.URLSchemeHead.MatchString(trimmed) {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return models.RepositoryRef{}, invalidReference(raw, "malformed URL")
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return models.RepositoryRef{}, invalidReference(raw, fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}

	return buildRef(raw, host, u.Hostname(), u.Path)
}

func buildRef(raw, host, gotHost, path string) (models.RepositoryRef, error) {
	gotHost = strings.TrimPrefix(strings.ToLower(gotHost), "www.")
	if gotHost != host {
		return models.RepositoryRef{}, invalidReference(raw, fmt.Sprintf("host %q is not supported", gotHost))
	}

	m := regex.RepoPath.FindStringSubmatch(path)
	if m == nil {
		return models.RepositoryRef{}, invalidReference(raw, "expected host/owner/name")
	}

	owner, name := m[1], m[2]
	if !regex.OwnerName.MatchString(owner) {
		return models.RepositoryRef{}, invalidReference(raw, fmt.Sprintf("invalid owner %q", owner))
	}
	if !regex.RepoName.MatchString(name) || name == "." || name == ".." {
		return models.RepositoryRef{}, invalidReference(raw, fmt.Sprintf("invalid repository name %q", name))
	}

	return models.RepositoryRef{Host: host, Owner: owner, Name: name}, nil
}

func invalidReference(raw, reason string) error {
	return domainErrors.ErrInvalidReference.
		WithContext("url", raw).
		WithContext("reason", reason)
}
