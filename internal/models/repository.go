package models

import (
	"fmt"
	"strings"
)

// RepositoryRef identifies a repository on a content host.
type RepositoryRef struct {
	Host  string `json:"host"`
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// Key is the cache identity of the repository. Hosts treat owner and name case-insensitively.
func (r RepositoryRef) Key() string {
	return strings.ToLower(r.Owner + "/" + r.Name)
}

func (r RepositoryRef) String() string {
	return fmt.Sprintf("%s/%s/%s", r.Host, r.Owner, r.Name)
}

// URL returns the canonical https URL of the repository.
func (r RepositoryRef) URL() string {
	return "https://" + r.String()
}

// ContentSnapshot is the bounded set of repository artifacts used as evidence.
// A nil field means the signal was unavailable, which is a valid state.
type ContentSnapshot struct {
	Readme       *string  `json:"readme,omitempty"`
	Manifest     *string  `json:"manifest,omitempty"`
	ManifestPath string   `json:"manifestPath,omitempty"`
	FileTree     []string `json:"fileTree,omitempty"`
	Branch       string   `json:"branch,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

func (s ContentSnapshot) HasReadme() bool   { return s.Readme != nil }
func (s ContentSnapshot) HasManifest() bool { return s.Manifest != nil }
func (s ContentSnapshot) HasTree() bool     { return s.FileTree != nil }

// Empty reports whether every artifact is absent.
func (s ContentSnapshot) Empty() bool {
	return !s.HasReadme() && !s.HasManifest() && !s.HasTree()
}
