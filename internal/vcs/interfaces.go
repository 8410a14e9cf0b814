package vcs

import (
	"context"
	"errors"
)

// ErrContentNotFound reports that the requested artifact does not exist on the host.
// Callers treat it as "signal unavailable", never as a failure.
var ErrContentNotFound = errors.New("content not found")

// ErrContentUndecodable reports an artifact the host returned in a form that cannot be read,
// such as a file too large to be inlined.
var ErrContentUndecodable = errors.New("content cannot be decoded")

// Unavailable reports whether err only means the artifact is absent or unreadable, as opposed
// to the host failing.
func Unavailable(err error) bool {
	return errors.Is(err, ErrContentNotFound) || errors.Is(err, ErrContentUndecodable)
}

// ContentHost defines the read operations the analysis needs from a repository host.
type ContentHost interface {
	// GetReadme returns the decoded text of the repository's main documentation file.
	GetReadme(ctx context.Context, owner, name string) (string, error)
	// GetFile returns the decoded text of the file at path on the default branch.
	GetFile(ctx context.Context, owner, name, path string) (string, error)
	// GetDefaultBranch returns the name of the repository's default branch, or "" when the
	// host reports none. A missing repository fails with ErrContentNotFound.
	GetDefaultBranch(ctx context.Context, owner, name string) (string, error)
	// GetRecursiveTree returns every file path of branch, in host order.
	GetRecursiveTree(ctx context.Context, owner, name, branch string) ([]string, error)
}
