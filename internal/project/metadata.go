package project

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ReleaseInfo carries best-effort repository metadata attached to release
// runs and notifications.
type ReleaseInfo struct {
	Commit string
	Tag    string
}

// ReleaseInfo reads the repository at the project root. Projects outside a
// repository yield the zero value. Annotated tags point at tag objects and
// are not resolved; only lightweight tags on HEAD are reported.
func (p *Project) ReleaseInfo() ReleaseInfo {
	var info ReleaseInfo

	repo, err := git.PlainOpen(p.Root)
	if err != nil {
		return info
	}
	ref, err := repo.Head()
	if err != nil {
		return info
	}
	info.Commit = ref.Hash().String()[:8]

	tags, err := repo.Tags()
	if err != nil {
		return info
	}
	_ = tags.ForEach(func(t *plumbing.Reference) error {
		if t.Hash() == ref.Hash() {
			info.Tag = t.Name().Short()
		}
		return nil
	})
	return info
}
