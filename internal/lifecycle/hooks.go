package lifecycle

import "context"

// Hook is the base contract for anything registered with a Run. Phase
// participation is opt-in: the run dispatches each phase only to hooks that
// implement the matching narrow interface below.
type Hook interface {
	PluginName() string
}

// FileGatherer contributes files to the set after the project tree is loaded.
type FileGatherer interface {
	Hook
	GatherFiles(ctx context.Context, r *Run) error
}

// FilePruner removes files from the set before content work starts.
type FilePruner interface {
	Hook
	PruneFiles(ctx context.Context, r *Run) error
}

// FileMunger rewrites file content in place.
type FileMunger interface {
	Hook
	MungeFiles(ctx context.Context, r *Run) error
}

// InstallPreparer runs just before the build tree is written, after all
// content munging has settled.
type InstallPreparer interface {
	Hook
	SetupInstall(ctx context.Context, r *Run) error
}

// BuildFinisher runs after the build tree is on disk.
type BuildFinisher interface {
	Hook
	AfterBuild(ctx context.Context, r *Run) error
}

// ReleaseFinisher runs after a release build; skipped for plain builds.
type ReleaseFinisher interface {
	Hook
	AfterRelease(ctx context.Context, r *Run) error
}
