package lifecycle

import "context"

// PhaseName is a strongly-typed identifier for a run phase. All canonical
// phases are declared as constants here for compile-time safety.
type PhaseName string

// Canonical phase names, in execution order.
const (
	PhaseGatherFiles  PhaseName = "gather_files"
	PhasePruneFiles   PhaseName = "prune_files"
	PhaseMungeFiles   PhaseName = "munge_files"
	PhaseSetupInstall PhaseName = "setup_install"
	PhaseWriteBuild   PhaseName = "write_build"
	PhaseAfterBuild   PhaseName = "after_build"
	PhaseAfterRelease PhaseName = "after_release"
)

// PhaseFunc is a discrete unit of work in the run.
type PhaseFunc func(ctx context.Context, r *Run) error

// PhaseDef pairs a phase name with its executing function (internal wiring helper).
type PhaseDef struct {
	Name PhaseName
	Fn   PhaseFunc
}
