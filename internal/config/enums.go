package config

import (
	"git.home.luguber.info/inful/readmegen/internal/foundation/normalization"
)

// Location enumerates where a generated artifact is placed.
type Location string

const (
	LocationBuild Location = "build"
	LocationRoot  Location = "root"
)

var locationNormalizer = normalization.NewNormalizer(map[string]Location{
	"build": LocationBuild,
	"root":  LocationRoot,
}, LocationBuild)

func NormalizeLocation(raw string) Location {
	return locationNormalizer.Normalize(raw)
}

func ParseLocation(raw string) (Location, error) {
	return locationNormalizer.NormalizeWithError(raw)
}

// LocationValues returns the valid location tokens for grammar construction.
func LocationValues() []string {
	return locationNormalizer.ValidKeys()
}

// Phase enumerates which lifecycle event triggers generation.
type Phase string

const (
	PhaseBuild   Phase = "build"
	PhaseRelease Phase = "release"
)

var phaseNormalizer = normalization.NewNormalizer(map[string]Phase{
	"build":   PhaseBuild,
	"release": PhaseRelease,
}, PhaseBuild)

func NormalizePhase(raw string) Phase {
	return phaseNormalizer.Normalize(raw)
}

func ParsePhase(raw string) (Phase, error) {
	return phaseNormalizer.NormalizeWithError(raw)
}

// Refresh enumerates the two generation policies for location=build: watch
// regenerates when the source changes after first read, setup rewrites
// unconditionally at the installer-setup phase and registers no watcher.
type Refresh string

const (
	RefreshWatch Refresh = "watch"
	RefreshSetup Refresh = "setup"
)

var refreshNormalizer = normalization.NewNormalizer(map[string]Refresh{
	"watch": RefreshWatch,
	"setup": RefreshSetup,
}, RefreshWatch)

func NormalizeRefresh(raw string) Refresh {
	return refreshNormalizer.Normalize(raw)
}

func ParseRefresh(raw string) (Refresh, error) {
	return refreshNormalizer.NormalizeWithError(raw)
}
