package plugin

import (
	"errors"
	"fmt"

	rgerrors "git.home.luguber.info/inful/readmegen/internal/errors"
)

// Sentinel errors for errors.Is matching. Each fatal condition is wrapped in
// a categorized error so the CLI maps it to the right exit code.
var (
	ErrInvalidConfiguration = errors.New("invalid readme configuration")
	ErrSourceNotFound       = errors.New("source file not in file set")
	ErrTargetFileMissing    = errors.New("target file not in file set")
)

func invalidConfiguration(instance, reason string) error {
	return rgerrors.Wrap(
		fmt.Errorf("%w: %s", ErrInvalidConfiguration, reason),
		rgerrors.CategoryValidation, rgerrors.SeverityFatal,
		"contradictory options for readme instance "+instance,
	).WithContext("instance", instance)
}

func sourceNotFound(instance, filename string) error {
	return rgerrors.Wrap(
		fmt.Errorf("%w: %s; it was never gathered or an earlier step pruned it", ErrSourceNotFound, filename),
		rgerrors.CategorySource, rgerrors.SeverityFatal,
		"readme source missing for instance "+instance,
	).WithContext("filename", filename)
}

func targetMissing(instance, filename string) error {
	return rgerrors.Wrap(
		fmt.Errorf("%w: %s; another instance or prune step likely removed it", ErrTargetFileMissing, filename),
		rgerrors.CategoryTarget, rgerrors.SeverityFatal,
		"readme target missing for instance "+instance,
	).WithContext("filename", filename)
}
