package common

import "fmt"

const (
	major = 1
	minor = 2
	patch = 0

	// Versions from which an update should be performed.
	prevMajor = 1
	prevMinor = 1
	prevPatch = 0

	Version = major*1_000_000 + minor*1_000 + patch

	PrevVersion = prevMajor*1_000_000 + prevMinor*1_000 + prevPatch

	// ErrVersionMismatch is returned by CheckVersion in case of error.
	ErrVersionMismatch = "previous version mismatch"

	// ErrAlreadyUpdated is returned by CheckVersion if current version equals
	// to the version storage is being updated from.
	ErrAlreadyUpdated = "storage is already of the latest version"
)

// CheckVersion checks that the stored data version can be migrated to the
// current one.
func CheckVersion(from int) error {
	if from < PrevVersion {
		return fmt.Errorf("%s: expected >=%d, got %d", ErrVersionMismatch, PrevVersion, from)
	}
	if from == Version {
		return fmt.Errorf("%s: %d", ErrAlreadyUpdated, Version)
	}
	return nil
}
