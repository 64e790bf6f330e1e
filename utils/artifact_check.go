package common

import (
	"fmt"
	"os"
)

// CheckArtifactFreshness compares modification times of a source file and an
// artifact derived from it. If the source is newer, the artifact is stale and
// an error is returned.
func CheckArtifactFreshness(sourceFile string, derivedFile string) error {
	sourceInfo, err := os.Stat(sourceFile)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", sourceFile, err)
	}

	derivedInfo, err := os.Stat(derivedFile)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", derivedFile, err)
	}

	if sourceInfo.ModTime().After(derivedInfo.ModTime()) {
		return fmt.Errorf("%s was modified after %s; %s is stale and must be regenerated",
			sourceFile, derivedFile, derivedFile)
	}

	return nil
}
