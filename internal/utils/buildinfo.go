package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const unknownVersion = "unknown"

// GetApplicationVersion determines the running binary's version. Module build
// info wins when the binary was installed from a tagged version; otherwise a
// git describe of the surrounding checkout is attempted.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}

	repositoryRoot, repositoryError := findGitRepositoryRoot(".")
	if repositoryError == nil && repositoryRoot != "" {
		// #nosec G204
		describeExact := exec.Command("git", "describe", "--tags", "--exact-match")
		describeExact.Dir = repositoryRoot
		exactOutput, exactError := describeExact.Output()
		if exactError == nil && len(exactOutput) > 0 {
			return strings.TrimSpace(string(exactOutput))
		}

		// #nosec G204
		describeLong := exec.Command("git", "describe", "--tags", "--long", "--dirty")
		describeLong.Dir = repositoryRoot
		longOutput, longError := describeLong.Output()
		if longError == nil && len(longOutput) > 0 {
			return strings.TrimSpace(string(longOutput))
		}
	}

	return unknownVersion
}

// findGitRepositoryRoot searches upward from the starting directory until it
// locates a directory containing .git.
func findGitRepositoryRoot(startDirectory string) (string, error) {
	absoluteStart, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", startDirectory, absoluteError)
	}

	currentDirectory := absoluteStart
	for {
		gitPath := filepath.Join(currentDirectory, GitDirectoryName)
		pathInformation, statError := os.Stat(gitPath)
		if statError == nil && pathInformation.IsDir() {
			return currentDirectory, nil
		}

		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	return "", fmt.Errorf(".git directory not found in or above %s", absoluteStart)
}
