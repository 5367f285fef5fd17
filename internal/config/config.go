// Package config loads, merges, and initializes the tool's YAML configuration
// and assembles the exclusion pattern set a run scans with.
package config

import "github.com/ADMhS/CodeContext/internal/utils"

// gitDirectoryPattern excludes the Git metadata directory and everything
// below it.
const gitDirectoryPattern = utils.GitDirectoryName + "/"

// CombineExclusionPatterns merges configured and flag-provided exclusion
// patterns, appending the Git directory pattern unless Git internals were
// requested. Duplicates collapse; the first occurrence wins.
func CombineExclusionPatterns(configuredPatterns, flagPatterns []string, includeGit bool) []string {
	combined := make([]string, 0, len(configuredPatterns)+len(flagPatterns)+1)
	combined = append(combined, configuredPatterns...)
	combined = append(combined, flagPatterns...)
	if !includeGit {
		combined = append(combined, gitDirectoryPattern)
	}
	return utils.DeduplicatePatterns(combined)
}
