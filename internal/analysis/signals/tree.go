package signals

import (
	"context"
	"strings"

	"github.com/mikematt33/gitgrade/internal/analysis"
	"github.com/mikematt33/gitgrade/pkg/models"
)

var testFileSuffixes = []string{".test.js", ".test.ts", ".spec.js", ".spec.ts"}

func treeFacet(ref string) func(context.Context, analysis.Client, analysis.TargetRepository, *models.RepositorySignals) error {
	return func(ctx context.Context, client analysis.Client, target analysis.TargetRepository, s *models.RepositorySignals) error {
		tree, err := client.GetTree(ctx, target.Owner, target.Name, ref, true)
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		for _, entry := range tree.Entries {
			path := entry.GetPath()
			if top, _, _ := strings.Cut(path, "/"); top != "" && !seen[top] {
				seen[top] = true
				s.TopLevelFolders = append(s.TopLevelFolders, top)
			}

			if entry.GetType() != "blob" {
				continue
			}
			s.FileCount++
			if IsTestFile(path) {
				s.TestFilePaths = append(s.TestFilePaths, path)
			}
		}
		return nil
	}
}

// IsTestFile reports whether path looks like a test file. The match is a
// plain substring check, so a folder such as "latest/" also counts.
func IsTestFile(path string) bool {
	if strings.Contains(path, "test") || strings.Contains(path, "spec") {
		return true
	}
	for _, suffix := range testFileSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
