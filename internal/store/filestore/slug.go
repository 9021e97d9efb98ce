package filestore

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const maxSlugLength = 50

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	positionRe      = regexp.MustCompile(`^(\d+)-`)
)

// generateSlug converts a project name to a file-name-friendly slug.
func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLength {
		truncated := slug[:maxSlugLength]
		// Only trim to last hyphen if we cut mid-word.
		if slug[maxSlugLength] != '-' {
			if idx := strings.LastIndex(truncated, "-"); idx > 0 {
				truncated = truncated[:idx]
			}
		}
		slug = strings.TrimRight(truncated, "-")
	}
	if slug == "" {
		slug = "project"
	}
	return slug
}

// generateFilename names the file of the project at the given 1-based
// position. The numeric prefix keeps the collection's order on disk.
func generateFilename(position int, slug string) string {
	padWidth := 3
	posStr := strconv.Itoa(position)
	if len(posStr) > padWidth {
		padWidth = len(posStr)
	}
	return fmt.Sprintf("%0*d-%s.md", padWidth, position, slug)
}

// positionFromFilename extracts the numeric prefix of a project filename.
func positionFromFilename(filename string) (int, error) {
	matches := positionRe.FindStringSubmatch(filename)
	if len(matches) < 2 { //nolint:mnd // regex capture group
		return 0, fmt.Errorf("cannot extract position from filename %q", filename)
	}
	return strconv.Atoi(matches[1])
}
