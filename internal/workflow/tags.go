package workflow

import (
	"fmt"

	"github.com/glitch452/easy-npm-publish/internal/versioning"
)

// TagName returns the release tag for a version: "v" + version + suffix.
func TagName(version, suffix string) string {
	return "v" + version + suffix
}

// ReleaseTags returns the tags applied to a published version in order: the
// floating latest tag, then vX.Y.Z, vX.Y and vX, each with suffix.
func ReleaseTags(latestTag string, next versioning.SemVer, suffix string) []string {
	return []string{
		latestTag,
		TagName(next.String(), suffix),
		fmt.Sprintf("v%d.%d%s", next.Major(), next.Minor(), suffix),
		fmt.Sprintf("v%d%s", next.Major(), suffix),
	}
}
