package history

import "fmt"

// TagMismatchError is returned when the commit a release tag points to differs
// from the recorded commit of that release. The tag was moved or re-created
// outside of the release process, so the history window cannot be trusted.
type TagMismatchError struct {
	Tag      string
	Expected string
	Actual   string
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("latest release SHA %q does not match the SHA %q for tag %q", e.Expected, e.Actual, e.Tag)
}
