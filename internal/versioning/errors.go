package versioning

import (
	"errors"
	"fmt"
)

// ErrNoIncrement is returned by Compute when neither an override nor an
// increment type was supplied.
var ErrNoIncrement = errors.New("no version override and no increment type")

// InvalidVersionError is returned when a string is not a valid
// three-component semantic version.
type InvalidVersionError struct {
	// Input is the rejected string.
	Input string
	// Field names the value that was being parsed (e.g. "current", "override").
	Field string
	// Err is the underlying parser error, if any.
	Err error
}

func (e *InvalidVersionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("the %s version %q is not a valid semver value", e.Field, e.Input)
	}
	return fmt.Sprintf("%q is not a valid semver value", e.Input)
}

func (e *InvalidVersionError) Unwrap() error {
	return e.Err
}

// IsInvalidVersion reports whether err is, or wraps, an InvalidVersionError.
func IsInvalidVersion(err error) bool {
	var ive *InvalidVersionError
	return errors.As(err, &ive)
}

// withField tags an InvalidVersionError with the name of the value being parsed.
func withField(err error, field string) error {
	var ive *InvalidVersionError
	if errors.As(err, &ive) {
		tagged := *ive
		tagged.Field = field
		return &tagged
	}
	return err
}
