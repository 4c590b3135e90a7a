package versioning

// Info is the outcome of a version calculation.
type Info struct {
	Current SemVer `json:"current_version" yaml:"current_version"`
	Next    SemVer `json:"next_version" yaml:"next_version"`
	// IncrementType is IncrementNone only when an override equals Current.
	IncrementType IncrementType `json:"increment_type" yaml:"increment_type"`
}

// Changed reports whether Next differs from Current. Callers treat an
// unchanged version as "nothing to publish".
func (i Info) Changed() bool {
	return i.IncrementType != IncrementNone
}

// Compute calculates the next version.
//
// When override is non-empty it becomes the next version and the increment
// type is recomputed as the semantic diff from current. Otherwise current is
// incremented by inc. Both strings must be valid semantic versions.
func Compute(current, override string, inc IncrementType) (Info, error) {
	cur, err := Parse(current)
	if err != nil {
		return Info{}, withField(err, "current")
	}

	if override != "" {
		next, err := Parse(override)
		if err != nil {
			return Info{}, withField(err, "override")
		}
		return ComputeOverride(cur, next), nil
	}

	if inc == IncrementNone {
		return Info{}, ErrNoIncrement
	}

	return ComputeIncrement(cur, inc), nil
}

// ComputeOverride builds the Info for an explicit next version.
func ComputeOverride(current, override SemVer) Info {
	return Info{
		Current:       current,
		Next:          override,
		IncrementType: Diff(current, override),
	}
}

// ComputeIncrement builds the Info for an increment of current.
func ComputeIncrement(current SemVer, inc IncrementType) Info {
	return Info{
		Current:       current,
		Next:          current.Increment(inc),
		IncrementType: inc,
	}
}
