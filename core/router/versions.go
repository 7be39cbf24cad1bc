package router

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Versions restricts a route entry to a half-open semver interval
// [from, until). A nil bound is unbounded on that side, so the zero value
// matches every version.
type Versions struct {
	from  *semver.Version
	until *semver.Version
}

// AllVersions returns the unbounded range.
func AllVersions() Versions {
	return Versions{}
}

// VersionsFrom returns the range [from, ∞).
func VersionsFrom(from *semver.Version) Versions {
	return Versions{from: from}
}

// VersionsUntil returns the range (-∞, until). The bound itself is
// excluded.
func VersionsUntil(until *semver.Version) Versions {
	return Versions{until: until}
}

// VersionsFromUntil returns the range [from, until). Both bounds must be
// provided and from must precede until.
func VersionsFromUntil(from, until *semver.Version) (Versions, error) {
	if from == nil || until == nil {
		return Versions{}, fmt.Errorf("%w: both bounds are required", ErrInvalidVersions)
	}
	if !from.LessThan(until) {
		return Versions{}, fmt.Errorf("%w: %s does not precede %s", ErrInvalidVersions, from, until)
	}
	return Versions{from: from, until: until}, nil
}

// IsAll reports whether the range is unbounded on both sides.
func (v Versions) IsAll() bool {
	return v.from == nil && v.until == nil
}

// Matches reports whether req falls inside the range. A nil req matches
// any range; callers pass nil when the client did not request a version.
func (v Versions) Matches(req *semver.Version) bool {
	if req == nil {
		return true
	}
	if v.from != nil && req.LessThan(v.from) {
		return false
	}
	if v.until != nil && !req.LessThan(v.until) {
		return false
	}
	return true
}

// Overlaps reports whether the two ranges share any version.
func (v Versions) Overlaps(o Versions) bool {
	// [a1,b1) and [a2,b2) intersect iff a1 < b2 and a2 < b1, with nil
	// bounds standing in for the infinities.
	if v.from != nil && o.until != nil && !v.from.LessThan(o.until) {
		return false
	}
	if o.from != nil && v.until != nil && !o.from.LessThan(v.until) {
		return false
	}
	return true
}

// Equal reports whether the two ranges have identical bounds.
func (v Versions) Equal(o Versions) bool {
	return versionEqual(v.from, o.from) && versionEqual(v.until, o.until)
}

func versionEqual(a, b *semver.Version) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
}

// String renders the range in constraint notation: "*" for the unbounded
// range, otherwise ">=from", "<until", or ">=from <until".
func (v Versions) String() string {
	switch {
	case v.from == nil && v.until == nil:
		return "*"
	case v.until == nil:
		return ">=" + v.from.String()
	case v.from == nil:
		return "<" + v.until.String()
	default:
		return ">=" + v.from.String() + " <" + v.until.String()
	}
}
