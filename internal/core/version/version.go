// Package version derives the version representations a deploy run needs
// from a release tag.
//
// The generated pipeline repeats Derive at run time with shell parameter
// expansion; ShellDotted and ShellNumeric hold those expressions so both
// stay aligned.
package version

import (
	"errors"
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// PatternPlaceholder is the literal replaced by the dotted version inside an
// artifact pattern.
const PatternPlaceholder = "{version}"

// Shell expressions equivalent to Derive, for a tag held in $TAG.
const (
	ShellDotted  = `${TAG#[vV]}`
	ShellNumeric = `${VERSION_DOTTED//./-}`
)

// ErrNotSemantic is returned by Compare when a tag is not a semantic version.
var ErrNotSemantic = errors.New("tag is not a semantic version")

// Version holds both representations derived from one tag.
type Version struct {
	Numeric string // "2-7-0": identifier-safe, suffixes instance names
	Dotted  string // "2.7.0": fills {version} in artifact patterns
}

// Derive strips a leading version marker ('v' or 'V') from tag.
//
// Example:
//
//	Derive("v2.7.0") // Version{Numeric: "2-7-0", Dotted: "2.7.0"}
//	Derive("1.4")    // Version{Numeric: "1-4", Dotted: "1.4"}
func Derive(tag string) Version {
	dotted := strings.TrimSpace(tag)
	if strings.HasPrefix(dotted, "v") || strings.HasPrefix(dotted, "V") {
		dotted = dotted[1:]
	}
	return Version{
		Numeric: strings.ReplaceAll(dotted, ".", "-"),
		Dotted:  dotted,
	}
}

// ApplyPattern replaces every {version} literal in pattern with dotted.
//
// Example:
//
//	ApplyPattern("app-{version}.jar", "2.7.0") // "app-2.7.0.jar"
func ApplyPattern(pattern, dotted string) string {
	return strings.ReplaceAll(pattern, PatternPlaceholder, dotted)
}

// InstanceName returns the unique per-deployment application name.
// Pattern: {base}-{numeric}
func InstanceName(base string, v Version) string {
	return base + "-" + v.Numeric
}

// =============================================================================
// Comparison
// =============================================================================

// Change classifies a move from one deployed tag to another.
type Change int

const (
	Downgrade Change = -1
	Same      Change = 0
	Upgrade   Change = 1
)

func (c Change) String() string {
	switch c {
	case Downgrade:
		return "downgrade"
	case Upgrade:
		return "upgrade"
	default:
		return "same"
	}
}

// Compare reports whether moving from previous to next is an upgrade.
// Both tags must parse as semantic versions.
func Compare(previous, next string) (Change, error) {
	prev, err := goversion.NewVersion(Derive(previous).Dotted)
	if err != nil {
		return Same, fmt.Errorf("%w: %q", ErrNotSemantic, previous)
	}
	nxt, err := goversion.NewVersion(Derive(next).Dotted)
	if err != nil {
		return Same, fmt.Errorf("%w: %q", ErrNotSemantic, next)
	}
	return Change(nxt.Compare(prev)), nil
}
