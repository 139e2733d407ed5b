package entities

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var looseVersionPattern = regexp.MustCompile(`\d{1,16}(?:\.\d{1,16}){0,2}`)

// ParseVersion normalizes free-form version text into a semantic version.
// Strict input keeps its prerelease and build parts; anything else is coerced
// from the first "major[.minor[.patch]]" sequence it contains, so "v1.2" and
// "^1.0.0" become 1.2.0 and 1.0.0.
func ParseVersion(text string) (*semver.Version, error) {
	trimmed := strings.TrimLeft(strings.TrimSpace(text), "=v")
	if version, err := semver.StrictNewVersion(trimmed); err == nil {
		return version, nil
	}

	match := looseVersionPattern.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, text)
	}
	version, err := semver.NewVersion(match)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, text)
	}
	return version, nil
}

// NormalizeVersion returns the canonical "major.minor.patch[-pre][+build]" text of a version.
func NormalizeVersion(text string) (string, error) {
	version, err := ParseVersion(text)
	if err != nil {
		return "", err
	}
	return version.String(), nil
}

// ValidateDependencyExists fails with ErrDependencyNotFound when no group lists the dependency.
func ValidateDependencyExists(manifest *Manifest, name string) error {
	if _, ok := manifest.Lookup(name); !ok {
		return fmt.Errorf("%w: %s", ErrDependencyNotFound, name)
	}
	return nil
}

// ValidateVersionAdvances checks that the proposed version parses and is
// strictly greater than the version recorded in the manifest.
func ValidateVersionAdvances(manifest *Manifest, name, proposedText string) error {
	_, _, err := advance(manifest, name, proposedText)
	return err
}

// ValidateProposedVersion accepts a proposed version only when it parses, is
// strictly greater than the recorded version and does not exceed the latest
// published one.
func ValidateProposedVersion(manifest *Manifest, name, proposedText, latestText string) error {
	proposed, current, err := advance(manifest, name, proposedText)
	if err != nil {
		return err
	}

	latest, err := ParseVersion(latestText)
	if err != nil {
		return fmt.Errorf("%w: %q for %s", ErrInvalidPublishedVersion, latestText, name)
	}

	if proposed.GreaterThan(latest) {
		return fmt.Errorf("%w: %s is not within %s - %s", ErrVersionOutOfRange, proposed, current, latest)
	}
	return nil
}

func advance(manifest *Manifest, name, proposedText string) (*semver.Version, *semver.Version, error) {
	proposed, err := ParseVersion(proposedText)
	if err != nil {
		return nil, nil, err
	}

	recorded, ok := manifest.Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrDependencyNotFound, name)
	}
	current, err := ParseVersion(recorded)
	if err != nil {
		return nil, nil, fmt.Errorf("recorded version of %s: %w", name, err)
	}

	if proposed.LessThanEqual(current) {
		return nil, nil, fmt.Errorf("%w: %s is not greater than %s", ErrVersionNotNewer, proposed, current)
	}
	return proposed, current, nil
}
