package clarg

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
)

// Bytes accepts human readable sizes such as "512", "64KiB", "1.5 GB" and
// yields the number of bytes.
func Bytes() Formatter[uint64] {
	return func(text string) (uint64, error) {
		n, err := humanize.ParseBytes(text)
		if err != nil {
			return 0, &FormatError{Value: text, Details: "Must be a size such as 512KiB or 1.5GB"}
		}
		return n, nil
	}
}

// Semver accepts a semantic version. A non-empty constraint such as
// ">= 1.2, < 2" must also be satisfied; an invalid constraint is reported
// immediately.
func Semver(constraint string) (Formatter[*semver.Version], error) {
	var c *semver.Constraints
	if constraint != "" {
		var err error
		if c, err = semver.NewConstraint(constraint); err != nil {
			return nil, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
		}
	}

	return func(text string) (*semver.Version, error) {
		v, err := semver.NewVersion(text)
		if err != nil {
			return nil, &FormatError{Value: text, Details: "Must be a semantic version such as 1.2.3"}
		}
		if c != nil && !c.Check(v) {
			return nil, &FormatError{Value: text, Details: "Version must satisfy " + constraint}
		}
		return v, nil
	}, nil
}

// JSON accepts a JSON document and yields it parsed for gjson queries.
func JSON() Formatter[gjson.Result] {
	return func(text string) (gjson.Result, error) {
		if !gjson.Valid(text) {
			return gjson.Result{}, &FormatError{Value: text, Details: "Must be valid JSON"}
		}
		return gjson.Parse(text), nil
	}
}
