package intercept

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidPatch is returned by AddPatch for a malformed patch.
var ErrInvalidPatch = errors.New("invalid patch")

// Replacement rewrites the first match of Match with Replace.
// Replace uses regexp template syntax; ${0} is the whole match.
type Replacement struct {
	Match   *regexp.Regexp
	Replace string
}

// Patch is a source rewrite registered by an extension.
type Patch struct {
	// Owner is the name of the extension that registered the patch.
	Owner string
	// Find is a literal substring selecting the modules to rewrite.
	Find         string
	Replacements []Replacement
}

// PatchRecord is the reporting view of a registered patch.
type PatchRecord struct {
	Owner            string
	Find             string
	MatchedAnyModule bool
}

// Registry accepts patch registrations.
type Registry interface {
	AddPatch(p Patch) error
}

// Validate checks that p can be applied.
func (p Patch) Validate() error {
	if p.Owner == "" {
		return fmt.Errorf("%w: missing owner", ErrInvalidPatch)
	}
	if p.Find == "" {
		return fmt.Errorf("%w: patch by %s has an empty find", ErrInvalidPatch, p.Owner)
	}
	if len(p.Replacements) == 0 {
		return fmt.Errorf("%w: patch by %s has no replacements", ErrInvalidPatch, p.Owner)
	}
	for i, r := range p.Replacements {
		if r.Match == nil {
			return fmt.Errorf("%w: patch by %s: replacement %d has no match", ErrInvalidPatch, p.Owner, i)
		}
	}
	return nil
}

// replaceFirst replaces the first match of re in src, expanding tmpl.
func replaceFirst(re *regexp.Regexp, src, tmpl string) (string, bool) {
	loc := re.FindStringSubmatchIndex(src)
	if loc == nil {
		return src, false
	}
	expanded := re.ExpandString(nil, tmpl, src, loc)
	return src[:loc[0]] + string(expanded) + src[loc[1]:], true
}
