package search

import (
	"fmt"
	"strings"
)

// Coded is implemented by exports that carry source text.
type Coded interface {
	Code() string
}

// Store is implemented by store exports.
type Store interface {
	StoreName() string
}

// Displayed is implemented by component exports.
type Displayed interface {
	DisplayName() string
}

// Filter is a predicate over module exports with a textual form.
type Filter struct {
	desc  string
	match func(any) bool
}

// NewFilter creates a filter from a predicate.
func NewFilter(desc string, match func(any) bool) Filter {
	return Filter{desc: desc, match: match}
}

// Match reports whether v satisfies the filter. A zero Filter matches nothing.
func (f Filter) Match(v any) bool {
	if f.match == nil {
		return false
	}
	return f.match(v)
}

// String implements fmt.Stringer.
func (f Filter) String() string {
	return f.desc
}

// ByProps matches export objects that carry every listed property.
func ByProps(props ...string) Filter {
	return NewFilter(describe("byProps", props), func(v any) bool {
		obj, ok := v.(map[string]any)
		if !ok || len(props) == 0 {
			return false
		}
		for _, p := range props {
			if _, ok := obj[p]; !ok {
				return false
			}
		}
		return true
	})
}

// ByCode matches exports whose source contains every listed marker.
func ByCode(code ...string) Filter {
	return NewFilter(describe("byCode", code), func(v any) bool {
		c, ok := v.(Coded)
		if !ok || len(code) == 0 {
			return false
		}
		src := c.Code()
		for _, marker := range code {
			if !strings.Contains(src, marker) {
				return false
			}
		}
		return true
	})
}

// ByStoreName matches a store export by name.
func ByStoreName(name string) Filter {
	return NewFilter(describe("byStoreName", []string{name}), func(v any) bool {
		s, ok := v.(Store)
		return ok && s.StoreName() == name
	})
}

// ByDisplayName matches a component export by display name.
func ByDisplayName(name string) Filter {
	return NewFilter(describe("byDisplayName", []string{name}), func(v any) bool {
		d, ok := v.(Displayed)
		return ok && d.DisplayName() == name
	})
}

func describe(kind string, values []string) string {
	return fmt.Sprintf("%s(%s)", kind, quoteJoin(values))
}

// quoteJoin renders values as "a", "b".
func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}
