package hostsim

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/reporter/internal/search"
)

// Resolver implements search.Resolver over a host's registered modules.
// Lookups return the first match in registration order, or nil.
type Resolver struct {
	host *Host
}

var _ search.Resolver = (*Resolver)(nil)

// find returns the first export (or whole export object) accepted by f.
func (r *Resolver) find(f search.Filter) any {
	for _, m := range r.host.snapshot() {
		if obj := m.object(); len(obj) > 0 && f.Match(obj) {
			return obj
		}
		for _, e := range m.exports {
			if f.Match(e.value) {
				return e.value
			}
		}
	}
	return nil
}

// Find implements search.Resolver. Args: a filter.
func (r *Resolver) Find(args ...any) (any, error) {
	f, err := search.FilterArg(search.MethodFind, args, 0)
	if err != nil {
		return nil, err
	}
	return r.find(f), nil
}

// FindByProps implements search.Resolver. Args: one or more property names.
func (r *Resolver) FindByProps(args ...any) (any, error) {
	props, err := search.StringArgs(search.MethodFindByProps, args)
	if err != nil {
		return nil, err
	}
	return r.find(search.ByProps(props...)), nil
}

// FindByCode implements search.Resolver. Args: one or more code markers.
func (r *Resolver) FindByCode(args ...any) (any, error) {
	code, err := search.StringArgs(search.MethodFindByCode, args)
	if err != nil {
		return nil, err
	}
	return r.find(search.ByCode(code...)), nil
}

// FindStore implements search.Resolver. Args: the store name.
func (r *Resolver) FindStore(args ...any) (any, error) {
	name, err := search.StringArg(search.MethodFindStore, args, 0)
	if err != nil {
		return nil, err
	}
	return r.find(search.ByStoreName(name)), nil
}

// FindComponentByCode implements search.Resolver. Args: one or more code
// markers; only component exports match.
func (r *Resolver) FindComponentByCode(args ...any) (any, error) {
	code, err := search.StringArgs(search.MethodFindComponentByCode, args)
	if err != nil {
		return nil, err
	}
	byCode := search.ByCode(code...)
	return r.find(search.NewFilter(byCode.String(), func(v any) bool {
		_, ok := v.(*Component)
		return ok && byCode.Match(v)
	})), nil
}

// MapMangledModule implements search.Resolver. Args: a code marker selecting
// the module, and a map from readable name to filter. The result maps each
// readable name to the first export of the module its filter accepts.
func (r *Resolver) MapMangledModule(args ...any) (any, error) {
	code, err := search.StringArg(search.MethodMapMangledModule, args, 0)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, &search.ArgError{Method: search.MethodMapMangledModule, Index: 1, Want: "mappers"}
	}
	mappers, ok := args[1].(map[string]search.Filter)
	if !ok {
		return nil, &search.ArgError{Method: search.MethodMapMangledModule, Index: 1, Want: "mappers", Got: args[1]}
	}

	for _, m := range r.host.snapshot() {
		if !strings.Contains(m.source, code) {
			continue
		}
		mapped := make(map[string]any, len(mappers))
		for name, f := range mappers {
			for _, e := range m.exports {
				if f.Match(e.value) {
					mapped[name] = e.value
					break
				}
			}
		}
		return mapped, nil
	}
	return nil, nil
}

// ExtractAndLoadChunks implements search.Resolver. It finds the module whose
// source contains every code marker, extracts chunk ids from its source with
// matcher (first capture group of each match), and loads them.
// It returns false if no module or no chunk id is found, true otherwise.
func (r *Resolver) ExtractAndLoadChunks(ctx context.Context, code, matcher any) (any, error) {
	markers, err := codeMarkers(code)
	if err != nil {
		return nil, err
	}
	re, err := chunkMatcher(matcher)
	if err != nil {
		return nil, err
	}

	var source string
	found := false
	for _, m := range r.host.snapshot() {
		if containsAll(m.source, markers) {
			source, found = m.source, true
			break
		}
	}
	if !found {
		return false, nil
	}

	matches := re.FindAllStringSubmatch(source, -1)
	if len(matches) == 0 {
		return false, nil
	}
	for _, match := range matches {
		if len(match) < 2 {
			return nil, fmt.Errorf("extractAndLoadChunks: matcher %s has no capture group", re)
		}
		if err := r.host.LoadChunk(ctx, match[1]); err != nil {
			return nil, err
		}
	}
	return true, nil
}

func codeMarkers(v any) ([]string, error) {
	switch c := v.(type) {
	case []string:
		return c, nil
	case []any:
		return search.StringArgs(search.MethodExtractAndLoadChunks, c)
	case string:
		return []string{c}, nil
	}
	return nil, &search.ArgError{Method: search.MethodExtractAndLoadChunks, Index: 0, Want: "code markers", Got: v}
}

func chunkMatcher(v any) (*regexp.Regexp, error) {
	switch m := v.(type) {
	case *regexp.Regexp:
		if m != nil {
			return m, nil
		}
	case string:
		re, err := regexp.Compile(m)
		if err != nil {
			return nil, fmt.Errorf("extractAndLoadChunks: %w", err)
		}
		return re, nil
	}
	return nil, &search.ArgError{Method: search.MethodExtractAndLoadChunks, Index: 1, Want: "matcher", Got: v}
}

func containsAll(s string, markers []string) bool {
	for _, m := range markers {
		if !strings.Contains(s, m) {
			return false
		}
	}
	return true
}
