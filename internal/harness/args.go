package harness

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/reporter/internal/search"
)

// ArgSpec is one recorded lookup argument.
//
// In YAML an argument is a scalar (string), a null, a list of strings, or a
// mapping with exactly one of: filter, factory, regex, mappers.
type ArgSpec struct {
	String  *string
	Null    bool
	Strings []string
	Filter  *FilterSpec
	Factory *FactorySpec
	Regex   *string
	Mappers map[string]FilterSpec
}

type argObject struct {
	Filter  *FilterSpec           `yaml:"filter"`
	Factory *FactorySpec          `yaml:"factory"`
	Regex   *string               `yaml:"regex"`
	Mappers map[string]FilterSpec `yaml:"mappers"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *ArgSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			a.Null = true
			return nil
		}
		s := node.Value
		a.String = &s
		return nil

	case yaml.SequenceNode:
		return node.Decode(&a.Strings)

	case yaml.MappingNode:
		var obj argObject
		if err := node.Decode(&obj); err != nil {
			return err
		}
		set := 0
		if obj.Filter != nil {
			set++
		}
		if obj.Factory != nil {
			set++
		}
		if obj.Regex != nil {
			set++
		}
		if obj.Mappers != nil {
			set++
		}
		if set != 1 {
			return fmt.Errorf("line %d: argument must set exactly one of filter, factory, regex, mappers", node.Line)
		}
		a.Filter, a.Factory, a.Regex, a.Mappers = obj.Filter, obj.Factory, obj.Regex, obj.Mappers
		return nil
	}
	return fmt.Errorf("line %d: unsupported argument", node.Line)
}

func (a ArgSpec) validate() error {
	switch {
	case a.Filter != nil:
		_, err := a.Filter.Build()
		return err
	case a.Factory != nil:
		return a.Factory.validate()
	case a.Regex != nil:
		_, err := regexp.Compile(*a.Regex)
		return err
	case a.Mappers != nil:
		for name, f := range a.Mappers {
			if _, err := f.Build(); err != nil {
				return fmt.Errorf("mappers.%s: %w", name, err)
			}
		}
	}
	return nil
}

// Build converts the argument into the value the instrumented entry point
// would have recorded. Factories resolve through r when invoked.
func (a ArgSpec) Build(r search.Resolver) (any, error) {
	switch {
	case a.Null:
		return nil, nil
	case a.String != nil:
		return *a.String, nil
	case a.Strings != nil:
		return a.Strings, nil
	case a.Filter != nil:
		return a.Filter.Build()
	case a.Factory != nil:
		return a.Factory.Build(r)
	case a.Regex != nil:
		return regexp.Compile(*a.Regex)
	case a.Mappers != nil:
		mappers := make(map[string]search.Filter, len(a.Mappers))
		for name, spec := range a.Mappers {
			f, err := spec.Build()
			if err != nil {
				return nil, fmt.Errorf("mappers.%s: %w", name, err)
			}
			mappers[name] = f
		}
		return mappers, nil
	}
	return nil, errors.New("empty argument")
}

// FilterSpec selects one of the standard filters.
type FilterSpec struct {
	ByProps       []string `yaml:"by_props,omitempty"`
	ByCode        []string `yaml:"by_code,omitempty"`
	ByStoreName   string   `yaml:"by_store_name,omitempty"`
	ByDisplayName string   `yaml:"by_display_name,omitempty"`
}

// Build returns the filter. Exactly one field must be set.
func (f FilterSpec) Build() (search.Filter, error) {
	var out []search.Filter
	if len(f.ByProps) > 0 {
		out = append(out, search.ByProps(f.ByProps...))
	}
	if len(f.ByCode) > 0 {
		out = append(out, search.ByCode(f.ByCode...))
	}
	if f.ByStoreName != "" {
		out = append(out, search.ByStoreName(f.ByStoreName))
	}
	if f.ByDisplayName != "" {
		out = append(out, search.ByDisplayName(f.ByDisplayName))
	}
	if len(out) != 1 {
		return search.Filter{}, errors.New("filter must set exactly one of by_props, by_code, by_store_name, by_display_name")
	}
	return out[0], nil
}

// FactorySpec describes a zero-argument lazy factory.
type FactorySpec struct {
	Find        *FilterSpec `yaml:"find,omitempty"`
	FindByProps []string    `yaml:"find_by_props,omitempty"`
	FindStore   string      `yaml:"find_store,omitempty"`
	ReturnsNull bool        `yaml:"returns_null,omitempty"`
	Panics      string      `yaml:"panics,omitempty"`
}

func (f FactorySpec) validate() error {
	set := 0
	if f.Find != nil {
		if _, err := f.Find.Build(); err != nil {
			return fmt.Errorf("find: %w", err)
		}
		set++
	}
	if len(f.FindByProps) > 0 {
		set++
	}
	if f.FindStore != "" {
		set++
	}
	if f.ReturnsNull {
		set++
	}
	if f.Panics != "" {
		set++
	}
	if set != 1 {
		return errors.New("factory must set exactly one of find, find_by_props, find_store, returns_null, panics")
	}
	return nil
}

// Build returns the factory, resolving through r when invoked.
// Resolver errors read as null.
func (f FactorySpec) Build(r search.Resolver) (search.Factory, error) {
	if err := f.validate(); err != nil {
		return search.Factory{}, err
	}

	lookup := func(call func() (any, error)) func() any {
		return func() any {
			v, err := call()
			if err != nil {
				return nil
			}
			return v
		}
	}

	switch {
	case f.Find != nil:
		filter, _ := f.Find.Build()
		return search.Factory{
			Desc: fmt.Sprintf("() => find(%s)", filter),
			Fn:   lookup(func() (any, error) { return r.Find(filter) }),
		}, nil
	case len(f.FindByProps) > 0:
		args := make([]any, len(f.FindByProps))
		for i, p := range f.FindByProps {
			args[i] = p
		}
		return search.Factory{
			Desc: fmt.Sprintf("() => findByProps(%s)", quote(f.FindByProps)),
			Fn:   lookup(func() (any, error) { return r.FindByProps(args...) }),
		}, nil
	case f.FindStore != "":
		return search.Factory{
			Desc: fmt.Sprintf("() => findStore(%q)", f.FindStore),
			Fn:   lookup(func() (any, error) { return r.FindStore(f.FindStore) }),
		}, nil
	case f.ReturnsNull:
		return search.Factory{Desc: "() => null", Fn: func() any { return nil }}, nil
	default:
		msg := f.Panics
		return search.Factory{
			Desc: fmt.Sprintf("() => { throw %q }", msg),
			Fn:   func() any { panic(msg) },
		}, nil
	}
}

func quote(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
