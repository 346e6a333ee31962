package hostsim

import (
	"maps"
	"slices"
)

// ExportKind is the shape of a module export.
type ExportKind string

const (
	KindObject    ExportKind = "object"
	KindFunction  ExportKind = "function"
	KindComponent ExportKind = "component"
	KindStore     ExportKind = "store"
)

// Bundle is a host application: its modules and how they are chunked.
type Bundle struct {
	// Entry is the id of the bootstrap module.
	Entry   string
	Modules []Module
	// Chunks carries per-chunk settings, keyed by chunk id.
	Chunks map[string]Chunk
}

// Module is one module of the bundle.
type Module struct {
	ID string
	// Chunk is the lazy chunk holding the module, or "" for the eager bootstrap.
	Chunk   string
	Source  string
	Exports []Export
}

// Chunk holds per-chunk settings.
type Chunk struct {
	// Fail, if set, makes loading the chunk fail with this message.
	Fail string
}

// Export is a named module export.
type Export struct {
	Name        string
	Kind        ExportKind
	Props       []string
	Code        string
	DisplayName string
	StoreName   string
}

// Module returns the module with the given id.
func (b *Bundle) Module(id string) (Module, bool) {
	for _, m := range b.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// LazyChunks returns the lazy chunk ids in first-reference order.
func (b *Bundle) LazyChunks() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range b.Modules {
		if m.Chunk == "" || seen[m.Chunk] {
			continue
		}
		seen[m.Chunk] = true
		ids = append(ids, m.Chunk)
	}
	for _, id := range slices.Sorted(maps.Keys(b.Chunks)) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// Function is a function export.
type Function struct {
	Name   string
	Source string
}

// Code implements search.Coded.
func (f *Function) Code() string { return f.Source }

// Component is a UI component export.
type Component struct {
	Name    string
	Display string
	Source  string
}

// Code implements search.Coded.
func (c *Component) Code() string { return c.Source }

// DisplayName implements search.Displayed.
func (c *Component) DisplayName() string { return c.Display }

// StoreValue is a store export.
type StoreValue struct {
	Name string
}

// StoreName implements search.Store.
func (s *StoreValue) StoreName() string { return s.Name }

// Value builds the runtime value of an export.
func (e Export) Value() any {
	switch e.Kind {
	case KindFunction:
		return &Function{Name: e.Name, Source: e.Code}
	case KindComponent:
		display := e.DisplayName
		if display == "" {
			display = e.Name
		}
		return &Component{Name: e.Name, Display: display, Source: e.Code}
	case KindStore:
		name := e.StoreName
		if name == "" {
			name = e.Name
		}
		return &StoreValue{Name: name}
	default:
		obj := make(map[string]any, len(e.Props))
		for _, p := range e.Props {
			obj[p] = true
		}
		return obj
	}
}
