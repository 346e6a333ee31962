package hostsim

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// Error codes for bundle loading.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeLoadFailed   = "E004" // CUE load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeSchema       = "E201" // Bundle does not satisfy the schema
	ErrCodeMissingEntry = "E202" // Entry module not defined
	ErrCodeLazyEntry    = "E203" // Entry module is in a lazy chunk
)

// LoadError is an error found while loading a bundle.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// schema constrains the top-level bundle field.
const schema = `
#Export: {
	kind:          "object" | "function" | "component" | "store"
	props?:        [...string]
	code?:         string
	display_name?: string
	store_name?:   string
}

#Module: {
	chunk:    *"" | string
	source:   string
	exports?: {[string]: #Export}
}

#Chunk: {
	fail?: string
}

bundle: {
	entry:   string
	modules: {[string]: #Module}
	chunks?: {[string]: #Chunk}
}
`

type exportSpec struct {
	Kind        string   `json:"kind"`
	Props       []string `json:"props"`
	Code        string   `json:"code"`
	DisplayName string   `json:"display_name"`
	StoreName   string   `json:"store_name"`
}

type chunkSpec struct {
	Fail string `json:"fail"`
}

// LoadBundle loads a bundle from a .cue file or from a directory holding a
// single CUE package.
func LoadBundle(path string) (*Bundle, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("bundle not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing bundle: %v", err)}
	}

	ctx := cuecontext.New()
	if !info.IsDir() {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading bundle: %v", err)}
		}
		return decodeBundle(ctx, ctx.CompileBytes(src, cue.Filename(path)))
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: path})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}
	return decodeBundle(ctx, ctx.BuildInstance(inst))
}

// ParseBundle parses a bundle from CUE source. filename is used in error
// positions.
func ParseBundle(src []byte, filename string) (*Bundle, error) {
	ctx := cuecontext.New()
	return decodeBundle(ctx, ctx.CompileBytes(src, cue.Filename(filename)))
}

func decodeBundle(ctx *cue.Context, value cue.Value) (*Bundle, error) {
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeBuildFailed, err)
	}

	if !value.LookupPath(cue.ParsePath("bundle")).Exists() {
		return nil, &LoadError{Code: ErrCodeSchema, Message: "missing bundle field"}
	}

	value = ctx.CompileString(schema, cue.Filename("bundle-schema.cue")).Unify(value)
	root := value.LookupPath(cue.ParsePath("bundle"))
	if err := root.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(ErrCodeSchema, err)
	}

	b := &Bundle{Chunks: make(map[string]Chunk)}
	entry, err := root.LookupPath(cue.ParsePath("entry")).String()
	if err != nil {
		return nil, cueError(ErrCodeSchema, err)
	}
	b.Entry = entry

	modules, err := root.LookupPath(cue.ParsePath("modules")).Fields()
	if err != nil {
		return nil, cueError(ErrCodeSchema, err)
	}
	for modules.Next() {
		m, err := decodeModule(modules.Label(), modules.Value())
		if err != nil {
			return nil, err
		}
		b.Modules = append(b.Modules, m)
	}

	if chunksVal := root.LookupPath(cue.ParsePath("chunks")); chunksVal.Exists() {
		chunks, err := chunksVal.Fields()
		if err != nil {
			return nil, cueError(ErrCodeSchema, err)
		}
		for chunks.Next() {
			var spec chunkSpec
			if err := chunks.Value().Decode(&spec); err != nil {
				return nil, cueError(ErrCodeSchema, err)
			}
			b.Chunks[chunks.Label()] = Chunk{Fail: spec.Fail}
		}
	}

	entryModule, ok := b.Module(b.Entry)
	if !ok {
		return nil, &LoadError{
			Code:    ErrCodeMissingEntry,
			Message: fmt.Sprintf("entry module %q is not defined", b.Entry),
			Pos:     root.LookupPath(cue.ParsePath("entry")).Pos(),
		}
	}
	if entryModule.Chunk != "" {
		return nil, &LoadError{
			Code:    ErrCodeLazyEntry,
			Message: fmt.Sprintf("entry module %q is in lazy chunk %q", b.Entry, entryModule.Chunk),
			Pos:     root.LookupPath(cue.ParsePath("entry")).Pos(),
		}
	}
	return b, nil
}

func decodeModule(id string, v cue.Value) (Module, error) {
	m := Module{ID: id}

	var err error
	if m.Chunk, err = v.LookupPath(cue.ParsePath("chunk")).String(); err != nil {
		return m, cueError(ErrCodeSchema, err)
	}
	if m.Source, err = v.LookupPath(cue.ParsePath("source")).String(); err != nil {
		return m, cueError(ErrCodeSchema, err)
	}

	exportsVal := v.LookupPath(cue.ParsePath("exports"))
	if !exportsVal.Exists() {
		return m, nil
	}
	exports, err := exportsVal.Fields()
	if err != nil {
		return m, cueError(ErrCodeSchema, err)
	}
	for exports.Next() {
		var spec exportSpec
		if err := exports.Value().Decode(&spec); err != nil {
			return m, cueError(ErrCodeSchema, err)
		}
		m.Exports = append(m.Exports, Export{
			Name:        exports.Label(),
			Kind:        ExportKind(spec.Kind),
			Props:       spec.Props,
			Code:        spec.Code,
			DisplayName: spec.DisplayName,
			StoreName:   spec.StoreName,
		})
	}
	return m, nil
}

// cueError converts a CUE error to a LoadError carrying the first position.
func cueError(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
