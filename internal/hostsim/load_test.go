package hostsim

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundle_File(t *testing.T) {
	b, err := LoadBundle(filepath.Join("testdata", "basic.cue"))
	require.NoError(t, err)

	assert.Equal(t, "0", b.Entry)

	var ids []string
	for _, m := range b.Modules {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"0", "7", "12", "13", "20", "21"}, ids)
	assert.Equal(t, []string{"settings", "emoji"}, b.LazyChunks())

	entry, ok := b.Module("0")
	require.True(t, ok)
	assert.Contains(t, entry.Source, `"use strict";`)
	assert.Contains(t, entry.Source, "Could not find app-mount")
	assert.Empty(t, entry.Chunk)

	button, ok := b.Module("7")
	require.True(t, ok)
	require.Len(t, button.Exports, 2)
	assert.Equal(t, Export{
		Name: "Button",
		Kind: KindComponent,
		Code: `function Button(e){return jsx("button",{className:e.look})}`,
	}, button.Exports[0])
	assert.Equal(t, []string{"FILLED", "OUTLINED"}, button.Exports[1].Props)

	store, ok := b.Module("12")
	require.True(t, ok)
	assert.Equal(t, "settings", store.Chunk)
}

func TestLoadBundle_Directory(t *testing.T) {
	b, err := LoadBundle(filepath.Join("testdata", "pkg"))
	require.NoError(t, err)

	assert.Equal(t, "boot", b.Entry)
	require.Len(t, b.Modules, 2)
	assert.Equal(t, []string{"widgets"}, b.LazyChunks())
}

func TestLoadBundle_ChunkSettings(t *testing.T) {
	b, err := LoadBundle(filepath.Join("testdata", "broken_chunk.cue"))
	require.NoError(t, err)
	assert.Equal(t, "network error", b.Chunks["vendor"].Fail)
}

func TestLoadBundle_NotFound(t *testing.T) {
	_, err := LoadBundle(filepath.Join("testdata", "missing.cue"))

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestParseBundle_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{
			name: "syntax error",
			src:  `bundle: {entry: `,
			code: ErrCodeBuildFailed,
		},
		{
			name: "missing bundle",
			src:  `host: {}`,
			code: ErrCodeSchema,
		},
		{
			name: "unknown export kind",
			src: `bundle: {
	entry: "0"
	modules: "0": {source: "x", exports: a: kind: "class"}
}`,
			code: ErrCodeSchema,
		},
		{
			name: "unknown module field",
			src: `bundle: {
	entry: "0"
	modules: "0": {source: "x", lazy: true}
}`,
			code: ErrCodeSchema,
		},
		{
			name: "entry not defined",
			src: `bundle: {
	entry: "main"
	modules: other: source: "x"
}`,
			code: ErrCodeMissingEntry,
		},
		{
			name: "entry in lazy chunk",
			src: `bundle: {
	entry: "main"
	modules: main: {chunk: "late", source: "x"}
}`,
			code: ErrCodeLazyEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBundle([]byte(tt.src), "bundle.cue")

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.code, le.Code, le.Error())
		})
	}
}

func TestLoadError_Format(t *testing.T) {
	err := &LoadError{Code: ErrCodeMissingEntry, Message: "entry module \"x\" is not defined"}
	assert.Equal(t, `E202: entry module "x" is not defined`, err.Error())
}

func TestExport_Value(t *testing.T) {
	assert.Equal(t, &StoreValue{Name: "UserStore"}, Export{Name: "UserStore", Kind: KindStore}.Value())
	assert.Equal(t, &StoreValue{Name: "Other"}, Export{Name: "x", Kind: KindStore, StoreName: "Other"}.Value())
	assert.Equal(t, &Component{Name: "B", Display: "B", Source: "c"}, Export{Name: "B", Kind: KindComponent, Code: "c"}.Value())
	assert.Equal(t, map[string]any{"a": true}, Export{Name: "o", Kind: KindObject, Props: []string{"a"}}.Value())
	assert.Equal(t, &Function{Name: "f", Source: "s"}, Export{Name: "f", Kind: KindFunction, Code: "s"}.Value())
}
