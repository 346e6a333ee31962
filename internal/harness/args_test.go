package harness

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/reporter/internal/search"
)

// storeResolver answers FindStore and FindByProps from fixed tables.
type storeResolver struct {
	stores map[string]any
	calls  []string
}

func (r *storeResolver) Find(args ...any) (any, error) {
	r.calls = append(r.calls, "find")
	return nil, nil
}

func (r *storeResolver) FindByProps(args ...any) (any, error) {
	r.calls = append(r.calls, "findByProps")
	return nil, errors.New("resolver offline")
}

func (r *storeResolver) FindByCode(args ...any) (any, error) { return nil, nil }

func (r *storeResolver) FindStore(args ...any) (any, error) {
	r.calls = append(r.calls, "findStore")
	name, err := search.StringArg(search.MethodFindStore, args, 0)
	if err != nil {
		return nil, err
	}
	return r.stores[name], nil
}

func (r *storeResolver) FindComponentByCode(args ...any) (any, error) { return nil, nil }

func (r *storeResolver) MapMangledModule(args ...any) (any, error) { return nil, nil }

func (r *storeResolver) ExtractAndLoadChunks(ctx context.Context, code, matcher any) (any, error) {
	return false, nil
}

func decodeArgs(t *testing.T, src string) []ArgSpec {
	t.Helper()
	var args []ArgSpec
	require.NoError(t, yaml.Unmarshal([]byte(src), &args))
	return args
}

func TestArgSpec_UnmarshalYAML(t *testing.T) {
	args := decodeArgs(t, `
- UserStore
- null
- [a, b]
- filter: {by_props: [getUser]}
- factory: {returns_null: true}
- regex: 'require\.e\("(\w+)"\)'
- mappers:
    store: {by_store_name: UserStore}
`)
	require.Len(t, args, 7)

	require.NotNil(t, args[0].String)
	assert.Equal(t, "UserStore", *args[0].String)
	assert.True(t, args[1].Null)
	assert.Equal(t, []string{"a", "b"}, args[2].Strings)
	require.NotNil(t, args[3].Filter)
	assert.Equal(t, []string{"getUser"}, args[3].Filter.ByProps)
	require.NotNil(t, args[4].Factory)
	assert.True(t, args[4].Factory.ReturnsNull)
	require.NotNil(t, args[5].Regex)
	assert.Equal(t, `require\.e\("(\w+)"\)`, *args[5].Regex)
	assert.Equal(t, "UserStore", args[6].Mappers["store"].ByStoreName)

	for i, a := range args {
		assert.NoError(t, a.validate(), "args[%d]", i)
	}
}

func TestArgSpec_UnmarshalYAMLRejectsAmbiguousObjects(t *testing.T) {
	var args []ArgSpec
	err := yaml.Unmarshal([]byte(`- {filter: {by_props: [a]}, regex: x}`), &args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of filter, factory, regex, mappers")

	err = yaml.Unmarshal([]byte(`- {}`), &args)
	require.Error(t, err)
}

func TestArgSpec_Build(t *testing.T) {
	r := &storeResolver{}
	args := decodeArgs(t, `
- UserStore
- null
- [a, b]
- filter: {by_code: ["useState"]}
- regex: 'x(\d)'
- mappers:
    store: {by_store_name: UserStore}
`)

	values := make([]any, len(args))
	for i, a := range args {
		v, err := a.Build(r)
		require.NoError(t, err, "args[%d]", i)
		values[i] = v
	}

	assert.Equal(t, "UserStore", values[0])
	assert.Nil(t, values[1])
	assert.Equal(t, []string{"a", "b"}, values[2])

	filter, ok := values[3].(search.Filter)
	require.True(t, ok)
	assert.Equal(t, `byCode("useState")`, filter.String())

	re, ok := values[4].(*regexp.Regexp)
	require.True(t, ok)
	assert.Equal(t, `x(\d)`, re.String())

	mappers, ok := values[5].(map[string]search.Filter)
	require.True(t, ok)
	assert.Equal(t, `byStoreName("UserStore")`, mappers["store"].String())
}

func TestFilterSpec_Build(t *testing.T) {
	tests := []struct {
		name string
		spec FilterSpec
		want string
	}{
		{"props", FilterSpec{ByProps: []string{"a", "b"}}, `byProps("a", "b")`},
		{"code", FilterSpec{ByCode: []string{"x"}}, `byCode("x")`},
		{"store", FilterSpec{ByStoreName: "UserStore"}, `byStoreName("UserStore")`},
		{"display", FilterSpec{ByDisplayName: "Button"}, `byDisplayName("Button")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.spec.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.String())
		})
	}

	_, err := FilterSpec{}.Build()
	assert.Error(t, err)
	_, err = FilterSpec{ByProps: []string{"a"}, ByStoreName: "X"}.Build()
	assert.Error(t, err)
}

func TestFactorySpec_Build(t *testing.T) {
	store := struct{ Name string }{"UserStore"}
	r := &storeResolver{stores: map[string]any{"UserStore": store}}

	f, err := FactorySpec{FindStore: "UserStore"}.Build(r)
	require.NoError(t, err)
	assert.Equal(t, `() => findStore("UserStore")`, f.String())
	assert.Empty(t, r.calls, "factories resolve lazily")
	assert.Equal(t, store, f.Fn())
	assert.Equal(t, []string{"findStore"}, r.calls)

	f, err = FactorySpec{FindByProps: []string{"getUser", "getCurrentUser"}}.Build(r)
	require.NoError(t, err)
	assert.Equal(t, `() => findByProps("getUser", "getCurrentUser")`, f.String())
	assert.Nil(t, f.Fn(), "resolver errors read as null")

	f, err = FactorySpec{Find: &FilterSpec{ByDisplayName: "Button"}}.Build(r)
	require.NoError(t, err)
	assert.Equal(t, `() => find(byDisplayName("Button"))`, f.String())
	assert.Nil(t, f.Fn())

	f, err = FactorySpec{ReturnsNull: true}.Build(r)
	require.NoError(t, err)
	assert.Equal(t, "() => null", f.String())
	assert.Nil(t, f.Fn())

	f, err = FactorySpec{Panics: "boom"}.Build(r)
	require.NoError(t, err)
	assert.Equal(t, `() => { throw "boom" }`, f.String())
	assert.PanicsWithValue(t, "boom", func() { f.Fn() })
}

func TestFactorySpec_RequiresExactlyOne(t *testing.T) {
	_, err := FactorySpec{}.Build(&storeResolver{})
	require.Error(t, err)

	_, err = FactorySpec{ReturnsNull: true, FindStore: "X"}.Build(&storeResolver{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of find, find_by_props, find_store, returns_null, panics")

	_, err = FactorySpec{Find: &FilterSpec{}}.Build(&storeResolver{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find: filter must set exactly one")
}
