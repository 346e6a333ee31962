package report

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reporter/internal/intercept"
	"github.com/roach88/reporter/internal/logging"
	"github.com/roach88/reporter/internal/search"
)

func TestReporter_Lines(t *testing.T) {
	rec := logging.NewRecorder()
	r := New(rec.Logger())

	r.Start()
	r.UnmatchedPatch(intercept.PatchRecord{Owner: "BetterFolders", Find: ".FOLDER_ITEM"})
	r.SearchFailure(search.Outcome{
		Record: search.Record{Type: search.TypeWaitForStore, Args: []any{"UserStore"}},
		Method: search.MethodFindStore,
		Status: search.StatusNotFound,
	})
	r.Finished()

	assert.Equal(t, []string{
		"INFO [Reporter] Starting test...",
		"WARN [WebpackInterceptor] Patch by BetterFolders found no module (Module id is -): .FOLDER_ITEM",
		`WARN [Reporter] Webpack Find Fail: waitForStore("UserStore")`,
		"INFO [Reporter] Finished test",
	}, rec.Lines())
}

func TestReporter_SearchFailureCarriesCause(t *testing.T) {
	rec := logging.NewRecorder()
	New(rec.Logger()).SearchFailure(search.Outcome{
		Index:  3,
		Record: search.Record{Type: search.TypeFindByProps, Args: []any{"a"}},
		Method: search.MethodFindByProps,
		Status: search.StatusErrored,
		Err:    errors.New("boom"),
	})

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, slog.LevelWarn, entries[0].Level)
	assert.Equal(t, "errored", entries[0].Attrs["status"])
	assert.Equal(t, "boom", entries[0].Attrs["error"])
	assert.Equal(t, "3", entries[0].Attrs["index"])
}

func TestReporter_Fatal(t *testing.T) {
	rec := logging.NewRecorder()
	New(rec.Logger()).Fatal(errors.New("host exploded"))

	assert.Equal(t, []string{"ERROR [Reporter] A fatal error occurred: host exploded"}, rec.Lines())
}
