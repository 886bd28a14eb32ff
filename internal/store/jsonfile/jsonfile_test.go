package jsonfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockbook/internal/store"
)

type note struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Owner *string `json:"owner"`
}

func decodeNote(raw json.RawMessage) (note, error) {
	fields, err := store.DecodeFields(raw)
	if err != nil {
		return note{}, err
	}
	id, err := store.Int(fields["id"])
	if err != nil {
		return note{}, err
	}
	text, err := store.String(fields["text"])
	if err != nil {
		return note{}, err
	}
	owner, err := store.OptionalString(fields["owner"])
	if err != nil {
		return note{}, err
	}
	return note{ID: id, Text: text, Owner: owner}, nil
}

func strPtr(s string) *string { return &s }

func TestLoadMissingFileIsEmpty(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "absent.json"), decodeNote)

	items, err := f.Load()
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRoundTripPreservesOrderAndValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	f := New(path, decodeNote)

	want := []note{
		{ID: 3, Text: "Introducción a PYTHON", Owner: strPtr("Ana")},
		{ID: 1, Text: "<b>&</b>", Owner: nil},
		{ID: 2, Text: "", Owner: strPtr("")},
	}
	require.NoError(t, f.Save(want))

	got, err := f.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Introducción")
	assert.Contains(t, string(raw), "<b>&</b>")
	assert.Contains(t, string(raw), `"owner": null`)
}

func TestSaveEmptyWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	f := New(path, decodeNote)

	require.NoError(t, f.Save(nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestSaveOverwritesWithoutMerging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	f := New(path, decodeNote)

	require.NoError(t, f.Save([]note{{ID: 1}, {ID: 2}}))
	require.NoError(t, f.Save([]note{{ID: 5, Text: "only"}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":5,"text":"only","owner":null}]`, string(raw))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantIndex int
	}{
		{name: "syntax error", content: `[{"id": 1,}]`, wantIndex: -1},
		{name: "object at top level", content: `{"id": 1}`, wantIndex: -1},
		{name: "empty file", content: ``, wantIndex: -1},
		{name: "unterminated array", content: `[{"id": 1}`, wantIndex: -1},
		{name: "trailing data", content: `[] []`, wantIndex: -1},
		{name: "bad element", content: `[{"id": 1}, {"id": "x"}]`, wantIndex: 1},
		{name: "scalar element", content: `[{"id": 1}, 7]`, wantIndex: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "notes.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			items, err := New(path, decodeNote).Load()
			require.Error(t, err)
			assert.Nil(t, items)
			assert.True(t, errors.Is(err, store.ErrMalformedStore))

			var malformed *MalformedStoreError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, path, malformed.Path)
			assert.Equal(t, tt.wantIndex, malformed.Index)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoadReportsSyntaxOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 1}, {"id": ]`), 0o644))

	_, err := New(path, decodeNote).Load()
	var malformed *MalformedStoreError
	require.True(t, errors.As(err, &malformed))
	assert.Positive(t, malformed.Offset)
}

func TestSaveIntoMissingDirectoryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "notes.json")
	err := New(path, decodeNote).Save([]note{{ID: 1}})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, WriteAtomic(path, []byte("first")))
	require.NoError(t, WriteAtomic(path, []byte("second")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(raw))
}
