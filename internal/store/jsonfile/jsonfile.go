// Package jsonfile persists a collection as one JSON array on disk.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mamadbah2/stockbook/internal/store"
)

// DecodeFunc coerces one raw array element into a record.
type DecodeFunc[T any] func(raw json.RawMessage) (T, error)

// MalformedStoreError reports a backing file that exists but is not a valid
// JSON array of records.
type MalformedStoreError struct {
	Path   string
	Offset int64
	// Index is the array element that failed to decode, or -1 when the
	// document itself is broken.
	Index int
	Err   error
}

func (e *MalformedStoreError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("malformed store %s: element %d at offset %d: %v", e.Path, e.Index, e.Offset, e.Err)
	}
	return fmt.Sprintf("malformed store %s at offset %d: %v", e.Path, e.Offset, e.Err)
}

func (e *MalformedStoreError) Unwrap() error { return e.Err }

// Is makes every MalformedStoreError match store.ErrMalformedStore.
func (e *MalformedStoreError) Is(target error) bool { return target == store.ErrMalformedStore }

// File is a JSON array file holding records of type T.
type File[T any] struct {
	path   string
	decode DecodeFunc[T]
}

// New returns a codec bound to path.
func New[T any](path string, decode DecodeFunc[T]) *File[T] {
	return &File[T]{path: path, decode: decode}
}

// Path returns the backing file location.
func (f *File[T]) Path() string { return f.path }

// Load reads the whole file. A missing file yields an empty collection.
func (f *File[T]) Load() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, f.malformed(-1, offsetOf(err, dec), err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, f.malformed(-1, 0, fmt.Errorf("top-level value must be an array, got %v", tok))
	}

	items := make([]T, 0)
	for i := 0; dec.More(); i++ {
		start := dec.InputOffset()

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, f.malformed(-1, offsetOf(err, dec), err)
		}

		item, err := f.decode(raw)
		if err != nil {
			return nil, f.malformed(i, start, err)
		}
		items = append(items, item)
	}

	if _, err := dec.Token(); err != nil {
		return nil, f.malformed(-1, offsetOf(err, dec), err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, f.malformed(-1, dec.InputOffset(), errors.New("trailing data after array"))
	}

	return items, nil
}

// Save overwrites the file with exactly items. The write goes through a
// temp file and a rename so a reader never sees a partial array.
func (f *File[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	return WriteAtomic(f.path, buf.Bytes())
}

// WriteAtomic replaces path with data using a temp file in the same
// directory followed by a rename.
func WriteAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *File[T]) malformed(index int, offset int64, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &MalformedStoreError{Path: f.path, Offset: offset, Index: index, Err: err}
}

func offsetOf(err error, dec *json.Decoder) int64 {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset
	}
	return dec.InputOffset()
}
