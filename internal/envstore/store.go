// Package envstore reads and writes flat KEY=VALUE configuration files.
//
// The file format is deliberately small: one KEY=VALUE pair per line, blank
// lines and lines starting with '#' ignored, no quoting or escaping. The first
// '=' separates key from value; any further '=' belongs to the value. Lines
// without '=' are dropped silently so that a hand-edited file with a stray
// line still loads.
//
// Entries keep the order in which they were first seen, which makes Save
// deterministic and lets a Load/Save round trip reproduce the same file.
package envstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Map is an ordered string-to-string mapping. The zero value is not usable;
// create one with New.
type Map struct {
	keys   []string
	values map[string]string
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: make(map[string]string)}
}

// Get returns the value for key and whether it is present.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Lookup has the same shape as os.LookupEnv so a Map can stand in for the
// process environment.
func (m *Map) Lookup(key string) (string, bool) {
	return m.Get(key)
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position.
func (m *Map) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	c := New()
	for _, k := range m.keys {
		c.Set(k, m.values[k])
	}
	return c
}

// Merge copies every entry of src whose key is absent from m and returns the
// number of entries added. Existing keys are never overwritten.
func (m *Map) Merge(src *Map) int {
	n := 0
	for _, k := range src.keys {
		if m.Has(k) {
			continue
		}
		m.Set(k, src.values[k])
		n++
	}
	return n
}

// Parse reads KEY=VALUE lines from r. Lines may be of any length.
func Parse(r io.Reader) (*Map, error) {
	m := New()
	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read env: %w", err)
		}
		parseLine(m, raw)
		if err != nil {
			return m, nil
		}
	}
}

func parseLine(m *Map, raw string) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	m.Set(key, strings.TrimSpace(value))
}

// Load reads the file at path. A file that does not exist yields an empty
// Map and no error; the caller decides whether that is a problem.
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Write serializes m to w as one KEY=VALUE line per entry in map order.
func Write(w io.Writer, m *Map) error {
	bw := bufio.NewWriter(w)
	for _, k := range m.keys {
		if _, err := fmt.Fprintf(bw, "%s=%s\n", k, m.values[k]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes m to path. The content goes to a temporary file in the same
// directory which is then renamed over path, so a crash mid-write leaves the
// previous file intact. An existing file keeps its permission bits; a new
// file is created 0600 since it usually holds credentials.
func Save(path string, m *Map) error {
	mode := fs.FileMode(0o600)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if err := Write(tmp, m); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
