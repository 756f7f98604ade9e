package envstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mapOf(pairs ...string) *Map {
	m := New()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKeys []string
		want     map[string]string
	}{
		{
			name:     "simple pairs keep order",
			input:    "B=2\nA=1\n",
			wantKeys: []string{"B", "A"},
			want:     map[string]string{"A": "1", "B": "2"},
		},
		{
			name:     "comments and blank lines skipped",
			input:    "# header\n\nPORT=5000\n   \n# DB_HOST=ignored\n",
			wantKeys: []string{"PORT"},
			want:     map[string]string{"PORT": "5000"},
		},
		{
			name:     "line without separator dropped",
			input:    "NODE_ENV=development\nnot a valid line\nPORT=5000\n",
			wantKeys: []string{"NODE_ENV", "PORT"},
			want:     map[string]string{"NODE_ENV": "development", "PORT": "5000"},
		},
		{
			name:     "only first equals separates",
			input:    "DATABASE_URL=postgres://u:p@h/db?sslmode=require&x=1\n",
			wantKeys: []string{"DATABASE_URL"},
			want:     map[string]string{"DATABASE_URL": "postgres://u:p@h/db?sslmode=require&x=1"},
		},
		{
			name:     "whitespace trimmed around key and value",
			input:    "  KEY =  spaced value  \n",
			wantKeys: []string{"KEY"},
			want:     map[string]string{"KEY": "spaced value"},
		},
		{
			name:     "empty value kept",
			input:    "EMPTY=\n",
			wantKeys: []string{"EMPTY"},
			want:     map[string]string{"EMPTY": ""},
		},
		{
			name:     "duplicate key keeps first position and last value",
			input:    "A=1\nB=2\nA=3\n",
			wantKeys: []string{"A", "B"},
			want:     map[string]string{"A": "3", "B": "2"},
		},
		{
			name:     "CRLF endings",
			input:    "A=1\r\nB=2\r\n",
			wantKeys: []string{"A", "B"},
			want:     map[string]string{"A": "1", "B": "2"},
		},
		{
			name:     "missing key dropped",
			input:    "=value\nA=1\n",
			wantKeys: []string{"A"},
			want:     map[string]string{"A": "1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Parse(strings.NewReader(tc.input))
			require.NoError(t, err)
			require.Equal(t, tc.wantKeys, m.Keys())
			for k, v := range tc.want {
				got, ok := m.Get(k)
				require.True(t, ok, "key %s", k)
				require.Equal(t, v, got)
			}
		})
	}
}

func TestParse_LongLine(t *testing.T) {
	long := strings.Repeat("x", 256*1024)
	input := "A=1\nBLOB=" + long + "\nB=2"

	m, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []string{"A", "BLOB", "B"}, m.Keys())
	v, _ := m.Get("BLOB")
	require.Len(t, v, len(long))
	v, _ = m.Get("B")
	require.Equal(t, "2", v)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	require.Equal(t, 0, m.Len())
}

func TestLoad_DirectoryIsError(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	m := mapOf(
		"NODE_ENV", "production",
		"PORT", "5000",
		"JWT_SECRET", "abc=def",
		"DATABASE_URL", "postgres://u:p@db:5432/meetcute",
		"EMPTY", "",
	)

	require.NoError(t, Save(path, m))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, m.Keys(), got.Keys())
	for _, k := range m.Keys() {
		want, _ := m.Get(k)
		v, _ := got.Get(k)
		require.Equal(t, want, v, "key %s", k)
	}
}

func TestSave_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, Save(path, mapOf("B", "2", "A", "1")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "B=2\nA=1\n", string(raw))
}

func TestSave_NewFileIsPrivate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, Save(path, mapOf("A", "1")))

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())
}

func TestSave_OverwriteKeepsModeAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("OLD=1\n"), 0o640))

	require.NoError(t, Save(path, mapOf("NEW", "2")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "NEW=2\n", string(raw))

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), st.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMap_SetDeleteOrder(t *testing.T) {
	m := mapOf("A", "1", "B", "2", "C", "3")

	m.Set("B", "20")
	require.Equal(t, []string{"A", "B", "C"}, m.Keys())

	require.True(t, m.Delete("B"))
	require.False(t, m.Delete("B"))
	require.Equal(t, []string{"A", "C"}, m.Keys())

	m.Set("B", "again")
	require.Equal(t, []string{"A", "C", "B"}, m.Keys())
}

func TestMap_MergeDoesNotOverwrite(t *testing.T) {
	m := mapOf("PORT", "6000")
	tmpl := mapOf("PORT", "5000", "NODE_ENV", "development", "DB_HOST", "localhost")

	n := m.Merge(tmpl)
	require.Equal(t, 2, n)
	v, _ := m.Get("PORT")
	require.Equal(t, "6000", v)
	require.Equal(t, []string{"PORT", "NODE_ENV", "DB_HOST"}, m.Keys())
}

func TestMap_CloneIsIndependent(t *testing.T) {
	m := mapOf("A", "1")
	c := m.Clone()
	c.Set("A", "2")
	c.Set("B", "3")

	v, _ := m.Get("A")
	require.Equal(t, "1", v)
	require.False(t, m.Has("B"))
}
