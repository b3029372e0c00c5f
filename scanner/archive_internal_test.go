package scanner

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/mirror/reflection"
)

type trackedFile struct {
	archiveFile
	closed *int
}

func (f trackedFile) Close() error {
	*f.closed++
	return f.archiveFile.Close()
}

// trackOpens counts archive opens and closes for the rest of the test.
func trackOpens(t *testing.T) (opened, closed *int) {
	t.Helper()
	opened, closed = new(int), new(int)
	orig := openArchive
	openArchive = func(path string) (archiveFile, error) {
		f, err := orig(path)
		if err != nil {
			return nil, err
		}
		*opened++
		return trackedFile{archiveFile: f, closed: closed}, nil
	}
	t.Cleanup(func() { openArchive = orig })
	return opened, closed
}

func zipBytes(t *testing.T, entries ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e)
		require.NoError(t, err)
		_, err = w.Write([]byte(`{"name":"unit"}`))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestArchiveScanner_ClosesOnEveryPath(t *testing.T) {
	dir := t.TempDir()
	full := zipBytes(t, "a/b/One.gotype", "a/b/Two.gotype")

	good := filepath.Join(dir, "good.zip")
	require.NoError(t, os.WriteFile(good, full, 0o644))
	truncated := filepath.Join(dir, "truncated.zip")
	require.NoError(t, os.WriteFile(truncated, full[:len(full)/2], 0o644))

	failing := reflection.ResolverFunc(func(name string) (reflection.Type, error) {
		return nil, reflection.ErrUnresolved
	})

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "resolution fails after read", path: good, wantErr: reflection.ErrUnresolved},
		{name: "truncated archive", path: truncated, wantErr: ErrScan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opened, closed := trackOpens(t)

			_, err := NewArchiveScanner().Scan(Archive{Path: tt.path, Resolver: failing})
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, *opened)
			assert.Equal(t, 1, *closed)
		})
	}

	t.Run("names", func(t *testing.T) {
		opened, closed := trackOpens(t)

		ids, err := NewArchiveScanner().Names(good)
		require.NoError(t, err)
		assert.Equal(t, []string{"a/b.One", "a/b.Two"}, ids)
		assert.Equal(t, 1, *opened)
		assert.Equal(t, 1, *closed)
	})

	t.Run("missing archive", func(t *testing.T) {
		opened, closed := trackOpens(t)

		_, err := NewArchiveScanner().Names(filepath.Join(dir, "missing.zip"))
		require.ErrorIs(t, err, ErrScan)
		assert.Zero(t, *opened)
		assert.Zero(t, *closed)
	})
}
