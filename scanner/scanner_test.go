package scanner_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seitarof/mirror/internal/testutil/zoo"
	"github.com/seitarof/mirror/reflection"
	"github.com/seitarof/mirror/scanner"
)

const zooNS = "github.com/seitarof/mirror/internal/testutil/zoo"

func unit(name string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(`{"name":"` + name + `"}`)}
}

func writeZip(t *testing.T, entries ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "units.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e)
		require.NoError(t, err)
		_, err = w.Write([]byte("{}"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func typeNames(set scanner.Set) []string {
	out := []string{}
	for _, t := range set.Types() {
		out = append(out, t.Name())
	}
	return out
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		entry string
		want  string
		ok    bool
	}{
		{"example.com/app/model/User.gotype", "example.com/app/model.User", true},
		{"User.gotype", "User", true},
		{"example.com/app/model/User.go", "", false},
		{"example.com/app/.gotype", "", false},
		{".gotype", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			got, ok := scanner.Identifier(tt.entry, scanner.DefaultSuffix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.Equal(t, tt.entry, scanner.Entry(got, scanner.DefaultSuffix))
			}
		})
	}
}

func TestNamespaceScanner_TopLevelAndInner(t *testing.T) {
	rt := zoo.NewRuntime()
	fsys := fstest.MapFS{
		zooNS + "/Kennel.gotype":     unit("Kennel"),
		zooNS + "/KennelDoor.gotype": unit("KennelDoor"),
	}
	s := scanner.NewNamespaceScanner(
		scanner.WithLocator(scanner.FSPath{fsys}),
		scanner.WithResolver(rt),
		scanner.WithLogger(zap.NewNop()),
	)

	set, err := s.Scan(zooNS)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kennel", "KennelDoor"}, typeNames(set))

	topLevel := 0
	for _, typ := range set.Types() {
		if _, inner := typ.Enclosing(); !inner {
			topLevel++
			assert.Equal(t, "Kennel", typ.Name())
		}
	}
	assert.Equal(t, 1, topLevel)
}

func TestNamespaceScanner_SplitRootsAndRecursion(t *testing.T) {
	a := fstest.MapFS{
		"example.com/app/A.gotype":          unit("A"),
		"example.com/app/notes.txt":         unit("notes"),
		"example.com/app/sub/deep/C.gotype": unit("C"),
	}
	b := fstest.MapFS{
		"example.com/app/B.gotype":   unit("B"),
		"example.com/other/X.gotype": unit("X"),
	}
	s := scanner.NewNamespaceScanner(scanner.WithLocator(scanner.FSPath{a, b}))

	names, err := s.Names("example.com/app")
	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{"example.com/app.A", "example.com/app.B", "example.com/app/sub/deep.C"}, names)
}

func TestNamespaceScanner_Errors(t *testing.T) {
	fsys := fstest.MapFS{zooNS + "/Missing.gotype": unit("Missing")}

	s := scanner.NewNamespaceScanner(
		scanner.WithLocator(scanner.FSPath{fsys}),
		scanner.WithResolver(zoo.NewRuntime()),
	)

	_, err := s.Scan("example.com/nowhere")
	require.ErrorIs(t, err, scanner.ErrNamespaceNotFound)
	require.ErrorIs(t, err, scanner.ErrScan)

	_, err = s.Scan(zooNS)
	require.ErrorIs(t, err, reflection.ErrUnresolved)
	assert.Contains(t, err.Error(), "Missing")

	_, err = s.Scan("")
	require.ErrorIs(t, err, scanner.ErrScan)
}

func TestNamespaceScanner_FreshSetPerScan(t *testing.T) {
	rt := zoo.NewRuntime()
	fsys := fstest.MapFS{zooNS + "/Dog.gotype": unit("Dog")}
	s := scanner.NewNamespaceScanner(scanner.WithLocator(scanner.FSPath{fsys}), scanner.WithResolver(rt))

	first, err := s.Scan(zooNS)
	require.NoError(t, err)
	delete(first, rt.TypeOf(reflect.TypeFor[zoo.Dog]()))

	second, err := s.Scan(zooNS)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Len())
	assert.True(t, second.Contains(rt.TypeOf(reflect.TypeFor[zoo.Dog]())))
}

func TestNamespaceScanner_SearchPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	nsDir := filepath.Join(dir, filepath.FromSlash(zooNS))
	require.NoError(t, os.MkdirAll(nsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nsDir, "Animal.gotype"), []byte("{}"), 0o644))
	t.Setenv(scanner.EnvVar, dir)

	s := scanner.NewNamespaceScanner(scanner.WithResolver(zoo.NewRuntime()))
	set, err := s.Scan(zooNS)
	require.NoError(t, err)
	assert.Equal(t, []string{"Animal"}, typeNames(set))
}

func TestPackageLocator(t *testing.T) {
	s := scanner.NewNamespaceScanner(scanner.WithLocator(scanner.PackageLocator{}))

	names, err := s.Names("github.com/seitarof/mirror/testdata/units/zoo")
	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{
		"github.com/seitarof/mirror/testdata/units/zoo.Kennel",
		"github.com/seitarof/mirror/testdata/units/zoo/pens.Pen",
	}, names)
}

func TestArchiveScanner_FiltersBySuffix(t *testing.T) {
	rt := zoo.NewRuntime()
	path := writeZip(t, zooNS+"/Dog.gotype", zooNS+"/readme.txt")

	set, err := scanner.NewArchiveScanner().Scan(scanner.Archive{Path: path, Resolver: rt})
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, []string{"Dog"}, typeNames(set))
}

func TestArchiveScanner_Errors(t *testing.T) {
	rt := zoo.NewRuntime()
	s := scanner.NewArchiveScanner(scanner.WithResolver(rt))

	_, err := s.Scan(scanner.Archive{Path: filepath.Join(t.TempDir(), "missing.zip")})
	require.ErrorIs(t, err, scanner.ErrScan)

	notZip := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(notZip, []byte("plain text"), 0o644))
	_, err = s.Scan(scanner.Archive{Path: notZip})
	require.ErrorIs(t, err, scanner.ErrScan)

	path := writeZip(t, zooNS+"/Dog.gotype", zooNS+"/Ghost.gotype")
	_, err = s.Scan(scanner.Archive{Path: path})
	require.ErrorIs(t, err, reflection.ErrUnresolved)
	assert.Contains(t, err.Error(), "Ghost")
}

func TestArchiveScanner_CustomSuffixAndResolver(t *testing.T) {
	rt := zoo.NewRuntime()
	path := writeZip(t, "a/b/Thing.unit", "a/b/Other.gotype")

	var asked []string
	resolver := reflection.ResolverFunc(func(name string) (reflection.Type, error) {
		asked = append(asked, name)
		return rt.TypeOf(reflect.TypeFor[zoo.Kennel]()), nil
	})

	s := scanner.NewArchiveScanner(scanner.WithSuffix(".unit"))
	set, err := s.Scan(scanner.Archive{Path: path, Resolver: resolver})
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, []string{"a/b.Thing"}, asked)
}
