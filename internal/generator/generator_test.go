package generator

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/mirror/internal/parser"
	"github.com/seitarof/mirror/internal/resolver"
	"github.com/seitarof/mirror/scanner"
)

type testConfig struct {
	filename string
	funcName string
}

func (c testConfig) OutputFilename() string { return c.filename }
func (c testConfig) RegisterFunc() string   { return c.funcName }

type passthroughFormatter struct{}

func (passthroughFormatter) Format(_ string, src []byte) ([]byte, error) { return src, nil }

type memoryWriter struct {
	files map[string][]byte
	err   error
}

func (w *memoryWriter) Write(name string, data []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.files == nil {
		w.files = map[string][]byte{}
	}
	w.files[name] = data
	return nil
}

var samplePkg = &parser.PackageInfo{Name: "model", Path: "example.com/app/model"}

func samplePlans() []resolver.RegistrationPlan {
	return []resolver.RegistrationPlan{
		{Type: &parser.TypeInfo{Name: "Shape"}},
		{
			Type: &parser.TypeInfo{Name: "Square"},
			Options: []resolver.OptionPlan{
				{Expression: "reflection.Implements(reflect.TypeFor[Shape]())"},
				{Expression: "reflection.WithConstructor(NewSquare)"},
			},
		},
	}
}

func TestGenerate_WritesFormattedFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "register_gen.go")

	g := New(NewGoimportsFormatter(), NewFileWriter())
	require.NoError(t, g.Generate(testConfig{filename: filename}, samplePkg, samplePlans()))

	b, err := os.ReadFile(filename)
	require.NoError(t, err)
	got := string(b)
	assert.Contains(t, got, "// Code generated by mirror gen. DO NOT EDIT.")
	assert.Contains(t, got, "package model")
	assert.Contains(t, got, "func RegisterModelTypes(rt *reflection.Runtime) error {")
	assert.Contains(t, got, "rt.Register(reflect.TypeFor[Shape]()),")
	assert.Contains(t, got, "rt.Register(reflect.TypeFor[Square](),")
	assert.Contains(t, got, "reflection.Implements(reflect.TypeFor[Shape]()),")
	assert.Contains(t, got, "reflection.WithConstructor(NewSquare)),")
	assert.Contains(t, got, `"github.com/seitarof/mirror/reflection"`)
}

func TestGenerate_CustomFuncName(t *testing.T) {
	w := &memoryWriter{}
	g := New(passthroughFormatter{}, w)
	require.NoError(t, g.Generate(testConfig{filename: "out.go", funcName: "Register"}, samplePkg, samplePlans()))
	assert.Contains(t, string(w.files["out.go"]), "func Register(rt *reflection.Runtime) error")
}

func TestGenerate_Errors(t *testing.T) {
	g := New(passthroughFormatter{}, &memoryWriter{})
	require.Error(t, g.Generate(testConfig{filename: "out.go"}, samplePkg, nil))

	failing := New(passthroughFormatter{}, &memoryWriter{err: errors.New("disk full")})
	err := failing.Generate(testConfig{filename: "out.go"}, samplePkg, samplePlans())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write: disk full")
}

func sampleUnits() []Unit {
	return []Unit{
		{Name: "Square", Namespace: "example.com/app/model", Kind: "struct", Super: "example.com/app/model.Base",
			Fields: []UnitField{{Name: "Side", Type: "float64", Tag: `json:"side"`}}},
		{Name: "Base", Namespace: "example.com/app/model", Kind: "struct"},
		{Name: "Level", Namespace: "example.com/app/model/enum", Kind: "basic"},
	}
}

func TestDescribe(t *testing.T) {
	pkg, err := parser.New(nil).Parse("github.com/seitarof/mirror/testdata/gensample")
	require.NoError(t, err)

	units := Describe([]*parser.TypeInfo{pkg.Lookup("Square")})
	require.Len(t, units, 1)
	u := units[0]
	assert.Equal(t, "struct", u.Kind)
	assert.Equal(t, "github.com/seitarof/mirror/testdata/gensample.Base", u.Super)
	assert.Equal(t, []string{"Area", "Describe"}, u.Methods)
	assert.Equal(t, []UnitField{
		{Name: "ID", Type: "int"},
		{Name: "Name", Type: "string", Tag: `json:"name"`},
		{Name: "Side", Type: "float64", Tag: `json:"side"`},
	}, u.Fields)
	assert.Equal(t, "github.com/seitarof/mirror/testdata/gensample/Square.gotype", u.Entry())
}

func TestUnitWriter_Archive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.zip")
	require.NoError(t, NewUnitWriter().WriteArchive(path, sampleUnits()))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var entries []string
	for _, f := range zr.File {
		entries = append(entries, f.Name)
	}
	assert.Equal(t, []string{
		"example.com/app/model/Base.gotype",
		"example.com/app/model/Square.gotype",
		"example.com/app/model/enum/Level.gotype",
	}, entries)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	var got Unit
	require.NoError(t, json.NewDecoder(rc).Decode(&got))
	assert.Equal(t, sampleUnits()[0], got)

	names, err := scanner.NewArchiveScanner().Names(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"example.com/app/model.Base",
		"example.com/app/model.Square",
		"example.com/app/model/enum.Level",
	}, names)
}

func TestUnitWriter_Tree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, NewUnitWriter().WriteTree(root, sampleUnits()))

	data, err := os.ReadFile(filepath.Join(root, "example.com", "app", "model", "Base.gotype"))
	require.NoError(t, err)
	var got Unit
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Base", got.Name)

	s := scanner.NewNamespaceScanner(scanner.WithLocator(scanner.SearchPath{root}))
	names, err := s.Names("example.com/app/model")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"example.com/app/model.Base",
		"example.com/app/model.Square",
		"example.com/app/model/enum.Level",
	}, names)
}

func TestUnitWriter_ArchiveCreateError(t *testing.T) {
	err := NewUnitWriter().WriteArchive(filepath.Join(t.TempDir(), "missing", "units.zip"), sampleUnits())
	require.Error(t, err)
}

func BenchmarkGenerate_TemplateOnly(b *testing.B) {
	g := New(passthroughFormatter{}, &memoryWriter{})
	cfg := testConfig{filename: "bench_gen.go"}
	plans := samplePlans()

	b.ReportAllocs()
	for b.Loop() {
		if err := g.Generate(cfg, samplePkg, plans); err != nil {
			b.Fatal(err)
		}
	}
}
