package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePkg = "github.com/seitarof/mirror/testdata/gensample"

func typeNames(infos []*TypeInfo) []string {
	out := make([]string, 0, len(infos))
	for _, t := range infos {
		out = append(out, t.Name)
	}
	return out
}

func fieldByName(fields []FieldInfo, name string) *FieldInfo {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}

func TestParse_DeclarationsInSourceOrder(t *testing.T) {
	info, err := New(nil).Parse(samplePkg)
	require.NoError(t, err)

	assert.Equal(t, "gensample", info.Name)
	assert.Equal(t, samplePkg, info.Path)
	assert.Equal(t,
		[]string{"Shape", "Describer", "Base", "Square", "codeA", "codeB", "Badge", "Level"},
		typeNames(info.Types),
		"generic types and aliases are skipped")

	var consts []string
	for _, c := range info.Consts {
		consts = append(consts, c.Name)
	}
	assert.Equal(t, []string{"Low", "Mid", "High", "Unrelated"}, consts)

	var funcs []string
	for _, f := range info.Funcs {
		funcs = append(funcs, f.Name)
	}
	assert.Equal(t, []string{"NewSquare", "NewBadge"}, funcs)
}

func TestParse_TypeInfo(t *testing.T) {
	info, err := New(nil).Parse(samplePkg)
	require.NoError(t, err)

	square := info.Lookup("Square")
	require.NotNil(t, square)
	assert.Equal(t, TypeKindStruct, square.Kind)
	assert.Equal(t, samplePkg+".Square", square.FullName())
	assert.Equal(t, []string{"Area", "Describe"}, square.Methods)
	require.NotNil(t, square.Super())
	assert.Equal(t, "Base", square.Super().Obj().Name())

	assert.Equal(t, TypeKindInterface, info.Lookup("Shape").Kind)
	assert.Equal(t, TypeKindBasic, info.Lookup("Level").Kind)
	assert.Nil(t, info.Lookup("Box"))
	assert.Nil(t, info.Lookup("Base").Super())
}

func TestParse_FlattenedFields(t *testing.T) {
	info, err := New(nil).Parse(samplePkg)
	require.NoError(t, err)

	square := info.Lookup("Square")
	var names []string
	for _, f := range square.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"ID", "Name", "Side"}, names, "unexported fields are excluded")

	name := fieldByName(square.Fields, "Name")
	require.NotNil(t, name)
	assert.Equal(t, "Base.Name", name.AccessPath)
	assert.Equal(t, "Base", name.EmbedFrom)
	assert.Equal(t, `json:"name"`, name.Tag)
	assert.Equal(t, "string", name.TypeStr)

	badge := info.Lookup("Badge")
	assert.Nil(t, fieldByName(badge.Fields, "Code"), "conflicting promoted fields are dropped")
	assert.NotNil(t, fieldByName(badge.Fields, "Label"))
}

func TestParse_MissingPackage(t *testing.T) {
	_, err := New(nil).Parse("github.com/seitarof/mirror/testdata/nope")
	require.Error(t, err)
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "struct", TypeKindStruct.String())
	assert.Equal(t, "other", TypeKind(42).String())
}

func BenchmarkParse_Sample(b *testing.B) {
	p := New(nil)

	b.ReportAllocs()
	for b.Loop() {
		info, err := p.Parse(samplePkg)
		if err != nil {
			b.Fatal(err)
		}
		if len(info.Types) == 0 {
			b.Fatal("empty parse result")
		}
	}
}
