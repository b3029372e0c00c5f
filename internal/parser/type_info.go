package parser

import (
	"go/types"
	"strings"
)

// PackageInfo holds the declarations of one package that registration
// code can refer to.
type PackageInfo struct {
	Name   string
	Path   string
	Types  []*TypeInfo
	Funcs  []FuncInfo
	Consts []ConstInfo
}

// Lookup returns the type declared as name.
func (p *PackageInfo) Lookup(name string) *TypeInfo {
	for _, t := range p.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// TypeInfo describes one named, non-generic type.
type TypeInfo struct {
	Name    string
	PkgPath string
	PkgName string
	Kind    TypeKind
	Fields  []FieldInfo
	Embeds  []*types.Named
	Methods []string
	Named   *types.Named
}

func (t *TypeInfo) FullName() string {
	return t.PkgPath + "." + t.Name
}

// Super returns the first embedded struct type.
func (t *TypeInfo) Super() *types.Named {
	for _, e := range t.Embeds {
		if _, ok := e.Underlying().(*types.Struct); ok {
			return e
		}
	}
	return nil
}

// FieldInfo is one public field, declared or promoted.
type FieldInfo struct {
	Name       string
	AccessPath string
	TypeStr    string
	Kind       TypeKind
	Tag        string
	Type       types.Type
	EmbedFrom  string
}

// FuncInfo is a package-level function.
type FuncInfo struct {
	Name      string
	Signature *types.Signature
}

// ConstInfo is a package-level constant with its declared type.
type ConstInfo struct {
	Name string
	Type types.Type
}

// TypeKind is coarse-grained type category.
type TypeKind int

const (
	TypeKindBasic TypeKind = iota
	TypeKindPointer
	TypeKindStruct
	TypeKindSlice
	TypeKindMap
	TypeKindInterface
	TypeKindFunc
	TypeKindOther
)

var kindNames = [...]string{"basic", "pointer", "struct", "slice", "map", "interface", "func", "other"}

func (k TypeKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "other"
}

// kindOf classifies t by its underlying type. Aliases are followed.
func kindOf(t types.Type) TypeKind {
	switch types.Unalias(t).Underlying().(type) {
	case *types.Basic:
		return TypeKindBasic
	case *types.Pointer:
		return TypeKindPointer
	case *types.Struct:
		return TypeKindStruct
	case *types.Slice, *types.Array:
		return TypeKindSlice
	case *types.Map:
		return TypeKindMap
	case *types.Interface:
		return TypeKindInterface
	case *types.Signature:
		return TypeKindFunc
	default:
		return TypeKindOther
	}
}

// typeString renders t relative to the package at pkgPath.
func typeString(t types.Type, pkgPath string) string {
	return strings.TrimSpace(types.TypeString(t, func(p *types.Package) string {
		if p == nil || p.Path() == pkgPath {
			return ""
		}
		return p.Name()
	}))
}
