package parser

import (
	"fmt"
	"go/types"
	"slices"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

// Parser extracts the registrable declarations of a Go package.
type Parser interface {
	Parse(pkgPath string) (*PackageInfo, error)
}

type parserImpl struct {
	log *zap.Logger
}

// New returns default parser. A nil log discards warnings.
func New(log *zap.Logger) Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &parserImpl{log: log}
}

func (p *parserImpl) Parse(pkgPath string) (*PackageInfo, error) {
	pkg, err := p.loadPackage(pkgPath)
	if err != nil {
		return nil, err
	}
	if pkg.Types == nil || pkg.Types.Scope() == nil {
		return nil, fmt.Errorf("type info unavailable for package %q", pkgPath)
	}

	info := &PackageInfo{Name: pkg.Name, Path: pkg.Types.Path()}
	for _, obj := range declared(pkg.Types.Scope()) {
		switch obj := obj.(type) {
		case *types.TypeName:
			if t := p.typeInfo(obj, info); t != nil {
				info.Types = append(info.Types, t)
			}
		case *types.Func:
			info.Funcs = append(info.Funcs, FuncInfo{Name: obj.Name(), Signature: obj.Signature()})
		case *types.Const:
			info.Consts = append(info.Consts, ConstInfo{Name: obj.Name(), Type: obj.Type()})
		}
	}
	p.log.Debug("parsed package",
		zap.String("package", info.Path),
		zap.Int("types", len(info.Types)),
		zap.Int("funcs", len(info.Funcs)),
		zap.Int("consts", len(info.Consts)),
	)
	return info, nil
}

func (p *parserImpl) loadPackage(pkgPath string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, pkgPath)
	if err != nil {
		return nil, fmt.Errorf("load package %q: %w", pkgPath, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("package %q has compilation errors", pkgPath)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("package %q not found", pkgPath)
	}
	return pkgs[0], nil
}

// declared returns the objects of scope in source order.
func declared(scope *types.Scope) []types.Object {
	objs := make([]types.Object, 0, scope.Len())
	for _, name := range scope.Names() {
		objs = append(objs, scope.Lookup(name))
	}
	sort.SliceStable(objs, func(i, j int) bool {
		return objs[i].Pos() < objs[j].Pos()
	})
	return objs
}

func (p *parserImpl) typeInfo(obj *types.TypeName, pkg *PackageInfo) *TypeInfo {
	if obj.IsAlias() {
		p.log.Warn("skipping alias", zap.String("type", obj.Name()))
		return nil
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil
	}
	if named.TypeParams().Len() > 0 {
		p.log.Warn("skipping generic type", zap.String("type", obj.Name()))
		return nil
	}

	t := &TypeInfo{
		Name:    obj.Name(),
		PkgPath: pkg.Path,
		PkgName: pkg.Name,
		Kind:    kindOf(named),
		Named:   named,
	}
	for i := range named.NumMethods() {
		t.Methods = append(t.Methods, named.Method(i).Name())
	}
	slices.Sort(t.Methods)

	if st, ok := named.Underlying().(*types.Struct); ok {
		t.Fields = flattenFields(st, pkg.Path)
		for i := range st.NumFields() {
			f := st.Field(i)
			if !f.Embedded() {
				continue
			}
			if e := embeddedNamed(f.Type()); e != nil {
				t.Embeds = append(t.Embeds, e)
			}
		}
	}
	return t
}

func embeddedNamed(t types.Type) *types.Named {
	switch v := types.Unalias(t).(type) {
	case *types.Named:
		return v
	case *types.Pointer:
		return embeddedNamed(v.Elem())
	}
	return nil
}
