package resolver

import (
	"go/types"
	"slices"
	"strconv"
	"strings"

	"github.com/seitarof/mirror/internal/parser"
)

// DefaultRules returns built-in rules in rendering order.
func DefaultRules() []Rule {
	return []Rule{
		&ImplementsRule{},
		&ConstructorRule{},
		&EnumRule{},
		&ShadowsRule{},
	}
}

var errorType = types.Universe.Lookup("error").Type()

// ImplementsRule: package interfaces the type satisfies and its supertype
// does not.
type ImplementsRule struct{}

func (r *ImplementsRule) Name() string { return "implements" }

func (r *ImplementsRule) Try(pkg *parser.PackageInfo, t *parser.TypeInfo) []OptionPlan {
	if t.Kind == parser.TypeKindInterface {
		return nil
	}
	super := t.Super()

	var names []string
	for _, cand := range pkg.Types {
		iface, ok := cand.Named.Underlying().(*types.Interface)
		if !ok || iface.NumMethods() == 0 {
			continue
		}
		if !satisfies(t.Named, iface) {
			continue
		}
		if super != nil && satisfies(super, iface) {
			continue
		}
		names = append(names, typeFor(cand.Name))
	}
	if len(names) == 0 {
		return nil
	}
	return []OptionPlan{{
		Rule:       r.Name(),
		Kind:       OptionImplements,
		Expression: "reflection.Implements(" + strings.Join(names, ", ") + ")",
	}}
}

func satisfies(t types.Type, iface *types.Interface) bool {
	return types.Implements(t, iface) || types.Implements(types.NewPointer(t), iface)
}

// ConstructorRule: New* functions returning the type or a pointer to it,
// optionally followed by an error.
type ConstructorRule struct{}

func (r *ConstructorRule) Name() string { return "constructor" }

func (r *ConstructorRule) Try(pkg *parser.PackageInfo, t *parser.TypeInfo) []OptionPlan {
	if t.Kind == parser.TypeKindInterface {
		return nil
	}
	var out []OptionPlan
	for _, fn := range pkg.Funcs {
		if !strings.HasPrefix(fn.Name, "New") || !constructs(fn.Signature, t.Named) {
			continue
		}
		out = append(out, OptionPlan{
			Rule:       r.Name(),
			Kind:       OptionConstructor,
			Expression: "reflection.WithConstructor(" + fn.Name + ")",
		})
	}
	return out
}

func constructs(sig *types.Signature, named *types.Named) bool {
	res := sig.Results()
	switch {
	case res.Len() == 2 && types.Identical(res.At(1).Type(), errorType):
	case res.Len() == 1:
	default:
		return false
	}
	out := res.At(0).Type()
	if p, ok := out.(*types.Pointer); ok {
		out = p.Elem()
	}
	return types.Identical(out, named)
}

// EnumRule: constants declared with the type, in declaration order.
type EnumRule struct{}

func (r *EnumRule) Name() string { return "enum" }

func (r *EnumRule) Try(pkg *parser.PackageInfo, t *parser.TypeInfo) []OptionPlan {
	if t.Kind != parser.TypeKindBasic {
		return nil
	}
	var names []string
	for _, c := range pkg.Consts {
		if types.Identical(c.Type, t.Named) {
			names = append(names, c.Name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return []OptionPlan{{
		Rule:       r.Name(),
		Kind:       OptionEnumConstants,
		Expression: "reflection.EnumConstants(" + strings.Join(names, ", ") + ")",
	}}
}

// ShadowsRule: declared methods that hide a method of an embedded type.
type ShadowsRule struct{}

func (r *ShadowsRule) Name() string { return "shadows" }

func (r *ShadowsRule) Try(_ *parser.PackageInfo, t *parser.TypeInfo) []OptionPlan {
	var shadowed []string
	for _, e := range t.Embeds {
		ms := types.NewMethodSet(types.NewPointer(e))
		for i := range ms.Len() {
			name := ms.At(i).Obj().Name()
			if slices.Contains(t.Methods, name) && !slices.Contains(shadowed, name) {
				shadowed = append(shadowed, name)
			}
		}
	}
	if len(shadowed) == 0 {
		return nil
	}
	slices.Sort(shadowed)
	quoted := make([]string, 0, len(shadowed))
	for _, s := range shadowed {
		quoted = append(quoted, strconv.Quote(s))
	}
	return []OptionPlan{{
		Rule:       r.Name(),
		Kind:       OptionShadows,
		Expression: "reflection.Shadows(" + strings.Join(quoted, ", ") + ")",
	}}
}

func typeFor(name string) string {
	return "reflect.TypeFor[" + name + "]()"
}
