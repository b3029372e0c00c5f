package parser

import (
	"go/types"
	"sort"
	"strings"
)

type fieldCandidate struct {
	field     FieldInfo
	depth     int
	order     int
	ambiguous bool
}

// flattenFields lists the public fields of st the way the selector rules
// see them: a shallower field hides deeper ones of the same name, and two
// fields of the same name at the same depth hide each other.
func flattenFields(st *types.Struct, pkgPath string) []FieldInfo {
	candidates := map[string]fieldCandidate{}
	order := 0
	seen := map[*types.Struct]bool{}
	collectFields(st, nil, "", 0, pkgPath, candidates, &order, seen)

	sorted := make([]fieldCandidate, 0, len(candidates))
	for _, cand := range candidates {
		if !cand.ambiguous {
			sorted = append(sorted, cand)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].order < sorted[j].order
	})

	fields := make([]FieldInfo, 0, len(sorted))
	for _, cand := range sorted {
		fields = append(fields, cand.field)
	}
	return fields
}

func collectFields(
	st *types.Struct,
	prefix []string,
	embedFrom string,
	depth int,
	pkgPath string,
	out map[string]fieldCandidate,
	order *int,
	seen map[*types.Struct]bool,
) {
	if seen[st] {
		return
	}
	seen[st] = true
	defer delete(seen, st)

	for i := range st.NumFields() {
		f := st.Field(i)
		path := append(prefix[:len(prefix):len(prefix)], f.Name())
		if f.Embedded() {
			if inner, name := embeddedStruct(f.Type()); inner != nil {
				collectFields(inner, path, name, depth+1, pkgPath, out, order, seen)
			}
			continue
		}
		if !f.Exported() {
			continue
		}
		addCandidate(out, FieldInfo{
			Name:       f.Name(),
			AccessPath: strings.Join(path, "."),
			TypeStr:    typeString(f.Type(), pkgPath),
			Kind:       kindOf(f.Type()),
			Tag:        st.Tag(i),
			Type:       f.Type(),
			EmbedFrom:  embedFrom,
		}, depth, order)
	}
}

func addCandidate(out map[string]fieldCandidate, field FieldInfo, depth int, order *int) {
	cand, exists := out[field.Name]
	switch {
	case !exists, depth < cand.depth:
		out[field.Name] = fieldCandidate{field: field, depth: depth, order: *order}
		*order++
	case depth == cand.depth && cand.field.AccessPath != field.AccessPath:
		cand.ambiguous = true
		out[field.Name] = cand
	}
}

func embeddedStruct(t types.Type) (*types.Struct, string) {
	switch v := types.Unalias(t).(type) {
	case *types.Named:
		if st, ok := v.Underlying().(*types.Struct); ok {
			return st, v.Obj().Name()
		}
	case *types.Pointer:
		return embeddedStruct(v.Elem())
	}
	return nil, ""
}
