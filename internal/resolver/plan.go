package resolver

import (
	"path"
	"strings"
	"unicode"

	"github.com/seitarof/mirror/internal/parser"
)

// RegistrationPlan describes one rt.Register call.
type RegistrationPlan struct {
	Type    *parser.TypeInfo
	Options []OptionPlan
}

// OptionPlan is one reflection.Option expression.
type OptionPlan struct {
	Rule       string
	Kind       OptionKind
	Expression string
}

// OptionKind identifies the reflection option a plan renders.
type OptionKind int

const (
	OptionImplements OptionKind = iota
	OptionConstructor
	OptionEnumConstants
	OptionShadows
)

// DefaultRegisterName returns the generated register function name.
func DefaultRegisterName(pkgPath string) string {
	return "Register" + packageToken(pkgPath) + "Types"
}

func packageToken(pkgPath string) string {
	base := path.Base(strings.TrimSpace(pkgPath))
	if base == "" || base == "." || base == "/" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}
