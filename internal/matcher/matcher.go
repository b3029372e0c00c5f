package matcher

import (
	"path"
	"strings"

	"github.com/seitarof/mirror/internal/parser"
)

// TypeMatcher selects the types a command works on.
type TypeMatcher interface {
	Match(infos []*parser.TypeInfo, include, exclude []string) []*parser.TypeInfo
}

type typeMatcherImpl struct{}

// NewTypeMatcher returns default type matcher. Patterns use path.Match
// syntax and ignore case. An empty include list selects every type.
func NewTypeMatcher() TypeMatcher {
	return &typeMatcherImpl{}
}

func (m *typeMatcherImpl) Match(infos []*parser.TypeInfo, include, exclude []string) []*parser.TypeInfo {
	include = toPatterns(include)
	exclude = toPatterns(exclude)

	out := make([]*parser.TypeInfo, 0, len(infos))
	for _, info := range infos {
		name := strings.ToLower(info.Name)
		if len(include) > 0 && !anyMatch(include, name) {
			continue
		}
		if anyMatch(exclude, name) {
			continue
		}
		out = append(out, info)
	}
	return out
}

func anyMatch(patterns []string, name string) bool {
	for _, p := range patterns {
		// Patterns are validated in toPatterns.
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

func toPatterns(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		if _, err := path.Match(p, ""); err != nil {
			p = escape(p)
		}
		out = append(out, p)
	}
	return out
}

// escape turns a malformed pattern into a literal one.
func escape(p string) string {
	var b strings.Builder
	for _, r := range p {
		if strings.ContainsRune(`*?[]\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
