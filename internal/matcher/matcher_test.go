package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seitarof/mirror/internal/parser"
)

func names(infos []*parser.TypeInfo) []string {
	out := []string{}
	for _, i := range infos {
		out = append(out, i.Name)
	}
	return out
}

func TestTypeMatcher_Match(t *testing.T) {
	infos := []*parser.TypeInfo{{Name: "User"}, {Name: "UserRole"}, {Name: "Order"}, {Name: "orderLine"}}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{"all by default", nil, nil, []string{"User", "UserRole", "Order", "orderLine"}},
		{"exact and case insensitive", []string{"user"}, nil, []string{"User"}},
		{"glob", []string{"User*"}, nil, []string{"User", "UserRole"}},
		{"exclude wins", []string{"*"}, []string{"order*"}, []string{"User", "UserRole"}},
		{"blank patterns ignored", []string{" ", ""}, []string{" "}, []string{"User", "UserRole", "Order", "orderLine"}},
		{"malformed pattern is literal", []string{"[order"}, nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTypeMatcher().Match(infos, tt.include, tt.exclude)
			assert.Equal(t, tt.want, names(got))
		})
	}
}
