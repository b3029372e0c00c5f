// Package scanner discovers type identifiers from unit files laid out in
// namespace directories or packed into zip archives, and resolves them to
// registered types.
//
// A unit is a file named <TypeName><suffix> stored under the directory
// path of its namespace, e.g. example.com/app/model/User.gotype for the
// type example.com/app/model.User.
package scanner

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/seitarof/mirror/reflection"
)

// DefaultSuffix is the file suffix of unit files.
const DefaultSuffix = ".gotype"

var (
	// ErrScan reports a locator that cannot be opened or read.
	ErrScan = errors.New("scan failed")
	// ErrNamespaceNotFound reports a namespace no root exports.
	ErrNamespaceNotFound = fmt.Errorf("%w: namespace not found", ErrScan)
)

// Scanner discovers the types found at a locator of type L.
type Scanner[L any] interface {
	Scan(locator L) (Set, error)
}

// Set is a set of resolved types. Every scan returns a new Set.
type Set map[reflection.Type]struct{}

func (s Set) add(t reflection.Type) {
	s[t] = struct{}{}
}

func (s Set) Len() int {
	return len(s)
}

func (s Set) Contains(t reflection.Type) bool {
	_, ok := s[t]
	return ok
}

// Types lists the set ordered by full name.
func (s Set) Types() []reflection.Type {
	out := make([]reflection.Type, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b reflection.Type) int {
		return strings.Compare(a.FullName(), b.FullName())
	})
	return out
}

// Identifier turns a unit path into a type identifier by stripping suffix
// and joining the type name to its namespace with a dot. It reports false
// when entry is not a unit path.
func Identifier(entry, suffix string) (string, bool) {
	name, ok := strings.CutSuffix(entry, suffix)
	if !ok || name == "" || strings.HasSuffix(name, "/") {
		return "", false
	}
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return name, true
	}
	return name[:i] + "." + name[i+1:], true
}

// Entry is the inverse of Identifier.
func Entry(identifier, suffix string) string {
	i := strings.LastIndex(identifier, ".")
	slash := strings.LastIndex(identifier, "/")
	if i < 0 || i < slash {
		return identifier + suffix
	}
	return identifier[:i] + "/" + identifier[i+1:] + suffix
}

type config struct {
	locator  Locator
	resolver reflection.Resolver
	suffix   string
	log      *zap.Logger
}

// Option configures a scanner.
type Option func(*config)

// WithLocator sets where namespace roots are looked up. Defaults to
// EnvSearchPath.
func WithLocator(l Locator) Option {
	return func(c *config) { c.locator = l }
}

// WithResolver sets the resolver for discovered identifiers. Defaults to
// reflection.Default.
func WithResolver(r reflection.Resolver) Option {
	return func(c *config) { c.resolver = r }
}

// WithSuffix sets the unit file suffix.
func WithSuffix(suffix string) Option {
	return func(c *config) { c.suffix = suffix }
}

// WithLogger sets the debug logger. A nil log discards output.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) { c.log = log }
}

func newConfig(opts []Option) config {
	c := config{
		suffix: DefaultSuffix,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.resolver == nil {
		c.resolver = reflection.Default()
	}
	if c.locator == nil {
		c.locator = EnvSearchPath()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// resolveAll resolves ids into a new Set, stopping at the first failure.
func resolveAll(r reflection.Resolver, ids []string, log *zap.Logger) (Set, error) {
	set := Set{}
	for _, id := range ids {
		t, err := r.Resolve(id)
		if err != nil {
			if !errors.Is(err, reflection.ErrUnresolved) {
				err = fmt.Errorf("%w: %w", reflection.ErrUnresolved, err)
			}
			return nil, fmt.Errorf("resolve %s: %w", id, err)
		}
		log.Debug("resolved unit", zap.String("identifier", id))
		set.add(t)
	}
	return set, nil
}
