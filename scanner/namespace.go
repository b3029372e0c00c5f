package scanner

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/module"
)

// NamespaceScanner finds units below every root that exports a namespace.
type NamespaceScanner struct {
	cfg config
}

var _ Scanner[string] = (*NamespaceScanner)(nil)

func NewNamespaceScanner(opts ...Option) *NamespaceScanner {
	return &NamespaceScanner{cfg: newConfig(opts)}
}

// Scan resolves every unit found in namespace ns, including units in
// nested namespaces.
func (s *NamespaceScanner) Scan(ns string) (Set, error) {
	ids, err := s.Names(ns)
	if err != nil {
		return nil, err
	}
	set, err := resolveAll(s.cfg.resolver, ids, s.cfg.log)
	if err != nil {
		return nil, fmt.Errorf("scan namespace %s: %w", ns, err)
	}
	return set, nil
}

// Names lists the unit identifiers of namespace ns without resolving them.
func (s *NamespaceScanner) Names(ns string) ([]string, error) {
	if err := module.CheckImportPath(ns); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScan, err)
	}
	roots, err := s.cfg.locator.Roots(ns)
	if err != nil {
		return nil, fmt.Errorf("scan namespace %s: %w", ns, err)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNamespaceNotFound, ns)
	}

	var ids []string
	for _, root := range roots {
		found, err := s.walk(root, ns)
		if err != nil {
			return nil, err
		}
		ids = append(ids, found...)
	}
	s.cfg.log.Debug("scanned namespace",
		zap.String("namespace", ns),
		zap.Int("roots", len(roots)),
		zap.Int("units", len(ids)),
	)
	return ids, nil
}

func (s *NamespaceScanner) walk(root fs.FS, ns string) ([]string, error) {
	var ids []string
	err := fs.WalkDir(root, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), s.cfg.suffix) {
			return nil
		}
		id, ok := Identifier(path.Join(ns, p), s.cfg.suffix)
		if ok {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walk %s: %w", ErrScan, ns, err)
	}
	return ids, nil
}
