package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// EnvVar names the environment variable read by EnvSearchPath.
const EnvVar = "MIRRORPATH"

// Locator finds the roots exporting a namespace. A namespace may be split
// across several roots; each returned fs.FS is rooted at the namespace
// directory itself.
type Locator interface {
	Roots(namespace string) ([]fs.FS, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(namespace string) ([]fs.FS, error)

func (f LocatorFunc) Roots(namespace string) ([]fs.FS, error) {
	return f(namespace)
}

// FSPath is a list of file systems holding namespace directories.
type FSPath []fs.FS

func (p FSPath) Roots(namespace string) ([]fs.FS, error) {
	var roots []fs.FS
	for _, fsys := range p {
		info, err := fs.Stat(fsys, namespace)
		if err != nil || !info.IsDir() {
			continue
		}
		sub, err := fs.Sub(fsys, namespace)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScan, err)
		}
		roots = append(roots, sub)
	}
	return roots, nil
}

// SearchPath is a list of directories holding namespace directories.
type SearchPath []string

func (p SearchPath) Roots(namespace string) ([]fs.FS, error) {
	fsp := make(FSPath, 0, len(p))
	for _, dir := range p {
		if dir == "" {
			continue
		}
		fsp = append(fsp, os.DirFS(dir))
	}
	return fsp.Roots(namespace)
}

// EnvSearchPath reads a SearchPath from $MIRRORPATH, a list separated
// like $PATH.
func EnvSearchPath() SearchPath {
	return SearchPath(filepath.SplitList(os.Getenv(EnvVar)))
}

// PackageLocator finds the source directory of the Go package named by the
// namespace. Units live next to the package sources.
type PackageLocator struct {
	// Dir is the directory go/packages runs in. Empty means the
	// current directory.
	Dir string
}

func (l PackageLocator) Roots(namespace string) ([]fs.FS, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  l.Dir,
	}
	pkgs, err := packages.Load(cfg, namespace)
	if err != nil {
		return nil, fmt.Errorf("%w: load package %q: %w", ErrScan, namespace, err)
	}

	seen := map[string]bool{}
	var roots []fs.FS
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			continue
		}
		files := append(append([]string{}, pkg.GoFiles...), pkg.OtherFiles...)
		for _, f := range files {
			dir := filepath.Dir(f)
			if seen[dir] {
				continue
			}
			seen[dir] = true
			roots = append(roots, os.DirFS(dir))
		}
	}
	return roots, nil
}
