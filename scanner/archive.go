package scanner

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/seitarof/mirror/reflection"
)

// Archive locates a zip file of units and the resolver for them.
type Archive struct {
	Path     string
	Resolver reflection.Resolver
}

// ArchiveScanner finds units in zip archives.
type ArchiveScanner struct {
	cfg config
}

var _ Scanner[Archive] = (*ArchiveScanner)(nil)

func NewArchiveScanner(opts ...Option) *ArchiveScanner {
	return &ArchiveScanner{cfg: newConfig(opts)}
}

// Scan resolves every unit of the archive. A nil Archive.Resolver falls
// back to the scanner's resolver.
func (s *ArchiveScanner) Scan(a Archive) (Set, error) {
	ids, err := s.Names(a.Path)
	if err != nil {
		return nil, err
	}
	r := a.Resolver
	if r == nil {
		r = s.cfg.resolver
	}
	set, err := resolveAll(r, ids, s.cfg.log)
	if err != nil {
		return nil, fmt.Errorf("scan archive %s: %w", a.Path, err)
	}
	return set, nil
}

// archiveFile is what Names needs from an opened archive.
type archiveFile interface {
	io.ReaderAt
	io.Closer
	Stat() (fs.FileInfo, error)
}

var openArchive = func(path string) (archiveFile, error) {
	return os.Open(path)
}

// Names lists the unit identifiers in the archive at path without
// resolving them. The archive is closed before Names returns, whether or
// not it could be read.
func (s *ArchiveScanner) Names(path string) ([]string, error) {
	f, err := openArchive(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open archive %s: %w", ErrScan, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat archive %s: %w", ErrScan, path, err)
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: read archive %s: %w", ErrScan, path, err)
	}

	var ids []string
	for _, e := range zr.File {
		if e.FileInfo().IsDir() {
			continue
		}
		if id, ok := Identifier(e.Name, s.cfg.suffix); ok {
			ids = append(ids, id)
		}
	}
	s.cfg.log.Debug("scanned archive",
		zap.String("path", path),
		zap.Int("entries", len(zr.File)),
		zap.Int("units", len(ids)),
	)
	return ids, nil
}
