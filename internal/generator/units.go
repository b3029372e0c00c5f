package generator

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/seitarof/mirror/internal/parser"
	"github.com/seitarof/mirror/scanner"
)

// Unit is the descriptor stored in one unit file.
type Unit struct {
	Name      string      `json:"name"`
	Namespace string      `json:"namespace"`
	Kind      string      `json:"kind"`
	Super     string      `json:"super,omitempty"`
	Fields    []UnitField `json:"fields,omitempty"`
	Methods   []string    `json:"methods,omitempty"`
}

type UnitField struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Tag  string `json:"tag,omitempty"`
}

// Entry is the slash-separated path of the unit file.
func (u Unit) Entry() string {
	return scanner.Entry(u.Namespace+"."+u.Name, scanner.DefaultSuffix)
}

// Describe builds one unit per type.
func Describe(infos []*parser.TypeInfo) []Unit {
	units := make([]Unit, 0, len(infos))
	for _, t := range infos {
		u := Unit{
			Name:      t.Name,
			Namespace: t.PkgPath,
			Kind:      t.Kind.String(),
			Methods:   t.Methods,
		}
		if s := t.Super(); s != nil && s.Obj().Pkg() != nil {
			u.Super = s.Obj().Pkg().Path() + "." + s.Obj().Name()
		}
		for _, f := range t.Fields {
			u.Fields = append(u.Fields, UnitField{Name: f.Name, Type: f.TypeStr, Tag: f.Tag})
		}
		units = append(units, u)
	}
	return units
}

// UnitWriter stores units in a zip archive or a directory tree.
type UnitWriter interface {
	WriteArchive(path string, units []Unit) error
	WriteTree(root string, units []Unit) error
}

type unitWriter struct{}

func NewUnitWriter() UnitWriter {
	return &unitWriter{}
}

type encoded struct {
	entry string
	data  []byte
}

func encodeAll(units []Unit) ([]encoded, error) {
	out := make([]encoded, len(units))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, u := range units {
		g.Go(func() error {
			data, err := json.MarshalIndent(u, "", "  ")
			if err != nil {
				return fmt.Errorf("encode %s: %w", u.Name, err)
			}
			out[i] = encoded{entry: u.Entry(), data: append(data, '\n')}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b encoded) int { return strings.Compare(a.entry, b.entry) })
	return out, nil
}

// WriteArchive writes units into a new zip at path, sorted by entry.
func (w *unitWriter) WriteArchive(path string, units []Unit) (err error) {
	files, err := encodeAll(units)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close archive: %w", cerr)
		}
	}()

	zw := zip.NewWriter(f)
	for _, e := range files {
		fw, err := zw.Create(e.entry)
		if err != nil {
			return fmt.Errorf("archive %s: %w", e.entry, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			return fmt.Errorf("archive %s: %w", e.entry, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

// WriteTree writes every unit below root, one file each.
func (w *unitWriter) WriteTree(root string, units []Unit) error {
	files, err := encodeAll(units)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, e := range files {
		g.Go(func() error {
			dst := filepath.Join(root, filepath.FromSlash(e.entry))
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return fmt.Errorf("unit dir %s: %w", e.entry, err)
			}
			if err := os.WriteFile(dst, e.data, 0o644); err != nil {
				return fmt.Errorf("unit %s: %w", e.entry, err)
			}
			return nil
		})
	}
	return g.Wait()
}
