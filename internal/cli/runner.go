package cli

import (
	"fmt"
	"io"
	"slices"

	"go.uber.org/zap"

	"github.com/seitarof/mirror/internal/generator"
	"github.com/seitarof/mirror/internal/matcher"
	"github.com/seitarof/mirror/internal/parser"
	"github.com/seitarof/mirror/internal/resolver"
	"github.com/seitarof/mirror/scanner"
)

// Runner orchestrates parser/matcher/resolver/generator layers.
type Runner interface {
	Run(cfg *Config) error
}

// Lister lists unit identifiers without resolving them.
type Lister interface {
	ListArchive(path string) ([]string, error)
	ListNamespace(dir, ns string) ([]string, error)
}

type runnerImpl struct {
	parser    parser.Parser
	matcher   matcher.TypeMatcher
	resolver  resolver.Resolver
	generator generator.Generator
	units     generator.UnitWriter
	lister    Lister
	out       io.Writer
	log       *zap.Logger
}

// NewRunner creates a default runner implementation. ls output goes to
// out.
func NewRunner(
	p parser.Parser,
	m matcher.TypeMatcher,
	r resolver.Resolver,
	g generator.Generator,
	u generator.UnitWriter,
	l Lister,
	out io.Writer,
	log *zap.Logger,
) Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &runnerImpl{
		parser:    p,
		matcher:   m,
		resolver:  r,
		generator: g,
		units:     u,
		lister:    l,
		out:       out,
		log:       log,
	}
}

// Run executes one command.
func (r *runnerImpl) Run(cfg *Config) error {
	switch cfg.Command {
	case CommandGen:
		return r.gen(cfg)
	case CommandPack:
		return r.pack(cfg)
	case CommandList:
		return r.list(cfg)
	}
	return fmt.Errorf("%w: unknown command %q", ErrUsage, cfg.Command)
}

func (r *runnerImpl) selectTypes(cfg *Config) (*parser.PackageInfo, []*parser.TypeInfo, error) {
	pkg, err := r.parser.Parse(cfg.Pkg)
	if err != nil {
		return nil, nil, fmt.Errorf("parse: %w", err)
	}
	selected := r.matcher.Match(pkg.Types, cfg.Types, cfg.IgnoreTypes)
	if len(selected) == 0 {
		return nil, nil, fmt.Errorf("no types matched in %q", cfg.Pkg)
	}
	for _, t := range pkg.Types {
		if !slices.Contains(selected, t) {
			r.log.Debug("type not selected", zap.String("type", t.FullName()))
		}
	}
	return pkg, selected, nil
}

func (r *runnerImpl) gen(cfg *Config) error {
	pkg, selected, err := r.selectTypes(cfg)
	if err != nil {
		return err
	}
	plans := r.resolver.Resolve(pkg, selected)
	for _, p := range plans {
		for _, o := range p.Options {
			r.log.Debug("inferred option",
				zap.String("type", p.Type.Name),
				zap.String("rule", o.Rule),
				zap.String("option", o.Expression),
			)
		}
	}
	if err := r.generator.Generate(cfg, pkg, plans); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	r.log.Info("wrote registration", zap.String("file", cfg.OutputFilename()), zap.Int("types", len(plans)))
	return nil
}

func (r *runnerImpl) pack(cfg *Config) error {
	_, selected, err := r.selectTypes(cfg)
	if err != nil {
		return err
	}
	units := generator.Describe(selected)
	if cfg.Out != "" {
		if err := r.units.WriteArchive(cfg.Out, units); err != nil {
			return fmt.Errorf("pack: %w", err)
		}
		r.log.Info("wrote archive", zap.String("file", cfg.Out), zap.Int("units", len(units)))
		return nil
	}
	if err := r.units.WriteTree(cfg.Dir, units); err != nil {
		return fmt.Errorf("pack: %w", err)
	}
	r.log.Info("wrote unit tree", zap.String("dir", cfg.Dir), zap.Int("units", len(units)))
	return nil
}

func (r *runnerImpl) list(cfg *Config) error {
	var (
		names []string
		err   error
	)
	if cfg.Archive != "" {
		names, err = r.lister.ListArchive(cfg.Archive)
	} else {
		names, err = r.lister.ListNamespace(cfg.Dir, cfg.Namespace)
	}
	if err != nil {
		return fmt.Errorf("ls: %w", err)
	}
	slices.Sort(names)
	for _, n := range names {
		if _, err := fmt.Fprintln(r.out, n); err != nil {
			return err
		}
	}
	return nil
}

type scannerLister struct {
	log *zap.Logger
}

// NewScannerLister returns a Lister backed by the scanner package.
func NewScannerLister(log *zap.Logger) Lister {
	return &scannerLister{log: log}
}

func (l *scannerLister) ListArchive(path string) ([]string, error) {
	return scanner.NewArchiveScanner(scanner.WithLogger(l.log)).Names(path)
}

func (l *scannerLister) ListNamespace(dir, ns string) ([]string, error) {
	s := scanner.NewNamespaceScanner(
		scanner.WithLocator(scanner.SearchPath{dir}),
		scanner.WithLogger(l.log),
	)
	return s.Names(ns)
}
