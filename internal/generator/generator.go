package generator

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/seitarof/mirror/internal/parser"
	"github.com/seitarof/mirror/internal/resolver"
)

//go:embed templates/*.go.tmpl
var templateFS embed.FS

// Generator renders registration code from registration plans.
type Generator interface {
	Generate(cfg Config, pkg *parser.PackageInfo, plans []resolver.RegistrationPlan) error
}

// Config is the minimum config contract required by generator.
type Config interface {
	OutputFilename() string
	RegisterFunc() string
}

// Formatter formats generated Go code and organizes imports.
type Formatter interface {
	Format(filename string, src []byte) ([]byte, error)
}

// FileWriter writes generated code to disk.
type FileWriter interface {
	Write(filename string, data []byte) error
}

type generatorImpl struct {
	formatter Formatter
	writer    FileWriter
	tmpl      *template.Template
}

type goimportsFormatter struct{}

type fileWriter struct{}

type templateData struct {
	Package string
	Func    string
	Types   []typeTemplateData
}

type typeTemplateData struct {
	Name    string
	Options []string
}

// New creates a code generator.
func New(f Formatter, w FileWriter) Generator {
	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.go.tmpl"))
	return &generatorImpl{formatter: f, writer: w, tmpl: tmpl}
}

// NewGoimportsFormatter creates a formatter backed by goimports.
func NewGoimportsFormatter() Formatter {
	return &goimportsFormatter{}
}

// NewFileWriter creates a plain file writer.
func NewFileWriter() FileWriter {
	return &fileWriter{}
}

func (g *generatorImpl) Generate(cfg Config, pkg *parser.PackageInfo, plans []resolver.RegistrationPlan) error {
	if len(plans) == 0 {
		return fmt.Errorf("no registration plans")
	}

	funcName := cfg.RegisterFunc()
	if funcName == "" {
		funcName = resolver.DefaultRegisterName(pkg.Path)
	}
	data := templateData{Package: pkg.Name, Func: funcName}
	for _, p := range plans {
		t := typeTemplateData{Name: p.Type.Name}
		for _, o := range p.Options {
			t.Options = append(t.Options, o.Expression)
		}
		data.Types = append(data.Types, t)
	}

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "register.go.tmpl", data); err != nil {
		return fmt.Errorf("template: %w", err)
	}

	formatted, err := g.formatter.Format(cfg.OutputFilename(), buf.Bytes())
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if err := g.writer.Write(cfg.OutputFilename(), formatted); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (f *goimportsFormatter) Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}

func (w *fileWriter) Write(filename string, data []byte) error {
	return os.WriteFile(filename, data, 0o644)
}
