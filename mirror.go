// Package mirror is a fluent query layer over registered Go types.
//
// Types are registered once in a reflection.Runtime. Handles (Type, Field,
// Method, Constructor) wrap the runtime's raw descriptors and add
// predicates and lookups by name. Type, field and method streams are lazy
// and single use:
//
//	names := mirror.TypeFor[model.User]().
//		Fields().
//		IsNotStatic().
//		Tag("json").
//		ToSlice()
//
// A stream of types usually comes from a scan of unit files:
//
//	types, err := mirror.ScanNamespace("example.com/app/model")
//	if err != nil {
//		return err
//	}
//	defer types.Close()
//	inner := types.IsInner().ToSlice()
package mirror

import (
	"errors"
	"fmt"
	"iter"
	"reflect"

	"github.com/seitarof/mirror/reflection"
	"github.com/seitarof/mirror/scanner"
	"github.com/seitarof/mirror/stream"
)

// ErrNotEnum reports a type without enum constants.
var ErrNotEnum = errors.New("not an enum")

// Mirror answers queries against one runtime.
type Mirror struct {
	rt *reflection.Runtime
}

// New returns a Mirror over rt.
func New(rt *reflection.Runtime) *Mirror {
	return &Mirror{rt: rt}
}

var std = New(reflection.Default())

// Default returns the Mirror over reflection.Default.
func Default() *Mirror {
	return std
}

func (m *Mirror) Runtime() *reflection.Runtime {
	return m.rt
}

// TypeOf returns the handle for exactly t, so a *T handle matches *T
// parameters in method and constructor lookups. Unregistered types are
// described from reflect alone. A nil t yields the zero Type.
func (m *Mirror) TypeOf(t reflect.Type) Type {
	raw := m.rt.TypeOf(t)
	if raw == nil {
		return Type{}
	}
	return Of(raw)
}

// ValueOf returns the handle for the dynamic type of v. A pointer to a
// named type maps to the named type, the one holding the registered
// metadata.
func (m *Mirror) ValueOf(v any) Type {
	return m.TypeOf(named(reflect.TypeOf(v)))
}

// PointerTo returns the handle for *T given the handle for T.
func (m *Mirror) PointerTo(t Type) Type {
	if t.IsZero() {
		return Type{}
	}
	return m.TypeOf(reflect.PointerTo(t.t.Reflect()))
}

func named(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer && t.Name() == "" && t.Elem().Name() != "" {
		return t.Elem()
	}
	return t
}

// Resolve looks a type up by full name or alias.
func (m *Mirror) Resolve(name string) (Type, error) {
	raw, err := m.rt.Resolve(name)
	if err != nil {
		return Type{}, err
	}
	return Of(raw), nil
}

// EnumOf returns the enum view of t. A pointer to an enum type is
// accepted.
func (m *Mirror) EnumOf(t reflect.Type) (Enum, error) {
	typ := m.TypeOf(named(t))
	if typ.IsZero() {
		return Enum{}, fmt.Errorf("%w: nil type", ErrNotEnum)
	}
	e, ok := typ.AsEnum()
	if !ok {
		return Enum{}, fmt.Errorf("%w: %s", ErrNotEnum, typ.FullName())
	}
	return e, nil
}

// ScanNamespace streams the types whose units live under ns. opts are
// applied after the runtime resolver, so WithResolver overrides it.
func (m *Mirror) ScanNamespace(ns string, opts ...scanner.Option) (TypeStream, error) {
	opts = append([]scanner.Option{scanner.WithResolver(m.rt)}, opts...)
	return Scan(scanner.NewNamespaceScanner(opts...), ns)
}

// ScanArchive streams the types whose units are packed in the zip at
// path. A nil resolver means the runtime.
func (m *Mirror) ScanArchive(path string, resolver reflection.Resolver, opts ...scanner.Option) (TypeStream, error) {
	opts = append([]scanner.Option{scanner.WithResolver(m.rt)}, opts...)
	return Scan(scanner.NewArchiveScanner(opts...), scanner.Archive{Path: path, Resolver: resolver})
}

// TypeOf returns the handle for t in the default runtime.
func TypeOf(t reflect.Type) Type {
	return std.TypeOf(t)
}

// TypeFor returns the handle for T in the default runtime.
func TypeFor[T any]() Type {
	return std.TypeOf(reflect.TypeFor[T]())
}

func Resolve(name string) (Type, error) {
	return std.Resolve(name)
}

func EnumOf(t reflect.Type) (Enum, error) {
	return std.EnumOf(t)
}

// ValueOf is Mirror.ValueOf on the default runtime.
func ValueOf(v any) Type {
	return std.ValueOf(v)
}

// Types streams ts in order.
func Types(ts ...Type) TypeStream {
	return newTypeStream(stream.FromSlice(ts))
}

// TypesOf streams the handles of seq. seq is read lazily.
func TypesOf(seq iter.Seq[Type]) TypeStream {
	return newTypeStream(stream.From(seq))
}

// RawTypes streams handles for ts in order.
func RawTypes(ts ...reflection.Type) TypeStream {
	return Types(wrapTypes(ts)...)
}

func Fields(fs ...Field) FieldStream {
	return newFieldStream(stream.FromSlice(fs))
}

func RawFields(fs ...reflection.Field) FieldStream {
	return Fields(wrapFields(fs)...)
}

func Methods(ms ...Method) MethodStream {
	return newMethodStream(stream.FromSlice(ms))
}

func RawMethods(ms ...reflection.Method) MethodStream {
	return Methods(wrapMethods(ms)...)
}

// ScanNamespace is Mirror.ScanNamespace on the default runtime.
func ScanNamespace(ns string, opts ...scanner.Option) (TypeStream, error) {
	return std.ScanNamespace(ns, opts...)
}

// ScanArchive is Mirror.ScanArchive on the default runtime.
func ScanArchive(path string, resolver reflection.Resolver, opts ...scanner.Option) (TypeStream, error) {
	return std.ScanArchive(path, resolver, opts...)
}

// Scan runs s at locator and streams the result ordered by full name.
func Scan[L any](s scanner.Scanner[L], locator L) (TypeStream, error) {
	set, err := s.Scan(locator)
	if err != nil {
		return TypeStream{}, err
	}
	return RawTypes(set.Types()...), nil
}
