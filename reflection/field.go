package reflection

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

type field struct {
	owner      *rtype
	name       string
	typ        reflect.Type
	index      int
	static     reflect.Value
	tag        reflect.StructTag
	mods       Modifier
	accessible atomic.Bool
}

var _ Field = (*field)(nil)

func newStructField(owner *rtype, sf reflect.StructField, index int) *field {
	return &field{
		owner: owner,
		name:  sf.Name,
		typ:   sf.Type,
		index: index,
		tag:   sf.Tag,
		mods:  modifiers(sf.Name, sf.Tag),
	}
}

func newStaticField(owner *rtype, s staticVar) *field {
	return &field{
		owner:  owner,
		name:   s.name,
		typ:    s.ptr.Type().Elem(),
		index:  -1,
		static: s.ptr,
		tag:    s.tag,
		mods:   modifiers(s.name, s.tag) | Static,
	}
}

func (f *field) Name() string            { return f.name }
func (f *field) DeclaringType() Type     { return f.owner }
func (f *field) Modifiers() Modifier     { return f.mods }
func (f *field) Tag() reflect.StructTag  { return f.tag }
func (f *field) Type() Type              { return f.owner.rt.intern(f.typ) }
func (f *field) Accessible() bool        { return f.accessible.Load() }
func (f *field) SetAccessible(flag bool) { f.accessible.Store(flag) }
func (f *field) String() string          { return f.owner.Name() + "." + f.name }

func (f *field) Get(instance any) (any, error) {
	if err := f.checkAccess(false); err != nil {
		return nil, err
	}
	v, err := f.value(instance)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Set writes value into the field. Instance fields need a pointer
// instance so the write is visible to the caller.
func (f *field) Set(instance, value any) error {
	if err := f.checkAccess(true); err != nil {
		return err
	}
	if !f.mods.Has(Static) {
		if instance == nil || reflect.TypeOf(instance).Kind() != reflect.Pointer {
			return fmt.Errorf("%w: field %s: set needs a pointer instance, got %T", ErrTarget, f, instance)
		}
	}
	dst, err := f.value(instance)
	if err != nil {
		return err
	}
	src, ok := assignValue(value, f.typ)
	if !ok {
		return fmt.Errorf("%w: field %s: %T is not assignable to %s", ErrTypeMismatch, f, value, f.typ)
	}
	dst.Set(src)
	return nil
}

func (f *field) value(instance any) (reflect.Value, error) {
	if f.mods.Has(Static) {
		return f.static.Elem(), nil
	}
	if instance == nil {
		return reflect.Value{}, fmt.Errorf("%w: field %s: nil instance", ErrTarget, f)
	}
	sv, ok := locate(reflect.ValueOf(instance), f.owner.t)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: field %s: %T is not a %s", ErrTarget, f, instance, f.owner.Name())
	}
	return expose(sv.Field(f.index)), nil
}

func (f *field) checkAccess(write bool) error {
	if f.accessible.Load() {
		return nil
	}
	if !f.mods.Has(Public) {
		return fmt.Errorf("%w: field %s is %s", ErrAccess, f, f.mods)
	}
	if write && f.mods.Has(Final) {
		return fmt.Errorf("%w: field %s is final", ErrAccess, f)
	}
	return nil
}
