package reflection_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/mirror/internal/testutil/zoo"
	"github.com/seitarof/mirror/reflection"
)

func names[M interface{ Name() string }](ms []M) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Name())
	}
	return out
}

func TestType_Names(t *testing.T) {
	rt := zoo.NewRuntime()
	dog := typeOf[zoo.Dog](rt)

	assert.Equal(t, "Dog", dog.Name())
	assert.Equal(t, "github.com/seitarof/mirror/internal/testutil/zoo", dog.Namespace())
	assert.Equal(t, "github.com/seitarof/mirror/internal/testutil/zoo.Dog", dog.FullName())
	assert.Equal(t, "[]string", typeOf[[]string](rt).Name())
	assert.Equal(t, "int", typeOf[int](rt).FullName())
}

func TestType_Hierarchy(t *testing.T) {
	rt := zoo.NewRuntime()
	animal := typeOf[zoo.Animal](rt)
	dog := typeOf[zoo.Dog](rt)
	named := typeOf[zoo.Named](rt)
	feeder := typeOf[zoo.Feeder](rt)

	super, ok := dog.Super()
	require.True(t, ok)
	assert.True(t, super == animal)

	_, ok = animal.Super()
	assert.False(t, ok)

	assert.Equal(t, []reflection.Type{feeder}, dog.Interfaces())
	assert.Equal(t, []reflection.Type{named}, animal.Interfaces())
	assert.True(t, named.IsInterface())
	assert.False(t, dog.IsInterface())

	outer, ok := typeOf[zoo.KennelDoor](rt).Enclosing()
	require.True(t, ok)
	assert.Equal(t, "Kennel", outer.Name())
	_, ok = dog.Enclosing()
	assert.False(t, ok)
}

func TestType_AssignableFrom(t *testing.T) {
	rt := zoo.NewRuntime()
	animal := typeOf[zoo.Animal](rt)
	dog := typeOf[zoo.Dog](rt)
	named := typeOf[zoo.Named](rt)
	kennel := typeOf[zoo.Kennel](rt)

	tests := []struct {
		name  string
		super reflection.Type
		sub   reflection.Type
		want  bool
	}{
		{"self", dog, dog, true},
		{"super of sub", animal, dog, true},
		{"sub of super", dog, animal, false},
		{"unrelated", kennel, dog, false},
		{"interface by pointer", named, animal, true},
		{"interface through embedding", named, dog, true},
		{"interface not implemented", named, kennel, false},
		{"interface self", named, named, true},
		{"empty interface", typeOf[any](rt), named, true},
		{"nil", dog, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.super.AssignableFrom(tt.sub))
		})
	}
}

func TestType_IsInstance(t *testing.T) {
	rt := zoo.NewRuntime()
	animal := typeOf[zoo.Animal](rt)

	assert.True(t, animal.IsInstance(zoo.NewDog("rex", "lab")))
	assert.True(t, animal.IsInstance(zoo.Animal{}))
	assert.False(t, animal.IsInstance(zoo.Kennel{}))
	assert.False(t, animal.IsInstance(nil))
	assert.True(t, typeOf[zoo.Feeder](rt).IsInstance(&zoo.Dog{}))
	assert.False(t, typeOf[zoo.Feeder](rt).IsInstance(zoo.Dog{}))
}

func TestType_Fields(t *testing.T) {
	rt := zoo.NewRuntime()
	dog := typeOf[zoo.Dog](rt)

	assert.Equal(t, []string{"Breed", "Name", "Legs"}, names(dog.Fields()))
	assert.Equal(t, []string{"Breed", "Good", "secret"}, names(dog.DeclaredFields()))

	name, err := dog.Field("Name")
	require.NoError(t, err)
	assert.Equal(t, "Animal", name.DeclaringType().Name())

	fromAnimal, err := typeOf[zoo.Animal](rt).DeclaredField("Name")
	require.NoError(t, err)
	assert.True(t, name == fromAnimal)

	_, err = dog.Field("secret")
	require.ErrorIs(t, err, reflection.ErrLookup)
	_, err = dog.DeclaredField("Name")
	require.ErrorIs(t, err, reflection.ErrLookup)
}

func TestType_StaticFields(t *testing.T) {
	rt := zoo.NewRuntime()
	kennel := typeOf[zoo.Kennel](rt)

	assert.Equal(t, []string{"Dogs", "Capacity", "Opened"}, names(kennel.Fields()))
	assert.Equal(t, []string{"Dogs", "Capacity", "Opened", "capacityLimit"}, names(kennel.DeclaredFields()))

	opened, err := kennel.Field("Opened")
	require.NoError(t, err)
	assert.True(t, opened.Modifiers().Has(reflection.Public|reflection.Static))
	assert.Equal(t, "opening time", opened.Tag().Get("doc"))
}

func TestType_Methods(t *testing.T) {
	rt := zoo.NewRuntime()
	dog := typeOf[zoo.Dog](rt)
	animal := typeOf[zoo.Animal](rt)

	assert.Equal(t, []string{"Feed", "Fetch", "Panic", "Speak"}, names(dog.DeclaredMethods()))
	assert.Equal(t, []string{"Feed", "Fetch", "Panic", "Speak", "Label"}, names(dog.Methods()))
	assert.Equal(t, []string{"Label", "Speak", "heavier"}, names(animal.DeclaredMethods()))
	assert.Equal(t, []string{"Label", "Speak"}, names(animal.Methods()))

	speak, err := dog.Method("Speak")
	require.NoError(t, err)
	assert.True(t, speak.DeclaringType() == dog)

	fetch, err := dog.Method("Fetch", typeOf[int](rt))
	require.NoError(t, err)
	assert.Equal(t, "fetch n balls", fetch.Tag().Get("doc"))
	assert.Equal(t, []reflection.Type{typeOf[int](rt), typeOf[error](rt)}, fetch.Results())
	assert.False(t, fetch.Variadic())

	_, err = dog.Method("Fetch")
	require.ErrorIs(t, err, reflection.ErrLookup)

	label, err := typeOf[zoo.Named](rt).Method("Label")
	require.NoError(t, err)
	assert.True(t, label.Modifiers().Has(reflection.Abstract|reflection.Public))
}

func TestType_ConstructorsAndEnum(t *testing.T) {
	rt := zoo.NewRuntime()

	dogCtors := typeOf[zoo.Dog](rt).Constructors()
	require.Len(t, dogCtors, 1)
	params := dogCtors[0].Params()
	assert.Equal(t, []string{"string", "string"}, names(params))

	_, err := typeOf[zoo.Dog](rt).Constructor()
	require.ErrorIs(t, err, reflection.ErrLookup)

	implicit, err := typeOf[zoo.Kennel](rt).Constructor()
	require.NoError(t, err)
	k, err := implicit.New()
	require.NoError(t, err)
	assert.Equal(t, &zoo.Kennel{}, k)

	assert.Empty(t, typeOf[zoo.Named](rt).Constructors())
	assert.Equal(t, []any{zoo.Red, zoo.Green, zoo.Blue}, typeOf[zoo.Color](rt).EnumConstants())
	assert.Nil(t, typeOf[zoo.Dog](rt).EnumConstants())
	assert.Equal(t, "a dog", typeOf[zoo.Dog](rt).Tag().Get("doc"))
}

type ring struct {
	*link
	ID int
}

type link struct {
	*ring
	Next int
}

func TestType_PointerEmbeddingCycle(t *testing.T) {
	rt := reflection.NewRuntime()
	r := typeOf[ring](rt)

	assert.Equal(t, []string{"ID", "Next"}, names(r.Fields()))

	next, err := r.Field("Next")
	require.NoError(t, err)
	v, err := next.Get(&ring{link: &link{Next: 7}})
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = next.Get(&ring{})
	require.ErrorIs(t, err, reflection.ErrTarget)
}

type readerBox struct {
	io.Reader
}

func TestType_EmbeddedInterfaceMethods(t *testing.T) {
	rt := reflection.NewRuntime()
	box := typeOf[readerBox](rt)

	read, err := box.Method("Read", typeOf[[]byte](rt))
	require.NoError(t, err)
	assert.Equal(t, "Reader", read.DeclaringType().Name())

	_, err = read.Invoke(readerBox{})
	require.ErrorIs(t, err, reflection.ErrArity)

	_, err = read.Invoke(readerBox{}, []byte{})
	require.ErrorIs(t, err, reflection.ErrTarget)

	out, err := read.Invoke(readerBox{Reader: eofReader{}}, make([]byte, 4))
	require.True(t, errors.Is(err, io.EOF))
	require.ErrorIs(t, err, reflection.ErrInvocation)
	assert.Nil(t, out)
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

func TestSameTypes(t *testing.T) {
	rt := reflection.NewRuntime()
	a := []reflection.Type{typeOf[int](rt), typeOf[string](rt)}

	assert.True(t, reflection.SameTypes(a, []reflection.Type{typeOf[int](rt), typeOf[string](rt)}))
	assert.False(t, reflection.SameTypes(a, []reflection.Type{typeOf[string](rt), typeOf[int](rt)}))
	assert.False(t, reflection.SameTypes(a, a[:1]))
	assert.True(t, reflection.SameTypes(nil, nil))
}
