package zoo

import (
	"errors"
	"reflect"

	"github.com/seitarof/mirror/reflection"
)

// Register adds the zoo types to rt.
func Register(rt *reflection.Runtime) error {
	return errors.Join(
		rt.Register(reflect.TypeFor[Named]()),
		rt.Register(reflect.TypeFor[Feeder]()),
		rt.Register(reflect.TypeFor[Animal](),
			reflection.Implements(reflect.TypeFor[Named]()),
			reflection.WithConstructor(NewAnimal),
			reflection.BoundMethod("heavier", (*Animal).heavier),
			reflection.Tags(`doc:"an animal"`),
		),
		rt.Register(reflect.TypeFor[Dog](),
			reflection.Implements(reflect.TypeFor[Feeder]()),
			reflection.WithConstructor(NewDog),
			reflection.Shadows("Speak"),
			reflection.MethodTag("Fetch", `doc:"fetch n balls"`),
			reflection.Tags(`doc:"a dog" json:"dog"`),
		),
		rt.Register(reflect.TypeFor[Kennel](),
			reflection.StaticField("Opened", &Opened, `doc:"opening time"`),
			reflection.StaticField("capacityLimit", &capacityLimit, ""),
			reflection.StaticMethod("Default", DefaultKennel),
		),
		rt.Register(reflect.TypeFor[KennelDoor](),
			reflection.EnclosedBy(reflect.TypeFor[Kennel]()),
		),
		rt.Register(reflect.TypeFor[Color](),
			reflection.EnumConstants(Red, Green, Blue),
			reflection.Alias("zoo.Color"),
		),
	)
}

// NewRuntime returns a fresh runtime holding the zoo types.
func NewRuntime() *reflection.Runtime {
	rt := reflection.NewRuntime()
	if err := Register(rt); err != nil {
		panic(err)
	}
	return rt
}
