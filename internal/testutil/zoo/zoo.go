// Package zoo holds a small type universe used by tests.
package zoo

import (
	"errors"
	"fmt"
)

var (
	ErrNoBall = errors.New("no ball")
	ErrFull   = errors.New("kennel is full")
)

// Opened is registered as a static field of Kennel.
var Opened = "9am"

var capacityLimit = 8

type Named interface {
	Label() string
}

type Feeder interface {
	Feed(food string) int
}

type Animal struct {
	Name   string `json:"name" mirror:"final"`
	Legs   int    `json:"legs"`
	weight float64
}

func NewAnimal(name string, legs int) *Animal {
	return &Animal{Name: name, Legs: legs}
}

func (a *Animal) Label() string { return a.Name }

func (a Animal) Speak() string { return "..." }

func (a *Animal) heavier(than float64) bool { return a.weight > than }

type Dog struct {
	Animal
	Breed  string `json:"breed"`
	Good   bool   `mirror:"protected"`
	secret string
}

func NewDog(name, breed string) *Dog {
	return &Dog{
		Animal: Animal{Name: name, Legs: 4, weight: 12.5},
		Breed:  breed,
		Good:   true,
		secret: "bone",
	}
}

func (d *Dog) Feed(food string) int { return len(food) }

func (d Dog) Speak() string { return "woof" }

// Fetch returns n, or ErrNoBall when n is negative.
func (d *Dog) Fetch(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("fetch %d: %w", n, ErrNoBall)
	}
	return n, nil
}

func (d *Dog) Panic() { panic("dog panicked") }

type Kennel struct {
	Dogs     []*Dog
	Capacity int
}

func DefaultKennel() *Kennel {
	return &Kennel{Capacity: capacityLimit}
}

func (k *Kennel) Add(d *Dog) error {
	if len(k.Dogs) >= k.Capacity {
		return ErrFull
	}
	k.Dogs = append(k.Dogs, d)
	return nil
}

// KennelDoor is nested in Kennel.
type KennelDoor struct {
	Open bool
}

type Color int

const (
	Red Color = iota
	Green
	Blue
)

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return fmt.Sprintf("Color(%d)", int(c))
}
