// Package gensample is input for the parser and generator tests.
package gensample

import "errors"

type Shape interface {
	Area() float64
}

type Describer interface {
	Describe() string
}

type Base struct {
	ID   int
	Name string `json:"name"`
}

func (b Base) Describe() string { return b.Name }

type Square struct {
	Base
	Side float64 `json:"side"`
	note string
}

func NewSquare(side float64) *Square {
	return &Square{Side: side}
}

func (s Square) Area() float64 { return s.Side * s.Side }

func (s Square) Describe() string { return "square" }

type codeA struct{ Code string }

type codeB struct{ Code string }

// Badge embeds two Code fields, so neither is promoted.
type Badge struct {
	codeA
	codeB
	Label string
}

func NewBadge(label string) (Badge, error) {
	if label == "" {
		return Badge{}, errors.New("empty label")
	}
	return Badge{Label: label}, nil
}

type Level int

const (
	Low Level = iota
	Mid
	High
)

const Unrelated = 3

type Box[T any] struct {
	Value T
}

type Alias = Square
