package orbital

import (
	"fmt"
	"math"
	"strings"
)

// Orbital labels. Only s orbitals use LabelNone.
const (
	LabelNone  = "N/A"
	LabelX     = "x"
	LabelY     = "y"
	LabelZ     = "z"
	LabelZ2    = "z^2"
	LabelXZ    = "xz"
	LabelYZ    = "yz"
	LabelXY    = "xy"
	LabelX2mY2 = "x^2-y^2"
)

// Selector is the quantum parameter tuple picked by a caller.
type Selector struct {
	N     int    `json:"n" yaml:"n"`
	L     int    `json:"l" yaml:"l"`
	Label string `json:"label" yaml:"label"`
}

func (s Selector) String() string {
	return fmt.Sprintf("n=%d l=%d %s", s.N, s.L, s.Label)
}

// Orbital identifies one defined formula. The zero value is not valid.
type Orbital int

const (
	Orbital1s Orbital = iota + 1
	Orbital2s
	Orbital2px
	Orbital2py
	Orbital2pz
	Orbital3s
	Orbital3px
	Orbital3py
	Orbital3pz
	Orbital3dz2
	Orbital3dxz
	Orbital3dyz
	Orbital3dxy
	Orbital3dx2y2

	numOrbitals
)

type entry struct {
	sel  Selector
	name string
	psi  func(rho, theta, phi float64) float64
}

var table = [numOrbitals]entry{
	Orbital1s:     {Selector{1, 0, LabelNone}, "1s", psi1s},
	Orbital2s:     {Selector{2, 0, LabelNone}, "2s", psi2s},
	Orbital2px:    {Selector{2, 1, LabelX}, "2px", psi2px},
	Orbital2py:    {Selector{2, 1, LabelY}, "2py", psi2py},
	Orbital2pz:    {Selector{2, 1, LabelZ}, "2pz", psi2pz},
	Orbital3s:     {Selector{3, 0, LabelNone}, "3s", psi3s},
	Orbital3px:    {Selector{3, 1, LabelX}, "3px", psi3px},
	Orbital3py:    {Selector{3, 1, LabelY}, "3py", psi3py},
	Orbital3pz:    {Selector{3, 1, LabelZ}, "3pz", psi3pz},
	Orbital3dz2:   {Selector{3, 2, LabelZ2}, "3dz2", psi3dz2},
	Orbital3dxz:   {Selector{3, 2, LabelXZ}, "3dxz", psi3dxz},
	Orbital3dyz:   {Selector{3, 2, LabelYZ}, "3dyz", psi3dyz},
	Orbital3dxy:   {Selector{3, 2, LabelXY}, "3dxy", psi3dxy},
	Orbital3dx2y2: {Selector{3, 2, LabelX2mY2}, "3dx2-y2", psi3dx2y2},
}

// All returns every defined orbital in table order.
func All() []Orbital {
	out := make([]Orbital, 0, numOrbitals-1)
	for o := Orbital1s; o < numOrbitals; o++ {
		out = append(out, o)
	}
	return out
}

// Lookup resolves a selector to its formula.
func Lookup(sel Selector) (Orbital, error) {
	for o := Orbital1s; o < numOrbitals; o++ {
		if table[o].sel == sel {
			return o, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidSelector, sel)
}

// ParseName resolves a short name such as "2pz" or "3dx2-y2".
func ParseName(name string) (Orbital, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for o := Orbital1s; o < numOrbitals; o++ {
		if table[o].name == key {
			return o, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownName, name)
}

func (o Orbital) Valid() bool { return o >= Orbital1s && o < numOrbitals }

func (o Orbital) Selector() Selector {
	if !o.Valid() {
		return Selector{}
	}
	return table[o].sel
}

func (o Orbital) Name() string {
	if !o.Valid() {
		return fmt.Sprintf("orbital(%d)", int(o))
	}
	return table[o].name
}

func (o Orbital) String() string { return o.Name() }

// Next returns the following orbital in table order, wrapping around.
func (o Orbital) Next() Orbital {
	if !o.Valid() || o == numOrbitals-1 {
		return Orbital1s
	}
	return o + 1
}

// Prev returns the preceding orbital in table order, wrapping around.
func (o Orbital) Prev() Orbital {
	if !o.Valid() || o == Orbital1s {
		return numOrbitals - 1
	}
	return o - 1
}

// Psi returns the signed amplitude at (rho, theta, phi). Invalid orbitals
// yield NaN.
func (o Orbital) Psi(rho, theta, phi float64) float64 {
	if !o.Valid() {
		return math.NaN()
	}
	return table[o].psi(rho, theta, phi)
}

// Evaluate checks the selector before computing any amplitude.
func Evaluate(sel Selector, rho, theta, phi float64) (float64, error) {
	o, err := Lookup(sel)
	if err != nil {
		return 0, err
	}
	return o.Psi(rho, theta, phi), nil
}
