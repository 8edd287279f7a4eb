// Package r1cs lowers elaborated expression trees into rank-1 constraint
// systems, solves witnesses over them, and reads and writes their
// serialized forms.
package r1cs

import (
	"errors"
	"math/big"
	"sort"

	"github.com/consensys/gnark/constraint"

	"github.com/Zklib/zklang/field"
)

// Witness and check errors.
var (
	ErrDivByZero          = errors.New("division by zero")
	ErrUnderDetermined    = errors.New("under determined system")
	ErrOverDetermined     = errors.New("over determined system")
	ErrInputArityMismatch = errors.New("input arity mismatch")
)

// Term is one coefficient of an affine form. VID 0 is the constant wire.
type Term struct {
	VID   int
	Coeff constraint.Element
}

// LinComb is an affine form, sorted by VID with no duplicates and no zero
// coefficients.
type LinComb []Term

// Constraint is the rank-1 relation A * B = C.
type Constraint struct {
	A, B, C LinComb
}

// System is a compiled constraint system. Wires are numbered from 0; wire
// 0 carries the constant one. Inputs are in declaration order.
type System struct {
	FieldOrder  *big.Int
	NbWires     int
	Constraints []Constraint
	Inputs      []int
	Outputs     []int
}

// NewTerm returns the single-term form coeff * vid.
func NewTerm(vid int, coeff constraint.Element) LinComb {
	if coeff.IsZero() {
		return nil
	}
	return LinComb{{VID: vid, Coeff: coeff}}
}

// IsZero reports whether the form is identically zero.
func (l LinComb) IsZero() bool {
	return len(l) == 0
}

// AsConstant returns the constant carried by the form when it mentions no
// wire other than the constant one.
func (l LinComb) AsConstant() (constraint.Element, bool) {
	switch len(l) {
	case 0:
		return constraint.Element{}, true
	case 1:
		if l[0].VID == 0 {
			return l[0].Coeff, true
		}
	}
	return constraint.Element{}, false
}

// AsSingleWire returns the wire of a form that is exactly one non-constant
// wire with coefficient one.
func (l LinComb) AsSingleWire(f field.Field) (int, bool) {
	if len(l) == 1 && l[0].VID != 0 && f.IsOne(l[0].Coeff) {
		return l[0].VID, true
	}
	return 0, false
}

// normalize sorts by VID, merges duplicates and drops zero coefficients.
func normalize(f field.Field, terms []Term) LinComb {
	sort.Slice(terms, func(i, j int) bool { return terms[i].VID < terms[j].VID })
	res := terms[:0]
	for _, t := range terms {
		if n := len(res); n > 0 && res[n-1].VID == t.VID {
			res[n-1].Coeff = f.Add(res[n-1].Coeff, t.Coeff)
			continue
		}
		res = append(res, t)
	}
	kept := make(LinComb, 0, len(res))
	for _, t := range res {
		if !t.Coeff.IsZero() {
			kept = append(kept, t)
		}
	}
	return kept
}

// Add returns l + r.
func (l LinComb) Add(f field.Field, r LinComb) LinComb {
	terms := make([]Term, 0, len(l)+len(r))
	terms = append(terms, l...)
	terms = append(terms, r...)
	return normalize(f, terms)
}

// Sub returns l - r.
func (l LinComb) Sub(f field.Field, r LinComb) LinComb {
	terms := make([]Term, 0, len(l)+len(r))
	terms = append(terms, l...)
	for _, t := range r {
		terms = append(terms, Term{VID: t.VID, Coeff: f.Neg(t.Coeff)})
	}
	return normalize(f, terms)
}

// Scale returns c * l.
func (l LinComb) Scale(f field.Field, c constraint.Element) LinComb {
	if c.IsZero() {
		return nil
	}
	res := make(LinComb, 0, len(l))
	for _, t := range l {
		coeff := f.Mul(t.Coeff, c)
		if !coeff.IsZero() {
			res = append(res, Term{VID: t.VID, Coeff: coeff})
		}
	}
	return res
}

// Neg returns -l.
func (l LinComb) Neg(f field.Field) LinComb {
	res := make(LinComb, 0, len(l))
	for _, t := range l {
		res = append(res, Term{VID: t.VID, Coeff: f.Neg(t.Coeff)})
	}
	return res
}

// Eval evaluates the form under a full assignment of wire values.
func (l LinComb) Eval(f field.Field, values []constraint.Element) constraint.Element {
	var acc constraint.Element
	for _, t := range l {
		acc = f.Add(acc, f.Mul(t.Coeff, values[t.VID]))
	}
	return acc
}

// Field returns the wrapped arithmetic of the system's field order.
func (s *System) Field() field.Field {
	return field.GetFieldFromOrder(s.FieldOrder)
}

// NbConstraints returns the number of constraints.
func (s *System) NbConstraints() int {
	return len(s.Constraints)
}
