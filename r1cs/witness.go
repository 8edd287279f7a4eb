package r1cs

import (
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark/constraint"

	"github.com/Zklib/zklang/field"
)

// Witness is a full assignment of wire values, indexed by wire id.
type Witness []constraint.Element

// solver assigns wire values by repeated propagation over the constraints
// in emission order, solving any constraint whose unknowns reduce to one
// linear occurrence.
type solver struct {
	sys    *System
	values Witness
	known  *bitset.BitSet

	// blockedByZero records, per constraint, that the last attempt to
	// solve its unknown required dividing by a zero cofactor.
	blockedByZero *bitset.BitSet
}

// Solve computes the witness for the given input values, which must match
// the system's input arity.
func (s *System) Solve(inputs []*big.Int) (Witness, error) {
	if len(inputs) != len(s.Inputs) {
		return nil, fmt.Errorf("got %d inputs, want %d: %w", len(inputs), len(s.Inputs), ErrInputArityMismatch)
	}
	f := s.Field()
	sv := &solver{
		sys:           s,
		values:        make(Witness, s.NbWires),
		known:         bitset.New(uint(s.NbWires)),
		blockedByZero: bitset.New(uint(len(s.Constraints))),
	}
	sv.assign(0, f.One())
	for i, in := range inputs {
		sv.assign(s.Inputs[i], f.FromInterface(in))
	}

	for {
		progress := false
		sv.blockedByZero.ClearAll()
		for ci := range s.Constraints {
			ok, err := sv.step(ci)
			if err != nil {
				return nil, err
			}
			progress = progress || ok
		}
		if !progress {
			break
		}
	}

	if sv.blockedByZero.Any() {
		return nil, fmt.Errorf("constraint %d: %w", firstSet(sv.blockedByZero), ErrDivByZero)
	}
	for _, w := range sv.referenced() {
		if !sv.known.Test(uint(w)) {
			return nil, fmt.Errorf("wire %d has no value: %w", w, ErrUnderDetermined)
		}
	}
	return sv.values, nil
}

func firstSet(b *bitset.BitSet) int {
	i, _ := b.NextSet(0)
	return int(i)
}

// referenced lists every wire mentioned by a constraint, input or output.
// Wires the elaborator allocated but no constraint ever reached stay at
// zero rather than failing the solve.
func (sv *solver) referenced() []int {
	seen := bitset.New(uint(sv.sys.NbWires))
	mark := func(l LinComb) {
		for _, t := range l {
			seen.Set(uint(t.VID))
		}
	}
	for _, c := range sv.sys.Constraints {
		mark(c.A)
		mark(c.B)
		mark(c.C)
	}
	for _, w := range sv.sys.Inputs {
		seen.Set(uint(w))
	}
	for _, w := range sv.sys.Outputs {
		seen.Set(uint(w))
	}
	res := make([]int, 0, seen.Count())
	for i, ok := seen.NextSet(0); ok; i, ok = seen.NextSet(i + 1) {
		res = append(res, int(i))
	}
	return res
}

func (sv *solver) assign(w int, v constraint.Element) error {
	if sv.known.Test(uint(w)) {
		f := sv.sys.Field()
		if f.ToBigInt(sv.values[w]).Cmp(f.ToBigInt(v)) != 0 {
			return fmt.Errorf("wire %d: %w", w, ErrOverDetermined)
		}
		return nil
	}
	sv.values[w] = v
	sv.known.Set(uint(w))
	return nil
}

// split separates a form into the part with known wires, evaluated, and
// the coefficient of its single unknown wire. ok is false when more than
// one wire is unknown.
func (sv *solver) split(l LinComb) (val constraint.Element, unknown int, coeff constraint.Element, ok bool) {
	f := sv.sys.Field()
	unknown = -1
	for _, t := range l {
		if sv.known.Test(uint(t.VID)) {
			val = f.Add(val, f.Mul(t.Coeff, sv.values[t.VID]))
			continue
		}
		if unknown >= 0 {
			return val, -1, coeff, false
		}
		unknown = t.VID
		coeff = t.Coeff
	}
	return val, unknown, coeff, true
}

// step tries to solve constraint ci, reporting whether a new wire value
// was produced.
func (sv *solver) step(ci int) (bool, error) {
	f := sv.sys.Field()
	con := sv.sys.Constraints[ci]

	aVal, aUnk, aCoeff, aOK := sv.split(con.A)
	bVal, bUnk, bCoeff, bOK := sv.split(con.B)
	cVal, cUnk, cCoeff, cOK := sv.split(con.C)

	aKnown := aOK && aUnk < 0
	bKnown := bOK && bUnk < 0
	cKnown := cOK && cUnk < 0

	// The product is known when both factors are, or one factor is a
	// known zero.
	prodKnown := false
	var prod constraint.Element
	switch {
	case aKnown && bKnown:
		prod = f.Mul(aVal, bVal)
		prodKnown = true
	case aKnown && aVal.IsZero(), bKnown && bVal.IsZero():
		prodKnown = true
	}

	switch {
	case aKnown && bKnown && cKnown:
		return false, nil
	case prodKnown && cOK && cUnk >= 0:
		// prod = cVal + cCoeff * x
		x := f.Mul(f.Sub(prod, cVal), mustInverse(f, cCoeff))
		if err := sv.assign(cUnk, x); err != nil {
			return false, err
		}
		return true, nil
	case aOK && aUnk >= 0 && bKnown && cKnown:
		// (aVal + aCoeff*x) * bVal = cVal
		if bVal.IsZero() {
			sv.blockedByZero.Set(uint(ci))
			return false, nil
		}
		return true, sv.solveFactor(ci, aUnk, aCoeff, aVal, bVal, cVal)
	case bOK && bUnk >= 0 && aKnown && cKnown:
		if aVal.IsZero() {
			sv.blockedByZero.Set(uint(ci))
			return false, nil
		}
		return true, sv.solveFactor(ci, bUnk, bCoeff, bVal, aVal, cVal)
	}
	return false, nil
}

// solveFactor solves (base + coeff*x) * other = target for x; other and
// coeff are nonzero.
func (sv *solver) solveFactor(ci, wire int, coeff, base, other, target constraint.Element) error {
	f := sv.sys.Field()
	x := f.Mul(f.Sub(f.Mul(target, mustInverse(f, other)), base), mustInverse(f, coeff))
	return sv.assign(wire, x)
}

func mustInverse(f field.Field, e constraint.Element) constraint.Element {
	inv, ok := f.Inverse(e)
	if !ok {
		panic("inverse of zero")
	}
	return inv
}

// Sat reports whether the witness satisfies every constraint.
func (s *System) Sat(w Witness) bool {
	if len(w) != s.NbWires {
		return false
	}
	f := s.Field()
	for _, c := range s.Constraints {
		lhs := f.Mul(c.A.Eval(f, w), c.B.Eval(f, w))
		rhs := c.C.Eval(f, w)
		if f.ToBigInt(lhs).Cmp(f.ToBigInt(rhs)) != 0 {
			return false
		}
	}
	return true
}
