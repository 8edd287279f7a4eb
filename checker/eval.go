// Package checker evaluates constraint systems directly over big.Int
// arithmetic. It uses the field wrappers only to convert coefficients and
// witness values to integers and does all evaluation itself, so it doubles
// as an independent cross check of witness satisfaction.
package checker

import (
	"math/big"

	"github.com/Zklib/zklang/r1cs"
)

// EvalLinComb evaluates an affine form over the assignment, modulo p.
func EvalLinComb(sys *r1cs.System, l r1cs.LinComb, assignment []*big.Int) *big.Int {
	f := sys.Field()
	acc := new(big.Int)
	tmp := new(big.Int)
	for _, t := range l {
		tmp.Mul(f.ToBigInt(t.Coeff), assignment[t.VID])
		acc.Add(acc, tmp)
	}
	return acc.Mod(acc, sys.FieldOrder)
}

// CheckSystem reports whether the assignment satisfies every constraint
// of the system. The assignment is indexed by wire, wire 0 included.
func CheckSystem(sys *r1cs.System, assignment []*big.Int) bool {
	if len(assignment) != sys.NbWires {
		return false
	}
	lhs := new(big.Int)
	for _, c := range sys.Constraints {
		a := EvalLinComb(sys, c.A, assignment)
		b := EvalLinComb(sys, c.B, assignment)
		out := EvalLinComb(sys, c.C, assignment)
		lhs.Mul(a, b)
		lhs.Mod(lhs, sys.FieldOrder)
		if lhs.Cmp(out) != 0 {
			return false
		}
	}
	return true
}

// WitnessValues converts a solved witness into big.Int residues for use
// with CheckSystem.
func WitnessValues(sys *r1cs.System, w r1cs.Witness) []*big.Int {
	f := sys.Field()
	res := make([]*big.Int, len(w))
	for i, v := range w {
		res[i] = f.ToBigInt(v)
	}
	return res
}

// Output returns the residue of the system's designated output wire.
func Output(sys *r1cs.System, w r1cs.Witness) *big.Int {
	return sys.Field().ToBigInt(w[sys.Outputs[0]])
}
