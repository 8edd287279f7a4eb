package zklang

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark/logger"

	"github.com/Zklib/zklang/checker"
)

// CheckResult is the outcome of compiling a program and solving it
// against concrete inputs.
type CheckResult struct {
	Sat           bool
	NbVars        int
	NbConstraints int
	Output        *big.Int
	Serialized    string
}

// Check compiles prog, solves its witness for the given inputs, and
// evaluates satisfiability. Inputs are given in declaration order.
func Check(prog Program, inputs []*big.Int, opts ...CompileOption) (*CheckResult, error) {
	res, err := Compile(prog, opts...)
	if err != nil {
		return nil, err
	}
	sys := res.System

	w, err := sys.Solve(inputs)
	if err != nil {
		return nil, err
	}
	sat := sys.Sat(w)

	log := logger.Logger()
	log.Debug().
		Bool("sat", sat).
		Int("nbWires", sys.NbWires).
		Msg("witness solved")

	var sb strings.Builder
	if _, err := sys.WriteTo(&sb); err != nil {
		return nil, err
	}

	return &CheckResult{
		Sat:           sat,
		NbVars:        sys.NbWires,
		NbConstraints: sys.NbConstraints(),
		Output:        checker.Output(sys, w),
		Serialized:    sb.String(),
	}, nil
}

// Record renders the one line result summary.
func (r *CheckResult) Record(order *big.Int) string {
	return fmt.Sprintf("sat = %t, vars = %d, constraints = %d, result = %s",
		r.Sat, r.NbVars, r.NbConstraints, FormatResidue(order, r.Output))
}

// FormatResidue prints a residue as the small signed rational it embeds,
// searching denominators in order and preferring integers. Residues with
// no small preimage print as raw residues.
func FormatResidue(order, r *big.Int) string {
	bound := new(big.Int).Lsh(big.NewInt(1), 40)
	num := new(big.Int)
	neg := new(big.Int)
	den := new(big.Int)
	for d := int64(1); d <= 1024; d++ {
		den.SetInt64(d)
		num.Mul(r, den)
		num.Mod(num, order)
		neg.Sub(order, num)
		var s string
		switch {
		case num.Cmp(bound) <= 0:
			s = num.String()
		case neg.Cmp(bound) <= 0:
			s = "-" + neg.String()
		default:
			continue
		}
		if d == 1 {
			return s
		}
		return s + "/" + den.String()
	}
	return r.String()
}
