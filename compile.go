// Package zklang compiles programs of the typed DSL into rank-1
// constraint systems and checks them against concrete inputs.
package zklang

import (
	"math/big"

	"github.com/consensys/gnark/logger"

	"github.com/Zklib/zklang/builder"
	"github.com/Zklib/zklang/expr"
	"github.com/Zklib/zklang/field"
	"github.com/Zklib/zklang/r1cs"
)

// Program is a DSL program: given the elaboration environment it returns
// the computation of the program's result value.
type Program func(b *builder.Builder) builder.Comp

// CompileResult bundles the compiled system with the elaboration
// artifacts a caller may want to inspect.
type CompileResult struct {
	System *r1cs.System
	Root   *expr.Expr
	NbVars int
}

type compileConfig struct {
	fieldOrder *big.Int
}

// CompileOption steers compilation.
type CompileOption func(*compileConfig)

// WithFieldOrder selects the prime field to compile over. The default is
// the BN254 scalar field.
func WithFieldOrder(order *big.Int) CompileOption {
	return func(c *compileConfig) {
		c.fieldOrder = order
	}
}

// Compile elaborates prog and lowers it to a constraint system.
func Compile(prog Program, opts ...CompileOption) (*CompileResult, error) {
	cfg := compileConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	var f field.Field
	if cfg.fieldOrder != nil {
		f = field.GetFieldFromOrder(cfg.fieldOrder)
	} else {
		f = field.BN254()
	}

	b := builder.NewBuilder(f)
	root, err := prog(b).Run(b)
	if err != nil {
		return nil, err
	}

	sys, err := r1cs.Compile(f, root, b.NbVars(), b.Inputs())
	if err != nil {
		return nil, err
	}

	log := logger.Logger()
	log.Info().
		Int("nbWires", sys.NbWires).
		Int("nbConstraints", sys.NbConstraints()).
		Int("nbInput", len(sys.Inputs)).
		Msg("compiled")

	return &CompileResult{
		System: sys,
		Root:   root,
		NbVars: b.NbVars(),
	}, nil
}
