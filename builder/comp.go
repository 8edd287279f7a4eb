package builder

import (
	"github.com/Zklib/zklang/expr"
)

// Comp is an elaboration step: it mutates the builder and produces an
// expression, or fails. Errors short-circuit every downstream combinator.
type Comp func(b *Builder) (*expr.Expr, error)

// Pure lifts an expression into a computation that touches nothing.
func Pure(e *expr.Expr) Comp {
	return func(b *Builder) (*expr.Expr, error) {
		return e, nil
	}
}

// Raise aborts the computation with err.
func Raise(err error) Comp {
	return func(b *Builder) (*expr.Expr, error) {
		return nil, err
	}
}

// Bind runs m and feeds its result subexpression to k. The effect prefix
// of m is glued in front of k's expression with the smart Seq constructor,
// so effects survive even when k ignores the value.
func (m Comp) Bind(k func(*expr.Expr) Comp) Comp {
	return func(b *Builder) (*expr.Expr, error) {
		e, err := m(b)
		if err != nil {
			return nil, err
		}
		effect, result := expr.Split(e)
		out, err := k(result)(b)
		if err != nil {
			return nil, err
		}
		if effect == nil {
			return out, nil
		}
		return expr.NewSeq(effect, out), nil
	}
}

// Then runs m for its effect and continues with k. The result of m is
// discarded by the smart Seq constructor when it is pure.
func (m Comp) Then(k Comp) Comp {
	return func(b *Builder) (*expr.Expr, error) {
		e, err := m(b)
		if err != nil {
			return nil, err
		}
		out, err := k(b)
		if err != nil {
			return nil, err
		}
		return expr.NewSeq(e, out), nil
	}
}

// Run executes the computation against the environment b.
func (m Comp) Run(b *Builder) (*expr.Expr, error) {
	return m(b)
}
