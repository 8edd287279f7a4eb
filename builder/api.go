package builder

import (
	"math/big"

	"github.com/Zklib/zklang/expr"
)

// Const returns the field constant c.
func (b *Builder) Const(c int64) Comp {
	return b.ConstBig(big.NewInt(c))
}

// ConstBig returns the field constant c reduced modulo the field order.
func (b *Builder) ConstBig(c *big.Int) Comp {
	e := b.field.FromInterface(c)
	return Pure(expr.NewFieldConst(e))
}

// Rational returns the field element num/den.
func (b *Builder) Rational(num, den int64) Comp {
	n := b.field.FromInterface(big.NewInt(num))
	d := b.field.FromInterface(big.NewInt(den))
	inv, ok := b.field.Inverse(d)
	if !ok {
		return Raise(ErrInternalInvariant)
	}
	return Pure(expr.NewFieldConst(b.field.Mul(n, inv)))
}

// ConstBool returns the boolean literal v.
func ConstBool(v bool) Comp {
	return Pure(expr.NewBool(v))
}

// UnitE returns the unit value.
func UnitE() Comp {
	return Pure(expr.NewUnit())
}

// Bot returns the undefined marker at the given type.
func Bot(ty *expr.Type) Comp {
	return Pure(expr.NewBot(ty))
}

// unop builds a unary operator node, absorbing bot operands.
func (b *Builder) unop(op expr.Op, m Comp) Comp {
	return m.Bind(func(e *expr.Expr) Comp {
		if b.isBot(e) {
			return Pure(expr.NewBot(e.Ty))
		}
		return Pure(expr.NewUnop(op, e))
	})
}

// binop builds a binary operator node of the given result type, absorbing
// bot operands.
func (b *Builder) binop(op expr.Op, x, y Comp, ty *expr.Type) Comp {
	return x.Bind(func(a *expr.Expr) Comp {
		return y.Bind(func(c *expr.Expr) Comp {
			if b.isBot(a) || b.isBot(c) {
				return Pure(expr.NewBot(ty))
			}
			return Pure(expr.NewBinop(op, a, c, ty))
		})
	})
}

func (b *Builder) Neg(x Comp) Comp { return b.unop(expr.OpNeg, x) }
func (b *Builder) Not(x Comp) Comp { return b.unop(expr.OpNot, x) }

func (b *Builder) Add(x, y Comp) Comp { return b.binop(expr.OpAdd, x, y, expr.TField) }
func (b *Builder) Sub(x, y Comp) Comp { return b.binop(expr.OpSub, x, y, expr.TField) }
func (b *Builder) Mul(x, y Comp) Comp { return b.binop(expr.OpMul, x, y, expr.TField) }
func (b *Builder) Div(x, y Comp) Comp { return b.binop(expr.OpDiv, x, y, expr.TField) }

func (b *Builder) And(x, y Comp) Comp { return b.binop(expr.OpAnd, x, y, expr.TBool) }
func (b *Builder) Or(x, y Comp) Comp  { return b.binop(expr.OpOr, x, y, expr.TBool) }
func (b *Builder) Xor(x, y Comp) Comp { return b.binop(expr.OpXor, x, y, expr.TBool) }

// Eq is field equality; the result is boolean.
func (b *Builder) Eq(x, y Comp) Comp { return b.binop(expr.OpEq, x, y, expr.TBool) }

// BEq is boolean equality.
func (b *Builder) BEq(x, y Comp) Comp { return b.binop(expr.OpBEq, x, y, expr.TBool) }

// If elaborates a conditional. Branches are thunks so that a statically
// decided condition skips the dead branch together with its effects. A
// bot condition makes the whole expression bot.
func (b *Builder) If(cond Comp, then, els func() Comp) Comp {
	return cond.Bind(func(c *expr.Expr) Comp {
		switch {
		case b.isBot(c):
			return thunkBot(b, then)
		case b.isTrue(c):
			return then()
		case b.isFalse(c):
			return els()
		}
		return then().Bind(func(t *expr.Expr) Comp {
			return els().Bind(func(e *expr.Expr) Comp {
				if b.isBot(t) && b.isBot(e) {
					return Pure(expr.NewBot(t.Ty))
				}
				return Pure(expr.NewIf(c, t, e))
			})
		})
	})
}

// thunkBot produces bot at the branch's type without keeping its effects.
// The thunk is elaborated only so that its shape determines the type; the
// builder's counters and maps are restored afterwards, so the real builder
// stays untouched.
func thunkBot(b *Builder, branch func() Comp) Comp {
	return func(real *Builder) (*expr.Expr, error) {
		saved := *b
		saved.objMap = make(map[objKey]objBind, len(b.objMap))
		for k, v := range b.objMap {
			saved.objMap[k] = v
		}
		saved.analMap = make(map[expr.Var]analBind, len(b.analMap))
		for k, v := range b.analMap {
			saved.analMap[k] = v
		}
		e, err := branch()(b)
		*b = saved
		if err != nil {
			return nil, err
		}
		return expr.NewBot(e.Ty), nil
	}
}
