package builder

import (
	"github.com/Zklib/zklang/expr"
)

// recordAssert stores an analysis fact for v when the asserted expression
// resolves to a literal, a variable with a known fact, or bot.
func (b *Builder) recordAssert(v expr.Var, e *expr.Expr) {
	switch e.Kind {
	case expr.KindVal:
		switch e.Val.Kind {
		case expr.ValTrue:
			b.analMap[v] = analBind{kind: analBool, b: true}
		case expr.ValFalse:
			b.analMap[v] = analBind{kind: analBool, b: false}
		case expr.ValField:
			b.analMap[v] = analBind{kind: analConst, c: e.Val.F}
		}
	case expr.KindVar:
		if bind, ok := b.analMap[e.V]; ok {
			b.analMap[v] = bind
		}
	case expr.KindBot:
		b.analMap[v] = analBind{kind: analBot}
	}
}

// isTrue reports whether e is statically known to be true. The analysis
// is optimistic: a false answer means unknown, not refuted.
func (b *Builder) isTrue(e *expr.Expr) bool {
	switch e.Kind {
	case expr.KindVal:
		return e.Val.Kind == expr.ValTrue
	case expr.KindVar:
		bind, ok := b.analMap[e.V]
		return ok && bind.kind == analBool && bind.b
	}
	return false
}

func (b *Builder) isFalse(e *expr.Expr) bool {
	switch e.Kind {
	case expr.KindVal:
		return e.Val.Kind == expr.ValFalse
	case expr.KindVar:
		bind, ok := b.analMap[e.V]
		return ok && bind.kind == analBool && !bind.b
	}
	return false
}

// isBot reports whether e is statically undefined. Bot propagates through
// operators and sequences, so any bot operand poisons the whole.
func (b *Builder) isBot(e *expr.Expr) bool {
	switch e.Kind {
	case expr.KindBot:
		return true
	case expr.KindVar:
		bind, ok := b.analMap[e.V]
		return ok && bind.kind == analBot
	case expr.KindUnop, expr.KindBinop, expr.KindSeq:
		for _, a := range e.Args {
			if b.isBot(a) {
				return true
			}
		}
	}
	return false
}
