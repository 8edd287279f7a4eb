// Package programs holds the built-in sample programs exposed by the
// command line driver and exercised end to end by the tests.
package programs

import (
	"sort"

	zklang "github.com/Zklib/zklang"
	"github.com/Zklib/zklang/builder"
	"github.com/Zklib/zklang/expr"
)

// Entry describes one registered program.
type Entry struct {
	Name    string
	Arity   int
	Program zklang.Program
}

var registry = map[string]Entry{}

func register(name string, arity int, p zklang.Program) {
	registry[name] = Entry{Name: name, Arity: arity, Program: p}
}

// Lookup resolves a registered program by name.
func Lookup(name string) (Entry, bool) {
	e, ok := registry[name]
	return e, ok
}

// Names lists the registered programs in lexical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	register("square-plus", 1, SquarePlus)
	register("sum3", 3, Sum3)
	register("eq-select", 2, EqSelect)
	register("pair-mul", 0, PairMul)
	register("weighted-sum", 1, WeightedSum)
	register("div", 2, Div)
}

// SquarePlus computes x + x*x for one input x.
func SquarePlus(b *builder.Builder) builder.Comp {
	return b.Input().Bind(func(x *expr.Expr) builder.Comp {
		return b.Add(builder.Pure(x), b.Mul(builder.Pure(x), builder.Pure(x)))
	})
}

// Sum3 sums an input array of three elements.
func Sum3(b *builder.Builder) builder.Comp {
	return b.InputArr(3).Bind(func(a *expr.Expr) builder.Comp {
		arr := builder.Pure(a)
		return b.Add(b.Get(arr, 0), b.Add(b.Get(arr, 1), b.Get(arr, 2)))
	})
}

// EqSelect returns 1 when its two inputs are equal and 0 otherwise.
func EqSelect(b *builder.Builder) builder.Comp {
	return b.Input().Bind(func(x *expr.Expr) builder.Comp {
		return b.Input().Bind(func(y *expr.Expr) builder.Comp {
			return b.If(b.Eq(builder.Pure(x), builder.Pure(y)),
				func() builder.Comp { return b.Const(1) },
				func() builder.Comp { return b.Const(0) })
		})
	})
}

// PairMul multiplies the components of the constant pair (2, 3).
func PairMul(b *builder.Builder) builder.Comp {
	return b.Pair(b.Const(2), b.Const(3)).Bind(func(p *expr.Expr) builder.Comp {
		return b.Mul(b.Fst(builder.Pure(p)), b.Snd(builder.Pure(p)))
	})
}

// WeightedSum computes the sum of i*x for i in [0, 4].
func WeightedSum(b *builder.Builder) builder.Comp {
	return b.Input().Bind(func(x *expr.Expr) builder.Comp {
		return b.BigSum(4, func(i int) builder.Comp {
			return b.Mul(builder.Pure(x), b.Const(int64(i)))
		})
	})
}

// Div divides its first input by its second.
func Div(b *builder.Builder) builder.Comp {
	return b.Input().Bind(func(x *expr.Expr) builder.Comp {
		return b.Input().Bind(func(y *expr.Expr) builder.Comp {
			return b.Div(builder.Pure(x), builder.Pure(y))
		})
	})
}
