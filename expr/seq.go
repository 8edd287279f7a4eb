package expr

// NewSeq glues an effect expression to a result expression.
//
// Nested sequences on either side are flattened, and pure subexpressions are
// dropped from every position but the last; the last subexpression is the
// value of the whole sequence. A Seq node is only built when at least one
// effectful prefix survives, so Seq carries two or more operands.
func NewSeq(left, right *Expr) *Expr {
	items := make([]*Expr, 0, 4)
	if left.Kind == KindSeq {
		items = append(items, left.Args...)
	} else {
		items = append(items, left)
	}
	if right.Kind == KindSeq {
		items = append(items, right.Args...)
	} else {
		items = append(items, right)
	}
	kept := make([]*Expr, 0, len(items))
	for i, e := range items {
		if i == len(items)-1 || !e.IsPure() {
			kept = append(kept, e)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return &Expr{Kind: KindSeq, Ty: kept[len(kept)-1].Ty, Args: kept}
}

// Split separates an expression into its effect prefix and its result value.
// For a sequence the result is the last subexpression and the effect is the
// rest; for anything else the expression is its own result with no prefix.
func Split(e *Expr) (effect, result *Expr) {
	if e.Kind != KindSeq {
		return nil, e
	}
	n := len(e.Args)
	result = e.Args[n-1]
	if n == 2 {
		return e.Args[0], result
	}
	effect = &Expr{Kind: KindSeq, Ty: e.Args[n-2].Ty, Args: e.Args[:n-1]}
	return effect, result
}
