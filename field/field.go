// Package field abstracts the prime field the constraint system is built
// over. Implementations wrap gnark-crypto element arithmetic behind gnark's
// constraint.Field interface.
package field

import (
	"fmt"
	"math/big"

	"github.com/Zklib/zklang/field/bn254"
	"github.com/consensys/gnark/constraint"
)

type Field interface {
	constraint.Field
	Field() *big.Int
	FieldBitLen() int
}

func GetFieldFromOrder(x *big.Int) Field {
	if x.Cmp(bn254.ScalarField) == 0 {
		return &bn254.Field{}
	}
	panic(fmt.Sprintf("unknown field %v", x))
}

// BN254 returns the default field used by the compiler.
func BN254() Field {
	return &bn254.Field{}
}
