package r1cs

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/Zklib/zklang/field"
	"github.com/Zklib/zklang/utils"
)

// Binary encoding is CBOR over a portable image: coefficients travel as
// big-endian residue bytes so the encoding does not depend on the field
// element layout.

type binTerm struct {
	V int    `cbor:"v"`
	C []byte `cbor:"c"`
}

type binConstraint struct {
	A []binTerm `cbor:"a"`
	B []binTerm `cbor:"b"`
	C []binTerm `cbor:"c"`
}

type binSystem struct {
	Field       []byte          `cbor:"field"`
	NbWires     int             `cbor:"nbWires"`
	Inputs      []int           `cbor:"inputs"`
	Outputs     []int           `cbor:"outputs"`
	Constraints []binConstraint `cbor:"constraints"`
}

func toBinTerms(f field.Field, l LinComb) []binTerm {
	res := make([]binTerm, len(l))
	for i, t := range l {
		res[i] = binTerm{V: t.VID, C: f.ToBigInt(t.Coeff).Bytes()}
	}
	return res
}

func fromBinTerms(f field.Field, ts []binTerm) LinComb {
	res := make(LinComb, len(ts))
	for i, t := range ts {
		res[i] = Term{VID: t.V, Coeff: f.FromInterface(new(big.Int).SetBytes(t.C))}
	}
	return res
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *System) MarshalBinary() ([]byte, error) {
	f := s.Field()
	img := binSystem{
		Field:       s.FieldOrder.Bytes(),
		NbWires:     s.NbWires,
		Inputs:      s.Inputs,
		Outputs:     s.Outputs,
		Constraints: make([]binConstraint, len(s.Constraints)),
	}
	for i, c := range s.Constraints {
		img.Constraints[i] = binConstraint{
			A: toBinTerms(f, c.A),
			B: toBinTerms(f, c.B),
			C: toBinTerms(f, c.C),
		}
	}
	return cbor.Marshal(img)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *System) UnmarshalBinary(data []byte) error {
	var img binSystem
	if err := cbor.Unmarshal(data, &img); err != nil {
		return err
	}
	order := new(big.Int).SetBytes(img.Field)
	f := field.GetFieldFromOrder(order)
	s.FieldOrder = order
	s.NbWires = img.NbWires
	s.Inputs = img.Inputs
	s.Outputs = img.Outputs
	s.Constraints = make([]Constraint, len(img.Constraints))
	for i, c := range img.Constraints {
		s.Constraints[i] = Constraint{
			A: fromBinTerms(f, c.A),
			B: fromBinTerms(f, c.B),
			C: fromBinTerms(f, c.C),
		}
	}
	return nil
}

// SerializeWitness dumps a witness as a length-prefixed sequence of
// 32-byte little-endian field residues.
func (s *System) SerializeWitness(w Witness) []byte {
	f := s.Field()
	o := utils.OutputBuf{}
	o.AppendUint32(uint32(len(w)))
	for _, v := range w {
		o.AppendBigInt(f.ToBigInt(v))
	}
	return o.Bytes()
}

// DeserializeWitness reads back the output of SerializeWitness.
func (s *System) DeserializeWitness(data []byte) Witness {
	f := s.Field()
	in := utils.NewInputBuf(data)
	n := in.ReadUint32()
	w := make(Witness, n)
	for i := range w {
		w[i] = f.FromInterface(in.ReadBigInt())
	}
	return w
}
