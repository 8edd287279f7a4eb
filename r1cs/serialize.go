package r1cs

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/Zklib/zklang/field"
)

// The textual form is line oriented and lossless:
//
//	r1cs <nbWires> <nbConstraints>
//	field <p>
//	input <ids...>
//	output <ids...>
//	<A> | <B> | <C>        one line per constraint
//
// where each of A, B, C is a sparse list of vid:coeff pairs with the
// coefficient as a decimal residue in [0, p).

// WriteTo writes the system in its textual form.
func (s *System) WriteTo(w io.Writer) (int64, error) {
	f := s.Field()
	bw := &countingWriter{w: w}
	fmt.Fprintf(bw, "r1cs %d %d\n", s.NbWires, len(s.Constraints))
	fmt.Fprintf(bw, "field %s\n", s.FieldOrder.String())
	fmt.Fprintf(bw, "input%s\n", wireList(s.Inputs))
	fmt.Fprintf(bw, "output%s\n", wireList(s.Outputs))
	for _, c := range s.Constraints {
		fmt.Fprintf(bw, "%s | %s | %s\n", formString(f, c.A), formString(f, c.B), formString(f, c.C))
	}
	return bw.n, bw.err
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

func wireList(ids []int) string {
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}

func formString(f field.Field, l LinComb) string {
	if len(l) == 0 {
		return "0"
	}
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = strconv.Itoa(t.VID) + ":" + f.ToBigInt(t.Coeff).String()
	}
	return strings.Join(parts, " ")
}

// String renders the whole system, for diagnostics and golden tests.
func (s *System) String() string {
	var sb strings.Builder
	s.WriteTo(&sb)
	return sb.String()
}

// ParseSystem reads back the textual form produced by WriteTo.
func ParseSystem(r io.Reader) (*System, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024), 1024*1024)

	line, err := scanLine(sc)
	if err != nil {
		return nil, err
	}
	var nbWires, nbConstraints int
	if _, err := fmt.Sscanf(line, "r1cs %d %d", &nbWires, &nbConstraints); err != nil {
		return nil, fmt.Errorf("parse header %q: %w", line, err)
	}

	line, err = scanLine(sc)
	if err != nil {
		return nil, err
	}
	rest, ok := strings.CutPrefix(line, "field ")
	if !ok {
		return nil, fmt.Errorf("parse field line %q", line)
	}
	order, ok := new(big.Int).SetString(rest, 10)
	if !ok {
		return nil, fmt.Errorf("parse field order %q", rest)
	}
	f := field.GetFieldFromOrder(order)

	sys := &System{
		FieldOrder: order,
		NbWires:    nbWires,
	}
	if sys.Inputs, err = parseWireLine(sc, "input"); err != nil {
		return nil, err
	}
	if sys.Outputs, err = parseWireLine(sc, "output"); err != nil {
		return nil, err
	}

	sys.Constraints = make([]Constraint, 0, nbConstraints)
	for i := 0; i < nbConstraints; i++ {
		line, err = scanLine(sc)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("parse constraint %q", line)
		}
		var c Constraint
		if c.A, err = parseForm(f, parts[0]); err != nil {
			return nil, err
		}
		if c.B, err = parseForm(f, parts[1]); err != nil {
			return nil, err
		}
		if c.C, err = parseForm(f, parts[2]); err != nil {
			return nil, err
		}
		sys.Constraints = append(sys.Constraints, c)
	}
	return sys, nil
}

func scanLine(sc *bufio.Scanner) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return sc.Text(), nil
}

func parseWireLine(sc *bufio.Scanner, key string) ([]int, error) {
	line, err := scanLine(sc)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != key {
		return nil, fmt.Errorf("parse %s line %q", key, line)
	}
	ids := make([]int, 0, len(fields)-1)
	for _, fd := range fields[1:] {
		id, err := strconv.Atoi(fd)
		if err != nil {
			return nil, fmt.Errorf("parse %s id %q: %w", key, fd, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseForm(f field.Field, s string) (LinComb, error) {
	s = strings.TrimSpace(s)
	if s == "0" || s == "" {
		return nil, nil
	}
	fields := strings.Fields(s)
	l := make(LinComb, 0, len(fields))
	for _, fd := range fields {
		vid, coeff, ok := strings.Cut(fd, ":")
		if !ok {
			return nil, fmt.Errorf("parse term %q", fd)
		}
		id, err := strconv.Atoi(vid)
		if err != nil {
			return nil, fmt.Errorf("parse term vid %q: %w", vid, err)
		}
		c, ok := new(big.Int).SetString(coeff, 10)
		if !ok {
			return nil, fmt.Errorf("parse term coeff %q", coeff)
		}
		l = append(l, Term{VID: id, Coeff: f.FromInterface(c)})
	}
	return l, nil
}
