/*
 * symop.go, part of Fourier.
 *
 *
 * Copyright 2020 Michelle Liu
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package cryst

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// SymmetryOperator is an affine map of fractional space onto itself: a 3x3
// rotation part with determinant +-1 and a translation part, reduced to [0,1)
// per axis. The zero value is not usable; use one of the constructors.
type SymmetryOperator struct {
	rot   *mat.Dense
	trans *mat.VecDense
}

// NewSymmetryOperator builds an operator from a 3x3 rotation and a
// 3-translation. Both are copied, and the translation is reduced to [0,1) per
// axis. A nil rotation means the identity rotation, a nil translation the zero
// vector. Panics on wrong dimensions.
func NewSymmetryOperator(rot *mat.Dense, trans *mat.VecDense) *SymmetryOperator {
	o := new(SymmetryOperator)
	if rot == nil {
		o.rot = ident3()
	} else {
		o.rot = copyMat(rot)
	}
	if trans == nil {
		o.trans = zeroVec()
	} else {
		o.trans = AdjustForTranslations(trans)
	}
	return o
}

// IdentityOperator returns the identity symmetry operator, x,y,z.
func IdentityOperator() *SymmetryOperator {
	return &SymmetryOperator{rot: ident3(), trans: zeroVec()}
}

// InversionOperator returns the inversion through the origin, -x,-y,-z.
func InversionOperator() *SymmetryOperator {
	return &SymmetryOperator{rot: negIdent3(), trans: zeroVec()}
}

// ParseSymmetryOperator parses the CIF-style "x,y,z" notation, e.g.
// "-x,1/2+y,1/2-z" or "x-y,x,z+1/3". Coordinates may carry fractional or
// decimal translation parts on either side of the letters.
func ParseSymmetryOperator(s string) (*SymmetryOperator, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, CError{fmt.Sprintf("symmetry operator %q: need 3 comma-separated components, got %d", s, len(parts)), []string{"ParseSymmetryOperator"}}
	}
	rot := mat.NewDense(3, 3, nil)
	trans := zeroVec()
	for i, p := range parts {
		row, t, err := parseSymOpComponent(p)
		if err != nil {
			return nil, errDecorate(err, "ParseSymmetryOperator")
		}
		for j := 0; j < 3; j++ {
			rot.Set(i, j, row[j])
		}
		trans.SetVec(i, t)
	}
	return NewSymmetryOperator(rot, trans), nil
}

//parseSymOpComponent parses one coordinate expression such as "1/2-x+y".
func parseSymOpComponent(s string) (row [3]float64, t float64, err error) {
	sign := 1.0
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ':
			i++
		case c == '+':
			sign = 1
			i++
		case c == '-':
			sign = -1
			i++
		case c == 'x' || c == 'X':
			row[0] += sign
			sign = 1
			i++
		case c == 'y' || c == 'Y':
			row[1] += sign
			sign = 1
			i++
		case c == 'z' || c == 'Z':
			row[2] += sign
			sign = 1
			i++
		case (c >= '0' && c <= '9') || c == '.':
			j := i
			for j < len(s) && ((s[j] >= '0' && s[j] <= '9') || s[j] == '.' || s[j] == '/') {
				j++
			}
			var v float64
			v, err = parseFraction(s[i:j])
			if err != nil {
				return row, 0, CError{fmt.Sprintf("component %q: %s", s, err.Error()), []string{"parseSymOpComponent"}}
			}
			t += sign * v
			sign = 1
			i = j
		default:
			return row, 0, CError{fmt.Sprintf("unexpected character %q in component %q", c, s), []string{"parseSymOpComponent"}}
		}
	}
	return row, t, nil
}

//parseFraction parses "1/2"-style fractions and plain decimals.
func parseFraction(s string) (float64, error) {
	if k := strings.IndexByte(s, '/'); k >= 0 {
		num, err := strconv.ParseFloat(s[:k], 64)
		if err != nil {
			return 0, err
		}
		den, err := strconv.ParseFloat(s[k+1:], 64)
		if err != nil {
			return 0, err
		}
		if den == 0 {
			return 0, fmt.Errorf("zero denominator in %q", s)
		}
		return num / den, nil
	}
	return strconv.ParseFloat(s, 64)
}

//The fractions that can appear as translation components of reduced
//crystallographic operators, for pretty-printing.
var symOpFractions = []struct {
	val float64
	str string
}{
	{1.0 / 6.0, "1/6"}, {1.0 / 4.0, "1/4"}, {1.0 / 3.0, "1/3"}, {1.0 / 2.0, "1/2"},
	{2.0 / 3.0, "2/3"}, {3.0 / 4.0, "3/4"}, {5.0 / 6.0, "5/6"},
}

//formatFrac renders a [0,1) translation component, using the conventional
//fraction when one is close enough.
func formatFrac(t float64) string {
	for _, f := range symOpFractions {
		if NearlyEqual(t, f.val) {
			return f.str
		}
	}
	return strconv.FormatFloat(t, 'g', -1, 64)
}

// String renders the operator in the CIF-style "x,y,z" notation, with the
// translation part first when present, e.g. "-x,1/2+y,1/2-z".
func (o *SymmetryOperator) String() string {
	letters := [3]string{"x", "y", "z"}
	comps := make([]string, 3)
	for i := 0; i < 3; i++ {
		var b strings.Builder
		t := o.trans.AtVec(i)
		if !NearlyEqual(t, 0) {
			b.WriteString(formatFrac(t))
		}
		for j := 0; j < 3; j++ {
			v := o.rot.At(i, j)
			switch {
			case NearlyEqual(v, 0):
				continue
			case NearlyEqual(v, 1):
				if b.Len() > 0 {
					b.WriteString("+")
				}
				b.WriteString(letters[j])
			case NearlyEqual(v, -1):
				b.WriteString("-")
				b.WriteString(letters[j])
			default:
				if b.Len() > 0 && v > 0 {
					b.WriteString("+")
				}
				b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
				b.WriteString(letters[j])
			}
		}
		if b.Len() == 0 {
			b.WriteString("0")
		}
		comps[i] = b.String()
	}
	return strings.Join(comps, ",")
}

// Rotation returns a copy of the rotation part.
func (o *SymmetryOperator) Rotation() *mat.Dense {
	return copyMat(o.rot)
}

// Translation returns a copy of the translation part.
func (o *SymmetryOperator) Translation() *mat.VecDense {
	return copyVec(o.trans)
}

// Mult returns the composition o*b, i.e. the operator that first applies b,
// then o: rotation Ro*Rb, translation Ro*tb+to, reduced to [0,1) per axis.
// Composition is associative; it is not, in general, commutative.
func (o *SymmetryOperator) Mult(b *SymmetryOperator) *SymmetryOperator {
	rot := mat.NewDense(3, 3, nil)
	rot.Mul(o.rot, b.rot)
	trans := mulVec(o.rot, b.trans)
	trans.AddVec(trans, o.trans)
	return NewSymmetryOperator(rot, trans)
}

// Invert returns the algebraic inverse (R^-1, -R^-1 t), such that
// o.Mult(o.Invert()) equals the identity modulo lattice translations.
// Rotation parts of symmetry operators are always invertible; a singular
// rotation part is returned as an error.
func (o *SymmetryOperator) Invert() (*SymmetryOperator, error) {
	inv, err := gnInverse(o.rot)
	if err != nil {
		return nil, errDecorate(err, "Invert")
	}
	trans := mulVec(inv, o.trans)
	trans.ScaleVec(-1, trans)
	return NewSymmetryOperator(inv, trans), nil
}

// Apply maps a fractional position: R*v + t. The result is not reduced into
// the unit cell; use AdjustForTranslations if that is wanted.
func (o *SymmetryOperator) Apply(v *mat.VecDense) *mat.VecDense {
	if v.Len() != 3 {
		panic(ErrNot3Vector)
	}
	r := mulVec(o.rot, v)
	r.AddVec(r, o.trans)
	return r
}

// Equal compares rotation and translation component-wise with the given
// absolute tolerance. Note that translations very close to 0 and very close
// to 1 compare as different here; use EqualModLattice where translationally
// equivalent operators must be identified.
func (o *SymmetryOperator) Equal(b *SymmetryOperator, eps ...float64) bool {
	return NearlyEqualMat(o.rot, b.rot, eps...) && NearlyEqualVec(o.trans, b.trans, eps...)
}

// EqualModLattice compares the rotations component-wise and the translations
// modulo integer lattice vectors, so that translation components of 0.9999
// and 0.0001 are identified. This is the comparison used for closure checking
// and deduplication.
func (o *SymmetryOperator) EqualModLattice(b *SymmetryOperator, eps ...float64) bool {
	if !NearlyEqualMat(o.rot, b.rot, eps...) {
		return false
	}
	e := epsilon(eps)
	for i := 0; i < 3; i++ {
		if !nearlyInteger(o.trans.AtVec(i)-b.trans.AtVec(i), e) {
			return false
		}
	}
	return true
}

// IsIdentity returns whether the operator is the identity, with translations
// compared modulo lattice vectors.
func (o *SymmetryOperator) IsIdentity(eps ...float64) bool {
	return o.EqualModLattice(IdentityOperator(), eps...)
}

// RotationType returns the crystallographic type of the rotation part: 1, 2,
// 3, 4 or 6 for proper rotations, and the corresponding negated value for
// improper ones (-1 is the inversion, -2 a mirror). Any determinant/trace
// combination outside the crystallographic ones yields an
// InconsistentSymmetryError.
func (o *SymmetryOperator) RotationType(eps ...float64) (int, error) {
	d := det(o.rot)
	tr := trace(o.rot)
	proper := map[float64]int{3: 1, -1: 2, 0: 3, 1: 4, 2: 6}
	improper := map[float64]int{-3: -1, 1: -2, 0: -3, -1: -4, -2: -6}
	table := proper
	switch {
	case NearlyEqual(d, 1, eps...):
		//table already set
	case NearlyEqual(d, -1, eps...):
		table = improper
	default:
		return 0, InconsistentSymmetryError{fmt.Sprintf("rotation determinant %f is neither +1 nor -1", d), []string{"RotationType"}}
	}
	for key, val := range table {
		if NearlyEqual(tr, key, eps...) {
			return val, nil
		}
	}
	return 0, InconsistentSymmetryError{fmt.Sprintf("rotation trace %f is not crystallographic (determinant %f)", tr, d), []string{"RotationType"}}
}
