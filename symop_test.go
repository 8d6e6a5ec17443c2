/*
 * symop_test.go, part of Fourier.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestParseAndPrintSymmetryOperator(Te *testing.T) {
	for _, s := range []string{"x,y,z", "-x,-y,-z", "-x,1/2+y,1/2-z", "1/4+x,3/4-y,z", "-y,x-y,z"} {
		op, err := ParseSymmetryOperator(s)
		require.NoError(Te, err)
		assert.Equal(Te, s, op.String())
	}
	//decimals parse to the same operator as the equivalent fractions
	a, err := ParseSymmetryOperator("0.5+x,y,0.25+z")
	require.NoError(Te, err)
	b, err := ParseSymmetryOperator("1/2+x,y,1/4+z")
	require.NoError(Te, err)
	assert.True(Te, a.Equal(b))
	_, err = ParseSymmetryOperator("x,y")
	assert.Error(Te, err)
	_, err = ParseSymmetryOperator("x,q,z")
	assert.Error(Te, err)
}

func TestSymmetryOperatorComposition(Te *testing.T) {
	screw, err := ParseSymmetryOperator("-x,1/2+y,1/2-z")
	require.NoError(Te, err)
	//a two-fold screw composed with itself is a whole lattice translation
	assert.True(Te, screw.Mult(screw).IsIdentity())
	inv, err := screw.Invert()
	require.NoError(Te, err)
	assert.True(Te, screw.Mult(inv).IsIdentity())
	assert.True(Te, inv.Mult(screw).IsIdentity())
	//composition order matters for operators that do not commute
	four, err := ParseSymmetryOperator("-y,x,z")
	require.NoError(Te, err)
	mirror, err := ParseSymmetryOperator("x,-y,z")
	require.NoError(Te, err)
	assert.False(Te, four.Mult(mirror).Equal(mirror.Mult(four)))
}

func TestSymmetryOperatorApply(Te *testing.T) {
	screw, err := ParseSymmetryOperator("-x,1/2+y,1/2-z")
	require.NoError(Te, err)
	got := screw.Apply(mat.NewVecDense(3, []float64{0.1, 0.2, 0.3}))
	want := mat.NewVecDense(3, []float64{-0.1, 0.7, 0.2})
	assert.True(Te, NearlyEqualVec(got, want))
}

func TestEqualModLattice(Te *testing.T) {
	id := IdentityOperator()
	nearOne := NewSymmetryOperator(nil, mat.NewVecDense(3, []float64{0.99999, 0, 0}))
	//a strict compare treats 0.99999 and 0 as different, the modular one
	//identifies them
	assert.False(Te, id.Equal(nearOne))
	assert.True(Te, id.EqualModLattice(nearOne))
	assert.True(Te, nearOne.IsIdentity())
	shifted := NewSymmetryOperator(nil, mat.NewVecDense(3, []float64{0.5, 0, 0}))
	assert.False(Te, id.EqualModLattice(shifted))
}

func TestRotationType(Te *testing.T) {
	cases := []struct {
		xyz  string
		want int
	}{
		{"x,y,z", 1},
		{"-x,-y,-z", -1},
		{"-x,-y,z", 2},
		{"x,y,-z", -2},
		{"-y,x-y,z", 3},
		{"-y,x,z", 4},
		{"x-y,x,z", 6},
		{"y,-x+y,-z", -3},
		{"y,-x,-z", -4},
		{"-x+y,-x,-z", -6},
	}
	for _, c := range cases {
		op, err := ParseSymmetryOperator(c.xyz)
		require.NoError(Te, err)
		got, err := op.RotationType()
		require.NoError(Te, err, c.xyz)
		assert.Equal(Te, c.want, got, c.xyz)
	}
	//a doubled axis is not a crystallographic rotation
	bad := NewSymmetryOperator(mat.NewDense(3, 3, []float64{2, 0, 0, 0, 1, 0, 0, 0, 1}), nil)
	_, err := bad.RotationType()
	assert.Error(Te, err)
	var inconsistent InconsistentSymmetryError
	assert.ErrorAs(Te, err, &inconsistent)
}
