/*
 * matrixhelp.go, part of Fourier.
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

//A bunch of small, mostly unexported helpers around gonum's mat types, for
//convenience. Everything here is for 3-vectors and 3x3 matrices only.

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//newVec returns a fresh 3-vector with the given components.
func newVec(x, y, z float64) *mat.VecDense {
	return mat.NewVecDense(3, []float64{x, y, z})
}

//zeroVec returns a fresh zero 3-vector.
func zeroVec() *mat.VecDense {
	return mat.NewVecDense(3, nil)
}

//copyVec returns a fresh copy of a 3-vector.
func copyVec(v *mat.VecDense) *mat.VecDense {
	r := zeroVec()
	r.CopyVec(v)
	return r
}

//ident3 returns a fresh 3x3 identity matrix.
func ident3() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		m.Set(i, i, 1)
	}
	return m
}

//negIdent3 returns a fresh 3x3 matrix representing the inversion, -I.
func negIdent3() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		m.Set(i, i, -1)
	}
	return m
}

//copyMat returns a fresh copy of a 3x3 matrix.
func copyMat(a *mat.Dense) *mat.Dense {
	checkSquare(a)
	b := mat.NewDense(3, 3, nil)
	b.Copy(a)
	return b
}

//negMat returns -a, freshly allocated.
func negMat(a *mat.Dense) *mat.Dense {
	checkSquare(a)
	b := mat.NewDense(3, 3, nil)
	b.Scale(-1, a)
	return b
}

//checkSquare panics unless a is 3x3.
func checkSquare(a *mat.Dense) {
	if a == nil {
		panic(ErrNilData)
	}
	if r, c := a.Dims(); r != 3 || c != 3 {
		panic(ErrNot3x3Matrix)
	}
}

//gnInverse returns the inverse of a 3x3 matrix, as a CError if gonum finds
//the matrix singular or near-singular.
func gnInverse(a *mat.Dense) (*mat.Dense, error) {
	checkSquare(a)
	b := mat.NewDense(3, 3, nil)
	err := b.Inverse(a)
	if err != nil {
		return nil, CError{string(ErrSingularMatrix) + ": " + err.Error(), []string{"mat.Inverse", "gnInverse"}}
	}
	return b, nil
}

//det returns the determinant of a 3x3 matrix, expanded directly rather than
//through a factorization, as the matrices here are tiny and often exactly
//integer-valued.
func det(a *mat.Dense) float64 {
	checkSquare(a)
	return a.At(0, 0)*(a.At(1, 1)*a.At(2, 2)-a.At(2, 1)*a.At(1, 2)) -
		a.At(1, 0)*(a.At(0, 1)*a.At(2, 2)-a.At(2, 1)*a.At(0, 2)) +
		a.At(2, 0)*(a.At(0, 1)*a.At(1, 2)-a.At(1, 1)*a.At(0, 2))
}

//trace returns the trace of a 3x3 matrix.
func trace(a *mat.Dense) float64 {
	checkSquare(a)
	return a.At(0, 0) + a.At(1, 1) + a.At(2, 2)
}

//mulVec returns a*v for a 3x3 matrix and a 3-vector, freshly allocated.
func mulVec(a *mat.Dense, v *mat.VecDense) *mat.VecDense {
	r := zeroVec()
	r.MulVec(a, v)
	return r
}

//addVec returns a+b, freshly allocated.
func addVec(a, b *mat.VecDense) *mat.VecDense {
	r := zeroVec()
	r.AddVec(a, b)
	return r
}

//subVec returns a-b, freshly allocated.
func subVec(a, b *mat.VecDense) *mat.VecDense {
	r := zeroVec()
	r.SubVec(a, b)
	return r
}

//vecSum returns the sum of the components of a 3-vector, basically a
//Manhattan length for the all-positive vectors it is used on.
func vecSum(v *mat.VecDense) float64 {
	return v.AtVec(0) + v.AtVec(1) + v.AtVec(2)
}

//roundToInt rounds to the nearest integer, halves away from zero.
func roundToInt(x float64) int {
	return int(math.Round(x))
}
