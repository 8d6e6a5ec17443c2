/*
 * compare.go, part of Fourier.
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
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

//Approximate comparison helpers. Every comparison in the library goes through
//these, with the epsilon threaded down from the public entry points.

//epsilon returns the first element of eps, or the package default if eps is
//empty. It is the support for the trailing optional epsilon arguments used
//throughout the library.
func epsilon(eps []float64) float64 {
	if len(eps) > 0 {
		return eps[0]
	}
	return DefaultEpsilon
}

// NearlyEqual returns whether a and b differ by less than the given absolute
// tolerance, or DefaultEpsilon if none is given.
func NearlyEqual(a, b float64, eps ...float64) bool {
	return scalar.EqualWithinAbs(a, b, epsilon(eps))
}

// NearlyEqualVec compares two 3-vectors component-wise with the given
// absolute tolerance. It panics if either vector is not of length 3.
func NearlyEqualVec(a, b *mat.VecDense, eps ...float64) bool {
	if a.Len() != 3 || b.Len() != 3 {
		panic(ErrNot3Vector)
	}
	e := epsilon(eps)
	for i := 0; i < 3; i++ {
		if !scalar.EqualWithinAbs(a.AtVec(i), b.AtVec(i), e) {
			return false
		}
	}
	return true
}

// NearlyEqualMat compares two 3x3 matrices element-wise with the given
// absolute tolerance. It panics if either matrix is not 3x3.
func NearlyEqualMat(a, b *mat.Dense, eps ...float64) bool {
	checkSquare(a)
	checkSquare(b)
	e := epsilon(eps)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !scalar.EqualWithinAbs(a.At(i, j), b.At(i, j), e) {
				return false
			}
		}
	}
	return true
}

//nearlyInteger returns whether x is within eps of an integer.
func nearlyInteger(x float64, eps float64) bool {
	return math.Abs(x-math.Round(x)) < eps
}

//wrapFrac reduces a fractional coordinate into [0,1). Values within 1e-12 of
//the next integer wrap to 0 so that reduced operators never carry a
//translation component of 0.9999999999.
func wrapFrac(x float64) float64 {
	w := x - math.Floor(x)
	if 1-w < 1e-12 {
		return 0
	}
	return w
}

// AdjustForTranslations reduces every component of a fractional position into
// [0,1), returning a new vector.
func AdjustForTranslations(v *mat.VecDense) *mat.VecDense {
	if v.Len() != 3 {
		panic(ErrNot3Vector)
	}
	return newVec(wrapFrac(v.AtVec(0)), wrapFrac(v.AtVec(1)), wrapFrac(v.AtVec(2)))
}

//nearestIntegerReduce removes the nearest-integer part of every component of
//a fractional difference vector, in place.
func nearestIntegerReduce(v *mat.VecDense) {
	for i := 0; i < 3; i++ {
		v.SetVec(i, v.AtVec(i)-math.Round(v.AtVec(i)))
	}
}
