/*
 * pointgroup.go, part of Fourier.
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

import "gonum.org/v1/gonum/mat"

// PointGroup is the set of rotation parts of a space group's operators, with
// the translations discarded. It only carries the rotation list and inversion
// bookkeeping; deriving point-group symbols is left to the caller.
type PointGroup struct {
	rotations    []*mat.Dense
	hasInversion bool
}

// NewPointGroup builds a point group from a list of 3x3 rotation matrices,
// which are copied. The presence of the inversion, -I, is detected with the
// given tolerance.
func NewPointGroup(rotations []*mat.Dense, eps ...float64) *PointGroup {
	P := new(PointGroup)
	inv := negIdent3()
	for _, r := range rotations {
		P.rotations = append(P.rotations, copyMat(r))
		if NearlyEqualMat(r, inv, eps...) {
			P.hasInversion = true
		}
	}
	return P
}

// Order returns the number of rotations in the point group.
func (P *PointGroup) Order() int {
	return len(P.rotations)
}

// Rotation returns a copy of the i-th rotation. Panics if out of range.
func (P *PointGroup) Rotation(i int) *mat.Dense {
	return copyMat(P.rotations[i])
}

// HasInversion returns whether -I is among the rotations.
func (P *PointGroup) HasInversion() bool {
	return P.hasInversion
}

// AddInversion augments the group with the inversion: for every rotation R,
// -R is appended. For a rotation group without inversion the negations are
// all new, so the order doubles. A no-op if the inversion is already present.
func (P *PointGroup) AddInversion() {
	if P.hasInversion {
		return
	}
	n := len(P.rotations)
	for i := 0; i < n; i++ {
		P.rotations = append(P.rotations, negMat(P.rotations[i]))
	}
	P.hasInversion = true
}
