/*
 * spacegroup.go, part of Fourier.
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
	"log"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// SpaceGroup is an ordered set of symmetry operators, closed under
// composition, with the identity at index 0. The name is free text and takes
// no part in any computation. Every constructor and mutating operation
// re-derives the full decomposition (centring vectors, inversion data,
// representative operators) from the operator list; there is no incremental
// update path.
type SpaceGroup struct {
	name string
	ops  []*SymmetryOperator
	eps  float64

	hasInversion         bool
	hasInversionAtOrigin bool
	positionOfInversion  *mat.VecDense
	centringVectors      []*mat.VecDense
	representatives      []*SymmetryOperator
}

// NewSpaceGroup builds a space group from an explicit operator list. The list
// is checked for closure under composition (an O(n^3) pairwise check, with
// translations compared modulo lattice vectors); a non-closed list is an
// error. The identity operator, if not supplied first, is moved to index 0.
func NewSpaceGroup(ops []*SymmetryOperator, name string, eps ...float64) (*SpaceGroup, error) {
	if len(ops) == 0 {
		return nil, CError{"a space group needs at least the identity operator", []string{"NewSpaceGroup"}}
	}
	S := new(SpaceGroup)
	S.name = name
	S.eps = epsilon(eps)
	S.ops = make([]*SymmetryOperator, len(ops))
	copy(S.ops, ops)
	if err := checkClosed(S.ops, S.eps); err != nil {
		return nil, errDecorate(err, "NewSpaceGroup")
	}
	S.moveIdentityFirst()
	if err := S.decompose(); err != nil {
		return nil, errDecorate(err, "NewSpaceGroup")
	}
	return S, nil
}

// NewSpaceGroupFromStrings is a convenience around ParseSymmetryOperator and
// NewSpaceGroup, taking the operators in "x,y,z" notation.
func NewSpaceGroupFromStrings(xyz []string, name string, eps ...float64) (*SpaceGroup, error) {
	ops := make([]*SymmetryOperator, 0, len(xyz))
	for _, s := range xyz {
		op, err := ParseSymmetryOperator(s)
		if err != nil {
			return nil, errDecorate(err, "NewSpaceGroupFromStrings")
		}
		ops = append(ops, op)
	}
	return NewSpaceGroup(ops, name, eps...)
}

// P1 returns the trivial space group, a single identity operator.
func P1() *SpaceGroup {
	S, err := NewSpaceGroup([]*SymmetryOperator{IdentityOperator()}, "P1")
	if err != nil {
		panic("cant happen: " + err.Error())
	}
	return S
}

// P21c returns the space group P21/c, the most common one for molecular
// crystals, built from its two generators plus the origin inversion.
func P21c() *SpaceGroup {
	S, err := NewSpaceGroupFromStrings([]string{"x,y,z", "-x,1/2+y,1/2-z"}, "P21/c")
	if err != nil {
		panic("cant happen: " + err.Error())
	}
	if err := S.AddInversionAtOrigin(); err != nil {
		panic("cant happen: " + err.Error())
	}
	return S
}

//checkClosed verifies that composing any two operators of the list yields an
//operator already in the list.
func checkClosed(ops []*SymmetryOperator, eps float64) error {
	for i := range ops {
		for j := range ops {
			prod := ops[i].Mult(ops[j])
			found := false
			for k := range ops {
				if prod.EqualModLattice(ops[k], eps) {
					found = true
					break
				}
			}
			if !found {
				return CError{fmt.Sprintf("operator set not closed: (%s)*(%s) = %s is not in the set", ops[i], ops[j], prod), []string{"checkClosed"}}
			}
		}
	}
	return nil
}

//moveIdentityFirst swaps the identity operator into index 0 if it is not
//there already.
func (S *SpaceGroup) moveIdentityFirst() {
	if S.ops[0].IsIdentity(S.eps) {
		return
	}
	for i := 1; i < len(S.ops); i++ {
		if S.ops[i].IsIdentity(S.eps) {
			S.ops[0], S.ops[i] = S.ops[i], S.ops[0]
			return
		}
	}
}

//decompose re-derives everything from the operator list: inversion presence
//and position, centring vectors, and the representative operators (one per
//distinct rotation, a rotation and its negation counting as the same). It is
//run on construction and after every mutating operation.
func (S *SpaceGroup) decompose() error {
	S.hasInversion = false
	S.hasInversionAtOrigin = false
	S.positionOfInversion = nil
	S.centringVectors = nil
	S.representatives = nil
	identity := ident3()
	inversion := negIdent3()
	var centrings []*mat.VecDense
	var inversionTranslations []*mat.VecDense
	for _, op := range S.ops {
		d := det(op.rot)
		switch {
		case NearlyEqual(d, 1, S.eps):
			if NearlyEqualMat(op.rot, identity, S.eps) {
				centrings = append(centrings, op.Translation())
			}
		case NearlyEqual(d, -1, S.eps):
			if NearlyEqualMat(op.rot, inversion, S.eps) {
				S.hasInversion = true
				inversionTranslations = append(inversionTranslations, op.Translation())
			}
		default:
			return InconsistentSymmetryError{fmt.Sprintf("unexpected rotation determinant %f in operator %s", d, op), []string{"decompose"}}
		}
	}
	//The zero vector among the centring candidates is the identity operator;
	//its absence means the group has no identity at all.
	identityFound := false
	for _, v := range centrings {
		if nearlyInteger(v.AtVec(0), S.eps) && nearlyInteger(v.AtVec(1), S.eps) && nearlyInteger(v.AtVec(2), S.eps) {
			identityFound = true
			continue
		}
		S.centringVectors = append(S.centringVectors, v)
	}
	if !identityFound {
		return InconsistentSymmetryError{"identity operator not found among the centring vectors", []string{"decompose"}}
	}
	if S.hasInversion {
		//All translations are in [0,1), so the coordinate sum is a Manhattan
		//distance from the origin. The smallest one is the deterministic
		//choice among translationally equivalent inversion centres.
		smallest := 4.0
		for _, v := range inversionTranslations {
			if sum := vecSum(v); sum < smallest {
				smallest = sum
				S.positionOfInversion = v
			}
		}
		if NearlyEqual(smallest, 0, S.eps) {
			S.hasInversionAtOrigin = true
		}
	}
	for _, op := range S.ops {
		found := false
		for _, rep := range S.representatives {
			if NearlyEqualMat(op.rot, rep.rot, S.eps) || NearlyEqualMat(op.rot, negMat(rep.rot), S.eps) {
				found = true
				break
			}
		}
		if !found {
			S.representatives = append(S.representatives, op)
		}
	}
	return nil
}

// Name returns the free-text name of the space group.
func (S *SpaceGroup) Name() string { return S.name }

// SetName sets the free-text name. It has no effect on any computation.
func (S *SpaceGroup) SetName(name string) { S.name = name }

// Len returns the number of symmetry operators.
func (S *SpaceGroup) Len() int { return len(S.ops) }

// Operator returns the i-th symmetry operator. Operator(0) is always the
// identity. Panics if out of range.
func (S *SpaceGroup) Operator(i int) *SymmetryOperator {
	if i >= len(S.ops) {
		panic(PanicMsg(fmt.Sprintf("cryst: SpaceGroup: requested operator %d out of %d", i, len(S.ops))))
	}
	return S.ops[i]
}

// HasInversion returns whether any operator is an inversion (rotation -I).
func (S *SpaceGroup) HasInversion() bool { return S.hasInversion }

// HasInversionAtOrigin returns whether the inversion centre nearest the
// origin sits at the origin itself.
func (S *SpaceGroup) HasInversionAtOrigin() bool { return S.hasInversionAtOrigin }

// PositionOfInversion returns the translation part of the inversion operator
// nearest the origin, or nil if the group has no inversion.
func (S *SpaceGroup) PositionOfInversion() *mat.VecDense {
	if S.positionOfInversion == nil {
		return nil
	}
	return copyVec(S.positionOfInversion)
}

// CentringVectors returns the non-zero translations of the pure-translation
// operators: the additional lattice points beyond the trivial cell corner.
// A primitive group returns an empty slice.
func (S *SpaceGroup) CentringVectors() []*mat.VecDense {
	r := make([]*mat.VecDense, len(S.centringVectors))
	for i, v := range S.centringVectors {
		r[i] = copyVec(v)
	}
	return r
}

// RepresentativeOperators returns one operator per distinct rotation, where a
// rotation and its negation count as the same rotation. This is the minimal
// set from which, together with the centring vectors and the inversion, the
// whole group can be regenerated.
func (S *SpaceGroup) RepresentativeOperators() []*SymmetryOperator {
	r := make([]*SymmetryOperator, len(S.representatives))
	copy(r, S.representatives)
	return r
}

// AddInversionAtOrigin doubles the operator set by composing every operator
// with the inversion through the origin. A no-op if an origin inversion is
// already present; if an inversion exists elsewhere, a warning is logged and
// the origin inversion is added anyway.
func (S *SpaceGroup) AddInversionAtOrigin() error {
	if S.hasInversionAtOrigin {
		return nil
	}
	if S.hasInversion {
		log.Println("cryst: SpaceGroup.AddInversionAtOrigin: adding an inversion to a space group that already has an inversion")
	}
	inversion := InversionOperator()
	ops := make([]*SymmetryOperator, 0, 2*len(S.ops))
	for _, op := range S.ops {
		ops = append(ops, op, inversion.Mult(op))
	}
	S.ops = ops
	return errDecorate(S.decompose(), "AddInversionAtOrigin")
}

// Copy returns an independent copy of the space group; the mutating methods
// on one do not affect the other.
func (S *SpaceGroup) Copy() *SpaceGroup {
	r := &SpaceGroup{name: S.name, eps: S.eps}
	r.ops = append(r.ops, S.ops...)
	if err := r.decompose(); err != nil {
		panic("cant happen: " + err.Error())
	}
	return r
}

// ApplySimilarityTransformation replaces every operator g with t*g*t^-1,
// re-expressing the group in a transformed coordinate basis.
func (S *SpaceGroup) ApplySimilarityTransformation(t *SymmetryOperator) error {
	inv, err := t.Invert()
	if err != nil {
		return errDecorate(err, "ApplySimilarityTransformation")
	}
	ops := make([]*SymmetryOperator, 0, len(S.ops))
	for _, g := range S.ops {
		ops = append(ops, t.Mult(g).Mult(inv))
	}
	S.ops = ops
	S.moveIdentityFirst()
	return errDecorate(S.decompose(), "ApplySimilarityTransformation")
}

// RemoveDuplicateOperators deduplicates the operator list with modulo-lattice
// comparison, keeping the identity at index 0 and otherwise the first
// occurrence of each operator.
func (S *SpaceGroup) RemoveDuplicateOperators() error {
	ops := []*SymmetryOperator{S.ops[0]}
	for _, op := range S.ops[1:] {
		found := false
		for _, kept := range ops {
			if op.EqualModLattice(kept, S.eps) {
				found = true
				break
			}
		}
		if !found {
			ops = append(ops, op)
		}
	}
	S.ops = ops
	return errDecorate(S.decompose(), "RemoveDuplicateOperators")
}

// PointGroup returns the rotation parts of the representative operators,
// augmented with their negations when the group has an inversion: the full
// rotation set of the group, translations stripped.
func (S *SpaceGroup) PointGroup() *PointGroup {
	rotations := make([]*mat.Dense, 0, 2*len(S.representatives))
	for _, rep := range S.representatives {
		rotations = append(rotations, rep.Rotation())
		if S.hasInversion {
			rotations = append(rotations, negMat(rep.rot))
		}
	}
	return NewPointGroup(rotations, S.eps)
}

// LaueClass returns the point group with the inversion added if not already
// present.
func (S *SpaceGroup) LaueClass() *PointGroup {
	P := S.PointGroup()
	if !S.hasInversion {
		P.AddInversion()
	}
	return P
}

// CrystalSystem classifies the group into one of the seven crystal systems
// from the orders of its representative rotations. A tally that matches no
// system means the operator list is not a crystallographic space group, and
// is returned as an InconsistentSymmetryError.
func (S *SpaceGroup) CrystalSystem() (string, error) {
	if len(S.representatives) == 1 {
		return "triclinic", nil
	}
	var sum2, sum3, sum4, sum6 int
	for _, rep := range S.representatives {
		t, err := rep.RotationType(S.eps)
		if err != nil {
			return "", errDecorate(err, "CrystalSystem")
		}
		if t < 0 {
			t = -t
		}
		switch t {
		case 2:
			sum2++
		case 3:
			sum3++
		case 4:
			sum4++
		case 6:
			sum6++
		}
	}
	switch {
	case sum3 == 8:
		return "cubic", nil
	case sum6 == 2:
		return "hexagonal", nil
	case sum3 == 2:
		return "trigonal", nil
	case sum4 == 2:
		return "tetragonal", nil
	case sum2 == 3:
		return "orthorhombic", nil
	case sum2 == 1:
		return "monoclinic", nil
	}
	return "", InconsistentSymmetryError{fmt.Sprintf("rotation-order tally (2-fold:%d 3-fold:%d 4-fold:%d 6-fold:%d) matches no crystal system", sum2, sum3, sum4, sum6), []string{"CrystalSystem"}}
}

// SameSymmetryOperators returns whether two space groups contain the same
// operators as sets, regardless of order and of their names.
func SameSymmetryOperators(lhs, rhs *SpaceGroup, eps ...float64) bool {
	if lhs.Len() != rhs.Len() {
		return false
	}
	for _, a := range lhs.ops {
		found := false
		for _, b := range rhs.ops {
			if a.EqualModLattice(b, eps...) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// String renders all operators in "x,y,z" notation, separated by semicolons.
func (S *SpaceGroup) String() string {
	strs := make([]string, len(S.ops))
	for i, op := range S.ops {
		strs[i] = op.String()
	}
	return strings.Join(strs, "; ")
}
