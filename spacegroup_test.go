/*
 * spacegroup_test.go, part of Fourier.
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

func TestP1(Te *testing.T) {
	sg := P1()
	assert.Equal(Te, 1, sg.Len())
	assert.True(Te, sg.Operator(0).IsIdentity())
	assert.False(Te, sg.HasInversion())
	assert.Empty(Te, sg.CentringVectors())
	system, err := sg.CrystalSystem()
	require.NoError(Te, err)
	assert.Equal(Te, "triclinic", system)
}

func TestP21c(Te *testing.T) {
	sg := P21c()
	require.Equal(Te, 4, sg.Len())
	assert.True(Te, sg.Operator(0).IsIdentity())
	assert.True(Te, sg.HasInversion())
	assert.True(Te, sg.HasInversionAtOrigin())
	assert.True(Te, NearlyEqualVec(sg.PositionOfInversion(), mat.NewVecDense(3, []float64{0, 0, 0})))
	assert.Empty(Te, sg.CentringVectors())
	//identity and the two-fold screw, the inversion-related half is implied
	assert.Len(Te, sg.RepresentativeOperators(), 2)
	system, err := sg.CrystalSystem()
	require.NoError(Te, err)
	assert.Equal(Te, "monoclinic", system)
	assert.Equal(Te, 4, sg.LaueClass().Order())
}

func TestSpaceGroupClosure(Te *testing.T) {
	//a two-fold screw without its inverse-completing partner is not closed
	_, err := NewSpaceGroupFromStrings([]string{"x,y,z", "-x,1/2+y,1/2-z", "-x,-y,-z"}, "broken")
	assert.Error(Te, err)
	//the full P21/c set is
	sg, err := NewSpaceGroupFromStrings([]string{"x,y,z", "-x,1/2+y,1/2-z", "-x,-y,-z", "x,1/2-y,1/2+z"}, "P21/c")
	require.NoError(Te, err)
	assert.Equal(Te, 4, sg.Len())
	_, err = NewSpaceGroup(nil, "empty")
	assert.Error(Te, err)
}

func TestDecompositionWithCentring(Te *testing.T) {
	//C2: two-fold along b plus C-centring
	sg, err := NewSpaceGroupFromStrings([]string{
		"x,y,z", "-x,y,-z", "1/2+x,1/2+y,z", "1/2-x,1/2+y,-z",
	}, "C2")
	require.NoError(Te, err)
	centrings := sg.CentringVectors()
	require.Len(Te, centrings, 1)
	assert.True(Te, NearlyEqualVec(centrings[0], mat.NewVecDense(3, []float64{0.5, 0.5, 0})))
	assert.False(Te, sg.HasInversion())
	assert.Len(Te, sg.RepresentativeOperators(), 2)
	system, err := sg.CrystalSystem()
	require.NoError(Te, err)
	assert.Equal(Te, "monoclinic", system)
}

func TestDecompositionRoundTrip(Te *testing.T) {
	//representatives x inversion x centring vectors regenerate the full
	//operator set. C2/c exercises all three factors at once.
	c2c, err := NewSpaceGroupFromStrings([]string{
		"x,y,z", "-x,y,1/2-z", "-x,-y,-z", "x,-y,1/2+z",
		"1/2+x,1/2+y,z", "1/2-x,1/2+y,1/2-z", "1/2-x,1/2-y,-z", "1/2+x,1/2-y,1/2+z",
	}, "C2/c")
	require.NoError(Te, err)
	c2, err := NewSpaceGroupFromStrings([]string{
		"x,y,z", "-x,y,-z", "1/2+x,1/2+y,z", "1/2-x,1/2+y,-z",
	}, "C2")
	require.NoError(Te, err)
	for _, src := range []*SpaceGroup{P21c(), c2c, c2} {
		ops := []*SymmetryOperator{}
		for _, rep := range src.RepresentativeOperators() {
			ops = append(ops, rep)
			if src.HasInversion() {
				inv := NewSymmetryOperator(negIdent3(), src.PositionOfInversion())
				ops = append(ops, inv.Mult(rep))
			}
		}
		primitive := len(ops)
		for _, cv := range src.CentringVectors() {
			centring := NewSymmetryOperator(nil, cv)
			for i := 0; i < primitive; i++ {
				ops = append(ops, centring.Mult(ops[i]))
			}
		}
		rebuilt, err := NewSpaceGroup(ops, src.Name())
		require.NoError(Te, err, src.Name())
		assert.True(Te, SameSymmetryOperators(src, rebuilt), src.Name())
	}
}

func TestAddInversionAtOrigin(Te *testing.T) {
	sg, err := NewSpaceGroupFromStrings([]string{"x,y,z", "-x,1/2+y,1/2-z"}, "P21")
	require.NoError(Te, err)
	assert.False(Te, sg.HasInversion())
	require.NoError(Te, sg.AddInversionAtOrigin())
	assert.Equal(Te, 4, sg.Len())
	assert.True(Te, sg.HasInversionAtOrigin())
	//adding it again changes nothing
	require.NoError(Te, sg.AddInversionAtOrigin())
	assert.Equal(Te, 4, sg.Len())
	//the result is exactly P21/c up to operator order
	assert.True(Te, SameSymmetryOperators(sg, P21c()))
}

func TestApplySimilarityTransformation(Te *testing.T) {
	sg := P21c()
	//swap the a and c axes; the group stays closed and monoclinic
	swap := NewSymmetryOperator(mat.NewDense(3, 3, []float64{0, 0, 1, 0, 1, 0, 1, 0, 0}), nil)
	transformed := sg.Copy()
	require.NoError(Te, transformed.ApplySimilarityTransformation(swap))
	assert.Equal(Te, 4, transformed.Len())
	assert.True(Te, transformed.HasInversionAtOrigin())
	system, err := transformed.CrystalSystem()
	require.NoError(Te, err)
	assert.Equal(Te, "monoclinic", system)
	//transforming back restores the original operators
	require.NoError(Te, transformed.ApplySimilarityTransformation(swap))
	assert.True(Te, SameSymmetryOperators(sg, transformed))
}

func TestRemoveDuplicateOperators(Te *testing.T) {
	ops := []*SymmetryOperator{IdentityOperator()}
	screw, err := ParseSymmetryOperator("-x,1/2+y,1/2-z")
	require.NoError(Te, err)
	dup := NewSymmetryOperator(screw.Rotation(), mat.NewVecDense(3, []float64{0.99999, 0.5, 0.5}))
	inv := InversionOperator()
	glide, err := ParseSymmetryOperator("x,1/2-y,1/2+z")
	require.NoError(Te, err)
	sg, err := NewSpaceGroup([]*SymmetryOperator{ops[0], screw, inv, glide, dup}, "P21/c with duplicate")
	require.NoError(Te, err)
	require.NoError(Te, sg.RemoveDuplicateOperators())
	assert.Equal(Te, 4, sg.Len())
}

func TestCrystalSystems(Te *testing.T) {
	cases := []struct {
		name string
		xyz  []string
		want string
	}{
		{"P-1", []string{"x,y,z", "-x,-y,-z"}, "triclinic"},
		{"P2", []string{"x,y,z", "-x,y,-z"}, "monoclinic"},
		{"P222", []string{"x,y,z", "-x,-y,z", "x,-y,-z", "-x,y,-z"}, "orthorhombic"},
		{"P4", []string{"x,y,z", "-y,x,z", "-x,-y,z", "y,-x,z"}, "tetragonal"},
		{"P3", []string{"x,y,z", "-y,x-y,z", "-x+y,-x,z"}, "trigonal"},
		{"P6", []string{"x,y,z", "x-y,x,z", "-y,x-y,z", "-x,-y,z", "-x+y,-x,z", "y,-x+y,z"}, "hexagonal"},
		{"P23", []string{
			"x,y,z", "-x,-y,z", "x,-y,-z", "-x,y,-z",
			"z,x,y", "z,-x,-y", "-z,-x,y", "-z,x,-y",
			"y,z,x", "-y,z,-x", "y,-z,-x", "-y,-z,x",
		}, "cubic"},
	}
	for _, c := range cases {
		sg, err := NewSpaceGroupFromStrings(c.xyz, c.name)
		require.NoError(Te, err, c.name)
		got, err := sg.CrystalSystem()
		require.NoError(Te, err, c.name)
		assert.Equal(Te, c.want, got, c.name)
	}
}

func TestPointGroup(Te *testing.T) {
	sg := P21c()
	pg := sg.PointGroup()
	assert.Equal(Te, 4, pg.Order())
	assert.True(Te, pg.HasInversion())
	laue := P1().LaueClass()
	//the Laue class always carries the inversion
	assert.Equal(Te, 2, laue.Order())
	assert.True(Te, laue.HasInversion())
}
