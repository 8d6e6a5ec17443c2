/*
 * collapse_test.go, part of Fourier.
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

//closestAtomDistance returns the smallest minimum-image distance from the
//position to any atom of the structure.
func closestAtomDistance(cs *CrystalStructure, pos *mat.VecDense) float64 {
	best := 1.0e12
	for i := 0; i < cs.Len(); i++ {
		if d := cs.Lattice().ShortestDistance(pos, cs.Atom(i).Position); d < best {
			best = d
		}
	}
	return best
}

func TestCollapseSupercell(Te *testing.T) {
	reference := p21cStructure(Te)
	require.NoError(Te, reference.ConvertToP1())
	cs := p21cStructure(Te)
	require.NoError(Te, cs.Supercell(2, 1, 3))
	require.Equal(Te, 48, cs.Len())
	require.NoError(Te, cs.CollapseSupercell(2, 1, 3))
	assert.Equal(Te, 8, cs.Len())
	assert.InDelta(Te, reference.Lattice().A(), cs.Lattice().A(), 1e-10)
	for i := 0; i < cs.Len(); i++ {
		assert.InDelta(Te, 0.0, closestAtomDistance(reference, cs.Atom(i).Position), 1e-6)
	}
}

func TestCollapseSupercellAveragesNoise(Te *testing.T) {
	reference := p21cStructure(Te)
	require.NoError(Te, reference.ConvertToP1())
	cs := p21cStructure(Te)
	require.NoError(Te, cs.Supercell(2, 2, 1))
	//symmetric displacements that must average out
	deltas := []float64{0.002, -0.002, 0.004, -0.004}
	for i := 0; i < cs.Len(); i++ {
		p := cs.Atom(i).Position
		p.SetVec(0, p.AtVec(0)+deltas[i%4])
	}
	require.NoError(Te, cs.CollapseSupercell(2, 2, 1))
	require.Equal(Te, 8, cs.Len())
	for i := 0; i < cs.Len(); i++ {
		assert.InDelta(Te, 0.0, closestAtomDistance(reference, cs.Atom(i).Position), 1e-2)
	}
}

func TestCollapseSupercellToLattice(Te *testing.T) {
	original := p21cStructure(Te).Lattice()
	cs := p21cStructure(Te)
	require.NoError(Te, cs.Supercell(2, 1, 1))
	require.NoError(Te, cs.CollapseSupercellToLattice(original))
	assert.Equal(Te, 8, cs.Len())
	assert.InDelta(Te, original.A(), cs.Lattice().A(), 1e-10)
}

func TestCollapseSupercellOrdered(Te *testing.T) {
	cs := p21cStructure(Te)
	require.NoError(Te, cs.ConvertToP1())
	want := make([]*mat.VecDense, cs.Len())
	for i := 0; i < cs.Len(); i++ {
		want[i] = copyVec(cs.Atom(i).Position)
	}
	require.NoError(Te, cs.Supercell(3, 1, 1))
	//per-copy displacements with zero mean
	deltas := []float64{0.01, -0.02, 0.01}
	perCell := len(want)
	for i := 0; i < cs.Len(); i++ {
		p := cs.Atom(i).Position
		p.SetVec(1, p.AtVec(1)+deltas[i/perCell])
	}
	require.NoError(Te, cs.CollapseSupercellOrdered(3, 1, 1))
	require.Equal(Te, perCell, cs.Len())
	for i := 0; i < cs.Len(); i++ {
		assert.InDelta(Te, 0.0, cs.Lattice().ShortestDistance(want[i], cs.Atom(i).Position), 1e-8)
	}
}

func TestCollapseSupercellAll(Te *testing.T) {
	cs := p21cStructure(Te)
	require.NoError(Te, cs.Supercell(2, 1, 1))
	require.Equal(Te, 16, cs.Len())
	require.NoError(Te, cs.CollapseSupercellAll(2, 1, 1, P21c()))
	//nothing is averaged away and everything sits inside the unit cell
	assert.Equal(Te, 16, cs.Len())
	for i := 0; i < cs.Len(); i++ {
		p := cs.Atom(i).Position
		for d := 0; d < 3; d++ {
			assert.GreaterOrEqual(Te, p.AtVec(d), 0.0)
			assert.Less(Te, p.AtVec(d), 1.0)
		}
	}
}

func TestCollapseSupercellSymmetric(Te *testing.T) {
	asym := p21cStructure(Te)
	group := P21c()
	smallLat := asym.Lattice()
	bigLat, err := NewCrystalLattice(smallLat.A()*2, smallLat.B(), smallLat.C(),
		smallLat.Alpha(), smallLat.Beta(), smallLat.Gamma())
	require.NoError(Te, err)
	//build the supercell with image-major ordering: all atoms of one
	//(operator, cell) image are contiguous, the way trajectory frames
	//order them
	cs := NewCrystalStructure(bigLat, group)
	for cell := 0; cell < 2; cell++ {
		for k := 0; k < group.Len(); k++ {
			for i := 0; i < asym.Len(); i++ {
				at := asym.Atom(i).Copy()
				pos := group.Operator(k).Apply(at.Position)
				pos.SetVec(0, (pos.AtVec(0)+float64(cell))/2)
				at.Position = pos
				cs.AddAtom(at)
			}
		}
	}
	require.Equal(Te, 16, cs.Len())
	centre, positions, err := cs.CollapseSupercellSymmetric(2, 1, 1, false, nil)
	require.NoError(Te, err)
	require.NotNil(Te, centre)
	require.Len(Te, positions, 2)
	for i, imgs := range positions {
		require.Len(Te, imgs, 8)
		ref := asym.Atom(i).Position
		for _, img := range imgs {
			assert.InDelta(Te, 0.0, smallLat.ShortestDistance(ref, img), 1e-6)
		}
	}
}

func TestCollapseSupercellSymmetricDriftCorrection(Te *testing.T) {
	asym := p21cStructure(Te)
	group := P21c()
	cs := NewCrystalStructure(asym.Lattice(), group)
	for k := 0; k < group.Len(); k++ {
		for i := 0; i < asym.Len(); i++ {
			at := asym.Atom(i).Copy()
			at.Position = group.Operator(k).Apply(at.Position)
			//uniform drift of the whole structure
			at.Position.AddVec(at.Position, mat.NewVecDense(3, []float64{0.05, 0, 0}))
			cs.AddAtom(at)
		}
	}
	centreNoDrift, _, err := cs.Copy().CollapseSupercellSymmetric(1, 1, 1, false, nil)
	require.NoError(Te, err)
	drifted := copyVec(centreNoDrift)
	drifted.SubVec(drifted, mat.NewVecDense(3, []float64{0.05, 0, 0}))
	centre, _, err := cs.CollapseSupercellSymmetric(1, 1, 1, true, drifted)
	require.NoError(Te, err)
	//the reported centre is the one before correction
	assert.True(Te, NearlyEqualVec(centre, centreNoDrift))
	com, err := cs.CentreOfMass()
	require.NoError(Te, err)
	assert.True(Te, NearlyEqualVec(com, drifted))
}
