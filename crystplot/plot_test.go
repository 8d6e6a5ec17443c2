/*
 * plot_test.go, part of Fourier.
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

package crystplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	cryst "github.com/michelleliu/Fourier"
)

func TestDisplacementPlot(Te *testing.T) {
	L, err := cryst.NewCrystalLattice(10, 10, 10, 90, 90, 90)
	require.NoError(Te, err)
	lhs := cryst.NewCrystalStructure(L, nil)
	lhs.AddAtom(cryst.NewAtom("C", "C1", mat.NewVecDense(3, []float64{0.1, 0.1, 0.1})))
	lhs.AddAtom(cryst.NewAtom("O", "O1", mat.NewVecDense(3, []float64{0.5, 0.5, 0.5})))
	rhs := lhs.Copy()
	rhs.Atom(0).Position.SetVec(0, 0.12)
	name := filepath.Join(Te.TempDir(), "displacement")
	require.NoError(Te, DisplacementPlot(lhs, rhs, "test", name))
	info, err := os.Stat(name + ".png")
	require.NoError(Te, err)
	assert.Greater(Te, info.Size(), int64(0))
	rhs.AddAtom(cryst.NewAtom("N", "N1", mat.NewVecDense(3, []float64{0.9, 0.9, 0.9})))
	assert.Error(Te, DisplacementPlot(lhs, rhs, "test", name))
}

func TestSpreadHistogram(Te *testing.T) {
	L, err := cryst.NewCrystalLattice(10, 10, 10, 90, 90, 90)
	require.NoError(Te, err)
	positions := [][]*mat.VecDense{
		{
			mat.NewVecDense(3, []float64{0.10, 0.2, 0.3}),
			mat.NewVecDense(3, []float64{0.11, 0.2, 0.3}),
			mat.NewVecDense(3, []float64{0.09, 0.2, 0.3}),
		},
		{
			mat.NewVecDense(3, []float64{0.50, 0.5, 0.5}),
			mat.NewVecDense(3, []float64{0.52, 0.5, 0.5}),
		},
	}
	name := filepath.Join(Te.TempDir(), "spread")
	require.NoError(Te, SpreadHistogram(positions, L, "test", name))
	info, err := os.Stat(name + ".png")
	require.NoError(Te, err)
	assert.Greater(Te, info.Size(), int64(0))
	assert.Error(Te, SpreadHistogram([][]*mat.VecDense{}, L, "test", name))
}
