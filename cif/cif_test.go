/*
 * cif_test.go, part of Fourier.
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

package cif

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	cryst "github.com/michelleliu/Fourier"
)

func testStructure(Te *testing.T) *cryst.CrystalStructure {
	L, err := cryst.NewCrystalLattice(8, 10, 12, 90, 101, 90)
	require.NoError(Te, err)
	cs := cryst.NewCrystalStructure(L, cryst.P21c())
	cs.SetName("test compound")
	cs.AddAtom(cryst.NewAtom("C", "C1", mat.NewVecDense(3, []float64{0.12, 0.23, 0.34})))
	cs.AddAtom(cryst.NewAtom("O", "O1", mat.NewVecDense(3, []float64{0.41, 0.17, 0.08})))
	return cs
}

func TestWriteCIF(Te *testing.T) {
	cs := testStructure(Te)
	var b strings.Builder
	require.NoError(Te, WriteCIF(&b, cs))
	out := b.String()
	assert.Contains(Te, out, "data_test_compound")
	assert.Contains(Te, out, "_symmetry_space_group_name_H-M  'P21/c'")
	assert.Contains(Te, out, "_symmetry_cell_setting          monoclinic")
	assert.Contains(Te, out, "_cell_length_a    8.00000")
	assert.Contains(Te, out, "_cell_angle_beta  101.00000")
	assert.Contains(Te, out, "1 x,y,z")
	assert.Contains(Te, out, "2 -x,-y,-z")
	assert.Contains(Te, out, "3 -x,1/2+y,1/2-z")
	assert.Contains(Te, out, "C1 C")
	assert.Contains(Te, out, "O1 O")
	//no Uiso set, so no Uiso column
	assert.NotContains(Te, out, "_atom_site_U_iso_or_equiv")
	cs.Atom(0).Uiso = 0.05
	b.Reset()
	require.NoError(Te, WriteCIF(&b, cs))
	assert.Contains(Te, b.String(), "_atom_site_U_iso_or_equiv")
}

func TestWriteXYZ(Te *testing.T) {
	cs := testStructure(Te)
	var b strings.Builder
	require.NoError(Te, WriteXYZ(&b, cs))
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(Te, lines, 4)
	assert.Equal(Te, "2", lines[0])
	assert.Equal(Te, "test compound", lines[1])
	assert.True(Te, strings.HasPrefix(lines[2], "C "))
	//the x coordinate of C1 is fractional 0.12 in a monoclinic cell, with
	//a small contribution from the c axis
	fields := strings.Fields(lines[2])
	require.Len(Te, fields, 4)
	//empty name falls back to a placeholder comment
	cs.SetName("")
	b.Reset()
	require.NoError(Te, WriteXYZ(&b, cs))
	assert.Equal(Te, "Comment", strings.Split(b.String(), "\n")[1])
}

func TestSaveFiles(Te *testing.T) {
	cs := testStructure(Te)
	dir := Te.TempDir()
	cifName := filepath.Join(dir, "test.cif")
	require.NoError(Te, SaveCIF(cifName, cs))
	data, err := os.ReadFile(cifName)
	require.NoError(Te, err)
	assert.Contains(Te, string(data), "loop_")
	xyzName := filepath.Join(dir, "test.xyz")
	require.NoError(Te, SaveXYZ(xyzName, cs))
	data, err = os.ReadFile(xyzName)
	require.NoError(Te, err)
	assert.True(Te, strings.HasPrefix(string(data), "2\n"))
}
