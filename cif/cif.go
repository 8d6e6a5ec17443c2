/*
 * cif.go, part of Fourier.
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

//Package cif writes crystal structures in the structure-exchange formats
//understood by the common small-molecule crystallography tools: CIF with
//fractional coordinates and the full symmetry-operator list, and plain XYZ
//with Cartesian coordinates.
package cif

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	cryst "github.com/michelleliu/Fourier"
)

// WriteCIF writes the structure to w in CIF format: the cell, the cell
// setting deduced from the lattice, every symmetry operator in xyz notation,
// and one atom-site line per atom. The Uiso column appears only when at
// least one atom carries a displacement parameter.
func WriteCIF(w io.Writer, cs *cryst.CrystalStructure) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "data_%s\n", sanitizeDataName(cs.Name()))
	sg := cs.SpaceGroup()
	if sg.Name() != "" {
		fmt.Fprintf(bw, "_symmetry_space_group_name_H-M  '%s'\n", sg.Name())
	}
	L := cs.Lattice()
	fmt.Fprintf(bw, "_symmetry_cell_setting          %s\n", strings.ToLower(L.LatticeSystem().String()))
	fmt.Fprintf(bw, "_cell_length_a    %.5f\n", L.A())
	fmt.Fprintf(bw, "_cell_length_b    %.5f\n", L.B())
	fmt.Fprintf(bw, "_cell_length_c    %.5f\n", L.C())
	fmt.Fprintf(bw, "_cell_angle_alpha %.5f\n", L.Alpha())
	fmt.Fprintf(bw, "_cell_angle_beta  %.5f\n", L.Beta())
	fmt.Fprintf(bw, "_cell_angle_gamma %.5f\n", L.Gamma())
	fmt.Fprintf(bw, "_cell_volume      %.5f\n", L.Volume())
	fmt.Fprintln(bw, "loop_")
	fmt.Fprintln(bw, "_symmetry_equiv_pos_site_id")
	fmt.Fprintln(bw, "_symmetry_equiv_pos_as_xyz")
	for i := 0; i < sg.Len(); i++ {
		fmt.Fprintf(bw, "%d %s\n", i+1, sg.Operator(i).String())
	}
	hasUiso := false
	for i := 0; i < cs.Len(); i++ {
		if cs.Atom(i).Uiso != 0 {
			hasUiso = true
			break
		}
	}
	fmt.Fprintln(bw, "loop_")
	fmt.Fprintln(bw, "_atom_site_label")
	fmt.Fprintln(bw, "_atom_site_type_symbol")
	fmt.Fprintln(bw, "_atom_site_fract_x")
	fmt.Fprintln(bw, "_atom_site_fract_y")
	fmt.Fprintln(bw, "_atom_site_fract_z")
	fmt.Fprintln(bw, "_atom_site_occupancy")
	if hasUiso {
		fmt.Fprintln(bw, "_atom_site_U_iso_or_equiv")
	}
	for i := 0; i < cs.Len(); i++ {
		at := cs.Atom(i)
		label := at.Label
		if label == "" {
			label = fmt.Sprintf("%s%d", at.Element, i+1)
		}
		fmt.Fprintf(bw, "%s %s %9.5f %9.5f %9.5f %.4f", label, at.Element,
			at.Position.AtVec(0), at.Position.AtVec(1), at.Position.AtVec(2), at.Occupancy)
		if hasUiso {
			fmt.Fprintf(bw, " %.5f", at.Uiso)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// WriteXYZ writes the structure to w in XYZ format, with the positions
// converted to Cartesian A. The comment line carries the structure's name;
// some viewers mishandle an empty comment line, so a placeholder goes in
// when there is none.
func WriteXYZ(w io.Writer, cs *cryst.CrystalStructure) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", cs.Len())
	if cs.Name() == "" {
		fmt.Fprintln(bw, "Comment")
	} else {
		fmt.Fprintln(bw, cs.Name())
	}
	L := cs.Lattice()
	for i := 0; i < cs.Len(); i++ {
		at := cs.Atom(i)
		p := L.FractionalToOrthogonal(at.Position)
		fmt.Fprintf(bw, "%s %12.6f %12.6f %12.6f\n", at.Element, p.AtVec(0), p.AtVec(1), p.AtVec(2))
	}
	return bw.Flush()
}

// SaveCIF writes the structure to the named file in CIF format.
func SaveCIF(name string, cs *cryst.CrystalStructure) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCIF(f, cs)
}

// SaveXYZ writes the structure to the named file in XYZ format.
func SaveXYZ(name string, cs *cryst.CrystalStructure) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteXYZ(f, cs)
}

//sanitizeDataName keeps the data_ block name one token.
func sanitizeDataName(name string) string {
	return strings.Join(strings.Fields(name), "_")
}
