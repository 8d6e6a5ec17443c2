/*
 * collapse.go, part of Fourier.
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

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//scaleToSubcell rescales a supercell structure so that fractional coordinates
//refer to the original (1/u, 1/v, 1/w) subcell, and shrinks the lattice
//accordingly. After this, atoms from different copies of the subcell land on
//nearly the same fractional position.
func (cs *CrystalStructure) scaleToSubcell(u, v, w int) error {
	if u < 1 || v < 1 || w < 1 {
		return CError{fmt.Sprintf("supercell dimensions %dx%dx%d must be positive", u, v, w), []string{"scaleToSubcell"}}
	}
	for _, at := range cs.atoms {
		at.Position.SetVec(0, at.Position.AtVec(0)*float64(u))
		at.Position.SetVec(1, at.Position.AtVec(1)*float64(v))
		at.Position.SetVec(2, at.Position.AtVec(2)*float64(w))
	}
	lat, err := NewCrystalLattice(cs.lattice.a/float64(u), cs.lattice.b/float64(v), cs.lattice.c/float64(w),
		cs.lattice.alpha, cs.lattice.beta, cs.lattice.gamma)
	if err != nil {
		return errDecorate(err, "scaleToSubcell")
	}
	cs.lattice = lat
	return nil
}

// CollapseSupercell folds a u x v x w supercell in P1 back onto a single
// unit cell, averaging the atoms that land on the same site. Atoms within
// CollapseThreshold of a site's running average position join that site.
// Averaged atoms of different elements, or sites whose member count differs
// from the supercell multiplicity, are logged; both indicate that the
// supercell no longer resembles u x v x w copies of one cell.
func (cs *CrystalStructure) CollapseSupercell(u, v, w int) error {
	if err := cs.scaleToSubcell(u, v, w); err != nil {
		return errDecorate(err, "CollapseSupercell")
	}
	cs.PositionAllAtomsWithinUnitCell()
	multiplicity := u * v * w
	collapsed := make([]*Atom, 0, len(cs.atoms)/multiplicity)
	done := make([]bool, len(cs.atoms))
	for i, at := range cs.atoms {
		if done[i] {
			continue
		}
		avg := copyVec(at.Position)
		n := 1
		done[i] = true
		for j := i + 1; j < len(cs.atoms); j++ {
			if done[j] {
				continue
			}
			d, diff := cs.lattice.ShortestDifference(avg, cs.atoms[j].Position)
			if d < CollapseThreshold {
				if at.Element != cs.atoms[j].Element {
					log.Println("cryst: CollapseSupercell: the atoms to be averaged have different elements")
				}
				//running average over the member closest to the current average
				member := addVec(avg, diff)
				avg.AddScaledVec(avg, 1/float64(n+1), subVec(member, avg))
				n++
				done[j] = true
			}
		}
		if n != multiplicity {
			log.Printf("cryst: CollapseSupercell: the number of averaged atoms (%d) is not equal to the multiplicity (%d)", n, multiplicity)
		}
		na := at.Copy()
		na.Position = avg
		collapsed = append(collapsed, na)
	}
	cs.atoms = collapsed
	return nil
}

// CollapseSupercellAll folds a u x v x w supercell in P1 back onto one unit
// cell without averaging: every atom is kept and moved, via the operators of
// the original cell's space group and lattice translations, to its image
// closest to the origin with all coordinates positive. Useful for inspecting
// the spread of a disordered or thermally excited supercell.
func (cs *CrystalStructure) CollapseSupercellAll(u, v, w int, group *SpaceGroup) error {
	if err := cs.scaleToSubcell(u, v, w); err != nil {
		return errDecorate(err, "CollapseSupercellAll")
	}
	cs.PositionAllAtomsWithinUnitCell()
	for _, at := range cs.atoms {
		best := at.Position
		bestNorm := mat.Norm(best, 2)
		for j := 0; j < group.Len(); j++ {
			pos := AdjustForTranslations(group.Operator(j).Apply(at.Position))
			if n := mat.Norm(pos, 2); n < bestNorm {
				best = pos
				bestNorm = n
			}
		}
		at.Position = best
	}
	return nil
}

// CollapseSupercellToLattice folds the structure back onto the given original
// unit cell; the supercell dimensions are the rounded ratios of the cell
// lengths.
func (cs *CrystalStructure) CollapseSupercellToLattice(original *CrystalLattice) error {
	u := roundToInt(cs.lattice.a / original.a)
	v := roundToInt(cs.lattice.b / original.b)
	w := roundToInt(cs.lattice.c / original.c)
	return errDecorate(cs.CollapseSupercell(u, v, w), "CollapseSupercellToLattice")
}

// CollapseSupercellOrdered folds a u x v x w supercell in P1 back onto one
// unit cell when the atom ordering can be trusted: with n atoms per unit
// cell, atom n*j+i is copy j of atom i. Each copy is brought to the integer
// translate nearest the reference atom and the positions are averaged, so
// unlike CollapseSupercell no distance threshold is involved and large
// displacements cannot migrate an atom to the wrong site.
func (cs *CrystalStructure) CollapseSupercellOrdered(u, v, w int) error {
	if err := cs.scaleToSubcell(u, v, w); err != nil {
		return errDecorate(err, "CollapseSupercellOrdered")
	}
	multiplicity := u * v * w
	perCell := len(cs.atoms) / multiplicity
	collapsed := make([]*Atom, 0, perCell)
	for i := 0; i < perCell; i++ {
		ref := cs.atoms[i]
		xs := make([]float64, 0, multiplicity)
		ys := make([]float64, 0, multiplicity)
		zs := make([]float64, 0, multiplicity)
		xs = append(xs, ref.Position.AtVec(0))
		ys = append(ys, ref.Position.AtVec(1))
		zs = append(zs, ref.Position.AtVec(2))
		for j := 1; j < multiplicity; j++ {
			at := cs.atoms[perCell*j+i]
			if ref.Element != at.Element {
				log.Println("cryst: CollapseSupercellOrdered: the atoms to be averaged have different elements")
			}
			pos := copyVec(at.Position)
			pos.SubVec(pos, ref.Position)
			nearestIntegerReduce(pos)
			pos.AddVec(pos, ref.Position)
			xs = append(xs, pos.AtVec(0))
			ys = append(ys, pos.AtVec(1))
			zs = append(zs, pos.AtVec(2))
		}
		na := ref.Copy()
		na.Position = newVec(stat.Mean(xs, nil), stat.Mean(ys, nil), stat.Mean(zs, nil))
		collapsed = append(collapsed, na)
	}
	cs.atoms = collapsed
	return nil
}

// CollapseSupercellSymmetric folds a u x v x w supercell back onto one unit
// cell with the structure's space group taken into account, trusting the atom
// ordering: with n atoms per asymmetric unit, atom n*j+i is image j of atom
// i. Each image is mapped through every symmetry operator and integer
// translation to the candidate closest to the reference atom. When
// driftCorrection is set, the whole structure is first shifted so its mean
// position sits at targetCentre.
//
// The structure itself is left rescaled to the subcell; the method returns
// the mean position before any correction and, for every asymmetric-unit
// atom, the list of the collapsed positions of all its images. The caller
// averages or histograms those as needed.
func (cs *CrystalStructure) CollapseSupercellSymmetric(u, v, w int, driftCorrection bool, targetCentre *mat.VecDense) (*mat.VecDense, [][]*mat.VecDense, error) {
	actualCentre, err := cs.CentreOfMass()
	if err != nil {
		return nil, nil, errDecorate(err, "CollapseSupercellSymmetric")
	}
	if driftCorrection {
		for _, at := range cs.atoms {
			at.Position.SubVec(at.Position, actualCentre)
			at.Position.AddVec(at.Position, targetCentre)
		}
	}
	if err := cs.scaleToSubcell(u, v, w); err != nil {
		return nil, nil, errDecorate(err, "CollapseSupercellSymmetric")
	}
	multiplicity := u * v * w * cs.spaceGroup.Len()
	perAsym := len(cs.atoms) / multiplicity
	positions := make([][]*mat.VecDense, 0, perAsym)
	farImages := 0
	for i := 0; i < perAsym; i++ {
		ref := cs.atoms[i]
		imgs := make([]*mat.VecDense, 0, multiplicity)
		imgs = append(imgs, copyVec(ref.Position))
		for j := 1; j < multiplicity; j++ {
			at := cs.atoms[perAsym*j+i]
			if ref.Element != at.Element {
				log.Println("cryst: CollapseSupercellSymmetric: the atoms to be averaged have different elements")
			}
			best := 1.0e7
			var bestPos *mat.VecDense
			for k := 0; k < cs.spaceGroup.Len(); k++ {
				pos := cs.spaceGroup.Operator(k).Apply(at.Position)
				pos.SubVec(pos, ref.Position)
				nearestIntegerReduce(pos)
				pos.AddVec(pos, ref.Position)
				if d2 := cs.lattice.norm2Frac(subVec(pos, ref.Position)); d2 < best {
					best = d2
					bestPos = pos
				}
			}
			if best > 25.0 {
				farImages++
			}
			imgs = append(imgs, bestPos)
		}
		positions = append(positions, imgs)
	}
	if farImages > 0 {
		log.Printf("cryst: CollapseSupercellSymmetric: %d collapsed images are more than 5 A from their reference atom", farImages)
	}
	return actualCentre, positions, nil
}
