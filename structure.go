/*
 * structure.go, part of Fourier.
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
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Atom is one atom site: an element symbol, a label, a position in fractional
// coordinates and the common scalar site parameters. The zero Occupancy is
// not meaningful; use NewAtom, which fills in full occupancy.
type Atom struct {
	Element   string
	Label     string
	Position  *mat.VecDense
	Occupancy float64
	Uiso      float64
}

// NewAtom returns a fully occupied atom at the given fractional position. The
// position is copied; a nil position means the origin.
func NewAtom(element, label string, position *mat.VecDense) *Atom {
	p := zeroVec()
	if position != nil {
		p.CopyVec(position)
	}
	return &Atom{Element: element, Label: label, Position: p, Occupancy: 1.0}
}

// Copy returns a deep copy of the atom.
func (at *Atom) Copy() *Atom {
	r := *at
	r.Position = copyVec(at.Position)
	return &r
}

// IsHOrD is true for hydrogen and deuterium, the elements excluded from
// displacement statistics.
func (at *Atom) IsHOrD() bool {
	return at.Element == "H" || at.Element == "D"
}

// CrystalStructure is a crystal: a lattice, a space group and a list of atoms
// in fractional coordinates. The atom list can hold just the asymmetric unit
// or the whole unit cell; symmetryApplied tracks which of the two it is.
type CrystalStructure struct {
	name            string
	lattice         *CrystalLattice
	spaceGroup      *SpaceGroup
	atoms           []*Atom
	symmetryApplied bool
}

// NewCrystalStructure builds a structure from a lattice and a space group.
// Nil arguments get the defaults: a 10 A cubic cell and P1.
func NewCrystalStructure(lattice *CrystalLattice, group *SpaceGroup) *CrystalStructure {
	if lattice == nil {
		lattice = DefaultLattice()
	}
	if group == nil {
		group = P1()
	}
	return &CrystalStructure{lattice: lattice, spaceGroup: group}
}

func (cs *CrystalStructure) Name() string             { return cs.name }
func (cs *CrystalStructure) SetName(name string)      { cs.name = name }
func (cs *CrystalStructure) Lattice() *CrystalLattice { return cs.lattice }
func (cs *CrystalStructure) SpaceGroup() *SpaceGroup  { return cs.spaceGroup }

// SetLattice replaces the lattice. Atom positions are fractional so they are
// reinterpreted, not converted.
func (cs *CrystalStructure) SetLattice(lattice *CrystalLattice) { cs.lattice = lattice }

// SetSpaceGroup replaces the space group without touching the atoms.
func (cs *CrystalStructure) SetSpaceGroup(group *SpaceGroup) { cs.spaceGroup = group }

// SymmetryApplied reports whether the atom list holds the whole unit cell
// rather than only the asymmetric unit.
func (cs *CrystalStructure) SymmetryApplied() bool { return cs.symmetryApplied }

// Len returns the number of atoms.
func (cs *CrystalStructure) Len() int { return len(cs.atoms) }

// Atom returns the i-th atom. The atom is not copied; mutating it mutates the
// structure. Panics if i is out of range.
func (cs *CrystalStructure) Atom(i int) *Atom {
	if i < 0 || i >= len(cs.atoms) {
		panic(fmt.Sprintf("atom index %d out of range (%d atoms)", i, len(cs.atoms)))
	}
	return cs.atoms[i]
}

// AddAtom appends atoms to the structure.
func (cs *CrystalStructure) AddAtom(atoms ...*Atom) {
	cs.atoms = append(cs.atoms, atoms...)
}

// SetAtom replaces the i-th atom. Panics if i is out of range.
func (cs *CrystalStructure) SetAtom(i int, at *Atom) {
	if i < 0 || i >= len(cs.atoms) {
		panic(fmt.Sprintf("atom index %d out of range (%d atoms)", i, len(cs.atoms)))
	}
	cs.atoms[i] = at
}

// FindLabel returns the index of the atom with the given label, or an error
// if no atom carries it.
func (cs *CrystalStructure) FindLabel(label string) (int, error) {
	for i, at := range cs.atoms {
		if at.Label == label {
			return i, nil
		}
	}
	return -1, CError{fmt.Sprintf("label %q not found", label), []string{"CrystalStructure.FindLabel"}}
}

// MakeAtomLabelsUnique relabels every atom as its element symbol followed by
// its index.
func (cs *CrystalStructure) MakeAtomLabelsUnique() {
	for i, at := range cs.atoms {
		at.Label = fmt.Sprintf("%s%d", at.Element, i)
	}
}

// Elements returns the sorted set of element symbols present.
func (cs *CrystalStructure) Elements() []string {
	seen := map[string]bool{}
	for _, at := range cs.atoms {
		seen[at.Element] = true
	}
	r := make([]string, 0, len(seen))
	for e := range seen {
		r = append(r, e)
	}
	sort.Strings(r)
	return r
}

// Copy returns a deep copy of the structure. The lattice and space group are
// immutable and shared.
func (cs *CrystalStructure) Copy() *CrystalStructure {
	r := &CrystalStructure{name: cs.name, lattice: cs.lattice, spaceGroup: cs.spaceGroup,
		symmetryApplied: cs.symmetryApplied}
	r.atoms = make([]*Atom, len(cs.atoms))
	for i, at := range cs.atoms {
		r.atoms[i] = at.Copy()
	}
	return r
}

// ApplySpaceGroupSymmetry expands the atom list by every non-identity
// operator of the space group. An image closer than 0.1 A to the original
// atom is a special position and is not duplicated. Calling this on a
// structure whose symmetry has already been applied is logged, the expansion
// still happens.
func (cs *CrystalStructure) ApplySpaceGroupSymmetry() {
	if cs.symmetryApplied {
		log.Println("cryst: CrystalStructure.ApplySpaceGroupSymmetry: space group has already been applied")
	}
	var images []*Atom
	for _, at := range cs.atoms {
		for j := 1; j < cs.spaceGroup.Len(); j++ {
			pos := cs.spaceGroup.Operator(j).Apply(at.Position)
			if cs.lattice.ShortestDistance(at.Position, pos) > 0.1 {
				img := at.Copy()
				img.Position = pos
				images = append(images, img)
			}
		}
	}
	cs.atoms = append(cs.atoms, images...)
	cs.symmetryApplied = true
}

// ReduceToAsymmetricUnit keeps the first of every set of symmetry-equivalent
// atoms of the same element and removes the rest. Two atoms are equivalent
// when some operator maps one to within 0.001 A of the other.
func (cs *CrystalStructure) ReduceToAsymmetricUnit() {
	duplicate := make([]bool, len(cs.atoms))
	var kept []*Atom
	for i, at := range cs.atoms {
		if duplicate[i] {
			continue
		}
		for j := i + 1; j < len(cs.atoms); j++ {
			if duplicate[j] || at.Element != cs.atoms[j].Element {
				continue
			}
			if cs.ShortestDistance2(at.Position, cs.atoms[j].Position) < 0.001*0.001 {
				duplicate[j] = true
			}
		}
		kept = append(kept, at)
	}
	cs.atoms = kept
	cs.symmetryApplied = false
}

// PositionAllAtomsWithinUnitCell moves every atom to its translate inside
// [0,1) along each axis.
func (cs *CrystalStructure) PositionAllAtomsWithinUnitCell() {
	for _, at := range cs.atoms {
		at.Position = AdjustForTranslations(at.Position)
	}
}

// CentreOfMass returns the unweighted mean of the fractional positions. An
// empty structure has no centre of mass, which is an error.
func (cs *CrystalStructure) CentreOfMass() (*mat.VecDense, error) {
	if len(cs.atoms) == 0 {
		return nil, CError{"there are no atoms, centre of mass is undefined", []string{"CrystalStructure.CentreOfMass"}}
	}
	com := zeroVec()
	for _, at := range cs.atoms {
		com.AddVec(com, at.Position)
	}
	com.ScaleVec(1/float64(len(cs.atoms)), com)
	return com, nil
}

// Supercell replaces the structure by a u x v x w supercell in P1. The
// symmetry is applied first when it has not been yet; each copy of every atom
// gets its cell offsets appended to its label. u, v and w must be positive.
func (cs *CrystalStructure) Supercell(u, v, w int) error {
	if u < 1 || v < 1 || w < 1 {
		return CError{fmt.Sprintf("supercell dimensions %dx%dx%d must be positive", u, v, w), []string{"CrystalStructure.Supercell"}}
	}
	if !cs.symmetryApplied {
		cs.ApplySpaceGroupSymmetry()
	}
	newLattice, err := NewCrystalLattice(cs.lattice.a*float64(u), cs.lattice.b*float64(v), cs.lattice.c*float64(w),
		cs.lattice.alpha, cs.lattice.beta, cs.lattice.gamma)
	if err != nil {
		return errDecorate(err, "CrystalStructure.Supercell")
	}
	atoms := make([]*Atom, 0, len(cs.atoms)*u*v*w)
	for i := 0; i < u; i++ {
		for j := 0; j < v; j++ {
			for k := 0; k < w; k++ {
				for _, at := range cs.atoms {
					na := at.Copy()
					pos := cs.lattice.FractionalToOrthogonal(at.Position)
					pos.AddScaledVec(pos, float64(i), cs.lattice.avec)
					pos.AddScaledVec(pos, float64(j), cs.lattice.bvec)
					pos.AddScaledVec(pos, float64(k), cs.lattice.cvec)
					na.Position = newLattice.OrthogonalToFractional(pos)
					na.Label = fmt.Sprintf("%s_%d_%d_%d", at.Label, i, j, k)
					atoms = append(atoms, na)
				}
			}
		}
	}
	cs.lattice = newLattice
	cs.spaceGroup = P1()
	cs.atoms = atoms
	cs.symmetryApplied = true
	return nil
}

// ConvertToP1 expands the structure to the full unit cell content with space
// group P1.
func (cs *CrystalStructure) ConvertToP1() error {
	return cs.Supercell(1, 1, 1)
}

// Transform applies an axis transformation to the whole structure: the
// lattice vectors transform by the rows of m, the fractional coordinates and
// the space group by its inverse transpose.
func (cs *CrystalStructure) Transform(m *mat.Dense) error {
	inv, err := gnInverse(m)
	if err != nil {
		return errDecorate(err, "CrystalStructure.Transform")
	}
	invT := mat.NewDense(3, 3, nil)
	invT.CloneFrom(inv.T())
	newLattice, err := cs.lattice.Transform(m)
	if err != nil {
		return errDecorate(err, "CrystalStructure.Transform")
	}
	for _, at := range cs.atoms {
		at.Position = mulVec(invT, at.Position)
	}
	op := NewSymmetryOperator(invT, nil)
	newGroup := cs.spaceGroup.Copy()
	if err := newGroup.ApplySimilarityTransformation(op); err != nil {
		return errDecorate(err, "CrystalStructure.Transform")
	}
	cs.spaceGroup = newGroup
	cs.lattice = newLattice
	return nil
}

// ShortestDistance2 returns the squared shortest distance, in A^2, between
// two fractional positions, minimised over all space-group images of rhs.
// Use CrystalLattice.ShortestDistance2 when only lattice translations should
// count.
func (cs *CrystalStructure) ShortestDistance2(lhs, rhs *mat.VecDense) float64 {
	best := cs.lattice.ShortestDistance2(lhs, rhs)
	for k := 1; k < cs.spaceGroup.Len(); k++ {
		if d2 := cs.lattice.ShortestDistance2(lhs, cs.spaceGroup.Operator(k).Apply(rhs)); d2 < best {
			best = d2
		}
	}
	return best
}

// ShortestDistance returns the shortest distance, in A, between two
// fractional positions over all space-group images of rhs, together with the
// corresponding fractional difference vector.
func (cs *CrystalStructure) ShortestDistance(lhs, rhs *mat.VecDense) (float64, *mat.VecDense) {
	best, bestDiff := cs.lattice.ShortestDifference(lhs, rhs)
	for k := 1; k < cs.spaceGroup.Len(); k++ {
		d, diff := cs.lattice.ShortestDifference(lhs, cs.spaceGroup.Operator(k).Apply(rhs))
		if d < best {
			best = d
			bestDiff = diff
		}
	}
	return best, bestDiff
}

// SecondShortestDistance returns the second-shortest distance, in A, between
// two fractional positions over all space-group images of rhs, and its
// difference vector. Images at the shortest distance itself, within the
// default tolerance, are skipped, so for an atom compared against itself this
// gives the nearest symmetry contact.
func (cs *CrystalStructure) SecondShortestDistance(lhs, rhs *mat.VecDense) (float64, *mat.VecDense) {
	shortest := cs.lattice.ShortestDistance(lhs, rhs)
	for k := 1; k < cs.spaceGroup.Len(); k++ {
		if d := cs.lattice.ShortestDistance(lhs, cs.spaceGroup.Operator(k).Apply(rhs)); d < shortest {
			shortest = d
		}
	}
	second := 1.0e12
	var secondDiff *mat.VecDense
	for k := 0; k < cs.spaceGroup.Len(); k++ {
		d, diff := cs.lattice.ShortestDifference(lhs, cs.spaceGroup.Operator(k).Apply(rhs))
		if NearlyEqual(d, shortest) {
			continue
		}
		if d < second {
			second = d
			secondDiff = diff
		}
	}
	return second, secondDiff
}
