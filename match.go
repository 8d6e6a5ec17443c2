/*
 * match.go, part of Fourier.
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
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// AverageLattice returns the lattice whose six cell parameters are the means
// of the two given lattices'. Distances measured in it are a fair middle
// ground when comparing two slightly different determinations of the same
// structure.
func AverageLattice(lhs, rhs *CrystalLattice) (*CrystalLattice, error) {
	L, err := NewCrystalLattice(
		(lhs.a+rhs.a)/2, (lhs.b+rhs.b)/2, (lhs.c+rhs.c)/2,
		(lhs.alpha+rhs.alpha)/2, (lhs.beta+rhs.beta)/2, (lhs.gamma+rhs.gamma)/2)
	return L, errDecorate(err, "AverageLattice")
}

//warnIfLatticesDiffer logs when two cells differ by more than 10% in any
//length or 10 degrees in any angle. Such cells can still be compared, but
//the result is unlikely to mean what the caller hopes.
func warnIfLatticesDiffer(lhs, rhs *CrystalLattice) {
	lens := [3][2]float64{{lhs.a, rhs.a}, {lhs.b, rhs.b}, {lhs.c, rhs.c}}
	for _, p := range lens {
		if math.Abs(p[0]-p[1]) > 0.1*math.Min(p[0], p[1]) {
			log.Printf("cryst: cell lengths %f and %f differ by more than 10%%", p[0], p[1])
		}
	}
	angs := [3][2]float64{{lhs.alpha, rhs.alpha}, {lhs.beta, rhs.beta}, {lhs.gamma, rhs.gamma}}
	for _, p := range angs {
		if math.Abs(p[0]-p[1]) > 10 {
			log.Printf("cryst: cell angles %f and %f differ by more than 10 degrees", p[0], p[1])
		}
	}
}

//matchCandidates is the read-only search space of one matching run: the
//candidate operators, the grid of fractional shifts and the lattice the
//distances are measured in.
type matchCandidates struct {
	ops     []*SymmetryOperator
	shifts  []*mat.VecDense
	lattice *CrystalLattice
}

//bestForAtom finds, for one reference atom, the nearest image among all
//(atom, operator, shift) combinations of the other structure. Positions of
//rhs are pre-shifted, then mapped by the operator, so the winning transform
//is op composed with the shift. ok is false when rhs holds no atom of the
//reference atom's element at all.
func (mc *matchCandidates) bestForAtom(at *Atom, rhs *CrystalStructure) (opIdx, shiftIdx, atomIdx int, ok bool) {
	best := math.MaxFloat64
	for j := 0; j < rhs.Len(); j++ {
		other := rhs.Atom(j)
		if other.Element != at.Element {
			continue
		}
		for s, shift := range mc.shifts {
			shifted := addVec(other.Position, shift)
			for k, op := range mc.ops {
				if d2 := mc.lattice.ShortestDistance2(at.Position, op.Apply(shifted)); d2 < best {
					best = d2
					opIdx, shiftIdx, atomIdx = k, s, j
					ok = true
				}
			}
		}
	}
	return opIdx, shiftIdx, atomIdx, ok
}

//floatingAxes reports, per fractional axis, whether the space group leaves
//the origin free along it. An axis floats when every operator's rotation
//keeps that coordinate untouched; any translation component along it is then
//a convention, not a constraint.
func floatingAxes(group *SpaceGroup) [3]bool {
	axes := [3]bool{true, true, true}
	unit := ident3()
	for i := 0; i < group.Len(); i++ {
		rot := group.Operator(i).Rotation()
		for d := 0; d < 3; d++ {
			for c := 0; c < 3; c++ {
				if !NearlyEqual(rot.At(d, c), unit.At(d, c)) {
					axes[d] = false
				}
			}
		}
	}
	return axes
}

// FindMatch finds the single transformation relating two structures that are
// assumed to differ by one unknown symmetry operator of rhs's space group and
// one unknown sub-cell shift. The shift candidates form a shiftSteps^3 grid
// of fractions i/shiftSteps along each axis; shiftSteps 1 means no shift
// search. With addInversion, inverted copies of the operators join the
// candidate list even when the group itself lacks an inversion.
//
// Every non-hydrogen atom of lhs votes for the (operator, shift) pair that
// brings some same-element atom of rhs nearest to it, with distances measured
// in the average of the two lattices. The pair with the most votes wins; a
// tie is an AmbiguousMatchError, since iteration order must not decide which
// transformation is reported. The winning operator's translation absorbs the
// shift and is then corrected by the centre-of-mass residual: rounded to
// whole lattice vectors on fixed axes and, when correctFloatingAxes is set,
// taken exactly on the axes the space group leaves free.
//
// The returned slice maps each atom of lhs to its counterpart in rhs under
// the winning transformation. The variadic argument sets the number of
// goroutines for the per-atom search; by default one per CPU.
func FindMatch(lhs, rhs *CrystalStructure, shiftSteps int, addInversion, correctFloatingAxes bool, cpus ...int) (*SymmetryOperator, []int, error) {
	if lhs.Len() != rhs.Len() {
		return nil, nil, CError{fmt.Sprintf("structures have %d and %d atoms", lhs.Len(), rhs.Len()), []string{"FindMatch"}}
	}
	if lhs.Len() == 0 {
		return nil, nil, CError{"structures have no atoms", []string{"FindMatch"}}
	}
	if shiftSteps < 1 {
		return nil, nil, CError{fmt.Sprintf("shiftSteps %d must be positive", shiftSteps), []string{"FindMatch"}}
	}
	warnIfLatticesDiffer(lhs.lattice, rhs.lattice)
	avg, err := AverageLattice(lhs.lattice, rhs.lattice)
	if err != nil {
		return nil, nil, errDecorate(err, "FindMatch")
	}
	group := rhs.SpaceGroup()
	mc := &matchCandidates{lattice: avg}
	for i := 0; i < group.Len(); i++ {
		mc.ops = append(mc.ops, group.Operator(i))
	}
	if addInversion && !group.HasInversion() {
		inv := InversionOperator()
		for i := 0; i < group.Len(); i++ {
			mc.ops = append(mc.ops, inv.Mult(group.Operator(i)))
		}
	}
	for i := 0; i < shiftSteps; i++ {
		for j := 0; j < shiftSteps; j++ {
			for k := 0; k < shiftSteps; k++ {
				mc.shifts = append(mc.shifts,
					newVec(float64(i)/float64(shiftSteps), float64(j)/float64(shiftSteps), float64(k)/float64(shiftSteps)))
			}
		}
	}
	gor := runtime.NumCPU()
	if len(cpus) > 0 && cpus[0] > 0 {
		gor = cpus[0]
	}
	if gor > lhs.Len() {
		gor = lhs.Len()
	}
	//each atom's winner is written to its own slot, so the only
	//synchronization needed is the final wait. The tally below runs in
	//atom order, keeping the result independent of goroutine scheduling.
	type winner struct {
		op, shift int
		voted     bool
	}
	winners := make([]winner, lhs.Len())
	var wg sync.WaitGroup
	chunk := (lhs.Len() + gor - 1) / gor
	for start := 0; start < lhs.Len(); start += chunk {
		end := start + chunk
		if end > lhs.Len() {
			end = lhs.Len()
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				at := lhs.Atom(i)
				if at.IsHOrD() {
					continue
				}
				op, shift, _, ok := mc.bestForAtom(at, rhs)
				if !ok {
					continue
				}
				winners[i] = winner{op: op, shift: shift, voted: true}
			}
		}(start, end)
	}
	wg.Wait()
	votes := map[[2]int]int{}
	for _, w := range winners {
		if w.voted {
			votes[[2]int{w.op, w.shift}]++
		}
	}
	if len(votes) == 0 {
		return nil, nil, CError{"no atom cast a vote: no non-hydrogen atom of lhs has a same-element counterpart in rhs", []string{"FindMatch"}}
	}
	bestVotes := 0
	var bestKey [2]int
	tied := false
	for i := 0; i < len(mc.ops); i++ {
		for s := 0; s < len(mc.shifts); s++ {
			key := [2]int{i, s}
			switch n := votes[key]; {
			case n > bestVotes:
				bestVotes = n
				bestKey = key
				tied = false
			case n == bestVotes && n > 0 && key != bestKey:
				tied = true
			}
		}
	}
	if tied {
		return nil, nil, AmbiguousMatchError{fmt.Sprintf("no unique winner, best (operator, shift) pairs share %d votes", bestVotes), []string{"FindMatch"}}
	}
	winOp := mc.ops[bestKey[0]]
	winShift := mc.shifts[bestKey[1]]
	//total transform: first the shift, then the operator
	trans := winOp.Apply(winShift)
	match := NewSymmetryOperator(winOp.Rotation(), trans)
	//centre-of-mass residual correction
	comL, err := lhs.CentreOfMass()
	if err != nil {
		return nil, nil, errDecorate(err, "FindMatch")
	}
	comR, err := rhs.CentreOfMass()
	if err != nil {
		return nil, nil, errDecorate(err, "FindMatch")
	}
	delta := subVec(comL, match.Apply(comR))
	floats := floatingAxes(group)
	t := match.Translation()
	for d := 0; d < 3; d++ {
		if floats[d] && correctFloatingAxes {
			t.SetVec(d, t.AtVec(d)+delta.AtVec(d))
		} else {
			t.SetVec(d, t.AtVec(d)+float64(roundToInt(delta.AtVec(d))))
		}
	}
	match = &SymmetryOperator{rot: match.rot, trans: t}
	//final pairing under the winning transform, hydrogens included. Two
	//non-hydrogen atoms claiming the same counterpart means the pairing is
	//not one-to-one; reported like the lattice mismatches, not fatal.
	mapping := make([]int, lhs.Len())
	takenBy := make([]int, rhs.Len())
	for j := range takenBy {
		takenBy[j] = -1
	}
	for i := 0; i < lhs.Len(); i++ {
		at := lhs.Atom(i)
		best := math.MaxFloat64
		mapping[i] = -1
		for j := 0; j < rhs.Len(); j++ {
			other := rhs.Atom(j)
			if other.Element != at.Element {
				continue
			}
			if d2 := avg.ShortestDistance2(at.Position, match.Apply(other.Position)); d2 < best {
				best = d2
				mapping[i] = j
			}
		}
		if j := mapping[i]; j >= 0 {
			if takenBy[j] >= 0 && !at.IsHOrD() {
				log.Printf("cryst: FindMatch: atoms %d and %d match the same counterpart %d", takenBy[j], i, j)
			}
			takenBy[j] = i
		}
	}
	return match, mapping, nil
}

// RootMeanSquareCartesianDisplacement returns the RMS displacement, in A,
// between two structures whose atoms correspond index by index. Each per-atom
// Cartesian displacement is the mean of the displacement lengths measured in
// the two structures' frames, (|G1(r1-r2)| + |G2(r1-r2)|)/2, removing the
// bias of picking either cell. The plain fractional difference is used, not
// the minimum image: corresponding atoms are expected to be given in the same
// cell. An atom is skipped only when it is hydrogen or deuterium on both
// sides; any other element mismatch means the structures do not correspond
// and is an error.
func RootMeanSquareCartesianDisplacement(lhs, rhs *CrystalStructure) (float64, error) {
	if lhs.Len() != rhs.Len() {
		return 0, CError{fmt.Sprintf("structures have %d and %d atoms", lhs.Len(), rhs.Len()), []string{"RootMeanSquareCartesianDisplacement"}}
	}
	sum := 0.0
	n := 0
	for i := 0; i < lhs.Len(); i++ {
		a, b := lhs.Atom(i), rhs.Atom(i)
		if a.IsHOrD() && b.IsHOrD() {
			continue
		}
		if a.Element != b.Element {
			return 0, CError{fmt.Sprintf("elements %s and %s at index %d differ", a.Element, b.Element, i), []string{"RootMeanSquareCartesianDisplacement"}}
		}
		diff := subVec(a.Position, b.Position)
		d := (mat.Norm(lhs.lattice.FractionalToOrthogonal(diff), 2) +
			mat.Norm(rhs.lattice.FractionalToOrthogonal(diff), 2)) / 2
		sum += d * d
		n++
	}
	if n == 0 {
		return 0, CError{"no non-hydrogen atoms to compare", []string{"RootMeanSquareCartesianDisplacement"}}
	}
	return math.Sqrt(sum / float64(n)), nil
}

// RMSCDWithMatching returns the RMS Cartesian displacement between two
// structures whose atom orders do not correspond: each non-hydrogen atom of
// lhs is paired with the nearest same-element atom of rhs, measured with the
// averaged lattice. With addShifts, the eight half-cell origin shifts are
// tried on rhs and the smallest resulting displacement is kept, covering the
// common ambiguity of structures solved with different origin choices. Two
// atoms of lhs claiming the same non-hydrogen counterpart means the pairing
// is not a bijection, which is an error.
func RMSCDWithMatching(lhs, rhs *CrystalStructure, addShifts bool) (float64, error) {
	if lhs.Len() != rhs.Len() {
		return 0, CError{fmt.Sprintf("structures have %d and %d atoms", lhs.Len(), rhs.Len()), []string{"RMSCDWithMatching"}}
	}
	warnIfLatticesDiffer(lhs.lattice, rhs.lattice)
	avg, err := AverageLattice(lhs.lattice, rhs.lattice)
	if err != nil {
		return 0, errDecorate(err, "RMSCDWithMatching")
	}
	shifts := []*mat.VecDense{zeroVec()}
	if addShifts {
		shifts = shifts[:0]
		for _, x := range []float64{0, 0.5} {
			for _, y := range []float64{0, 0.5} {
				for _, z := range []float64{0, 0.5} {
					shifts = append(shifts, newVec(x, y, z))
				}
			}
		}
	}
	best := math.MaxFloat64
	for _, shift := range shifts {
		sum := 0.0
		n := 0
		taken := make(map[int]bool, rhs.Len())
		duplicate := false
		for i := 0; i < lhs.Len(); i++ {
			at := lhs.Atom(i)
			if at.IsHOrD() {
				continue
			}
			bestD2 := math.MaxFloat64
			bestJ := -1
			for j := 0; j < rhs.Len(); j++ {
				other := rhs.Atom(j)
				if other.Element != at.Element {
					continue
				}
				if d2 := avg.ShortestDistance2(at.Position, addVec(other.Position, shift)); d2 < bestD2 {
					bestD2 = d2
					bestJ = j
				}
			}
			if bestJ < 0 {
				return 0, CError{fmt.Sprintf("no counterpart for element %s", at.Element), []string{"RMSCDWithMatching"}}
			}
			if taken[bestJ] {
				duplicate = true
			}
			taken[bestJ] = true
			//nearest image in the averaged lattice, displacement length
			//averaged over both Cartesian frames like the aligned variant
			_, diff := avg.ShortestDifference(at.Position, addVec(rhs.Atom(bestJ).Position, shift))
			d := (mat.Norm(lhs.lattice.FractionalToOrthogonal(diff), 2) +
				mat.Norm(rhs.lattice.FractionalToOrthogonal(diff), 2)) / 2
			sum += d * d
			n++
		}
		if duplicate {
			if !addShifts {
				return 0, CError{"two atoms matched the same counterpart", []string{"RMSCDWithMatching"}}
			}
			continue
		}
		if n == 0 {
			return 0, CError{"no non-hydrogen atoms to compare", []string{"RMSCDWithMatching"}}
		}
		if r := math.Sqrt(sum / float64(n)); r < best {
			best = r
		}
	}
	if best == math.MaxFloat64 {
		return 0, CError{"every origin shift produced a degenerate pairing", []string{"RMSCDWithMatching"}}
	}
	return best, nil
}
