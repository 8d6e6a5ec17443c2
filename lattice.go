/*
 * lattice.go, part of Fourier.
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

	"gonum.org/v1/gonum/mat"
)

// LatticeSystem is the purely geometric classification of a unit cell.
type LatticeSystem int

const (
	Triclinic LatticeSystem = iota
	Monoclinic
	Orthorhombic
	Trigonal
	Tetragonal
	Hexagonal
	Rhombohedral
	Cubic
)

func (ls LatticeSystem) String() string {
	switch ls {
	case Triclinic:
		return "Triclinic"
	case Monoclinic:
		return "Monoclinic"
	case Orthorhombic:
		return "Orthorhombic"
	case Trigonal:
		return "Trigonal"
	case Tetragonal:
		return "Tetragonal"
	case Hexagonal:
		return "Hexagonal"
	case Rhombohedral:
		return "Rhombohedral"
	case Cubic:
		return "Cubic"
	}
	return fmt.Sprintf("LatticeSystem(%d)", int(ls))
}

// CrystalLattice holds the six cell parameters (lengths in A, angles in
// degrees) together with everything derived from them: the direct and
// reciprocal basis vectors, the fractional<->orthogonal transformation
// matrices (exact mutual inverses), the cell volume and the lattice system.
// It is immutable; the transforming operations return a new lattice.
type CrystalLattice struct {
	a, b, c             float64
	alpha, beta, gamma  float64 //degrees
	avec, bvec, cvec    *mat.VecDense
	astarVec, bstarVec  *mat.VecDense
	cstarVec            *mat.VecDense
	astar, bstar, cstar float64
	alphaStar, betaStar float64 //degrees
	gammaStar           float64 //degrees
	f2o, o2f            *mat.Dense
	volume              float64
	system              LatticeSystem
}

// NewCrystalLattice builds a lattice from the six cell parameters, angles in
// degrees. The a axis goes along orthogonal x, the b axis lies in the xy
// plane. Parameters that do not describe a realizable cell (non-positive
// lengths, angles outside (0,180), or angle combinations with no solution in
// 3D space) are an error.
func NewCrystalLattice(a, b, c, alpha, beta, gamma float64, eps ...float64) (*CrystalLattice, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, CError{fmt.Sprintf("non-positive cell lengths a=%f b=%f c=%f", a, b, c), []string{"NewCrystalLattice"}}
	}
	for _, ang := range []float64{alpha, beta, gamma} {
		if ang <= 0 || ang >= 180 {
			return nil, CError{fmt.Sprintf("cell angle %f outside (0,180)", ang), []string{"NewCrystalLattice"}}
		}
	}
	L := &CrystalLattice{a: a, b: b, c: c, alpha: alpha, beta: beta, gamma: gamma}
	sinGamma, cosGamma := math.Sincos(gamma * Deg2Rad)
	cosAlpha := math.Cos(alpha * Deg2Rad)
	cosBeta := math.Cos(beta * Deg2Rad)
	L.avec = newVec(a, 0, 0)
	L.bvec = newVec(b*cosGamma, b*sinGamma, 0)
	cx := c * cosBeta
	cy := (b*c*cosAlpha - L.bvec.AtVec(0)*cx) / L.bvec.AtVec(1)
	cz2 := c*c - cx*cx - cy*cy
	if cz2 <= 0 {
		return nil, CError{fmt.Sprintf("%s: alpha=%f beta=%f gamma=%f", ErrImpossibleLattice, alpha, beta, gamma), []string{"NewCrystalLattice"}}
	}
	L.cvec = newVec(cx, cy, math.Sqrt(cz2))
	//The columns of the fractional-to-orthogonal matrix are the cell vectors;
	//inverting it gives both the inverse transform and the reciprocal axes.
	L.f2o = mat.NewDense(3, 3, nil)
	for i, v := range []*mat.VecDense{L.avec, L.bvec, L.cvec} {
		for j := 0; j < 3; j++ {
			L.f2o.Set(j, i, v.AtVec(j))
		}
	}
	L.volume = det(L.f2o)
	var err error
	L.o2f, err = gnInverse(L.f2o)
	if err != nil {
		return nil, errDecorate(err, "NewCrystalLattice")
	}
	L.astarVec = newVec(L.o2f.At(0, 0), L.o2f.At(0, 1), L.o2f.At(0, 2))
	L.bstarVec = newVec(L.o2f.At(1, 0), L.o2f.At(1, 1), L.o2f.At(1, 2))
	L.cstarVec = newVec(L.o2f.At(2, 0), L.o2f.At(2, 1), L.o2f.At(2, 2))
	L.astar = mat.Norm(L.astarVec, 2)
	L.bstar = mat.Norm(L.bstarVec, 2)
	L.cstar = mat.Norm(L.cstarVec, 2)
	L.alphaStar = angleBetween(L.bstarVec, L.cstarVec)
	L.betaStar = angleBetween(L.astarVec, L.cstarVec)
	L.gammaStar = angleBetween(L.astarVec, L.bstarVec)
	L.system = DeduceLatticeSystem(L, eps...)
	return L, nil
}

// DefaultLattice returns a 10x10x10 A cube, the placeholder cell used when no
// cell is known yet.
func DefaultLattice() *CrystalLattice {
	L, err := NewCrystalLattice(10, 10, 10, 90, 90, 90)
	if err != nil {
		panic("cant happen: " + err.Error())
	}
	return L
}

//angleBetween returns the angle between two 3-vectors, in degrees.
func angleBetween(u, v *mat.VecDense) float64 {
	cos := mat.Dot(u, v) / (mat.Norm(u, 2) * mat.Norm(v, 2))
	//clamp against rounding outside [-1,1]
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * Rad2Deg
}

// Cell parameter accessors. Lengths in A, angles in degrees.
func (L *CrystalLattice) A() float64     { return L.a }
func (L *CrystalLattice) B() float64     { return L.b }
func (L *CrystalLattice) C() float64     { return L.c }
func (L *CrystalLattice) Alpha() float64 { return L.alpha }
func (L *CrystalLattice) Beta() float64  { return L.beta }
func (L *CrystalLattice) Gamma() float64 { return L.gamma }

// Reciprocal cell parameter accessors. Lengths in 1/A, angles in degrees.
func (L *CrystalLattice) AStar() float64     { return L.astar }
func (L *CrystalLattice) BStar() float64     { return L.bstar }
func (L *CrystalLattice) CStar() float64     { return L.cstar }
func (L *CrystalLattice) AlphaStar() float64 { return L.alphaStar }
func (L *CrystalLattice) BetaStar() float64  { return L.betaStar }
func (L *CrystalLattice) GammaStar() float64 { return L.gammaStar }

// AVector, BVector and CVector return copies of the direct-space cell
// vectors, in A.
func (L *CrystalLattice) AVector() *mat.VecDense { return copyVec(L.avec) }
func (L *CrystalLattice) BVector() *mat.VecDense { return copyVec(L.bvec) }
func (L *CrystalLattice) CVector() *mat.VecDense { return copyVec(L.cvec) }

// AStarVector, BStarVector and CStarVector return copies of the reciprocal
// cell vectors, in 1/A.
func (L *CrystalLattice) AStarVector() *mat.VecDense { return copyVec(L.astarVec) }
func (L *CrystalLattice) BStarVector() *mat.VecDense { return copyVec(L.bstarVec) }
func (L *CrystalLattice) CStarVector() *mat.VecDense { return copyVec(L.cstarVec) }

// Volume returns the cell volume in A^3.
func (L *CrystalLattice) Volume() float64 { return L.volume }

// LatticeSystem returns the geometric classification of the cell. Note that
// this is deduced from the cell parameters alone and can disagree with a
// space group's CrystalSystem when the cell does not match the symmetry.
func (L *CrystalLattice) LatticeSystem() LatticeSystem { return L.system }

// FractionalToOrthogonalMatrix returns a copy of the matrix taking fractional
// to orthogonal (Cartesian) coordinates.
func (L *CrystalLattice) FractionalToOrthogonalMatrix() *mat.Dense { return copyMat(L.f2o) }

// OrthogonalToFractionalMatrix returns a copy of the inverse transform.
func (L *CrystalLattice) OrthogonalToFractionalMatrix() *mat.Dense { return copyMat(L.o2f) }

// FractionalToOrthogonal converts a fractional position to Cartesian A.
func (L *CrystalLattice) FractionalToOrthogonal(v *mat.VecDense) *mat.VecDense {
	return mulVec(L.f2o, v)
}

// OrthogonalToFractional converts a Cartesian position, in A, to fractional
// coordinates.
func (L *CrystalLattice) OrthogonalToFractional(v *mat.VecDense) *mat.VecDense {
	return mulVec(L.o2f, v)
}

// MetricMatrix returns the direct-space metric tensor G: the matrix of dot
// products of the cell vectors, so that d2 = x^T G x for a fractional
// difference x.
func (L *CrystalLattice) MetricMatrix() *mat.Dense {
	cosAlpha := math.Cos(L.alpha * Deg2Rad)
	cosBeta := math.Cos(L.beta * Deg2Rad)
	cosGamma := math.Cos(L.gamma * Deg2Rad)
	return mat.NewDense(3, 3, []float64{
		L.a * L.a, L.a * L.b * cosGamma, L.a * L.c * cosBeta,
		L.a * L.b * cosGamma, L.b * L.b, L.b * L.c * cosAlpha,
		L.a * L.c * cosBeta, L.b * L.c * cosAlpha, L.c * L.c,
	})
}

// ReciprocalMetricMatrix returns the reciprocal-space metric tensor G*.
func (L *CrystalLattice) ReciprocalMetricMatrix() *mat.Dense {
	cosAlpha := math.Cos(L.alphaStar * Deg2Rad)
	cosBeta := math.Cos(L.betaStar * Deg2Rad)
	cosGamma := math.Cos(L.gammaStar * Deg2Rad)
	return mat.NewDense(3, 3, []float64{
		L.astar * L.astar, L.astar * L.bstar * cosGamma, L.astar * L.cstar * cosBeta,
		L.astar * L.bstar * cosGamma, L.bstar * L.bstar, L.bstar * L.cstar * cosAlpha,
		L.astar * L.cstar * cosBeta, L.bstar * L.cstar * cosAlpha, L.cstar * L.cstar,
	})
}

//norm2Frac returns the squared Cartesian length of a fractional vector.
func (L *CrystalLattice) norm2Frac(v *mat.VecDense) float64 {
	o := mulVec(L.f2o, v)
	return mat.Dot(o, o)
}

//minimumImage reduces a fractional difference vector to the translate with
//the smallest Cartesian length. The nearest-integer reduction is only a
//starting point: for acute or very obtuse cells the true minimum image can
//be more than one lattice vector away, so the 26 neighbouring integer
//offsets are re-scanned from every new candidate until none improves it.
//The lattice is discrete and the distance bounded below, so this terminates.
func (L *CrystalLattice) minimumImage(diff *mat.VecDense) (d2 float64) {
	nearestIntegerReduce(diff)
	d2 = L.norm2Frac(diff)
	nb := zeroVec()
	for changed := true; changed; {
		changed = false
		for i := -1; i <= 1; i++ {
			for j := -1; j <= 1; j++ {
				for k := -1; k <= 1; k++ {
					nb.SetVec(0, diff.AtVec(0)+float64(i))
					nb.SetVec(1, diff.AtVec(1)+float64(j))
					nb.SetVec(2, diff.AtVec(2)+float64(k))
					if nd2 := L.norm2Frac(nb); nd2 < d2 {
						diff.CopyVec(nb)
						d2 = nd2
						changed = true
					}
				}
			}
		}
	}
	return d2
}

// ShortestDistance2 returns the squared minimum-image distance, in A^2,
// between two positions given in fractional coordinates.
func (L *CrystalLattice) ShortestDistance2(lhs, rhs *mat.VecDense) float64 {
	return L.minimumImage(subVec(rhs, lhs))
}

// ShortestDistance returns the minimum-image distance, in A, between two
// positions given in fractional coordinates.
func (L *CrystalLattice) ShortestDistance(lhs, rhs *mat.VecDense) float64 {
	return math.Sqrt(L.ShortestDistance2(lhs, rhs))
}

// ShortestDifference returns the minimum-image distance, in A, together with
// the corresponding fractional difference vector pointing from lhs to the
// nearest image of rhs.
func (L *CrystalLattice) ShortestDifference(lhs, rhs *mat.VecDense) (float64, *mat.VecDense) {
	diff := subVec(rhs, lhs)
	d2 := L.minimumImage(diff)
	return math.Sqrt(d2), diff
}

// Transform returns the lattice spanned by the rows of m applied to the cell
// vectors: new_a = m00*a+m01*b+m02*c and so on. The transformation matrix is
// expected to be an integer matrix with determinant 1; a different
// determinant is legal (the cell volume changes) but logged.
func (L *CrystalLattice) Transform(m *mat.Dense) (*CrystalLattice, error) {
	checkSquare(m)
	if !NearlyEqual(det(m), 1) {
		log.Printf("cryst: CrystalLattice.Transform: determinant of the transformation matrix is %f, not 1", det(m))
	}
	vecs := make([]*mat.VecDense, 3)
	for i := 0; i < 3; i++ {
		v := zeroVec()
		v.AddScaledVec(v, m.At(i, 0), L.avec)
		v.AddScaledVec(v, m.At(i, 1), L.bvec)
		v.AddScaledVec(v, m.At(i, 2), L.cvec)
		vecs[i] = v
	}
	return NewCrystalLattice(
		mat.Norm(vecs[0], 2), mat.Norm(vecs[1], 2), mat.Norm(vecs[2], 2),
		angleBetween(vecs[1], vecs[2]), angleBetween(vecs[0], vecs[2]), angleBetween(vecs[0], vecs[1]))
}

// RescaleVolume returns a lattice with the same shape scaled so that the
// volume per formula unit matches targetVolume/z. With z == 0 the whole cell
// is simply scaled to targetVolume.
func (L *CrystalLattice) RescaleVolume(targetVolume float64, z int) (*CrystalLattice, error) {
	currentZ := 1
	if z == 0 {
		z = 1
	} else {
		currentZ = roundToInt((L.volume / targetVolume) * float64(z))
	}
	k := math.Cbrt((targetVolume / float64(z)) / (L.volume / float64(currentZ)))
	return NewCrystalLattice(L.a*k, L.b*k, L.c*k, L.alpha, L.beta, L.gamma)
}

// EnclosingBox returns the corners of the smallest Cartesian box containing
// the whole unit cell.
func (L *CrystalLattice) EnclosingBox() (min, max *mat.VecDense) {
	min = zeroVec()
	max = zeroVec()
	for i := 0; i <= 1; i++ {
		for j := 0; j <= 1; j++ {
			for k := 0; k <= 1; k++ {
				corner := zeroVec()
				corner.AddScaledVec(corner, float64(i), L.avec)
				corner.AddScaledVec(corner, float64(j), L.bvec)
				corner.AddScaledVec(corner, float64(k), L.cvec)
				for d := 0; d < 3; d++ {
					min.SetVec(d, math.Min(min.AtVec(d), corner.AtVec(d)))
					max.SetVec(d, math.Max(max.AtVec(d), corner.AtVec(d)))
				}
			}
		}
	}
	return min, max
}

// String prints the six cell parameters.
func (L *CrystalLattice) String() string {
	return fmt.Sprintf("a = %.4f, b = %.4f, c = %.4f, al = %.3f, be = %.3f, ga = %.3f",
		L.a, L.b, L.c, L.alpha, L.beta, L.gamma)
}

// DeduceLatticeSystem classifies a cell from its parameters alone: a decision
// tree over which angles are 90 degrees, which axes are equal and whether the
// angles are mutually equal. It is independent of any space group, so it can
// disagree with SpaceGroup.CrystalSystem when the supplied cell does not
// match the symmetry; the all-angles-equal-but-unclassifiable case is logged
// rather than silently resolved.
func DeduceLatticeSystem(L *CrystalLattice, eps ...float64) LatticeSystem {
	anglesEqual := NearlyEqual(L.alpha, L.beta, eps...) && NearlyEqual(L.alpha, L.gamma, eps...)
	abEqual := NearlyEqual(L.a, L.b, eps...)
	acEqual := NearlyEqual(L.a, L.c, eps...)
	alphaIs90 := NearlyEqual(L.alpha, 90, eps...)
	if anglesEqual {
		if alphaIs90 {
			if abEqual {
				if acEqual {
					return Cubic
				}
				return Tetragonal
			}
			return Orthorhombic
		}
		if abEqual && acEqual {
			return Rhombohedral
		}
		log.Println("cryst: DeduceLatticeSystem: angles are all equal, but the system is monoclinic or triclinic")
	}
	betaIs90 := NearlyEqual(L.beta, 90, eps...)
	if abEqual && alphaIs90 && betaIs90 && NearlyEqual(L.gamma, 120, eps...) {
		return Hexagonal
	}
	gammaIs90 := NearlyEqual(L.gamma, 90, eps...)
	if (alphaIs90 && betaIs90) || (alphaIs90 && gammaIs90) || (betaIs90 && gammaIs90) {
		return Monoclinic
	}
	return Triclinic
}
