/*
 * doc.go, part of Fourier.
 *
 * Copyright 2020 Michelle Liu
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

/*
Package cryst models crystallographic symmetry. It represents a space group as
a closed set of affine symmetry operators, decomposes it into centring vectors,
inversion data and a minimal set of representative rotations, classifies unit
cells into the seven lattice systems, and provides minimum-image distance
geometry for arbitrary, possibly oblique, cells. On top of that it can collapse
an expanded supercell back to a single representative cell and find the
symmetry operator plus sub-cell shift relating two independently indexed
crystal structures, together with a root-mean-square Cartesian displacement
(RMSCD) between them.

All fractional coordinates are dimensionless, distances are in Angstrom and
angles in the public API are in degrees. Matrix and vector arithmetic is done
with gonum (gonum.org/v1/gonum/mat): rotations are 3x3 *mat.Dense, positions
and translations are 3-element *mat.VecDense.

Floating-point comparisons use a package-wide default tolerance. Every function
that compares numbers accepts a trailing, optional epsilon to override it, so
tolerance-boundary behavior can be probed deterministically in tests.

Fatal conditions (a non-closed operator set, a rotation determinant other than
+-1, a missing identity centring, mismatched atom counts) are returned as
errors. Unusual-but-workable inputs (mismatched cell parameters between two
structures being compared, unexpected copy counts when collapsing a supercell)
are logged and the computation continues with a best-effort result.
*/
package cryst
