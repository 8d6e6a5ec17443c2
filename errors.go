/*
 * errors.go, part of Fourier.
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

// Error is the interface all errors returned by this library implement. The
// Decorate method adds information to the error as it is passed up, without
// changing its type or wrapping it into something else. Each call returns the
// current decoration slice; passing an empty string only queries it. The
// decoration slice holds the functions in the calling stack, each optionally
// followed by extra info in the format "FunctionName: extra info".
type Error interface {
	Error() string
	Decorate(string) []string
}

// CError is the concrete error type for most failures in the library.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

func (err CError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// InconsistentSymmetryError reports an operator set that is syntactically a
// group but cannot be a crystallographic space group: a rotation determinant
// other than +-1, a missing identity centring, a rotation order outside
// {1,2,3,4,6}, or a representative-rotation tally that matches no crystal
// system. It separates malformed symmetry from ordinary malformed input.
type InconsistentSymmetryError struct {
	msg  string
	deco []string
}

func (err InconsistentSymmetryError) Error() string { return err.msg }

func (err InconsistentSymmetryError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// AmbiguousMatchError reports that the vote over (operator, shift) candidates
// in FindMatch did not produce a unique majority, i.e. the two structures are
// not related by a single symmetry operation plus shift.
type AmbiguousMatchError struct {
	msg  string
	deco []string
}

func (err AmbiguousMatchError) Error() string { return err.msg }

func (err AmbiguousMatchError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//errDecorate is a convenience to decorate any supported error in place.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

// PanicMsg is the type used for the text of panics raised by the library,
// so they can be recovered selectively.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNot3Vector        = PanicMsg("cryst: A 3-element vector is required")
	ErrNot3x3Matrix      = PanicMsg("cryst: A 3x3 matrix is required")
	ErrNilData           = PanicMsg("cryst: Nil data given")
	ErrSingularMatrix    = PanicMsg("cryst: Matrix is singular")
	ErrImpossibleLattice = PanicMsg("cryst: The given cell parameters do not define a valid lattice")
)
