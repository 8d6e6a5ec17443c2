/*
 * conversion.go, part of Fourier.
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

//This provides useful conversion factors and other constants

//Conversions
const (
	Deg2Rad = 0.017453292519943295
	Rad2Deg = 1 / 0.017453292519943295
	A2Bohr  = 1.889725989
	Bohr2A  = 1 / 1.889725989
)

//Others
const (
	//DefaultEpsilon is the tolerance used by all approximate comparisons
	//in the package when no explicit epsilon is given.
	DefaultEpsilon = 1e-4

	//CollapseThreshold is the maximum distance, in A, at which two atoms in a
	//collapsed supercell are taken to be copies of the same atom.
	CollapseThreshold = 0.3
)
