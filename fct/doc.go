/*
 * doc.go, part of Fourier.
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

/*
Package fct implements a compressed trajectory format for fractional
coordinates (FCT), meant for long molecular-dynamics runs on crystal
supercells that are later collapsed back onto one unit cell.

The format is a compressed text stream. An optional header of key=value
lines is followed by a line "** natoms". Each frame holds natoms lines with
the fractional coordinates as scaled integers, and ends with a "*" line that
optionally carries the six cell parameters of the frame, so trajectories at
constant pressure keep their fluctuating cell.

Fractional coordinates are dimensionless and of order one, so they are
stored as integers scaled by 10^prec (default 6). The streams compress with
zstd, or gzip for file names ending in "z".
*/
package fct
