/*
 * fct.go, part of Fourier.
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

package fct

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"

	cryst "github.com/michelleliu/Fourier"
)

const defaultPrec = 6

//Writer writes an FCT trajectory.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
	prec      int
	scale     float64
}

//zstd's Decoder.Close returns nothing, so it does not satisfy
//io.ReadCloser on its own.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

func (z zstdql) Close() error {
	z.closeql()
	return nil
}

// NewWriter creates an FCT trajectory for natoms atoms. The header map is
// written as key=value lines before the atom count; a "prec" key overrides
// the number of stored decimals. File names ending in "z" get gzip streams,
// anything else zstd.
func NewWriter(name string, natoms int, header map[string]string) (*Writer, error) {
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("%d atoms requested", natoms), name, []string{"NewWriter"}, true}
	}
	W := new(Writer)
	var err error
	W.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(name)[len(name)-1] {
	case 'z':
		W.h = gzip.NewWriter(W.f)
	default:
		W.h, err = zstd.NewWriter(W.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, Error{"Can't build the compressor " + err.Error(), name, []string{"NewWriter"}, true}
		}
	}
	W.natoms = natoms
	W.filename = name
	W.writeable = true
	W.prec = defaultPrec
	if header != nil {
		if p, ok := header["prec"]; ok {
			prec, err := strconv.Atoi(p)
			if err == nil && prec > 0 {
				W.prec = prec
			} else {
				log.Printf("Invalid precision for trajectory %s. Will use the default", W.filename)
			}
		}
		for k, v := range header {
			W.h.Write([]byte(fmt.Sprintf("%s=%v\n", k, v)))
		}
	}
	W.scale = math.Pow(10, float64(W.prec))
	W.h.Write([]byte(fmt.Sprintf("** %d\n", W.natoms)))
	return W, nil
}

// Len returns the number of atoms per frame.
func (W *Writer) Len() int {
	return W.natoms
}

// WNext writes one frame from a natoms x 3 matrix of fractional coordinates.
// When a lattice is given, its cell parameters go on the frame terminator
// line, so variable-cell trajectories round-trip.
func (W *Writer) WNext(coord *mat.Dense, lattice ...*cryst.CrystalLattice) error {
	if !W.writeable {
		return Error{TrajUnIniWrite, W.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, W.filename, []string{"WNext"}, true}
	}
	r, c := coord.Dims()
	if r != W.natoms || c != 3 {
		return Error{fmt.Sprintf("%dx%d coordinates given, but %dx3 expected", r, c, W.natoms), W.filename, []string{"WNext"}, true}
	}
	for i := 0; i < r; i++ {
		W.h.Write([]byte(fmt.Sprintf("%d %d %d\n",
			int(math.RoundToEven(coord.At(i, 0)*W.scale)),
			int(math.RoundToEven(coord.At(i, 1)*W.scale)),
			int(math.RoundToEven(coord.At(i, 2)*W.scale)))))
	}
	if len(lattice) > 0 && lattice[0] != nil {
		L := lattice[0]
		W.h.Write([]byte(fmt.Sprintf("* %.6f %.6f %.6f %.4f %.4f %.4f\n",
			L.A(), L.B(), L.C(), L.Alpha(), L.Beta(), L.Gamma())))
	} else {
		W.h.Write([]byte("*\n"))
	}
	return nil
}

// WNextStructure writes the atom positions of a structure as one frame,
// cell parameters included.
func (W *Writer) WNextStructure(cs *cryst.CrystalStructure) error {
	coord := mat.NewDense(cs.Len(), 3, nil)
	for i := 0; i < cs.Len(); i++ {
		p := cs.Atom(i).Position
		coord.Set(i, 0, p.AtVec(0))
		coord.Set(i, 1, p.AtVec(1))
		coord.Set(i, 2, p.AtVec(2))
	}
	return W.WNext(coord, cs.Lattice())
}

// Close flushes and closes the trajectory. The Writer cannot be used after
// this call.
func (W *Writer) Close() {
	if W == nil || !W.writeable {
		return
	}
	W.h.Close()
	W.f.Close()
	W.writeable = false
}

//Reader reads an FCT trajectory.
type Reader struct {
	f        *os.File
	z        io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	scale    float64
	readable bool
}

// New opens an FCT trajectory for reading and returns the handle, the
// metadata found in the header (nil when there is none), and error or nil.
func New(name string) (*Reader, map[string]string, error) {
	R := new(Reader)
	R.natoms = -1
	R.filename = name
	var err error
	R.f, err = os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	switch strings.ToLower(name)[len(name)-1] {
	case 'z':
		R.z, err = gzip.NewReader(bufio.NewReader(R.f))
	default:
		var d *zstd.Decoder
		d, err = zstd.NewReader(bufio.NewReader(R.f))
		if err == nil {
			R.z = zstdql{d.Close, d}
		}
	}
	if err != nil {
		return nil, nil, Error{"Can't open the compressed stream " + err.Error(), name, []string{"New"}, true}
	}
	R.h = bufio.NewReader(R.z)
	var m map[string]string
	for {
		str, err := R.h.ReadString('\n')
		if err != nil {
			return nil, nil, Error{"Can't read header " + err.Error(), name, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			fields := strings.Fields(str)
			if len(fields) < 2 {
				return nil, nil, Error{fmt.Sprintf("Can't read atom number from '%s'", str), name, []string{"New"}, true}
			}
			R.natoms, err = strconv.Atoi(fields[1])
			if err != nil {
				return nil, nil, Error{fmt.Sprintf("Can't read atom number from '%s': %s", fields[1], err.Error()), name, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return nil, nil, Error{"Malformed header line " + str, name, []string{"New"}, true}
		}
		if m == nil {
			m = map[string]string{}
		}
		m[kv[0]] = kv[1]
	}
	R.prec = defaultPrec
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			R.prec = prec
		} else {
			log.Printf("Invalid precision for trajectory %s. Will assume the default", R.filename)
		}
	}
	R.scale = math.Pow(10, float64(R.prec))
	R.readable = true
	return R, m, nil
}

// Readable returns true if it is possible to call Next on the handle.
func (R *Reader) Readable() bool {
	return R.readable
}

// Len returns the number of atoms per frame.
func (R *Reader) Len() int {
	return R.natoms
}

// Next puts the next frame's fractional coordinates in c, which must be
// natoms x 3, and returns the frame's lattice when the trajectory carries
// cell parameters (nil otherwise). A nil c skips the frame, still checking
// it for correctness. At the end of the trajectory the returned error is a
// LastFrameError, not an actual failure.
func (R *Reader) Next(c *mat.Dense) (*cryst.CrystalLattice, error) {
	if !R.readable {
		return nil, Error{TrajUnIniRead, R.filename, []string{"Next"}, true}
	}
	if c != nil {
		if r, cols := c.Dims(); r != R.natoms || cols != 3 {
			return nil, Error{fmt.Sprintf("%dx%d matrix given, but %dx3 expected", r, cols, R.natoms), R.filename, []string{"Next"}, true}
		}
	}
	for i := 0; i < R.natoms; i++ {
		b, err := R.h.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && i == 0 {
				R.Close()
				return nil, newLastFrameError(R.filename, "Next")
			}
			return nil, Error{err.Error(), R.filename, []string{"Next"}, true}
		}
		fields := strings.Fields(strings.TrimSuffix(string(b), "\n"))
		if len(fields) != 3 {
			return nil, Error{fmt.Sprintf("Ill formatted coordinate line '%s'", string(b)), R.filename, []string{"Next"}, true}
		}
		for j, v := range fields {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, Error{fmt.Sprintf("Can't parse coordinate %d (%s): %s", j, v, err.Error()), R.filename, []string{"Next"}, true}
			}
			if c != nil {
				c.Set(i, j, float64(n)/R.scale)
			}
		}
	}
	term, err := R.h.ReadString('\n')
	if err != nil {
		return nil, Error{"Can't read the frame termination mark " + err.Error(), R.filename, []string{"Next"}, true}
	}
	if !strings.HasPrefix(term, "*") {
		return nil, Error{fmt.Sprintf("Frame termination mark missing, got '%s'", term), R.filename, []string{"Next"}, true}
	}
	fields := strings.Fields(strings.TrimSuffix(term, "\n"))
	if len(fields) < 7 {
		return nil, nil
	}
	var cell [6]float64
	for i := 0; i < 6; i++ {
		cell[i], err = strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, Error{fmt.Sprintf("Can't parse cell parameter %d (%s): %s", i, fields[i+1], err.Error()), R.filename, []string{"Next"}, true}
		}
	}
	L, err := cryst.NewCrystalLattice(cell[0], cell[1], cell[2], cell[3], cell[4], cell[5])
	if err != nil {
		return nil, Error{"Frame carries an impossible cell: " + err.Error(), R.filename, []string{"Next"}, true}
	}
	return L, nil
}

// Close closes the trajectory. The Reader cannot be used after this call.
func (R *Reader) Close() {
	if R == nil || !R.readable {
		return
	}
	R.z.Close()
	R.f.Close()
	R.readable = false
}

//Error is the error type for trajectory IO.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("fct file %s error: %s", err.filename, err.message)
}

// Decorate adds the given string to the decoration slice and returns it.
// An empty string only queries the current decoration.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the name of the trajectory file.
func (err Error) FileName() string { return err.filename }

// Format returns the format of the trajectory.
func (err Error) Format() string { return "fct" }

// Critical reports whether the error leaves the handle unusable.
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Trajectory object uninitialized to read"
	TrajUnIniWrite = "Trajectory object uninitialized to write"
	NilCoordinates = "Given nil coordinates"
)

//lastFrameError signals a normal end of trajectory.
type lastFrameError struct {
	filename string
	deco     []string
}

func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) FileName() string { return E.filename }

func (E lastFrameError) Format() string { return "fct" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newLastFrameError(filename, caller string) lastFrameError {
	return lastFrameError{filename: filename, deco: []string{caller}}
}

// IsLastFrame returns whether an error from Next means a normal end of the
// trajectory.
func IsLastFrame(err error) bool {
	_, ok := err.(interface{ NormalLastFrameTermination() })
	return ok
}
