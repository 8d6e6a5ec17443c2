/*
 * plot.go, part of Fourier.
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

//Package crystplot draws quick diagnostic plots for structure comparisons
//and supercell collapses. The plots are meant for inspection, not
//publication.
package crystplot

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	cryst "github.com/michelleliu/Fourier"
)

// DisplacementPlot saves a bar chart of the per-atom minimum-image Cartesian
// displacement, in A, between two structures whose atoms correspond index by
// index. Every atom appears, hydrogens included; the bars are labelled with
// the atom labels of lhs. The plot goes to plotname with ".png" appended.
func DisplacementPlot(lhs, rhs *cryst.CrystalStructure, title, plotname string) error {
	if lhs == nil || rhs == nil {
		panic("Given nil data")
	}
	if lhs.Len() != rhs.Len() {
		return fmt.Errorf("crystplot: structures have %d and %d atoms", lhs.Len(), rhs.Len())
	}
	vals := make(plotter.Values, lhs.Len())
	labels := make([]string, lhs.Len())
	for i := 0; i < lhs.Len(); i++ {
		vals[i] = lhs.Lattice().ShortestDistance(lhs.Atom(i).Position, rhs.Atom(i).Position)
		labels[i] = lhs.Atom(i).Label
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "displacement / A"
	bars, err := plotter.NewBarChart(vals, vg.Points(15))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(labels...)
	return p.Save(6*vg.Inch, 4*vg.Inch, fmt.Sprintf("%s.png", plotname))
}

// SpreadHistogram saves a histogram of the distances, in A, of collapsed
// supercell images from their per-atom mean position, the shape of the
// thermal or disorder cloud left after a collapse. The positions argument
// has the layout returned by CollapseSupercellSymmetric: one list of
// fractional image positions per atom. The plot goes to plotname with
// ".png" appended.
func SpreadHistogram(positions [][]*mat.VecDense, lattice *cryst.CrystalLattice, title, plotname string) error {
	if positions == nil || lattice == nil {
		panic("Given nil data")
	}
	var dists plotter.Values
	for _, imgs := range positions {
		if len(imgs) == 0 {
			continue
		}
		mean := mat.NewVecDense(3, nil)
		for _, img := range imgs {
			mean.AddVec(mean, img)
		}
		mean.ScaleVec(1/float64(len(imgs)), mean)
		for _, img := range imgs {
			dists = append(dists, lattice.ShortestDistance(mean, img))
		}
	}
	if len(dists) == 0 {
		return fmt.Errorf("crystplot: no image positions to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "distance from mean / A"
	h, err := plotter.NewHist(dists, 16)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(6*vg.Inch, 4*vg.Inch, fmt.Sprintf("%s.png", plotname))
}
