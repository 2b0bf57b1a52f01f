/*
 * MIT License
 *
 * Copyright (c) 2023 EASL and the vHive community
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package chart renders the hardware-lottery plots as PNG files.
package chart

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/vhive-serverless/hwlottery/pkg/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	log "github.com/sirupsen/logrus"
)

const (
	width  = 8 * vg.Inch
	height = 4 * vg.Inch

	allStages = "all"
)

// OutputPath returns plots/{stage}/{name}.png below root.
func OutputPath(root, stage, name string) string {
	if stage == "" {
		stage = allStages
	}
	return filepath.Join(root, stage, name+".png")
}

// PlotECDF draws one empirical CDF per series.
func PlotECDF(path, title, xLabel string, series map[string][]float64) error {
	if len(series) == 0 {
		return analysis.ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "ECDF"
	p.Y.Min = 0
	p.Y.Max = 1
	p.Legend.Top = true
	p.Legend.Left = false
	p.Add(plotter.NewGrid())

	for i, name := range sortedNames(series) {
		ecdf := analysis.NewECDF(series[name])
		if ecdf.Len() == 0 {
			continue
		}

		points := make(plotter.XYs, ecdf.Len())
		for j := range points {
			points[j].X = ecdf.X[j]
			points[j].Y = ecdf.Y[j]
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return errors.Wrapf(err, "failed to plot %s", name)
		}
		line.StepStyle = plotter.PostStep
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)

		p.Add(line)
		p.Legend.Add(name, line)
	}

	return save(p, path)
}

// PlotBox draws a box plot per group, ordered by group name.
func PlotBox(path, title, yLabel string, groups map[string][]float64) error {
	if len(groups) == 0 {
		return analysis.ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel

	names := sortedNames(groups)
	for i, name := range names {
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(groups[name]))
		if err != nil {
			return errors.Wrapf(err, "failed to plot %s", name)
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
	}
	p.NominalX(names...)

	return save(p, path)
}

// PlotShare draws the fraction of invocations per CPU type of one group.
func PlotShare(path, title string, rows []analysis.ShareRow) error {
	if len(rows) == 0 {
		return analysis.ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Share of invocations"
	p.Y.Min = 0
	p.Y.Max = 1

	values := plotter.Values(lo.Map(rows, func(row analysis.ShareRow, _ int) float64 { return row.Share }))
	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return errors.Wrap(err, "failed to plot cpu share")
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(lo.Map(rows, func(row analysis.ShareRow, _ int) string { return row.CPUType })...)

	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.Wrapf(err, "failed to create plot directory for %s", path)
	}

	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}

	log.Debugf("Saved plot %s", path)
	return nil
}

func sortedNames(m map[string][]float64) []string {
	names := lo.Keys(m)
	sort.Strings(names)
	return names
}
