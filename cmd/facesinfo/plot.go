package main

import (
	"image/color"
	"os"
	"path/filepath"

	"github.com/Noofbiz/faces/datasets"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotCoverage writes a bar chart with the number of real and fake files and
// how many fake files the index space reaches.
func plotCoverage(path string, c datasets.Coverage) error {
	unreachable := len(c.Unreachable())
	values := plotter.Values{
		float64(len(c.RealNames)),
		float64(len(c.FakeNames)),
		float64(len(c.FakeNames) - unreachable),
		float64(unreachable),
	}

	p := plot.New()
	p.Title.Text = "Faces dataset: files per class and fake coverage"
	p.Y.Label.Text = "files"

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.Add(plotter.NewGrid())
	p.NominalX("real", "fake", "fake reached", "fake unreachable")

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
