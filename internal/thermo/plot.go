package thermo

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot draws the given fields versus time and saves the plot to filename. The
// format is taken from the extension (png, svg, pdf...).
func Plot(recs []Record, fields []Field, filename string) error {
	if len(recs) == 0 {
		return fmt.Errorf("no records to plot")
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields to plot")
	}
	p := plot.New()
	p.Title.Text = "Trajectory"
	p.X.Label.Text = "Time"
	p.Add(plotter.NewGrid())
	for i, f := range fields {
		pts := make(plotter.XYs, 0, len(recs))
		for _, r := range recs {
			v, err := r.Value(f)
			if err != nil {
				return err
			}
			pts = append(pts, plotter.XY{X: r.Time, Y: v})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plotting %s: %w", f, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(string(f), line)
	}
	if len(fields) == 1 {
		p.Y.Label.Text = string(fields[0])
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, filename)
}
