package simulator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	frictionColor = drawing.ColorFromHex("c0392b")
	guideColor    = drawing.ColorFromHex("888888")
)

// renderTrialChart plots the friction force against the applied force for one trial
func renderTrialChart(path string, t Trial) error {
	_, static, dynamic := t.Forces()
	if static <= 0 && dynamic <= 0 {
		return fmt.Errorf("invalid friction forces for trial %s", t.Stamp)
	}
	end := max(static, dynamic) * 1.6
	line := chart.Style{StrokeColor: frictionColor, StrokeWidth: 3}
	guide := chart.Style{StrokeColor: guideColor, StrokeWidth: 1, StrokeDashArray: []float64{5, 5}}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Static and dynamic friction (LBC=%d LBT=%d m=%.1f g)", t.LBC, t.LBT, t.MassG),
		Width:  1024,
		Height: 600,
		XAxis: chart.XAxis{
			Name:  "Applied force (N)",
			Range: &chart.ContinuousRange{Min: 0, Max: end * 1.05},
		},
		YAxis: chart.YAxis{
			Name:  "Friction force (N)",
			Range: &chart.ContinuousRange{Min: 0, Max: max(static, dynamic) * 1.15},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Static %.3f N", static),
				XValues: []float64{0, static, static},
				YValues: []float64{0, static, dynamic},
				Style:   line,
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Dynamic %.3f N", dynamic),
				XValues: []float64{static, end},
				YValues: []float64{dynamic, dynamic},
				Style:   line,
			},
			chart.ContinuousSeries{
				Name:    "Static limit",
				XValues: []float64{0, end},
				YValues: []float64{static, static},
				Style:   guide,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return renderTo(path, graph.Render)
}

// renderBarChart plots one bar per value
func renderBarChart(path, title string, values []chart.Value) error {
	if len(values) == 0 {
		return fmt.Errorf("no values to plot for %s", filepath.Base(path))
	}
	top := 0.0
	for _, v := range values {
		top = max(top, v.Value)
	}
	if top <= 0 {
		top = 1
	}
	graph := chart.BarChart{
		Title:    title,
		Width:    1024,
		Height:   600,
		BarWidth: max(4, min(40, 800/(2*len(values)))),
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.2},
		},
		Bars: values,
	}
	return renderTo(path, graph.Render)
}

func renderTo(path string, render func(chart.RendererProvider, io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
