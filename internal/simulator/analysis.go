package simulator

import (
	"fmt"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/yourusername/tribo-console/internal/backend"
)

// analyze renders the per-trial coefficients and the averaged summary. Callers hold s.mu.
func (s *Server) analyze() error {
	analysisDir := filepath.Join(s.opts.ImageDir, categoryDirs[backend.CategoryAnalysis])
	summaryDir := filepath.Join(s.opts.ImageDir, categoryDirs[backend.CategorySummary])

	muS := make([]chart.Value, 0, len(s.trials))
	muD := make([]chart.Value, 0, len(s.trials))
	var sumS, sumD float64
	for i, t := range s.trials {
		label := fmt.Sprintf("#%d", i+1)
		muS = append(muS, chart.Value{Label: label, Value: t.MuS})
		muD = append(muD, chart.Value{Label: label, Value: t.MuD})
		sumS += t.MuS
		sumD += t.MuD
	}

	if err := renderBarChart(filepath.Join(analysisDir, "grafico_01_mu_s.png"), "Static friction coefficient per trial", muS); err != nil {
		return err
	}
	if err := renderBarChart(filepath.Join(analysisDir, "grafico_02_mu_d.png"), "Dynamic friction coefficient per trial", muD); err != nil {
		return err
	}

	n := float64(len(s.trials))
	mean := []chart.Value{
		{Label: "mu_s", Value: sumS / n},
		{Label: "mu_d", Value: sumD / n},
	}
	return renderBarChart(filepath.Join(summaryDir, "grafico_atrito_medio.png"), fmt.Sprintf("Mean friction coefficients (%d trials)", len(s.trials)), mean)
}
