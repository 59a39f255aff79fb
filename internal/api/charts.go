package api

import (
	"net/http"

	charts "github.com/vicanso/go-charts/v2"

	"wealthlens/pkg/wealthlens"
)

const (
	chartWidth  = 960
	chartHeight = 480
)

// performanceChart renders the portfolio and benchmark value series as
// a PNG line chart.
func (h *handler) performanceChart(w http.ResponseWriter, r *http.Request) {
	analysis, ok := h.analysisForChart(w, r)
	if !ok {
		return
	}

	png, err := renderLineChart(
		"Portfolio vs Benchmark",
		analysis.Dates,
		[]string{"Portfolio", wealthlens.BenchmarkSymbol},
		[][]float64{analysis.PortfolioValue, analysis.BenchmarkValue},
	)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, wealthlens.WrapError(wealthlens.ErrCodeInternal, "render chart", err))
		return
	}
	writePNG(w, png)
}

// drawdownChart renders the drawdown series as a PNG line chart.
func (h *handler) drawdownChart(w http.ResponseWriter, r *http.Request) {
	analysis, ok := h.analysisForChart(w, r)
	if !ok {
		return
	}

	png, err := renderLineChart(
		"Drawdown (%)",
		analysis.Dates,
		[]string{"Drawdown"},
		[][]float64{analysis.Drawdown},
	)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, wealthlens.WrapError(wealthlens.ErrCodeInternal, "render chart", err))
		return
	}
	writePNG(w, png)
}

func (h *handler) analysisForChart(w http.ResponseWriter, r *http.Request) (*wealthlens.Analysis, bool) {
	selection, err := selectionFromList(r.URL.Query().Get("symbols"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return nil, false
	}

	analysis, err := h.core.AnalyzePortfolio(selection)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return nil, false
	}
	if analysis == nil {
		writeErrorResponse(w, http.StatusNotFound, wealthlens.NewError(wealthlens.ErrCodeNotFound, "no portfolio data to chart"))
		return nil, false
	}
	return analysis, true
}

func renderLineChart(title string, dates []string, legend []string, series [][]float64) ([]byte, error) {
	painter, err := charts.LineRender(
		series,
		charts.PNGTypeOption(),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.TitleTextOptionFunc(title),
		charts.LegendLabelsOptionFunc(legend),
		charts.XAxisDataOptionFunc(thinLabels(dates, 12), charts.FalseFlag()),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// thinLabels keeps the axis readable for long histories by blanking
// all but roughly maxShown evenly spaced labels. The slice length must
// stay equal to the series length, so labels are blanked, not dropped.
func thinLabels(labels []string, maxShown int) []string {
	if maxShown <= 0 || len(labels) <= maxShown {
		return labels
	}
	step := (len(labels) + maxShown - 1) / maxShown
	thinned := make([]string, len(labels))
	for i, label := range labels {
		if i%step == 0 || i == len(labels)-1 {
			thinned[i] = label
		}
	}
	return thinned
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
