package view

import (
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderGauges writes an HTML page with the temperature and rain gauges of d.
func RenderGauges(w io.Writer, d Dashboard) error {
	page := components.NewPage()
	page.PageTitle = "AgriWeather Advisor - " + d.Crop
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		gaugeChart(d.TemperatureGauge),
		gaugeChart(d.PrecipitationGauge),
	)
	return page.Render(w)
}

func gaugeChart(g GaugeView) *charts.Gauge {
	chart := charts.NewGauge()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "480px",
			Height: "360px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    g.Title,
			Subtitle: g.Subtitle + " | " + g.Footnote,
		}),
	)
	chart.AddSeries(g.Title, []opts.GaugeData{
		{Name: "%", Value: math.Round(g.Percent*10) / 10},
	})
	return chart
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
