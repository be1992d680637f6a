// Package view assembles the presentation model rendered by the dashboard.
package view

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/i474232898/agriweather-dashboard/internal/insight"
	"github.com/i474232898/agriweather-dashboard/internal/visual"
	"github.com/i474232898/agriweather-dashboard/internal/weather"
)

const (
	// InsightsPlaceholder is shown when the advisory carries no usable guidance.
	InsightsPlaceholder = "Provide a Gemini API key to receive detailed, crop-specific recommendations."
	// StableAdvisory is shown in place of a missing advisory text.
	StableAdvisory = "Weather looks stable. Continue regular crop care."
)

var severityColor = map[weather.Severity]string{
	weather.SeverityInfo:    "#0d9488",
	weather.SeverityWarning: "#f97316",
	weather.SeverityAlert:   "#dc2626",
}

// SeverityColor returns the card accent colour for s. Unknown severities render as info.
func SeverityColor(s weather.Severity) string {
	if !s.Valid() {
		s = weather.SeverityInfo
	}
	return severityColor[s]
}

// PrettyIndicatorName turns "low_rainfall" into "Low Rainfall".
func PrettyIndicatorName(indicator string) string {
	tokens := strings.Split(indicator, "_")
	for i, tok := range tokens {
		r, size := utf8.DecodeRuneInString(tok)
		if size == 0 {
			continue
		}
		tokens[i] = string(unicode.ToUpper(r)) + tok[size:]
	}
	return strings.Join(tokens, " ")
}

// IndicatorCard is a styled agronomic indicator.
type IndicatorCard struct {
	Indicator string           `json:"indicator"`
	Title     string           `json:"title"`
	Severity  weather.Severity `json:"severity"`
	Color     string           `json:"color"`
	Message   string           `json:"message"`
}

// GaugeView is a gauge reading plus the captions the dashboard shows around it.
type GaugeView struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Percent  float64 `json:"percent"`
	Footnote string  `json:"footnote"`
}

// Dashboard is the complete presentation model for one advisory payload.
type Dashboard struct {
	Crop                string                 `json:"crop"`
	SummaryDate         string                 `json:"summary_date"`
	Weather             weather.WeatherSummary `json:"weather"`
	TemperatureGauge    GaugeView              `json:"temperature_gauge"`
	PrecipitationGauge  GaugeView              `json:"precipitation_gauge"`
	Advisory            string                 `json:"advisory"`
	Indicators          []IndicatorCard        `json:"indicators"`
	Insights            []string               `json:"insights"`
	InsightsPlaceholder string                 `json:"insights_placeholder,omitempty"`
	Stale               bool                   `json:"stale"`
}

// Builder derives dashboards from payloads. It holds no per-render state.
type Builder struct {
	normalizer visual.Normalizer
	extractor  *insight.Extractor
}

// NewBuilder creates a Builder.
func NewBuilder(normalizer visual.Normalizer, extractor *insight.Extractor) *Builder {
	if extractor == nil {
		extractor = insight.NewExtractor()
	}
	return &Builder{normalizer: normalizer, extractor: extractor}
}

// Build recomputes every derived value from p.
func (b *Builder) Build(p weather.AdvisoryPayload) Dashboard {
	w := p.Weather
	gauges := b.normalizer.Normalize(w)

	d := Dashboard{
		Crop:        p.Crop,
		SummaryDate: p.SummaryDate,
		Weather:     w,
		TemperatureGauge: GaugeView{
			Title:    "Temperature Trend",
			Subtitle: "Current vs. daily low/high",
			Percent:  gauges.Temperature.Percent,
			Footnote: "Current: " + formatNumber(w.CurrentTemperatureC) + "°C",
		},
		PrecipitationGauge: GaugeView{
			Title:    "Rain Outlook",
			Subtitle: "Total today vs. " + formatNumber(b.normalizer.Target) + " mm target",
			Percent:  gauges.Precipitation.Percent,
			Footnote: "Expected rainfall: " + formatNumber(w.DailyPrecipitationSumMM) + " mm",
		},
		Advisory:   StableAdvisory,
		Indicators: make([]IndicatorCard, 0, len(p.Indicators)),
		Insights:   b.extractor.ExtractOptional(p.AdvisoryText),
	}

	if p.AdvisoryText != nil && strings.TrimSpace(*p.AdvisoryText) != "" {
		d.Advisory = *p.AdvisoryText
	}
	if len(d.Insights) == 0 {
		d.InsightsPlaceholder = InsightsPlaceholder
	}

	for _, ind := range p.Indicators {
		d.Indicators = append(d.Indicators, IndicatorCard{
			Indicator: ind.Indicator,
			Title:     PrettyIndicatorName(ind.Indicator),
			Severity:  ind.Severity,
			Color:     SeverityColor(ind.Severity),
			Message:   ind.Message,
		})
	}
	return d
}
