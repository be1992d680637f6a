// Package visual maps raw weather readings onto bounded 0-100 gauge scales.
//
// Nothing here returns an error: degenerate input (zero range, NaN, infinities)
// degrades to a boundary value so a gauge always has something to render.
package visual

import (
	"math"

	"github.com/i474232898/agriweather-dashboard/internal/weather"
)

// DefaultPrecipitationTarget is the daily rainfall (mm) considered "rain-rich".
const DefaultPrecipitationTarget = 10.0

const (
	minPercent = 0.0
	maxPercent = 100.0
)

// GaugeReading is a position on a 0-100 gauge.
type GaugeReading struct {
	Percent float64 `json:"percent"`
}

// Gauges holds the two dashboard gauges derived from a WeatherSummary.
type Gauges struct {
	Temperature   GaugeReading `json:"temperature"`
	Precipitation GaugeReading `json:"precipitation"`
}

// Normalizer computes gauges for a weather summary.
type Normalizer struct {
	// Target is the rainfall level in mm that fills the precipitation gauge.
	Target float64
}

// NewNormalizer returns a Normalizer using target, or the default when target is unusable.
func NewNormalizer(target float64) Normalizer {
	if !usableTarget(target) {
		target = DefaultPrecipitationTarget
	}
	return Normalizer{Target: target}
}

// Normalize derives both gauge readings from w.
func (n Normalizer) Normalize(w weather.WeatherSummary) Gauges {
	return Gauges{
		Temperature: GaugeReading{
			Percent: NormalizeTemperature(w.CurrentTemperatureC, w.DailyMinTempC, w.DailyMaxTempC),
		},
		Precipitation: GaugeReading{
			Percent: NormalizePrecipitation(w.DailyPrecipitationSumMM, n.Target),
		},
	}
}

// NormalizeTemperature places current between today's low and high.
// A zero or non-finite range is replaced by 1; inverted bounds are clamped like any other value.
func NormalizeTemperature(current, low, high float64) float64 {
	span := high - low
	if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		span = 1
	}
	return clamp((current-low)/span*maxPercent, minPercent, maxPercent)
}

// NormalizePrecipitation expresses dailySum as a share of target.
func NormalizePrecipitation(dailySum, target float64) float64 {
	if !usableTarget(target) {
		target = DefaultPrecipitationTarget
	}
	return clamp(dailySum/target*maxPercent, minPercent, maxPercent)
}

func usableTarget(target float64) bool {
	return target > 0 && !math.IsInf(target, 0)
}

// clamp bounds v to [lo, hi]; NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
