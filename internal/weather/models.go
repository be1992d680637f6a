package weather

import (
	"fmt"
	"strings"
)

// Severity classifies how urgently an agronomic indicator needs attention.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityAlert   Severity = "alert"
)

// Valid reports whether s is one of the severities the advisory backend emits.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityAlert:
		return true
	default:
		return false
	}
}

// Location is a point for which an advisory is requested.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key returns a canonical string key for indexing this location in stores.
// Coordinates are rounded to three decimals (~100 m), the precision the dashboard form uses.
func (l Location) Key() string {
	return fmt.Sprintf("%.3f:%.3f", l.Latitude, l.Longitude)
}

// WeatherSummary is today's weather snapshot for a location as reported upstream.
// Min <= max is expected but not guaranteed by the source.
type WeatherSummary struct {
	Latitude                float64 `json:"latitude"`
	Longitude               float64 `json:"longitude"`
	Timezone                string  `json:"timezone"`
	CurrentTemperatureC     float64 `json:"current_temperature_c"`
	CurrentPrecipitationMM  float64 `json:"current_precipitation_mm"`
	DailyPrecipitationSumMM float64 `json:"daily_precipitation_sum_mm"`
	DailyMaxTempC           float64 `json:"daily_max_temp_c"`
	DailyMinTempC           float64 `json:"daily_min_temp_c"`
	ObservationTime         *string `json:"observation_time,omitempty"`
}

// AgronomicIndicator is a single risk signal computed by the advisory backend.
type AgronomicIndicator struct {
	Indicator string   `json:"indicator"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
}

// AdvisoryPayload aggregates everything the dashboard renders for one crop and day.
type AdvisoryPayload struct {
	Crop         string               `json:"crop"`
	SummaryDate  string               `json:"summary_date"`
	Weather      WeatherSummary       `json:"weather"`
	Indicators   []AgronomicIndicator `json:"indicators"`
	AdvisoryText *string              `json:"advisory_text,omitempty"`
}

// SummaryRequest identifies an advisory request against the upstream backend.
type SummaryRequest struct {
	Location Location
	Crop     string
}

// Key returns the cache key for this request.
func (r SummaryRequest) Key() string {
	return r.Location.Key() + ":" + strings.ToLower(strings.TrimSpace(r.Crop))
}
