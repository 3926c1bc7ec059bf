package domain

import (
	"fmt"
	"time"
)

// Tier is the final four-value flood-risk verdict.
type Tier string

const (
	TierSafe     Tier = "SAFE"
	TierWatch    Tier = "WATCH"
	TierWarning  Tier = "WARNING"
	TierCritical Tier = "CRITICAL"
)

// Rain source provenance values.
const (
	RainSourcePagasa    = "pagasa"
	RainSourceOpenMeteo = "open-meteo"
	RainSourceNone      = "none"
)

// RiskAssessment is the immutable result of fusing rainfall and
// susceptibility signals. Score is always Susceptibility.Level times
// RainTrigger, and Tier is a pure function of Score except for the
// degraded-mode override documented on AssessRisk.
type RiskAssessment struct {
	Tier              Tier           `json:"tier"`
	Score             int            `json:"score"`
	Susceptibility    Susceptibility `json:"susceptibility"`
	RainTrigger       int            `json:"rain_trigger"` // 0-3
	RainLabel         string         `json:"rain_label"`
	RainSource        string         `json:"rain_source"`
	RainMM            float64        `json:"rain_mm"`
	RainDetail        string         `json:"rain_detail"`
	ForecastAvailable bool           `json:"forecast_available"`
	Description       string         `json:"description"`
	AssessedAt        time.Time      `json:"assessed_at"`
}

// AlertEvent is the serialized form published to the alerts topic.
type AlertEvent struct {
	Location   ResolvedLocation `json:"location"`
	Assessment RiskAssessment   `json:"assessment"`
}

// ClassifyRainPagasa maps an absolute rainfall forecast in mm to a 0-3
// trigger using PAGASA's thresholds (inclusive upper bounds).
func ClassifyRainPagasa(mm float64) (int, string) {
	switch {
	case mm <= 40:
		return 0, "Light"
	case mm <= 80:
		return 1, "Moderate"
	case mm <= 120:
		return 2, "Heavy"
	default:
		return 3, "Intense"
	}
}

// ClassifyRainHourly maps a 6-hour cumulative rainfall in mm to a 0-3
// trigger. Thresholds are scaled down for the shorter window.
func ClassifyRainHourly(mm6h float64) (int, string) {
	switch {
	case mm6h < 7.5:
		return 0, "Light"
	case mm6h < 15:
		return 1, "Moderate"
	case mm6h < 30:
		return 2, "Heavy"
	default:
		return 3, "Intense"
	}
}

var tierThresholds = []struct {
	maxScore    int
	tier        Tier
	description string
}{
	{0, TierSafe, "No immediate flood risk."},
	{3, TierWatch, "Low flood risk. Stay alert for updates."},
	{6, TierWarning, "Moderate flood risk. Prepare to act."},
}

func scoreToTier(score int) (Tier, string) {
	for _, t := range tierThresholds {
		if score <= t.maxScore {
			return t.tier, t.description
		}
	}
	return TierCritical, "High flood risk. Act immediately."
}

// AssessRisk fuses the susceptibility level with whichever rainfall signal
// is available, preferring the authoritative PAGASA forecast over the
// Open-Meteo 6-hour total.
//
// When neither forecast is available the trigger is 0 and
// ForecastAvailable is false. In that state a susceptibility level of 3 or
// higher forces the tier to WATCH: missing data must not read as SAFE in a
// flood-prone area.
func AssessRisk(suscept Susceptibility, pagasa RainfallForecast, hourly HourlyForecast) RiskAssessment {
	var (
		trigger           int
		rainLabel         string
		rainSource        string
		rainMM            float64
		rainDetail        string
		forecastAvailable bool
	)

	switch {
	case pagasa.Available:
		trigger, rainLabel = ClassifyRainPagasa(pagasa.RainfallMM)
		rainSource = RainSourcePagasa
		rainMM = pagasa.RainfallMM
		rainDetail = fmt.Sprintf("PAGASA forecast: %.0fmm", pagasa.RainfallMM)
		if hourly.Available {
			rainDetail += fmt.Sprintf(" | Open-Meteo 6hr: %.1fmm", hourly.Rain6hMM)
		}
		forecastAvailable = true

	case hourly.Available:
		trigger, rainLabel = ClassifyRainHourly(hourly.Rain6hMM)
		rainSource = RainSourceOpenMeteo
		rainMM = hourly.Rain6hMM
		rainDetail = fmt.Sprintf("Open-Meteo 6hr: %.1fmm, 3hr: %.1fmm", hourly.Rain6hMM, hourly.Rain3hMM)
		forecastAvailable = true

	default:
		trigger = 0
		rainLabel = "Unknown"
		rainSource = RainSourceNone
		rainDetail = "No forecast data available"
	}

	score := suscept.Level * trigger
	tier, description := scoreToTier(score)

	if !forecastAvailable {
		description += " (no forecast data)"
		if suscept.Level >= 3 {
			tier = TierWatch
			description = "Flood-prone area. No forecast data, stay alert."
		}
	}

	return RiskAssessment{
		Tier:              tier,
		Score:             score,
		Susceptibility:    suscept,
		RainTrigger:       trigger,
		RainLabel:         rainLabel,
		RainSource:        rainSource,
		RainMM:            rainMM,
		RainDetail:        rainDetail,
		ForecastAvailable: forecastAvailable,
		Description:       description,
		AssessedAt:        clock.Now().UTC(),
	}
}
