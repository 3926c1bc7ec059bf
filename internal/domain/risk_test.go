package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suscept(level int) Susceptibility {
	return Susceptibility{Level: level, Label: SusceptibilityLabels[level], Source: SusceptibilitySourceMGB}
}

func TestClassifyRainPagasa_Boundaries(t *testing.T) {
	cases := []struct {
		mm      float64
		trigger int
		label   string
	}{
		{0, 0, "Light"},
		{40, 0, "Light"},
		{40.001, 1, "Moderate"},
		{80, 1, "Moderate"},
		{80.001, 2, "Heavy"},
		{120, 2, "Heavy"},
		{120.001, 3, "Intense"},
		{150, 3, "Intense"},
	}
	for _, tc := range cases {
		trigger, label := ClassifyRainPagasa(tc.mm)
		assert.Equal(t, tc.trigger, trigger, "mm=%v", tc.mm)
		assert.Equal(t, tc.label, label, "mm=%v", tc.mm)
	}
}

func TestClassifyRainHourly_Boundaries(t *testing.T) {
	cases := []struct {
		mm      float64
		trigger int
	}{
		{0, 0},
		{7.4, 0},
		{7.5, 1},
		{14.9, 1},
		{15, 2},
		{29.9, 2},
		{30, 3},
		{55, 3},
	}
	for _, tc := range cases {
		trigger, _ := ClassifyRainHourly(tc.mm)
		assert.Equal(t, tc.trigger, trigger, "mm=%v", tc.mm)
	}
}

func TestClassifyPagasaClass(t *testing.T) {
	class, label := ClassifyPagasaClass(95)
	assert.Equal(t, 3, class)
	assert.Equal(t, "Heavy (80-120mm)", label)

	class, _ = ClassifyPagasaClass(40)
	assert.Equal(t, 1, class)
	class, _ = ClassifyPagasaClass(121)
	assert.Equal(t, 4, class)
}

// pagasaForTrigger returns an available forecast whose mm lands in the
// requested trigger band.
func pagasaForTrigger(trigger int) RainfallForecast {
	mm := map[int]float64{0: 10, 1: 50, 2: 100, 3: 150}[trigger]
	class, label := ClassifyPagasaClass(mm)
	return RainfallForecast{RainfallMM: mm, Class: class, ClassLabel: label, Available: true}
}

func TestAssessRisk_ScoreAndTierGrid(t *testing.T) {
	expectTier := func(score int) Tier {
		switch {
		case score == 0:
			return TierSafe
		case score <= 3:
			return TierWatch
		case score <= 6:
			return TierWarning
		default:
			return TierCritical
		}
	}

	for level := 1; level <= 4; level++ {
		for trigger := 0; trigger <= 3; trigger++ {
			a := AssessRisk(suscept(level), pagasaForTrigger(trigger), HourlyForecast{})

			assert.Equal(t, level*trigger, a.Score, "level=%d trigger=%d", level, trigger)
			assert.Equal(t, trigger, a.RainTrigger, "level=%d trigger=%d", level, trigger)
			assert.Equal(t, expectTier(level*trigger), a.Tier, "level=%d trigger=%d", level, trigger)
			assert.True(t, a.ForecastAvailable)
		}
	}
}

func TestAssessRisk_PrefersPagasa(t *testing.T) {
	pagasa := RainfallForecast{RainfallMM: 100, Class: 3, ClassLabel: "Heavy (80-120mm)", Available: true}
	hourly := HourlyForecast{Rain6hMM: 2, Rain3hMM: 1, Available: true}

	a := AssessRisk(suscept(2), pagasa, hourly)

	assert.Equal(t, RainSourcePagasa, a.RainSource)
	assert.Equal(t, 2, a.RainTrigger)
	assert.Equal(t, 100.0, a.RainMM)
	assert.Contains(t, a.RainDetail, "PAGASA forecast: 100mm")
	assert.Contains(t, a.RainDetail, "Open-Meteo 6hr: 2.0mm")
}

func TestAssessRisk_FallsBackToHourly(t *testing.T) {
	hourly := HourlyForecast{Rain6hMM: 18.2, Rain3hMM: 9.1, PeakHourlyMM: 6.0, Available: true}

	a := AssessRisk(suscept(3), RainfallForecast{}, hourly)

	assert.Equal(t, RainSourceOpenMeteo, a.RainSource)
	assert.Equal(t, 2, a.RainTrigger)
	assert.Equal(t, 18.2, a.RainMM)
	assert.Equal(t, 6, a.Score)
	assert.Equal(t, TierWarning, a.Tier)
	assert.Contains(t, a.RainDetail, "6hr: 18.2mm")
	assert.Contains(t, a.RainDetail, "3hr: 9.1mm")
}

func TestAssessRisk_NoForecast_LowSusceptibility(t *testing.T) {
	a := AssessRisk(suscept(1), RainfallForecast{}, HourlyForecast{})

	assert.False(t, a.ForecastAvailable)
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, TierSafe, a.Tier, "override must not fire below level 3")
	assert.Equal(t, RainSourceNone, a.RainSource)
	assert.Contains(t, a.Description, "no forecast data")
}

func TestAssessRisk_NoForecast_OverrideBoundary(t *testing.T) {
	// Level 2 stays SAFE, level 3 and 4 are forced to WATCH.
	a2 := AssessRisk(suscept(2), RainfallForecast{}, HourlyForecast{})
	assert.Equal(t, TierSafe, a2.Tier)

	a3 := AssessRisk(suscept(3), RainfallForecast{}, HourlyForecast{})
	assert.Equal(t, TierWatch, a3.Tier)
	assert.Equal(t, 0, a3.Score)
	assert.Contains(t, a3.Description, "Flood-prone area")

	a4 := AssessRisk(suscept(4), RainfallForecast{}, HourlyForecast{})
	assert.Equal(t, TierWatch, a4.Tier)
}

func TestAssessRisk_EndToEndScenarios(t *testing.T) {
	// Very high susceptibility with intense rainfall is CRITICAL.
	a := AssessRisk(suscept(4), pagasaForTrigger(3), HourlyForecast{})
	require.Equal(t, 12, a.Score)
	assert.Equal(t, TierCritical, a.Tier)

	// Low susceptibility with no data at all is SAFE.
	a = AssessRisk(suscept(1), RainfallForecast{}, HourlyForecast{})
	assert.Equal(t, TierSafe, a.Tier)
	assert.False(t, a.ForecastAvailable)
}

func TestAssessRisk_FrozenClock(t *testing.T) {
	at := time.Date(2026, time.June, 12, 8, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(at))
	defer SetClock(nil)

	a := AssessRisk(suscept(2), pagasaForTrigger(1), HourlyForecast{})
	assert.Equal(t, at, a.AssessedAt)
}
