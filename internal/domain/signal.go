package domain

// RainfallForecast is the authoritative PAGASA rainfall signal for one
// coordinate. Class and ClassLabel follow the official legend; both are
// zero values when the query failed or found no data.
type RainfallForecast struct {
	RainfallMM float64 `json:"rainfall_mm"`
	Class      int     `json:"class"` // 1-4 official PAGASA class, 0 when unavailable
	ClassLabel string  `json:"class_label"`
	Available  bool    `json:"available"`
}

// HourlyForecast summarizes Open-Meteo hourly precipitation near-term.
type HourlyForecast struct {
	Rain6hMM     float64   `json:"rain_6h_mm"`
	Rain3hMM     float64   `json:"rain_3h_mm"`
	PeakHourlyMM float64   `json:"peak_hourly_mm"`
	Hourly       []float64 `json:"-"` // raw hourly mm values, up to 12 entries
	Available    bool      `json:"available"`
}

// Susceptibility source values.
const (
	SusceptibilitySourceMGB     = "mgb"
	SusceptibilitySourceDefault = "default"
)

// Susceptibility is terrain-derived flood proneness, independent of weather.
type Susceptibility struct {
	Level  int    `json:"level"` // 1=Low, 2=Moderate, 3=High, 4=Very High
	Label  string `json:"label"`
	Source string `json:"source"`
}

// SusceptibilityLabels maps levels to human labels.
var SusceptibilityLabels = map[int]string{
	1: "Low",
	2: "Moderate",
	3: "High",
	4: "Very High",
}

// DefaultSusceptibilityLevel is the conservative-but-not-alarming level used
// when the MGB query fails or finds no polygon.
const DefaultSusceptibilityLevel = 2

// DefaultSusceptibility returns the fallback susceptibility value.
func DefaultSusceptibility() Susceptibility {
	return Susceptibility{
		Level:  DefaultSusceptibilityLevel,
		Label:  SusceptibilityLabels[DefaultSusceptibilityLevel],
		Source: SusceptibilitySourceDefault,
	}
}

// PagasaClassLabels maps the official 1-4 class to its legend label.
var PagasaClassLabels = map[int]string{
	1: "Light (0-40mm)",
	2: "Moderate (40-80mm)",
	3: "Heavy (80-120mm)",
	4: "Intense (120mm+)",
}

// ClassifyPagasaClass maps a raw rainfall value to PAGASA's official 1-4
// class. The legend treats boundaries as inclusive upper bounds.
func ClassifyPagasaClass(mm float64) (int, string) {
	var class int
	switch {
	case mm <= 40:
		class = 1
	case mm <= 80:
		class = 2
	case mm <= 120:
		class = 3
	default:
		class = 4
	}
	return class, PagasaClassLabels[class]
}
