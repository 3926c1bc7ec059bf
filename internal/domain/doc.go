// Package domain models flood-risk assessment for Philippine locations.
//
// # Data Sources
//
// Three independent upstream signals feed an assessment, each queried at a
// single WGS-84 coordinate and each failing open to a typed default:
//
// PAGASA Rainfall Forecast (authoritative): the PAGASA/Rainfall_Forecast
// raster layer on the GeoRisk portal (portal.georisk.gov.ph), queried via
// ArcGIS Identify. The pixel value is forecast rainfall in mm. Official
// legend classification:
//
//	Class 1:   0.001 -   40 mm  (Light)
//	Class 2:  40.001 -   80 mm  (Moderate)
//	Class 3:  80.001 -  120 mm  (Heavy)
//	Class 4: 120.001 - 1500 mm  (Intense)
//
// Open-Meteo hourly forecast (secondary): free API, no key required. Hourly
// precipitation values are aggregated into 6-hour and 3-hour cumulative
// totals plus the peak single hour. Classification uses thresholds scaled
// down for the shorter window: <7.5 / <15 / <30 / >=30 mm per 6h.
//
// MGB Detailed Flood Susceptibility: the Mines and Geosciences Bureau
// FeatureServer at controlmap.mgb.gov.ph, the same polygon dataset behind
// HazardHunterPH. A point-in-polygon query returns a zone code:
//
//	VHF -> 4 (Very High) | HF -> 3 (High) | MF -> 2 (Moderate) | LF -> 1 (Low)
//
// No polygon match, an unknown code, or a failed query all yield the
// conservative default of level 2 (Moderate).
//
// # Risk Model
//
// Each rainfall signal maps to a 0-3 trigger. The authoritative signal is
// preferred whenever available, otherwise the secondary 6-hour trigger is
// used. The score is susceptibility (1-4) times trigger (0-3):
//
//	score 0   -> SAFE
//	score 1-3 -> WATCH
//	score 4-6 -> WARNING
//	score 7+  -> CRITICAL
//
// When no forecast signal is available at all, a susceptibility of 3 or
// higher forces WATCH: a flood-prone area is never reported SAFE purely
// because forecast data was unreachable. See [AssessRisk].
//
// # Location Resolution
//
// Free-text location input resolves through a tiered chain that never fails:
// cache, then Nominatim (free, unauthenticated), then OpenCage (keyed,
// skipped without a credential), then a fuzzy closest-match over cached keys
// with Manila as the absolute last resort. The [ResolvedLocation.Source] and
// Approximate fields record which tier answered.
package domain
