// Package sms renders assessments and menu replies as SMS-sized text plus
// the TwiML envelope Twilio expects from a webhook. Templates are sized to
// fit within 2-3 SMS segments.
package sms

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

var tierEmoji = map[domain.Tier]string{
	domain.TierCritical: "\U0001F534",
	domain.TierWarning:  "\U0001F7E1",
	domain.TierWatch:    "\U0001F7E0",
	domain.TierSafe:     "✅",
}

var sourceLabels = map[string]string{
	domain.RainSourcePagasa:    "PAGASA",
	domain.RainSourceOpenMeteo: "Open-Meteo",
	domain.RainSourceNone:      "N/A",
}

const menuFooter = "Reply:\n" +
	"1 Risk check\n" +
	"2 Home prep\n" +
	"3 Travel\n" +
	"4 Farmer\n" +
	"WHY details\n" +
	"Or text a new location."

const menuFooterShort = "Reply 1-4, WHY, or a new location."

var dangerActions = map[domain.Tier][]string{
	domain.TierCritical: {
		"EVACUATE to higher ground NOW.",
		"Bring IDs, meds, water, phone.",
		"Turn off main power before leaving.",
		"Do NOT cross floodwater.",
	},
	domain.TierWarning: {
		"Charge phone and powerbank.",
		"Move valuables to higher floor.",
		"Pack go-bag: IDs, meds, water, clothes.",
		"Monitor for rising water levels.",
	},
}

func rainLine(a domain.RiskAssessment) string {
	if !a.ForecastAvailable {
		return "Rain forecast: Unavailable"
	}
	source, ok := sourceLabels[a.RainSource]
	if !ok {
		source = a.RainSource
	}
	return fmt.Sprintf("Rain: %s (%.0fmm) [%s]", a.RainLabel, a.RainMM, source)
}

// FormatAssessment builds the initial reply to a location text. Danger
// tiers (WARNING/CRITICAL) lead with immediate actions; safe tiers get the
// full menu. An approximate resolution is flagged up front.
func FormatAssessment(a domain.RiskAssessment, loc domain.ResolvedLocation) string {
	var lines []string

	if loc.Approximate {
		lines = append(lines,
			fmt.Sprintf("Could not find %q exactly.", loc.Name),
			fmt.Sprintf("Showing closest match: %s", loc.MatchedKey),
			"")
	}

	lines = append(lines,
		fmt.Sprintf("%s FLOOD %s | %s", tierEmoji[a.Tier], a.Tier, strings.ToUpper(displayName(loc))),
		rainLine(a),
		fmt.Sprintf("Susceptibility: %s", a.Susceptibility.Label),
		"")

	if a.Tier == domain.TierCritical || a.Tier == domain.TierWarning {
		lines = append(lines, "DO NOW:")
		for i, action := range dangerActions[a.Tier] {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, action))
		}
		lines = append(lines, "", menuFooterShort)
	} else {
		if a.Tier == domain.TierWatch {
			lines = append(lines, "Stay alert. No immediate action needed.", "")
		}
		lines = append(lines, menuFooter)
	}

	return strings.Join(lines, "\n")
}

// FormatWhy explains how the verdict was computed: raw values, sources,
// and the score arithmetic.
func FormatWhy(a domain.RiskAssessment, name string) string {
	source, ok := sourceLabels[a.RainSource]
	if !ok {
		source = a.RainSource
	}

	lines := []string{
		fmt.Sprintf("%s WHY %s | %s", tierEmoji[a.Tier], a.Tier, strings.ToUpper(name)),
		"",
		fmt.Sprintf("Rainfall: %.0fmm (%s)", a.RainMM, a.RainLabel),
		fmt.Sprintf("  Source: %s", source),
		fmt.Sprintf("  %s", a.RainDetail),
		"",
		fmt.Sprintf("Flood susceptibility: %s (%d/4)", a.Susceptibility.Label, a.Susceptibility.Level),
		"  Source: MGB (Mines and Geosciences Bureau)",
		"",
		fmt.Sprintf("Risk score: %d x %d = %d", a.Susceptibility.Level, a.RainTrigger, a.Score),
		"Thresholds: 0=SAFE, 1-3=WATCH, 4-6=WARNING, 7+=CRITICAL",
		"",
		menuFooterShort,
	}
	return strings.Join(lines, "\n")
}

var homePrepItems = map[domain.Tier][]string{
	domain.TierCritical: {
		"If still home, LEAVE NOW.",
		"Turn off electricity and gas.",
		"Seal important documents in plastic.",
		"Move to evacuation center or higher ground.",
	},
	domain.TierWarning: {
		"Move valuables and electronics upstairs.",
		"Fill containers with clean drinking water.",
		"Charge all phones and powerbanks.",
		"Pack go-bag: IDs, meds, water, change of clothes.",
		"Know your evacuation route.",
	},
	domain.TierWatch: {
		"Check flashlights and batteries.",
		"Stock 3 days of food and water.",
		"Secure loose items outside (plants, furniture).",
		"Keep phone charged.",
	},
	domain.TierSafe: {
		"No urgent prep needed.",
		"Good time to restock emergency supplies.",
		"Check that your go-bag is ready (IDs, meds, water).",
	},
}

// FormatHomePrep builds the menu-2 home preparation checklist.
func FormatHomePrep(a domain.RiskAssessment, name string) string {
	return formatChecklist("HOME PREP", a, name, homePrepItems[a.Tier], "")
}

var travelAdvice = map[domain.Tier][]string{
	domain.TierCritical: {
		"DO NOT TRAVEL. Roads may be impassable.",
		"Do not cross flooded roads on foot or by vehicle.",
		"If caught in rising water, move to highest accessible point.",
		"Wait for official all-clear before traveling.",
	},
	domain.TierWarning: {
		"Avoid low-lying roads and underpasses.",
		"Delay non-essential travel.",
		"If driving, do not enter flooded roads, turn around.",
		"Keep phone charged for updates.",
	},
	domain.TierWatch: {
		"Travel with caution near rivers and waterways.",
		"Avoid low-lying routes if heavy rain starts.",
		"Keep updated on weather advisories.",
	},
	domain.TierSafe: {
		"Travel conditions are normal.",
		"Stay aware of weather changes.",
	},
}

// FormatTravel builds the menu-3 travel safety reply.
func FormatTravel(a domain.RiskAssessment, name string) string {
	return formatChecklist("TRAVEL", a, name, travelAdvice[a.Tier], "")
}

var farmerAdvice = map[domain.Tier][]string{
	domain.TierCritical: {
		"Prioritize personal safety over crops/livestock.",
		"Move livestock to higher ground immediately.",
		"Secure or harvest what you can NOW.",
		"Do not work in open fields.",
	},
	domain.TierWarning: {
		"Delay planting if heavy rain expected.",
		"Move equipment and supplies to higher ground.",
		"Secure livestock shelters.",
		"Harvest ripe crops before heavy rain hits.",
	},
	domain.TierWatch: {
		"Monitor forecasts before field work.",
		"Delay fertilizer application if rain is expected.",
		"Check drainage ditches are clear.",
	},
	domain.TierSafe: {
		"Good conditions for field work.",
		"Good time to maintain drainage systems.",
		"Check weather before scheduling irrigation.",
	},
}

// FormatFarmer builds the menu-4 agriculture reply.
func FormatFarmer(a domain.RiskAssessment, name string) string {
	extra := fmt.Sprintf("Rain: %s (%.0fmm)", a.RainLabel, a.RainMM)
	return formatChecklist("FARMER", a, name, farmerAdvice[a.Tier], extra)
}

func formatChecklist(title string, a domain.RiskAssessment, name string, items []string, extra string) string {
	lines := []string{
		fmt.Sprintf("%s %s | %s (%s)", tierEmoji[a.Tier], title, strings.ToUpper(name), a.Tier),
	}
	if extra != "" {
		lines = append(lines, extra)
	}
	lines = append(lines, "")
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
	}
	lines = append(lines, "", menuFooterShort)
	return strings.Join(lines, "\n")
}

// FormatNewLocation is the menu-5 prompt for updating the stored location.
func FormatNewLocation() string {
	return "Send a new city or barangay name to update your location."
}

// FormatNoSession replies to a menu command from a sender with no stored location.
func FormatNoSession() string {
	return "No location on file.\nText a city name to get started.\nExample: Marikina"
}

// FormatStop confirms an unsubscribe.
func FormatStop() string {
	return "You've been unsubscribed. Text any city name to start again."
}

// FormatOnboarding prompts a sender who texted nothing usable.
func FormatOnboarding() string {
	return "Send a location (e.g. 'Brgy Lahug, Cebu City') to get started.\n\n" + menuFooter
}

func displayName(loc domain.ResolvedLocation) string {
	if loc.Name != "" {
		return loc.Name
	}
	return loc.MatchedKey
}

var twimlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// TwiML wraps reply text in the XML envelope Twilio expects.
func TwiML(text string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		"<Response><Message>" + twimlEscaper.Replace(text) + "</Message></Response>"
}
