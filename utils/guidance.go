package utils

import (
	"fmt"

	"mealplanner/models"
)

// WarningSeverity categorizes how serious the flag is.
type WarningSeverity string

const (
	Info    WarningSeverity = "info"
	Caution WarningSeverity = "caution"
	High    WarningSeverity = "high"
)

// Warning is a structured finding about a day's intake.
type Warning struct {
	Code           string          `json:"code"`
	Severity       WarningSeverity `json:"severity"`
	Message        string          `json:"message"`
	Metric         string          `json:"metric,omitempty"`
	Value          float64         `json:"value,omitempty"`
	Limit          float64         `json:"limit,omitempty"`
	PercentOfLimit float64         `json:"percent_of_limit,omitempty"`
	Reference      string          `json:"reference,omitempty"`
}

// defaultEnergy is the kcal/day assumed when a day has no energy figure.
const defaultEnergy = 2000

// DailyGuidance compares a day's totals with the Dietary Guidelines for
// Americans 2020-2025 limits for the client's age. Only nutrients present in
// totals are judged.
func DailyGuidance(totals NutrientTotals, client models.Client) []Warning {
	warnings := []Warning{}

	kcal := totals["ENERC_KCAL"]
	if kcal <= 0 {
		kcal = energyFromMacros(totals["CHOCDF"], totals["PROCNT"], totals["FAT"])
	}
	energy := kcal
	if energy <= 0 {
		energy = defaultEnergy
	}

	if added, ok := totals["SUGAR.added"]; ok && added > 0 {
		if client.Age > 0 && client.Age < 2 {
			warnings = append(warnings, Warning{
				Code:      "added_sugars_infant",
				Severity:  High,
				Message:   "Added sugars should be avoided before age 2.",
				Metric:    "SUGAR.added",
				Value:     round2(added),
				Reference: dgaRef("added sugars"),
			})
		} else if limit := 0.10 * energy / 4; added > limit {
			warnings = append(warnings, overLimit("added_sugars", "SUGAR.added", "Added sugars exceed 10% of energy", added, limit, "added sugars"))
		}
	}

	if sat, ok := totals["FASAT"]; ok {
		if limit := 0.10 * energy / 9; sat > limit {
			warnings = append(warnings, overLimit("saturated_fat", "FASAT", "Saturated fat exceeds 10% of energy", sat, limit, "saturated fat"))
		}
	}

	if trans, ok := totals["FATRN"]; ok && trans >= 0.5 {
		warnings = append(warnings, Warning{
			Code:      "trans_fat",
			Severity:  Caution,
			Message:   fmt.Sprintf("Contains %.1f g trans fat; keep intake as low as possible.", trans),
			Metric:    "FATRN",
			Value:     round2(trans),
			Reference: dgaRef("trans fat"),
		})
	}

	if na, ok := totals["NA"]; ok {
		if limit := sodiumLimitByAge(client.Age); na > limit {
			warnings = append(warnings, overLimit("sodium", "NA", "Sodium exceeds the daily limit", na, limit, "sodium CDRR"))
		}
	}

	if fiber, ok := totals["FIBTG"]; ok && kcal >= 1000 {
		if target := 14 * kcal / 1000; fiber < 0.5*target {
			warnings = append(warnings, Warning{
				Code:      "low_fiber",
				Severity:  Info,
				Message:   fmt.Sprintf("Fibre is %.0f g against about %.0f g for this energy intake.", fiber, target),
				Metric:    "FIBTG",
				Value:     round2(fiber),
				Limit:     round2(target),
				Reference: dgaRef("dietary fibre, 14 g per 1,000 kcal"),
			})
		}
	}
	return warnings
}

func overLimit(code, metric, msg string, value, limit float64, ref string) Warning {
	pct := value / limit * 100
	sev := Caution
	if pct >= 150 {
		sev = High
	}
	return Warning{
		Code:           code,
		Severity:       sev,
		Message:        fmt.Sprintf("%s (%.0f%% of limit).", msg, pct),
		Metric:         metric,
		Value:          round2(value),
		Limit:          round2(limit),
		PercentOfLimit: round2(pct),
		Reference:      dgaRef(ref),
	}
}

func energyFromMacros(carbG, protG, fatG float64) float64 {
	if carbG <= 0 && protG <= 0 && fatG <= 0 {
		return 0
	}
	return 4*carbG + 4*protG + 9*fatG
}

func sodiumLimitByAge(age int) float64 {
	switch {
	case age > 0 && age <= 3:
		return 1200 // mg/day
	case age >= 4 && age <= 8:
		return 1500
	case age >= 9 && age <= 13:
		return 1800
	default:
		return 2300
	}
}

func dgaRef(where string) string {
	return "Dietary Guidelines for Americans, 2020-2025: " + where
}
