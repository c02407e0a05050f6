package utils

import (
	"mealplanner/models"
	"mealplanner/utils/apperr"
)

// BodyMetrics is the BMI reading shown next to a client's daily summary.
type BodyMetrics struct {
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
}

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, apperr.Validation("bmi", "height and weight must be positive")
	}
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, apperr.Validation("bmi", "height/weight out of plausible range")
	}

	h := heightCm / 100.0
	return round2(weightKg / (h * h)), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

// ClientBodyMetrics returns nil when the client's measurements are missing
// or implausible.
func ClientBodyMetrics(c models.Client) *BodyMetrics {
	bmi, err := CalculateBMI(c.HeightCm, c.WeightKg)
	if err != nil {
		return nil
	}
	return &BodyMetrics{BMI: bmi, Category: BMICategory(bmi)}
}
